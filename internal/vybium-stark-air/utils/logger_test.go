package utils

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger("warn", &buf)
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}

	logger.Info().Msg("hidden")
	logger.Warn().Str("component", "blake_g").Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info message should be filtered at warn level")
	}
	if !strings.Contains(out, `"component":"blake_g"`) {
		t.Errorf("expected structured field in %q", out)
	}

	if _, err := NewLogger("nope", &buf); err == nil {
		t.Error("expected error for unknown level")
	}
}
