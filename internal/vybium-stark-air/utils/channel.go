package utils

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"

	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/core"
)

// Channel represents a Fiat-Shamir transcript channel
type Channel struct {
	state    []byte
	proof    []string
	hashFunc string
}

// NewChannel creates a new Fiat-Shamir channel
func NewChannel(hashFunc string) *Channel {
	if hashFunc == "" {
		hashFunc = "sha3"
	}
	return &Channel{
		state:    []byte{0},
		proof:    make([]string, 0, 64),
		hashFunc: hashFunc,
	}
}

// Send appends data to the channel state
func (c *Channel) Send(data []byte) {
	c.proof = append(c.proof, fmt.Sprintf("send:%s", hex.EncodeToString(data)))
	c.state = c.hash(append(c.State(), data...))
}

// MixU64s mixes a list of integers, each as 8 little-endian bytes
func (c *Channel) MixU64s(values []uint64) {
	buf := make([]byte, 8*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint64(buf[8*i:], v)
	}
	c.Send(buf)
}

// MixM31s mixes base field elements, each as 4 little-endian bytes
func (c *Channel) MixM31s(values []core.M31) {
	buf := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[4*i:], v.Uint32())
	}
	c.Send(buf)
}

// MixSecureFelts mixes secure field elements coordinate by coordinate
func (c *Channel) MixSecureFelts(values []core.QM31) {
	coords := make([]core.M31, 0, core.SecureExtensionDegree*len(values))
	for _, v := range values {
		arr := v.ToM31Array()
		coords = append(coords, arr[:]...)
	}
	c.MixM31s(coords)
}

// DrawM31 draws a uniformly distributed base field element.
// Words equal to P are rejected; everything else is already canonical.
func (c *Channel) DrawM31() core.M31 {
	for {
		for _, w := range c.drawWords() {
			v := w & core.P
			if v != core.P {
				c.proof = append(c.proof, fmt.Sprintf("drawM31:%d", v))
				return core.M31(v)
			}
		}
	}
}

// DrawSecureFelt draws a random QM31 element
func (c *Channel) DrawSecureFelt() core.QM31 {
	return core.QM31FromM31s(c.DrawM31(), c.DrawM31(), c.DrawM31(), c.DrawM31())
}

// DrawQueries draws n row indices in [0, bound)
func (c *Channel) DrawQueries(n, bound int) []int {
	if bound <= 0 {
		return nil
	}
	queries := make([]int, 0, n)
	for len(queries) < n {
		for _, w := range c.drawWords() {
			if len(queries) == n {
				break
			}
			queries = append(queries, int(w%uint32(bound)))
		}
	}
	c.proof = append(c.proof, fmt.Sprintf("drawQueries:%v", queries))
	return queries
}

// drawWords returns the current state as little-endian words and advances the state
func (c *Channel) drawWords() []uint32 {
	words := make([]uint32, len(c.state)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(c.state[4*i:])
	}
	c.state = c.hash(append(c.State(), 0xff))
	return words
}

// State returns the current channel state
func (c *Channel) State() []byte {
	return append([]byte(nil), c.state...)
}

// Proof returns the proof transcript
func (c *Channel) Proof() []string {
	return append([]string(nil), c.proof...)
}

// hash computes the hash of the input using the configured hash function
func (c *Channel) hash(data []byte) []byte {
	switch c.hashFunc {
	case "sha256":
		h := sha256.Sum256(data)
		return h[:]
	default:
		h := sha3.Sum256(data)
		return h[:]
	}
}

// String returns a string representation of the channel proof
func (c *Channel) String() string {
	return strings.Join(c.proof, " ")
}
