package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/utils"
	vybiumstarkair "github.com/vybium/vybium-stark-air/pkg/vybium-stark-air"
)

type options struct {
	witness        string
	proof          string
	format         string
	hash           string
	queries        int
	workers        int
	noPacking      bool
	checkRelations bool
	logLevel       string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	defaults := vybiumstarkair.DefaultConfig()

	root := &cobra.Command{
		Use:          "vybium-air-prover",
		Short:        "Build the AIR trace of a VM witness and prove it",
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.witness, "witness", "", "path to the JSON execution witness")
	flags.StringVar(&opts.hash, "hash", defaults.HashFunction, "channel hash function (sha3 or sha256)")
	flags.IntVar(&opts.workers, "workers", defaults.Workers, "number of trace-building goroutines")
	flags.BoolVar(&opts.noPacking, "no-packing", false, "build traces row by row instead of packed")
	flags.StringVar(&opts.logLevel, "log-level", defaults.LogLevel, "log level (debug, info, warn, error)")
	_ = root.MarkPersistentFlagRequired("witness")

	prove := &cobra.Command{
		Use:   "prove",
		Short: "Generate a proof and write it to a file",
		RunE: func(*cobra.Command, []string) error {
			return runProve(opts)
		},
	}
	prove.Flags().StringVar(&opts.proof, "proof", "proof.json", "output proof path")
	prove.Flags().StringVar(&opts.format, "format", "readable", "proof format (readable or compact)")
	prove.Flags().IntVar(&opts.queries, "queries", defaults.NumQueries, "rows opened per component")
	prove.Flags().BoolVar(&opts.checkRelations, "check-relations", false, "check constraints and relations before the interaction phase")

	check := &cobra.Command{
		Use:   "check",
		Short: "Build the trace and check its constraints and relations",
		RunE: func(*cobra.Command, []string) error {
			return runCheck(opts)
		},
	}

	root.AddCommand(prove, check)
	return root
}

func (o *options) config() *vybiumstarkair.Config {
	return vybiumstarkair.DefaultConfig().
		WithHashFunction(o.hash).
		WithNumQueries(o.queries).
		WithWorkers(o.workers).
		WithPacking(!o.noPacking).
		WithRelationCheck(o.checkRelations).
		WithLogLevel(o.logLevel)
}

func (o *options) setup() (*vybiumstarkair.Prover, *vybiumstarkair.Witness, zerolog.Logger, error) {
	config := o.config()
	logger, err := utils.NewLogger(config.LogLevel, nil)
	if err != nil {
		return nil, nil, zerolog.Nop(), err
	}
	prover, err := vybiumstarkair.NewProver(config, logger)
	if err != nil {
		return nil, nil, logger, err
	}
	w, err := vybiumstarkair.LoadWitness(o.witness)
	if err != nil {
		return nil, nil, logger, err
	}
	logger.Info().
		Str("witness", o.witness).
		Int("memory", len(w.Memory)).
		Int("blake_rounds", len(w.BlakeRounds)).
		Int("poseidon_full_rounds", len(w.PoseidonFullRounds)).
		Int("partial_ec_muls", len(w.PartialEcMuls)).
		Msg("witness loaded")
	return prover, w, logger, nil
}

func runProve(o *options) error {
	format, err := vybiumstarkair.ParseProofFormat(o.format)
	if err != nil {
		return err
	}
	prover, w, logger, err := o.setup()
	if err != nil {
		return err
	}

	proof, err := prover.Prove(w)
	if err != nil {
		logger.Error().Err(err).Stringer("code", vybiumstarkair.CodeOf(err)).Msg("proving failed")
		return err
	}
	if err := prover.WriteProof(proof, o.proof, format); err != nil {
		logger.Error().Err(err).Str("path", o.proof).Msg("writing proof failed")
		return err
	}
	return nil
}

func runCheck(o *options) error {
	prover, w, logger, err := o.setup()
	if err != nil {
		return err
	}
	trace, err := prover.BuildTrace(w)
	if err != nil {
		return err
	}
	if err := prover.CheckTrace(trace); err != nil {
		logger.Error().Err(err).Stringer("code", vybiumstarkair.CodeOf(err)).Msg("trace check failed")
		return err
	}
	for _, ct := range trace.Components {
		logger.Info().
			Str("component", ct.Component.Name()).
			Int("rows", ct.NRows).
			Int("log_size", ct.LogSize).
			Msg("component ok")
	}
	fmt.Println("trace ok")
	return nil
}
