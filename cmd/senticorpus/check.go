package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mediasenti/senticorpus"
)

// checkCommand validates the configuration and loads the lexicon and
// corpus without writing any output.
func checkCommand(load loadFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate configuration, lexicon and corpus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := load(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			if err := cfg.Validate(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if cfg.Lexicon.Path != "" {
				lex, err := senticorpus.LoadLexicon(cfg.Lexicon.Path, senticorpus.WithLexiconLogger(logger))
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "lexicon %s: %d entries\n", cfg.Lexicon.Path, lex.Len())
			}
			corpus, err := senticorpus.LoadCorpus(cfg.Input.Path,
				senticorpus.WithSheet(cfg.Input.Sheet),
				senticorpus.WithColumns(cfg.Input.Columns.Corpus()),
				senticorpus.WithCorpusLogger(logger))
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "corpus %s: %d records, %d skipped\n", cfg.Input.Path, len(corpus.Records), len(corpus.Skipped))
			return nil
		},
	}
}
