package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mediasenti/senticorpus/internal/config"
	"github.com/mediasenti/senticorpus/internal/logging"
)

// newRootCmd builds the command tree. Every stage is a subcommand sharing
// the persistent flags below; flags override SENTICORPUS_* variables,
// which override the config file.
func newRootCmd() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:           "senticorpus",
		Short:         "Lexicon sentiment and TF-IDF analysis of a news corpus",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "config file (yaml, json or toml)")
	pf.StringP("input", "i", "", "corpus file (.xlsx or .csv)")
	pf.String("sheet", "", "worksheet name, defaults to the first sheet")
	pf.StringP("lexicon", "l", "", "sentiment lexicon (.json or .tsv)")
	pf.String("tokenizer", "", "tokenizer: surface or tagged")
	pf.StringP("out", "o", "", "output directory")
	pf.Bool("no-charts", false, "skip chart images")
	pf.String("log-level", "", "debug, info, warn or error")

	load := func(cmd *cobra.Command) (config.Config, *zap.Logger, error) {
		cfg, err := config.Load(configPath, cmd.Flags())
		if err != nil {
			return config.Config{}, nil, err
		}
		logger, err := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, File: cfg.Log.File})
		if err != nil {
			return config.Config{}, nil, err
		}
		return cfg, logger, nil
	}

	for _, c := range stageCommands(load) {
		root.AddCommand(c)
	}
	root.AddCommand(checkCommand(load))
	return root
}

type loadFunc func(cmd *cobra.Command) (config.Config, *zap.Logger, error)
