package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mediasenti/senticorpus/internal/pipeline"
)

func stageCommands(load loadFunc) []*cobra.Command {
	sentiment := stageCommand(load, pipeline.StageSentiment,
		"Score every document against the lexicon",
		"Writes documents.csv, group_summary.csv, the sentiment word tables, the summary workbook and the average sentiment chart.")

	tfidf := stageCommand(load, pipeline.StageTFIDF,
		"Per-period TF-IDF and z-score tables of the top terms",
		"Writes the four period_top20_* tables and the z-score heatmap.")
	tfidf.Flags().Int("top", 0, "number of top terms (default 20)")

	freq := stageCommand(load, pipeline.StageFreq,
		"Count nouns, verbs, adjectives and adverbs",
		"Writes word_frequency.csv.")

	stats := stageCommand(load, pipeline.StageStats,
		"Compare a sentiment metric between two groups",
		"Runs Shapiro-Wilk, Levene, Mann-Whitney U and Cliff's delta and writes statistical_tests.csv with box and Q-Q plots.")
	addStatsFlags(stats)

	run := stageCommand(load, pipeline.StageRun,
		"Run every stage",
		"Runs sentiment, tfidf, freq and stats in that order.")
	run.Flags().Int("top", 0, "number of top terms (default 20)")
	addStatsFlags(run)

	return []*cobra.Command{sentiment, tfidf, freq, stats, run}
}

func addStatsFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("metric", "", "compared metric, e.g. mean_sentiment_score")
	f.Float64("alpha", 0, "significance level (default 0.05)")
	f.String("split", "", "media or period")
	f.StringSlice("periods", nil, "two periods compared when --split=period, e.g. 1,6")
}

func stageCommand(load loadFunc, stage pipeline.Stage, short, long string) *cobra.Command {
	return &cobra.Command{
		Use:   string(stage),
		Short: short,
		Long:  long,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := load(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			res, err := pipeline.New(cfg, logger).Run(cmd.Context(), stage)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d documents, %d skipped, %d files in %s\n",
				res.Stage, res.RunID, res.Documents, res.Skipped, len(res.Files), cfg.Output.Dir)
			return nil
		},
	}
}
