package pipeline

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mediasenti/senticorpus"
	"github.com/mediasenti/senticorpus/internal/config"
	"github.com/mediasenti/senticorpus/report"
)

const corpusCSV = `File,Content,Year,Type
d1,사회/NNG 문제/NNG 좋/VA ./SF,1975,1
d2,가정/NNG 돕/VV 좋/VA,1976,3
d3,사회/NNG 나쁘/VA 문제/NNG,1990,2
d4,가정/NNG 지원/NNG 돕/VV,1991,3
d5,사회/NNG 지원/NNG 좋/VA,2016,3
d6,문제/NNG 나쁘/VA,2017,1
d7,가정/NNG,2018,9
d8,broken,2019,1
`

const lexiconTSV = "좋다\t2\n나쁘다\t-1\n문제\t-1\n돕다\t1\n"

func fixture(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	input := filepath.Join(dir, "corpus.csv")
	lexicon := filepath.Join(dir, "lexicon.tsv")
	require.NoError(t, os.WriteFile(input, []byte(corpusCSV), 0o644))
	require.NoError(t, os.WriteFile(lexicon, []byte(lexiconTSV), 0o644))

	cfg := config.Default()
	cfg.Input.Path = input
	cfg.Lexicon.Path = lexicon
	cfg.Tokenizer.Kind = senticorpus.TokenizerTagged
	cfg.Output.Dir = filepath.Join(dir, "out")
	cfg.Output.Charts = false
	return cfg
}

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	rows, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(data), "\ufeff"))).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestParseStage(t *testing.T) {
	for _, name := range []string{"sentiment", "TFIDF", " freq ", "stats", "run"} {
		_, err := ParseStage(name)
		assert.NoError(t, err, name)
	}
	_, err := ParseStage("plot")
	assert.Error(t, err)
}

func TestRunAllStages(t *testing.T) {
	cfg := fixture(t)
	cfg.Output.Charts = true
	core, logs := observer.New(zap.InfoLevel)

	res, err := New(cfg, zap.New(core)).Run(context.Background(), StageRun)
	require.NoError(t, err)

	assert.Len(t, res.RunID, 36)
	assert.Equal(t, 6, res.Documents)
	assert.Equal(t, 2, res.Skipped)
	for _, f := range []string{
		report.DocumentsFile, report.GroupSummaryFile, report.SentimentWordsFile,
		report.SentimentWordCountFile, report.SummaryWorkbookFile, report.AverageSentimentFile,
		report.MeanTFIDFFile, report.MeanZScoreFile, report.SumTFIDFFile, report.SumZScoreFile,
		report.HeatmapFile, report.WordFrequencyFile, report.StatisticalTestsFile,
		report.BoxplotFile, report.QQPlotFile("screen"), report.QQPlotFile("non-screen"),
		report.ManifestFile,
	} {
		assert.Contains(t, res.Files, f)
		assert.FileExists(t, filepath.Join(cfg.Output.Dir, f))
	}

	docs := readRows(t, filepath.Join(cfg.Output.Dir, report.DocumentsFile))
	require.Len(t, docs, 7)
	assert.Equal(t, report.DocumentHeader, docs[0])
	assert.Equal(t, "d1", docs[1][0])

	m, err := report.ReadManifest(filepath.Join(cfg.Output.Dir, report.ManifestFile))
	require.NoError(t, err)
	assert.Equal(t, res.RunID, m.RunID)
	assert.Equal(t, "run", m.Stage)
	assert.Equal(t, 6, m.Documents)
	assert.Equal(t, 18, m.Tokens)
	assert.Equal(t, 6, m.Sentences)
	assert.GreaterOrEqual(t, m.TokenizeMs, int64(0))
	require.Len(t, m.Skipped, 2)
	assert.Equal(t, "d7", m.Skipped[0].ID)
	assert.Equal(t, "d8", m.Skipped[1].ID)
	assert.Equal(t, senticorpus.ComparisonPolicy, m.Settings["stats.policy"])
	assert.False(t, m.FinishedAt.Before(m.StartedAt))

	require.NotNil(t, res.Battery)
	assert.Equal(t, "non-screen", res.Battery.GroupA.Label)
	assert.Equal(t, []float64{0.5, -1, -1}, res.Battery.GroupA.Values)
	assert.Equal(t, []float64{1.5, 1, 2}, res.Battery.GroupB.Values)
	require.Len(t, res.Battery.Results, 5)
	// Every screen score exceeds every non-screen score: U for non-screen
	// is 0 and Cliff's delta of screen relative to non-screen is +1.
	mwu := res.Battery.Results[3]
	require.NotNil(t, mwu.Statistic)
	assert.Equal(t, 0.0, *mwu.Statistic)
	assert.Equal(t, "non-screen vs screen", mwu.Group)
	require.NotNil(t, res.Battery.Effect)
	assert.Equal(t, 1.0, res.Battery.Effect.Delta)
	assert.Equal(t, "screen vs non-screen", res.Battery.Results[4].Group)

	assert.Equal(t, 4, logs.FilterMessage("stage finished").Len())
	assert.Equal(t, 1, logs.FilterMessage("run finished").Len())
}

func TestSentimentStage(t *testing.T) {
	cfg := fixture(t)
	res, err := New(cfg, nil).Run(context.Background(), StageSentiment)
	require.NoError(t, err)
	assert.NotContains(t, res.Files, report.StatisticalTestsFile)
	assert.Nil(t, res.Battery)

	rows := readRows(t, filepath.Join(cfg.Output.Dir, report.DocumentsFile))
	// d1: 사회 문제 좋 . -> 4 tokens, 문제 -1 and 좋다 +2.
	assert.Equal(t, []string{"d1", "non-screen", "4", "2", "0.5", "1", "1", "50"}, rows[1])
}

func TestSurfaceTokenizerWarning(t *testing.T) {
	cfg := fixture(t)
	require.NoError(t, os.WriteFile(cfg.Input.Path, []byte("File,Content,Year,Type\nr1,좋은 하루,1975,1\n"), 0o644))
	cfg.Tokenizer.Kind = senticorpus.TokenizerSurface

	core, logs := observer.New(zap.WarnLevel)
	_, err := New(cfg, zap.New(core)).Run(context.Background(), StageSentiment)
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage(surfaceLexiconWarning).Len())

	core, logs = observer.New(zap.WarnLevel)
	_, err = New(cfg, zap.New(core)).Run(context.Background(), StageFreq)
	require.NoError(t, err)
	assert.Zero(t, logs.FilterMessage(surfaceLexiconWarning).Len(), "no lexicon, no warning")

	cfg.Tokenizer.Kind = senticorpus.TokenizerTagged
	require.NoError(t, os.WriteFile(cfg.Input.Path, []byte("File,Content,Year,Type\nr1,좋/VA,1975,1\n"), 0o644))
	core, logs = observer.New(zap.WarnLevel)
	_, err = New(cfg, zap.New(core)).Run(context.Background(), StageSentiment)
	require.NoError(t, err)
	assert.Zero(t, logs.FilterMessage(surfaceLexiconWarning).Len())
}

func TestTFIDFStage(t *testing.T) {
	cfg := fixture(t)
	cfg.Lexicon.Path = ""
	cfg.TFIDF.TopN = 2
	_, err := New(cfg, nil).Run(context.Background(), StageTFIDF)
	require.NoError(t, err)

	rows := readRows(t, filepath.Join(cfg.Output.Dir, report.MeanTFIDFFile))
	require.Len(t, rows, 4) // header and three periods
	assert.Len(t, rows[0], 3)
	assert.Equal(t, "1. 1970–1979", rows[1][0])
	assert.Equal(t, "6. 2015–2023", rows[3][0])
}

func TestFreqStage(t *testing.T) {
	cfg := fixture(t)
	cfg.Lexicon.Path = ""
	cfg.Freq.TopN = 3
	_, err := New(cfg, nil).Run(context.Background(), StageFreq)
	require.NoError(t, err)

	rows := readRows(t, filepath.Join(cfg.Output.Dir, report.WordFrequencyFile))
	// 문제, 사회 and 좋다 each occur three times; ties go by form.
	assert.Equal(t, [][]string{
		{"form", "tag", "count"},
		{"문제", "NNG", "3"},
		{"사회", "NNG", "3"},
		{"좋다", "VA", "3"},
	}, rows)
}

func TestStatsByPeriod(t *testing.T) {
	cfg := fixture(t)
	cfg.Stats.Split = config.SplitPeriod
	cfg.Stats.Periods = []string{"1", "6"}
	res, err := New(cfg, nil).Run(context.Background(), StageStats)
	require.NoError(t, err)

	require.NotNil(t, res.Battery)
	assert.Equal(t, "1. 1970–1979", res.Battery.GroupA.Label)
	assert.Equal(t, "6. 2015–2023", res.Battery.GroupB.Label)
	// Two values per group: Shapiro–Wilk needs three.
	assert.True(t, res.Battery.Results[0].Failed())
}

func TestRunFatalErrors(t *testing.T) {
	t.Run("no lexicon", func(t *testing.T) {
		cfg := fixture(t)
		cfg.Lexicon.Path = ""
		_, err := New(cfg, nil).Run(context.Background(), StageSentiment)
		assert.ErrorContains(t, err, "lexicon.path")
	})
	t.Run("bad lexicon", func(t *testing.T) {
		cfg := fixture(t)
		require.NoError(t, os.WriteFile(cfg.Lexicon.Path, []byte("좋다\t7\n"), 0o644))
		_, err := New(cfg, nil).Run(context.Background(), StageRun)
		var lerr *senticorpus.LexiconLoadError
		assert.True(t, errors.As(err, &lerr))
	})
	t.Run("empty corpus", func(t *testing.T) {
		cfg := fixture(t)
		require.NoError(t, os.WriteFile(cfg.Input.Path, []byte("File,Content,Year,Type\nx,가정/NNG,2018,9\n"), 0o644))
		_, err := New(cfg, nil).Run(context.Background(), StageFreq)
		assert.True(t, errors.Is(err, senticorpus.ErrEmptyCorpus))
	})
	t.Run("invalid config", func(t *testing.T) {
		cfg := fixture(t)
		cfg.Stats.Alpha = 2
		_, err := New(cfg, nil).Run(context.Background(), StageStats)
		assert.ErrorContains(t, err, "stats.alpha")
	})
	t.Run("unknown stage", func(t *testing.T) {
		_, err := New(fixture(t), nil).Run(context.Background(), Stage("plot"))
		assert.Error(t, err)
	})
	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := New(fixture(t), nil).Run(ctx, StageRun)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
