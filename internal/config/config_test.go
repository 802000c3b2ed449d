package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediasenti/senticorpus"
)

func validConfig() Config {
	cfg := Default()
	cfg.Input.Path = "corpus.xlsx"
	cfg.Lexicon.Path = "SentiWord_info.json"
	return cfg
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, senticorpus.TokenizerSurface, cfg.Tokenizer.Kind)
	assert.Equal(t, senticorpus.DefaultTopTerms, cfg.TFIDF.TopN)
	assert.Equal(t, []string{"미혼모", "하다"}, cfg.TFIDF.Exclude)
	assert.Equal(t, 2, cfg.TFIDF.MinTermLength)
	assert.True(t, cfg.TFIDF.Normalize)
	assert.Equal(t, "term", cfg.TFIDF.ZScoreScope)
	assert.Equal(t, "mean_sentiment_score", cfg.Stats.Metric)
	assert.Equal(t, 0.05, cfg.Stats.Alpha)
	assert.Equal(t, SplitMedia, cfg.Stats.Split)
	assert.Equal(t, "Content", cfg.Input.Columns.Text)
	assert.Equal(t, senticorpus.DefaultColumns, cfg.Input.Columns.Corpus())
	assert.True(t, cfg.Output.Charts)
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"no input", func(c *Config) { c.Input.Path = "" }, "missing input.path"},
		{"no output", func(c *Config) { c.Output.Dir = "" }, "missing output.dir"},
		{"tokenizer", func(c *Config) { c.Tokenizer.Kind = "mecab" }, "tokenizer.kind"},
		{"top n", func(c *Config) { c.TFIDF.TopN = 0 }, "tfidf.top_n"},
		{"min length", func(c *Config) { c.TFIDF.MinTermLength = 0 }, "tfidf.min_term_length"},
		{"scope", func(c *Config) { c.TFIDF.ZScoreScope = "row" }, "tfidf.zscore_scope"},
		{"metric", func(c *Config) { c.Stats.Metric = "joy" }, "stats.metric"},
		{"alpha", func(c *Config) { c.Stats.Alpha = 1 }, "stats.alpha"},
		{"split", func(c *Config) { c.Stats.Split = "decade" }, "stats.split"},
		{"one period", func(c *Config) {
			c.Stats.Split = SplitPeriod
			c.Stats.Periods = []string{"1"}
		}, "exactly two"},
		{"same period", func(c *Config) {
			c.Stats.Split = SplitPeriod
			c.Stats.Periods = []string{"1", "1970-1979"}
		}, "itself"},
		{"freq", func(c *Config) { c.Freq.TopN = -1 }, "freq.top_n"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestComparedPeriods(t *testing.T) {
	cfg := validConfig()
	cfg.Stats.Split = SplitPeriod
	cfg.Stats.Periods = []string{"1", "6. 2015–2023"}
	require.NoError(t, cfg.Validate())

	p1, p2, err := cfg.ComparedPeriods()
	require.NoError(t, err)
	assert.Equal(t, senticorpus.Period1970s, p1)
	assert.Equal(t, senticorpus.Period2015, p2)
}

func TestRequireLexicon(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.RequireLexicon())
	cfg.Lexicon.Path = ""
	assert.EqualError(t, cfg.RequireLexicon(), "missing lexicon.path")
}

func TestLoadLayers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
input:
  path: news.xlsx
  columns:
    text: 본문
lexicon:
  path: lexicon.tsv
tfidf:
  top_n: 10
  exclude: [미혼모]
stats:
  alpha: 0.01
output:
  dir: from-file
`), 0o644))

	t.Setenv("SENTICORPUS_OUTPUT_DIR", "from-env")
	t.Setenv("SENTICORPUS_TFIDF_TOP_N", "15")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("out", "", "")
	flags.Int("top", 0, "")
	flags.Bool("no-charts", false, "")
	flags.StringSlice("periods", nil, "")
	require.NoError(t, flags.Parse([]string{"--top", "5", "--no-charts", "--periods", "2,4"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)

	assert.Equal(t, "news.xlsx", cfg.Input.Path)
	assert.Equal(t, "본문", cfg.Input.Columns.Text)
	assert.Equal(t, "File", cfg.Input.Columns.ID)
	assert.Equal(t, "lexicon.tsv", cfg.Lexicon.Path)
	assert.Equal(t, []string{"미혼모"}, cfg.TFIDF.Exclude)
	assert.Equal(t, 0.01, cfg.Stats.Alpha)
	assert.Equal(t, "from-env", cfg.Output.Dir, "env beats file")
	assert.Equal(t, 5, cfg.TFIDF.TopN, "flag beats env")
	assert.False(t, cfg.Output.Charts)
	assert.Equal(t, []string{"2", "4"}, cfg.Stats.Periods)
}

func TestLoadNoChartsFlag(t *testing.T) {
	cases := []struct {
		args   []string
		charts bool
	}{
		{nil, true},
		{[]string{"--no-charts"}, false},
		{[]string{"--no-charts=true"}, false},
		{[]string{"--no-charts=false"}, true},
	}
	for _, tc := range cases {
		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.Bool("no-charts", false, "")
		require.NoError(t, flags.Parse(tc.args))

		cfg, err := Load("", flags)
		require.NoError(t, err)
		assert.Equal(t, tc.charts, cfg.Output.Charts, "%v", tc.args)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SENTICORPUS_LOG_LEVEL=debug\n"), 0o644))
	t.Setenv("SENTICORPUS_LOG_LEVEL", "")
	os.Unsetenv("SENTICORPUS_LOG_LEVEL")

	require.NoError(t, loadDotEnv(path))
	assert.Equal(t, "debug", os.Getenv("SENTICORPUS_LOG_LEVEL"))
	assert.NoError(t, loadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}
