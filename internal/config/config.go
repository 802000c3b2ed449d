// Package config loads run settings from a YAML file, SENTICORPUS_*
// environment variables and an optional .env file.
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mediasenti/senticorpus"
)

// EnvPrefix is prepended to every environment override, e.g.
// SENTICORPUS_LEXICON_PATH for lexicon.path.
const EnvPrefix = "SENTICORPUS"

type Config struct {
	Input     InputConfig     `mapstructure:"input"`
	Lexicon   LexiconConfig   `mapstructure:"lexicon"`
	Tokenizer TokenizerConfig `mapstructure:"tokenizer"`
	TFIDF     TFIDFConfig     `mapstructure:"tfidf"`
	Stats     StatsConfig     `mapstructure:"stats"`
	Freq      FreqConfig      `mapstructure:"freq"`
	Output    OutputConfig    `mapstructure:"output"`
	Report    ReportConfig    `mapstructure:"report"`
	Log       LogConfig       `mapstructure:"log"`
}

type InputConfig struct {
	Path    string        `mapstructure:"path"`
	Sheet   string        `mapstructure:"sheet"`
	Columns ColumnsConfig `mapstructure:"columns"`
}

type ColumnsConfig struct {
	ID     string `mapstructure:"id"`
	Text   string `mapstructure:"text"`
	Year   string `mapstructure:"year"`
	Period string `mapstructure:"period"`
	Type   string `mapstructure:"type"`
}

// Corpus converts the column settings for the corpus loader.
func (c ColumnsConfig) Corpus() senticorpus.Columns {
	return senticorpus.Columns{ID: c.ID, Text: c.Text, Year: c.Year, Period: c.Period, Type: c.Type}
}

type LexiconConfig struct {
	Path string `mapstructure:"path"`
}

type TokenizerConfig struct {
	Kind      string `mapstructure:"kind"`
	UserWords string `mapstructure:"user_words"`
}

type TFIDFConfig struct {
	TopN          int      `mapstructure:"top_n"`
	Exclude       []string `mapstructure:"exclude"`
	MinTermLength int      `mapstructure:"min_term_length"`
	Normalize     bool     `mapstructure:"normalize"`
	ZScoreScope   string   `mapstructure:"zscore_scope"`
}

type StatsConfig struct {
	Metric  string   `mapstructure:"metric"`
	Alpha   float64  `mapstructure:"alpha"`
	Split   string   `mapstructure:"split"` // "media" or "period"
	Periods []string `mapstructure:"periods"`
}

type FreqConfig struct {
	TopN int      `mapstructure:"top_n"`
	Tags []string `mapstructure:"tags"`
}

type OutputConfig struct {
	Dir    string `mapstructure:"dir"`
	Charts bool   `mapstructure:"charts"`
}

type ReportConfig struct {
	FontFile string `mapstructure:"font_file"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// Split values accepted by stats.split.
const (
	SplitMedia  = "media"
	SplitPeriod = "period"
)

func defaults() map[string]interface{} {
	cols := senticorpus.DefaultColumns
	return map[string]interface{}{
		"input.path":            "",
		"input.sheet":           "",
		"input.columns.id":      cols.ID,
		"input.columns.text":    cols.Text,
		"input.columns.year":    cols.Year,
		"input.columns.period":  cols.Period,
		"input.columns.type":    cols.Type,
		"lexicon.path":          "",
		"tokenizer.kind":        senticorpus.TokenizerSurface,
		"tokenizer.user_words":  "",
		"tfidf.top_n":           senticorpus.DefaultTopTerms,
		"tfidf.exclude":         senticorpus.DefaultExcludedTerms,
		"tfidf.min_term_length": 2,
		"tfidf.normalize":       true,
		"tfidf.zscore_scope":    senticorpus.ZScopeTerm.String(),
		"stats.metric":          senticorpus.MetricMeanScore.String(),
		"stats.alpha":           senticorpus.DefaultAlpha,
		"stats.split":           SplitMedia,
		"stats.periods":         []string{},
		"freq.top_n":            senticorpus.DefaultFrequencyTop,
		"freq.tags":             senticorpus.DefaultFrequencyTags,
		"output.dir":            "output",
		"output.charts":         true,
		"report.font_file":      "",
		"log.level":             "info",
		"log.format":            "console",
		"log.file":              "",
	}
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	cfg, err := decode(newViper())
	if err != nil {
		panic(err)
	}
	return cfg
}

// flagKeys maps command line flag names onto configuration keys.
var flagKeys = map[string]string{
	"input":     "input.path",
	"sheet":     "input.sheet",
	"lexicon":   "lexicon.path",
	"tokenizer": "tokenizer.kind",
	"out":       "output.dir",
	"metric":    "stats.metric",
	"alpha":     "stats.alpha",
	"split":     "stats.split",
	"periods":   "stats.periods",
	"top":       "tfidf.top_n",
	"no-charts": "output.charts",
	"log-level": "log.level",
}

// Load reads path (optional), the environment and any flags the user set.
// A .env file in the working directory is loaded first when present.
// Flags beat environment variables, which beat the config file.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return Config{}, err
	}

	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "read config %s", path)
		}
	}

	if flags != nil {
		var ferr error
		flags.Visit(func(f *pflag.Flag) {
			key, ok := flagKeys[f.Name]
			if !ok || ferr != nil {
				return
			}
			switch f.Name {
			case "no-charts":
				off, err := flags.GetBool(f.Name)
				if err != nil {
					ferr = err
					return
				}
				v.Set(key, !off)
			case "periods":
				vals, err := flags.GetStringSlice(f.Name)
				if err != nil {
					ferr = err
					return
				}
				v.Set(key, vals)
			default:
				v.Set(key, f.Value.String())
			}
		})
		if ferr != nil {
			return Config{}, ferr
		}
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	for k, val := range defaults() {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}
	return cfg, nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return errors.Wrapf(godotenv.Load(path), "load %s", path)
}

// Validate reports the first setting that cannot drive a run.
func (c Config) Validate() error {
	if c.Input.Path == "" {
		return errors.New("missing input.path")
	}
	if c.Output.Dir == "" {
		return errors.New("missing output.dir")
	}
	if _, err := senticorpus.NewTokenizer(c.Tokenizer.Kind, senticorpus.TokenizerConfig{}); err != nil {
		return errors.Wrap(err, "tokenizer.kind")
	}
	if c.TFIDF.TopN <= 0 {
		return errors.New("tfidf.top_n must be > 0")
	}
	if c.TFIDF.MinTermLength < 1 {
		return errors.New("tfidf.min_term_length must be >= 1")
	}
	if _, ok := senticorpus.ParseZScope(c.TFIDF.ZScoreScope); !ok {
		return errors.Errorf("unknown tfidf.zscore_scope %q", c.TFIDF.ZScoreScope)
	}
	if _, ok := senticorpus.ParseMetric(c.Stats.Metric); !ok {
		return errors.Errorf("unknown stats.metric %q", c.Stats.Metric)
	}
	if c.Stats.Alpha <= 0 || c.Stats.Alpha >= 1 {
		return errors.Errorf("stats.alpha must be in (0,1), got %g", c.Stats.Alpha)
	}
	switch c.Stats.Split {
	case SplitMedia:
	case SplitPeriod:
		if _, _, err := c.ComparedPeriods(); err != nil {
			return err
		}
	default:
		return errors.Errorf("unknown stats.split %q (want media or period)", c.Stats.Split)
	}
	if c.Freq.TopN <= 0 {
		return errors.New("freq.top_n must be > 0")
	}
	switch strings.ToLower(c.Log.Format) {
	case "console", "json":
	default:
		return errors.Errorf("unknown log.format %q", c.Log.Format)
	}
	return nil
}

// RequireLexicon is checked by the stages that score sentiment.
func (c Config) RequireLexicon() error {
	if c.Lexicon.Path == "" {
		return errors.New("missing lexicon.path")
	}
	return nil
}

// ComparedPeriods parses stats.periods for a period split.
func (c Config) ComparedPeriods() (senticorpus.Period, senticorpus.Period, error) {
	if len(c.Stats.Periods) != 2 {
		return 0, 0, errors.Errorf("stats.periods needs exactly two periods, got %d", len(c.Stats.Periods))
	}
	p1, err := senticorpus.ParsePeriod(c.Stats.Periods[0])
	if err != nil {
		return 0, 0, errors.Wrap(err, "stats.periods")
	}
	p2, err := senticorpus.ParsePeriod(c.Stats.Periods[1])
	if err != nil {
		return 0, 0, errors.Wrap(err, "stats.periods")
	}
	if p1 == p2 {
		return 0, 0, errors.Errorf("stats.periods compares %s with itself", p1)
	}
	return p1, p2, nil
}
