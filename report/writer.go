// Package report writes analysis results as CSV tables, an Excel
// workbook, chart images and a JSON run manifest.
package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Output file names.
const (
	DocumentsFile          = "documents.csv"
	GroupSummaryFile       = "group_summary.csv"
	SentimentWordsFile     = "sentiment_words.csv"
	SentimentWordCountFile = "sentiment_word_counts.csv"
	MeanTFIDFFile          = "period_top20_meanTFIDF.csv"
	MeanZScoreFile         = "period_top20_mean_zscore.csv"
	SumTFIDFFile           = "period_top20_sumTFIDF.csv"
	SumZScoreFile          = "period_top20_sum_zscore.csv"
	StatisticalTestsFile   = "statistical_tests.csv"
	WordFrequencyFile      = "word_frequency.csv"
	SummaryWorkbookFile    = "sentiment_summary_by_type.xlsx"
	BoxplotFile            = "boxplot_sentiment.png"
	HeatmapFile            = "heatmap_mean_tfidf_zscore.png"
	AverageSentimentFile   = "avg_sentiment_score_by_type.png"
	ManifestFile           = "manifest.json"
)

// QQPlotFile returns the Q-Q plot file name of a group.
func QQPlotFile(group string) string {
	return "qqplot_" + slug(group) + ".png"
}

// An Option changes a Writer.
type Option func(*Writer)

// WithLogger sets the logger that records every written file.
func WithLogger(logger *zap.Logger) Option {
	return func(w *Writer) {
		w.logger = logger
	}
}

// Writer writes result files into one output directory and remembers
// what it wrote.
type Writer struct {
	dir    string
	logger *zap.Logger
	files  []string
}

// NewWriter creates dir if needed and returns a Writer for it.
func NewWriter(dir string, opts ...Option) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create output directory %s", dir)
	}
	w := &Writer{dir: dir, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Files returns the names of the files written so far, sorted.
func (w *Writer) Files() []string {
	out := append([]string(nil), w.files...)
	sort.Strings(out)
	return out
}

func (w *Writer) path(name string) string {
	return filepath.Join(w.dir, name)
}

func (w *Writer) wrote(name string) {
	for _, f := range w.files {
		if f == name {
			return
		}
	}
	w.files = append(w.files, name)
	w.logger.Info("wrote output", zap.String("file", w.path(name)))
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// writeCSV writes a UTF-8 CSV with a byte order mark, so that spreadsheet
// software detects the encoding of Hangul text.
func (w *Writer) writeCSV(name string, header []string, rows [][]string) (err error) {
	f, err := os.Create(w.path(name))
	if err != nil {
		return errors.Wrapf(err, "create %s", name)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.Wrapf(cerr, "close %s", name)
		}
	}()

	if _, err := f.Write(utf8BOM); err != nil {
		return errors.Wrapf(err, "write %s", name)
	}
	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		return errors.Wrapf(err, "write %s", name)
	}
	if err := cw.WriteAll(rows); err != nil {
		return errors.Wrapf(err, "write %s", name)
	}
	w.wrote(name)
	return nil
}

// Manifest describes one run.
type Manifest struct {
	RunID      string            `json:"run_id"`
	Stage      string            `json:"stage"`
	Input      string            `json:"input"`
	Lexicon    string            `json:"lexicon,omitempty"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	Documents  int               `json:"documents"`
	Tokens     int               `json:"tokens"`
	Sentences  int               `json:"sentences"`
	TokenizeMs int64             `json:"tokenize_ms"`
	Skipped    []SkippedEntry    `json:"skipped,omitempty"`
	Settings   map[string]string `json:"settings,omitempty"`
	Files      []string          `json:"files"`
}

// SkippedEntry is an input record left out of the run.
type SkippedEntry struct {
	Row    int    `json:"row"`
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// WriteManifest writes m as indented JSON. Files defaults to the files
// written by w.
func (w *Writer) WriteManifest(m Manifest) error {
	if m.Files == nil {
		m.Files = w.Files()
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode manifest")
	}
	if err := os.WriteFile(w.path(ManifestFile), append(data, '\n'), 0o644); err != nil {
		return errors.Wrap(err, "write manifest")
	}
	w.wrote(ManifestFile)
	return nil
}

// ReadManifest loads a manifest written by WriteManifest.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read manifest")
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, "decode manifest %s", path)
	}
	return &m, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func slug(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
		case r >= 'A' && r <= 'Z':
			out = append(out, r+'a'-'A')
		case r == '–':
			out = append(out, '-')
		case r == '-' || r == ' ' || r == '_' || r == '.':
			if len(out) > 0 && out[len(out)-1] != '_' {
				out = append(out, '_')
			}
		default:
			if r > 127 {
				out = append(out, r)
			}
		}
	}
	for len(out) > 0 && out[len(out)-1] == '_' {
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return "group"
	}
	return string(out)
}
