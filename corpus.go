package senticorpus

import (
	"bytes"
	"context"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Columns names the input table's header cells. Matching ignores case and
// surrounding space.
type Columns struct {
	ID     string
	Text   string
	Year   string
	Period string
	Type   string
}

// DefaultColumns matches the coding sheet layout.
var DefaultColumns = Columns{ID: "File", Text: "Content", Year: "Year", Period: "Period", Type: "Type"}

// A CorpusOpt represents a setting that changes how a corpus is loaded.
type CorpusOpt func(*corpusOpts)

type corpusOpts struct {
	sheet   string
	columns Columns
	logger  *zap.Logger
}

// WithSheet selects the worksheet of an .xlsx input. The first sheet is
// used by default.
func WithSheet(name string) CorpusOpt {
	return func(o *corpusOpts) {
		o.sheet = name
	}
}

// WithColumns overrides the header names. Empty fields keep their default.
func WithColumns(c Columns) CorpusOpt {
	return func(o *corpusOpts) {
		if c.ID != "" {
			o.columns.ID = c.ID
		}
		if c.Text != "" {
			o.columns.Text = c.Text
		}
		if c.Year != "" {
			o.columns.Year = c.Year
		}
		if c.Period != "" {
			o.columns.Period = c.Period
		}
		if c.Type != "" {
			o.columns.Type = c.Type
		}
	}
}

// WithCorpusLogger sets the logger that reports skipped records.
func WithCorpusLogger(logger *zap.Logger) CorpusOpt {
	return func(o *corpusOpts) {
		o.logger = logger
	}
}

// Record is one usable input row.
type Record struct {
	Row       int // 1-based row number in the input, header included
	ID        string
	Text      string
	Year      int // 0 when only a period label was given
	Period    Period
	MediaType MediaType
}

// SkippedRecord is an input row or document left out of the analysis.
type SkippedRecord struct {
	Row    int
	ID     string
	Reason string
}

// Corpus is the loaded input table.
type Corpus struct {
	Path    string
	Records []Record
	Skipped []SkippedRecord

	logger *zap.Logger
}

// LoadCorpus reads an .xlsx or .csv table with one article per row.
//
// Rows with an unknown media type code or an unplaceable year/period are
// skipped, logged and kept in Corpus.Skipped; loading continues. A table
// without usable rows yields ErrEmptyCorpus.
func LoadCorpus(path string, opts ...CorpusOpt) (*Corpus, error) {
	o := corpusOpts{columns: DefaultColumns, logger: zap.NewNop()}
	for _, applyOpt := range opts {
		applyOpt(&o)
	}

	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		rows, err = readXLSX(path, o.sheet)
	case ".csv":
		rows, err = readCSV(path)
	default:
		return nil, errors.Errorf("corpus %s: unsupported file type (want .xlsx or .csv)", path)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.Wrapf(ErrEmptyCorpus, "corpus %s", path)
	}

	idx, err := o.columns.locate(rows[0])
	if err != nil {
		return nil, errors.Wrapf(err, "corpus %s", path)
	}

	c := &Corpus{Path: path, logger: o.logger}
	for i, row := range rows[1:] {
		rowNum := i + 2
		if blankRow(row) {
			continue
		}
		rec, reason := idx.record(row, rowNum)
		if reason != "" {
			c.skip(rowNum, rec.ID, reason)
			continue
		}
		c.Records = append(c.Records, rec)
	}
	if len(c.Records) == 0 {
		return c, errors.Wrapf(ErrEmptyCorpus, "corpus %s", path)
	}
	o.logger.Info("corpus loaded",
		zap.String("path", path),
		zap.Int("records", len(c.Records)),
		zap.Int("skipped", len(c.Skipped)))
	return c, nil
}

func (c *Corpus) skip(row int, id, reason string) {
	c.Skipped = append(c.Skipped, SkippedRecord{Row: row, ID: id, Reason: reason})
	c.logger.Warn("skipping record", zap.Int("row", row), zap.String("id", id), zap.String("reason", reason))
}

// Documents tokenises every record. A record that fails to tokenise is
// skipped and logged; the rest are returned in input order.
func (c *Corpus) Documents(ctx context.Context, tok Tokenizer) ([]*Document, error) {
	docs := make([]*Document, 0, len(c.Records))
	for _, rec := range c.Records {
		doc, err := NewDocument(rec.ID, rec.Text,
			UsingTokenizer(tok),
			WithContext(ctx),
			WithYear(rec.Year),
			WithPeriod(rec.Period),
			WithMediaType(rec.MediaType))
		if err != nil {
			var terr *TokenizationError
			if errors.As(err, &terr) {
				c.skip(rec.Row, rec.ID, terr.Error())
				continue
			}
			return nil, err
		}
		docs = append(docs, doc)
	}
	if len(docs) == 0 {
		return nil, errors.Wrapf(ErrEmptyCorpus, "corpus %s", c.Path)
	}
	return docs, nil
}

type columnIndex struct {
	id, text, year, period, typ int
}

func (cols Columns) locate(header []string) (columnIndex, error) {
	find := func(name string) int {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(name)) {
				return i
			}
		}
		return -1
	}
	idx := columnIndex{
		id:     find(cols.ID),
		text:   find(cols.Text),
		year:   find(cols.Year),
		period: find(cols.Period),
		typ:    find(cols.Type),
	}
	switch {
	case idx.text < 0:
		return idx, errors.Errorf("missing text column %q", cols.Text)
	case idx.typ < 0:
		return idx, errors.Errorf("missing type column %q", cols.Type)
	case idx.year < 0 && idx.period < 0:
		return idx, errors.Errorf("missing both year column %q and period column %q", cols.Year, cols.Period)
	}
	return idx, nil
}

func (idx columnIndex) record(row []string, rowNum int) (Record, string) {
	rec := Record{Row: rowNum, ID: cell(row, idx.id), Text: cell(row, idx.text)}
	if rec.ID == "" {
		rec.ID = "row-" + strconv.Itoa(rowNum)
	}

	m, err := ParseMediaType(cell(row, idx.typ))
	if err != nil {
		return rec, err.Error()
	}
	rec.MediaType = m

	if y := cell(row, idx.year); y != "" {
		f, err := strconv.ParseFloat(y, 64)
		if err != nil || f != math.Trunc(f) {
			return rec, (&UnknownPeriodError{Value: y}).Error()
		}
		rec.Year = int(f)
	}
	if label := cell(row, idx.period); label != "" {
		p, err := ParsePeriod(label)
		if err != nil {
			return rec, err.Error()
		}
		rec.Period = p
		return rec, ""
	}
	if rec.Year == 0 {
		return rec, "no year or period"
	}
	p, err := PeriodFromYear(rec.Year)
	if err != nil {
		return rec, err.Error()
	}
	rec.Period = p
	return rec, ""
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func readXLSX(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open corpus %s", path)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.Errorf("corpus %s: workbook has no sheets", path)
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "read sheet %q of %s", sheet, path)
	}
	return rows, nil
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func readCSV(path string) ([][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open corpus %s", path)
	}
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "parse corpus %s", path)
	}
	return rows, nil
}
