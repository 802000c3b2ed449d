package report

import (
	"math"
	"strconv"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/mediasenti/senticorpus"
)

// DocumentHeader is the fixed column schema of the per-document table.
var DocumentHeader = []string{
	"file", "type", "total_tokens", "sentiment_words", "mean_sentiment_score",
	"positive_count", "negative_count", "sentiment_ratio",
}

func documentRow(d *senticorpus.Document) []string {
	m := d.Metrics
	return []string{
		d.ID,
		d.MediaType.String(),
		strconv.Itoa(m.TotalTokens),
		strconv.Itoa(m.SentimentTokens),
		formatFloat(m.MeanScore),
		strconv.Itoa(m.PositiveCount),
		strconv.Itoa(m.NegativeCount),
		formatFloat(m.SentimentRatio),
	}
}

// WriteDocuments writes one row per document.
func (w *Writer) WriteDocuments(docs []*senticorpus.Document) error {
	rows := make([][]string, 0, len(docs))
	for _, d := range docs {
		rows = append(rows, documentRow(d))
	}
	return w.writeCSV(DocumentsFile, DocumentHeader, rows)
}

// WriteGroupSummary writes one row per group and metric.
func (w *Writer) WriteGroupSummary(groups []senticorpus.GroupSummary) error {
	header := []string{"period", "type", "metric", "n", "mean", "variance", "sd", "median", "min", "max"}
	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		period, media := "", ""
		if g.Period != nil {
			period = g.Period.String()
		}
		if g.MediaType != nil {
			media = g.MediaType.String()
		}
		rows = append(rows, []string{
			period, media, g.Metric.String(), strconv.Itoa(g.N),
			formatFloat(g.Mean), formatFloat(g.Variance), formatFloat(g.SD),
			formatFloat(g.Median), formatFloat(g.Min), formatFloat(g.Max),
		})
	}
	return w.writeCSV(GroupSummaryFile, header, rows)
}

// WriteSentimentWords writes every matched sentiment token and the
// per-type word tallies.
func (w *Writer) WriteSentimentWords(words []senticorpus.SentimentWord) error {
	rows := make([][]string, 0, len(words))
	for _, sw := range words {
		rows = append(rows, []string{
			sw.DocumentID, sw.MediaType.String(), sw.Word,
			strconv.Itoa(sw.Polarity), strconv.Itoa(sw.Position),
		})
	}
	if err := w.writeCSV(SentimentWordsFile, []string{"file", "type", "word", "polarity", "position"}, rows); err != nil {
		return err
	}

	counts := senticorpus.CountSentimentWords(words)
	rows = make([][]string, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []string{c.MediaType.String(), c.Word, strconv.Itoa(c.Polarity), strconv.Itoa(c.Count)})
	}
	return w.writeCSV(SentimentWordCountFile, []string{"type", "word", "polarity", "count"}, rows)
}

// WriteTermMatrix writes a period × term table under name.
func (w *Writer) WriteTermMatrix(name string, m *senticorpus.TermMatrix) error {
	header := append([]string{"period"}, m.Terms...)
	rows := make([][]string, 0, len(m.Periods))
	for i, p := range m.Periods {
		row := make([]string, 0, len(m.Terms)+1)
		row = append(row, p.String())
		for j := range m.Terms {
			row = append(row, formatFloat(m.At(i, j)))
		}
		rows = append(rows, row)
	}
	return w.writeCSV(name, header, rows)
}

// WriteTests writes the results of a test battery on metric.
func (w *Writer) WriteTests(metric senticorpus.Metric, bat senticorpus.Battery) error {
	header := []string{"metric", "test", "group", "n", "statistic", "p_value", "alpha", "significant", "decision", "reason", "policy"}
	sizes := map[string]int{
		bat.GroupA.Label: len(bat.GroupA.Values),
		bat.GroupB.Label: len(bat.GroupB.Values),
	}
	rows := make([][]string, 0, len(bat.Results))
	for _, r := range bat.Results {
		n, ok := sizes[r.Group]
		if !ok {
			n = len(bat.GroupA.Values) + len(bat.GroupB.Values)
		}
		significant := ""
		if r.PValue != nil {
			significant = strconv.FormatBool(r.Significant)
		}
		rows = append(rows, []string{
			metric.String(), r.Name, r.Group, strconv.Itoa(n),
			formatOptional(r.Statistic), formatOptional(r.PValue), formatFloat(r.Alpha),
			significant, r.Decision, r.Reason, bat.Policy,
		})
	}
	return w.writeCSV(StatisticalTestsFile, header, rows)
}

// WriteWordFrequency writes a frequency table.
func (w *Writer) WriteWordFrequency(freqs []senticorpus.TermFrequency) error {
	rows := make([][]string, 0, len(freqs))
	for _, f := range freqs {
		rows = append(rows, []string{f.Form, f.Tag, strconv.Itoa(f.Count)})
	}
	return w.writeCSV(WordFrequencyFile, []string{"form", "tag", "count"}, rows)
}

const (
	summarySheet   = "summary"
	documentsSheet = "documents"
)

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

// WriteSummaryWorkbook writes the per-type summary of metric and the
// document table into an Excel workbook.
func (w *Writer) WriteSummaryWorkbook(metric senticorpus.Metric, groups []senticorpus.GroupSummary, docs []*senticorpus.Document) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.Wrap(cerr, "close workbook")
		}
	}()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return errors.Wrap(err, "rename summary sheet")
	}
	header := []interface{}{"media_type", "metric", "N", "Mean", "Median", "SD", "Min", "Max"}
	if err := setRow(f, summarySheet, 1, header); err != nil {
		return err
	}
	for i, g := range groups {
		label := g.Label()
		row := []interface{}{label, metric.String(), g.N, round4(g.Mean), round4(g.Median), round4(g.SD), round4(g.Min), round4(g.Max)}
		if err := setRow(f, summarySheet, i+2, row); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(documentsSheet); err != nil {
		return errors.Wrap(err, "add documents sheet")
	}
	docHeader := make([]interface{}, len(DocumentHeader))
	for i, h := range DocumentHeader {
		docHeader[i] = h
	}
	if err := setRow(f, documentsSheet, 1, docHeader); err != nil {
		return err
	}
	for i, d := range docs {
		m := d.Metrics
		row := []interface{}{
			d.ID, d.MediaType.String(), m.TotalTokens, m.SentimentTokens, m.MeanScore,
			m.PositiveCount, m.NegativeCount, m.SentimentRatio,
		}
		if err := setRow(f, documentsSheet, i+2, row); err != nil {
			return err
		}
	}

	if err := f.SaveAs(w.path(SummaryWorkbookFile)); err != nil {
		return errors.Wrap(err, "save workbook")
	}
	w.wrote(SummaryWorkbookFile)
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return errors.Wrap(err, "cell name")
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return errors.Wrapf(err, "write %s row %d", sheet, row)
	}
	return nil
}
