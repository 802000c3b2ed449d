package senticorpus

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// MediaTypeFromCode maps the coding-sheet type code onto a MediaType:
// 1 and 2 are non-screen, 3 is screen.
func MediaTypeFromCode(code int) (MediaType, error) {
	switch code {
	case 1, 2:
		return NonScreen, nil
	case 3:
		return Screen, nil
	}
	return 0, &UnknownMediaTypeError{Code: strconv.Itoa(code)}
}

// ParseMediaType accepts a type code as found in spreadsheet cells
// ("3", "3.0", " 2 ") or a MediaType label.
func ParseMediaType(s string) (MediaType, error) {
	v := strings.TrimSpace(s)
	switch strings.ToLower(v) {
	case NonScreen.String():
		return NonScreen, nil
	case Screen.String():
		return Screen, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, &UnknownMediaTypeError{Code: s}
	}
	m, err := MediaTypeFromCode(int(f))
	if err != nil {
		return 0, &UnknownMediaTypeError{Code: s}
	}
	return m, nil
}

// Metric selects one numeric field of DocumentMetrics.
type Metric int

const (
	MetricTotalTokens Metric = iota
	MetricSentimentTokens
	MetricPositiveCount
	MetricNegativeCount
	MetricMeanScore
	MetricSentimentRatio
)

// Metrics lists every metric in output order.
var Metrics = []Metric{
	MetricTotalTokens, MetricSentimentTokens, MetricPositiveCount,
	MetricNegativeCount, MetricMeanScore, MetricSentimentRatio,
}

var metricNames = [...]string{
	"total_tokens",
	"sentiment_words",
	"positive_count",
	"negative_count",
	"mean_sentiment_score",
	"sentiment_ratio",
}

func (m Metric) String() string {
	if m < 0 || int(m) >= len(metricNames) {
		return "unknown"
	}
	return metricNames[m]
}

// ParseMetric returns the metric whose String() is name.
func ParseMetric(name string) (Metric, bool) {
	name = strings.TrimSpace(strings.ToLower(name))
	for i, n := range metricNames {
		if n == name {
			return Metric(i), true
		}
	}
	return 0, false
}

// Value extracts the metric from dm.
func (m Metric) Value(dm DocumentMetrics) float64 {
	switch m {
	case MetricTotalTokens:
		return float64(dm.TotalTokens)
	case MetricSentimentTokens:
		return float64(dm.SentimentTokens)
	case MetricPositiveCount:
		return float64(dm.PositiveCount)
	case MetricNegativeCount:
		return float64(dm.NegativeCount)
	case MetricMeanScore:
		return dm.MeanScore
	case MetricSentimentRatio:
		return dm.SentimentRatio
	}
	return math.NaN()
}

// GroupSummary describes the distribution of one metric within a group of
// documents. Period or MediaType is nil when the grouping ignores it.
type GroupSummary struct {
	Period    *Period
	MediaType *MediaType
	Metric    Metric
	N         int
	Mean      float64
	Variance  float64 // sample variance (n-1); 0 when N < 2
	SD        float64
	Median    float64
	Min       float64
	Max       float64
}

// Label returns a human readable name of the group, e.g. "3. 1988–1995 / screen".
func (g GroupSummary) Label() string {
	var parts []string
	if g.Period != nil {
		parts = append(parts, g.Period.String())
	}
	if g.MediaType != nil {
		parts = append(parts, g.MediaType.String())
	}
	if len(parts) == 0 {
		return "all"
	}
	return strings.Join(parts, " / ")
}

type groupKey struct {
	period    Period
	media     MediaType
	hasPeriod bool
	hasMedia  bool
}

func (k groupKey) less(o groupKey) bool {
	if k.period != o.period {
		return k.period < o.period
	}
	return k.media < o.media
}

// Aggregate summarises metric per (period, media type) group. Groups are
// ordered chronologically, non-screen before screen; empty groups are
// omitted.
func Aggregate(docs []*Document, metric Metric) []GroupSummary {
	return aggregate(docs, metric, func(d *Document) groupKey {
		return groupKey{period: d.Period, media: d.MediaType, hasPeriod: true, hasMedia: true}
	})
}

// AggregateByPeriod summarises metric per period.
func AggregateByPeriod(docs []*Document, metric Metric) []GroupSummary {
	return aggregate(docs, metric, func(d *Document) groupKey {
		return groupKey{period: d.Period, hasPeriod: true}
	})
}

// AggregateByType summarises metric per media type.
func AggregateByType(docs []*Document, metric Metric) []GroupSummary {
	return aggregate(docs, metric, func(d *Document) groupKey {
		return groupKey{media: d.MediaType, hasMedia: true}
	})
}

func aggregate(docs []*Document, metric Metric, keyOf func(*Document) groupKey) []GroupSummary {
	groups := make(map[groupKey][]float64)
	for _, d := range docs {
		k := keyOf(d)
		groups[k] = append(groups[k], metric.Value(d.Metrics))
	}

	keys := make([]groupKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })

	out := make([]GroupSummary, 0, len(keys))
	for _, k := range keys {
		s := Summarize(groups[k])
		s.Metric = metric
		if k.hasPeriod {
			p := k.period
			s.Period = &p
		}
		if k.hasMedia {
			m := k.media
			s.MediaType = &m
		}
		out = append(out, s)
	}
	return out
}

// Summarize computes the descriptive statistics of x. The input is not
// modified. An empty input yields a zero summary.
func Summarize(x []float64) GroupSummary {
	s := GroupSummary{N: len(x)}
	if len(x) == 0 {
		return s
	}
	sorted := append([]float64(nil), x...)
	sort.Float64s(sorted)

	s.Mean = stat.Mean(sorted, nil)
	if len(sorted) >= 2 {
		s.Variance = stat.Variance(sorted, nil)
		s.SD = math.Sqrt(s.Variance)
	}
	s.Median = median(sorted)
	s.Min = floats.Min(sorted)
	s.Max = floats.Max(sorted)
	return s
}

// median of an already sorted, non-empty slice.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
