package senticorpus

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// DefaultTopTerms is the number of terms kept for period tables.
const DefaultTopTerms = 20

// ErrEmptyVocabulary is returned when no document contributes a term.
var ErrEmptyVocabulary = errors.New("tfidf: empty vocabulary")

// TermTokens extracts the vocabulary terms of a token sequence: common
// nouns and verbs, verbs in dictionary form.
func TermTokens(tokens []Token) []string {
	var terms []string
	for _, tok := range tokens {
		if strings.HasPrefix(tok.Tag, TagCommonNoun) || strings.HasPrefix(tok.Tag, TagVerb) {
			terms = append(terms, tok.DictionaryForm())
		}
	}
	return terms
}

// A VectorizerOpt represents a setting that changes the vectorizer.
type VectorizerOpt func(*Vectorizer)

// WithStopwords replaces the default exclusion list.
func WithStopwords(f *StopwordFilter) VectorizerOpt {
	return func(v *Vectorizer) {
		v.stop = f
	}
}

// WithMinTermRunes sets the shortest term, in runes, kept in the vocabulary.
func WithMinTermRunes(n int) VectorizerOpt {
	return func(v *Vectorizer) {
		v.minRunes = n
	}
}

// WithNormalization can enable (the default) or disable L2 normalisation
// of document vectors.
func WithNormalization(include bool) VectorizerOpt {
	return func(v *Vectorizer) {
		v.normalize = include
	}
}

// Vectorizer computes smoothed TF-IDF weights:
//
//	tf(t, d)  = raw count of t in d
//	idf(t)    = ln((1+N) / (1+df(t))) + 1
//	w(t, d)   = tf(t, d) * idf(t), optionally L2 normalised per document
type Vectorizer struct {
	stop      *StopwordFilter
	minRunes  int
	normalize bool
}

// NewVectorizer creates a vectorizer that excludes DefaultExcludedTerms,
// drops terms shorter than two runes and L2-normalises rows.
func NewVectorizer(opts ...VectorizerOpt) *Vectorizer {
	v := &Vectorizer{
		stop:      NewStopwordFilter("", DefaultExcludedTerms...),
		minRunes:  2,
		normalize: true,
	}
	for _, applyOpt := range opts {
		applyOpt(v)
	}
	return v
}

// TFIDF holds the document × term weight matrix of a corpus.
type TFIDF struct {
	Terms   []string   // vocabulary, sorted
	IDF     []float64  // per term
	Periods []Period   // per document
	Weights *mat.Dense // documents × terms
}

// FitTransform builds the vocabulary from docs and weights every document.
func (v *Vectorizer) FitTransform(docs []*Document) (*TFIDF, error) {
	if len(docs) == 0 {
		return nil, ErrEmptyCorpus
	}

	counts := make([]map[string]int, len(docs))
	df := make(map[string]int)
	for i, d := range docs {
		counts[i] = make(map[string]int)
		for _, term := range TermTokens(d.tokens) {
			term = strings.ToLower(term)
			if !v.keep(term) {
				continue
			}
			if counts[i][term] == 0 {
				df[term]++
			}
			counts[i][term]++
		}
	}
	if len(df) == 0 {
		return nil, ErrEmptyVocabulary
	}

	terms := make([]string, 0, len(df))
	for t := range df {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	index := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	n := float64(len(docs))
	for j, t := range terms {
		index[t] = j
		idf[j] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}

	weights := mat.NewDense(len(docs), len(terms), nil)
	periods := make([]Period, len(docs))
	row := make([]float64, len(terms))
	for i, d := range docs {
		periods[i] = d.Period
		for j := range row {
			row[j] = 0
		}
		for t, c := range counts[i] {
			j := index[t]
			row[j] = float64(c) * idf[j]
		}
		if v.normalize {
			if norm := floats.Norm(row, 2); norm > 0 {
				floats.Scale(1/norm, row)
			}
		}
		weights.SetRow(i, row)
	}

	return &TFIDF{Terms: terms, IDF: idf, Periods: periods, Weights: weights}, nil
}

func (v *Vectorizer) keep(term string) bool {
	if utf8.RuneCountInString(term) < v.minRunes {
		return false
	}
	return !v.stop.IsStopword(term)
}

// TopTerms returns the n terms with the highest corpus-wide mean weight.
// Ties are broken by lexicographic order.
func (r *TFIDF) TopTerms(n int) []string {
	rows, _ := r.Weights.Dims()
	type scored struct {
		term string
		mean float64
	}
	ranked := make([]scored, len(r.Terms))
	col := make([]float64, rows)
	for j, t := range r.Terms {
		mat.Col(col, j, r.Weights)
		ranked[j] = scored{term: t, mean: floats.Sum(col) / float64(rows)}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].mean != ranked[j].mean {
			return ranked[i].mean > ranked[j].mean
		}
		return ranked[i].term < ranked[j].term
	})
	if n > len(ranked) || n < 0 {
		n = len(ranked)
	}
	out := make([]string, n)
	for i := range out {
		out[i] = ranked[i].term
	}
	return out
}

// TermMatrix is a period × term table.
type TermMatrix struct {
	Periods []Period
	Terms   []string
	Values  *mat.Dense
}

// At returns the value for period row i and term column j.
func (m *TermMatrix) At(i, j int) float64 {
	return m.Values.At(i, j)
}

// Select returns a matrix restricted to terms, in the given order. Terms
// absent from m get a column of zeros.
func (m *TermMatrix) Select(terms []string) *TermMatrix {
	index := make(map[string]int, len(m.Terms))
	for j, t := range m.Terms {
		index[t] = j
	}
	out := &TermMatrix{Periods: append([]Period(nil), m.Periods...), Terms: append([]string(nil), terms...)}
	if len(terms) == 0 || len(m.Periods) == 0 {
		return out
	}
	out.Values = mat.NewDense(len(m.Periods), len(terms), nil)
	for k, t := range terms {
		j, ok := index[t]
		if !ok {
			continue
		}
		for i := range m.Periods {
			out.Values.Set(i, k, m.Values.At(i, j))
		}
	}
	return out
}

// PeriodMeans averages document weights within each period. Only periods
// with at least one document appear, in chronological order.
func (r *TFIDF) PeriodMeans() *TermMatrix {
	return r.byPeriod(true)
}

// PeriodSums totals document weights within each period.
func (r *TFIDF) PeriodSums() *TermMatrix {
	return r.byPeriod(false)
}

func (r *TFIDF) byPeriod(mean bool) *TermMatrix {
	members := make(map[Period][]int)
	for i, p := range r.Periods {
		members[p] = append(members[p], i)
	}
	periods := make([]Period, 0, len(members))
	for p := range members {
		periods = append(periods, p)
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i] < periods[j] })

	values := mat.NewDense(len(periods), len(r.Terms), nil)
	acc := make([]float64, len(r.Terms))
	for pi, p := range periods {
		for j := range acc {
			acc[j] = 0
		}
		for _, i := range members[p] {
			floats.Add(acc, r.Weights.RawRowView(i))
		}
		if mean {
			floats.Scale(1/float64(len(members[p])), acc)
		}
		values.SetRow(pi, acc)
	}
	return &TermMatrix{Periods: periods, Terms: append([]string(nil), r.Terms...), Values: values}
}

// ZScope selects the population a z-score is standardised against.
type ZScope int

const (
	ZScopeTerm   ZScope = iota // each term across periods
	ZScopePeriod               // each period across terms
	ZScopeMatrix               // all cells together
)

var zScopeNames = [...]string{"term", "period", "matrix"}

func (s ZScope) String() string {
	if s < 0 || int(s) >= len(zScopeNames) {
		return "unknown"
	}
	return zScopeNames[s]
}

// ParseZScope returns the scope named s.
func ParseZScope(s string) (ZScope, bool) {
	for i, n := range zScopeNames {
		if strings.EqualFold(strings.TrimSpace(s), n) {
			return ZScope(i), true
		}
	}
	return 0, false
}

// ZScores standardises m with the population standard deviation of the
// chosen scope. A flat population (all values equal) standardises to 0.
func ZScores(m *TermMatrix, scope ZScope) *TermMatrix {
	out := &TermMatrix{Periods: append([]Period(nil), m.Periods...), Terms: append([]string(nil), m.Terms...)}
	if m.Values == nil {
		return out
	}
	rows, cols := m.Values.Dims()
	z := mat.NewDense(rows, cols, nil)

	switch scope {
	case ZScopePeriod:
		for i := 0; i < rows; i++ {
			z.SetRow(i, standardize(mat.Row(nil, i, m.Values)))
		}
	case ZScopeMatrix:
		all := standardize(append([]float64(nil), m.Values.RawMatrix().Data...))
		z = mat.NewDense(rows, cols, all)
	default:
		for j := 0; j < cols; j++ {
			z.SetCol(j, standardize(mat.Col(nil, j, m.Values)))
		}
	}
	out.Values = z
	return out
}

// standardize replaces x in place with its z-scores and returns it.
func standardize(x []float64) []float64 {
	if len(x) == 0 || floats.Max(x) == floats.Min(x) {
		for i := range x {
			x[i] = 0
		}
		return x
	}
	mean, sd := stat.PopMeanStdDev(x, nil)
	if sd == 0 {
		for i := range x {
			x[i] = 0
		}
		return x
	}
	for i := range x {
		x[i] = (x[i] - mean) / sd
	}
	return x
}
