package senticorpus

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ComparisonPolicy names the test used to compare two groups. The groups
// are always compared with the Mann–Whitney U test, whatever the normality
// and variance tests report: samples are small and non-normality is
// expected.
const ComparisonPolicy = "mann-whitney-u"

// DefaultAlpha is the significance level used when none is configured.
const DefaultAlpha = 0.05

// Test names as written to result tables.
const (
	NameShapiroWilk  = "Shapiro-Wilk"
	NameLevene       = "Levene"
	NameMannWhitneyU = "Mann-Whitney U"
	NameCliffsDelta  = "Cliff's delta"
)

// A Sample is one labelled group of metric values.
type Sample struct {
	Label  string
	Values []float64
}

// TestResult is the outcome of one statistical test. When the test cannot
// be computed, Statistic and PValue are nil and Reason says why.
type TestResult struct {
	Name        string
	Group       string
	Statistic   *float64
	PValue      *float64
	Alpha       float64
	Significant bool
	Decision    string
	Reason      string
}

// Failed reports whether the test could not be computed.
func (r TestResult) Failed() bool {
	return r.Statistic == nil
}

func failed(name, group string, alpha float64, reason string) TestResult {
	return TestResult{Name: name, Group: group, Alpha: alpha, Reason: reason}
}

func decided(name, group string, alpha, statistic, p float64, ifSig, ifNot string) TestResult {
	r := TestResult{Name: name, Group: group, Statistic: &statistic, PValue: &p, Alpha: alpha}
	r.Significant = p < alpha
	if r.Significant {
		r.Decision = ifSig
	} else {
		r.Decision = ifNot
	}
	return r
}

// Shapiro–Wilk coefficients (Royston 1995, algorithm AS R94).
var (
	swC1 = []float64{0, 0.221157, -0.147981, -2.07119, 4.434685, -2.706056}
	swC2 = []float64{0, 0.042981, -0.293762, -1.752461, 5.682633, -3.582633}
	swC3 = []float64{0.544, -0.39978, 0.025054, -6.714e-4}
	swC4 = []float64{1.3822, -0.77857, 0.062767, -0.0020322}
	swC5 = []float64{-1.5861, -0.31082, -0.083751, 0.0038915}
	swC6 = []float64{-0.4803, -0.082676, 0.0030302}
	swG  = []float64{-2.273, 0.459}
)

// poly evaluates c[0] + c[1]x + c[2]x² + ...
func poly(c []float64, x float64) float64 {
	v := 0.0
	for i := len(c) - 1; i >= 0; i-- {
		v = v*x + c[i]
	}
	return v
}

// ShapiroWilk tests x for normality. It returns W and its p-value.
// The sample needs between 3 and 5000 values that are not all equal.
func ShapiroWilk(x []float64) (w, p float64, reason string) {
	n := len(x)
	switch {
	case n < 3:
		return 0, 0, "needs at least 3 observations"
	case n > 5000:
		return 0, 0, "more than 5000 observations"
	}
	sorted := append([]float64(nil), x...)
	sort.Float64s(sorted)
	if sorted[n-1]-sorted[0] < 1e-19*math.Max(1, math.Abs(sorted[0])) {
		return 0, 0, "all values are identical"
	}

	half := n / 2
	a := make([]float64, half)
	an := float64(n)
	if n == 3 {
		a[0] = math.Sqrt(0.5)
	} else {
		m := make([]float64, half)
		summ2 := 0.0
		for i := range m {
			m[i] = distuv.UnitNormal.Quantile((float64(i+1) - 0.375) / (an + 0.25))
			summ2 += m[i] * m[i]
		}
		summ2 *= 2
		ssumm2 := math.Sqrt(summ2)
		rsn := 1 / math.Sqrt(an)
		a1 := poly(swC1, rsn) - m[0]/ssumm2

		var fac float64
		first := 1
		if n > 5 {
			first = 2
			a2 := -m[1]/ssumm2 + poly(swC2, rsn)
			fac = math.Sqrt((summ2 - 2*m[0]*m[0] - 2*m[1]*m[1]) / (1 - 2*a1*a1 - 2*a2*a2))
			a[1] = a2
		} else {
			fac = math.Sqrt((summ2 - 2*m[0]*m[0]) / (1 - 2*a1*a1))
		}
		a[0] = a1
		for i := first; i < half; i++ {
			a[i] = -m[i] / fac
		}
	}

	// Antisymmetric coefficient vector over the order statistics.
	coef := make([]float64, n)
	for i := 0; i < half; i++ {
		coef[i] = -a[i]
		coef[n-1-i] = a[i]
	}
	r := stat.Correlation(coef, sorted, nil)
	w = r * r
	if w > 1 {
		w = 1
	}

	if n == 3 {
		const pi6, stqr = 6 / math.Pi, math.Pi / 3
		p = pi6 * (math.Asin(math.Sqrt(w)) - stqr)
		return w, math.Max(p, 0), ""
	}

	w1 := math.Log(1 - w)
	var mu, sigma float64
	if n <= 11 {
		gamma := poly(swG, an)
		if w1 >= gamma {
			return w, 1e-99, ""
		}
		w1 = -math.Log(gamma - w1)
		mu = poly(swC3, an)
		sigma = math.Exp(poly(swC4, an))
	} else {
		ln := math.Log(an)
		mu = poly(swC5, ln)
		sigma = math.Exp(poly(swC6, ln))
	}
	p = distuv.Normal{Mu: mu, Sigma: sigma}.Survival(w1)
	return w, p, ""
}

// Levene tests two groups for equal variances using deviations from the
// group medians (the Brown–Forsythe variant). It returns the F statistic
// and its p-value.
func Levene(a, b []float64) (f, p float64, reason string) {
	if len(a) < 2 || len(b) < 2 {
		return 0, 0, "needs at least 2 observations per group"
	}
	groups := [][]float64{absDeviations(a), absDeviations(b)}

	total := 0
	grand := 0.0
	means := make([]float64, len(groups))
	for i, z := range groups {
		means[i] = stat.Mean(z, nil)
		grand += floats.Sum(z)
		total += len(z)
	}
	grand /= float64(total)

	between, within := 0.0, 0.0
	for i, z := range groups {
		d := means[i] - grand
		between += float64(len(z)) * d * d
		for _, v := range z {
			e := v - means[i]
			within += e * e
		}
	}
	if within == 0 {
		return 0, 0, "zero variance within groups"
	}

	k := float64(len(groups))
	df1, df2 := k-1, float64(total)-k
	f = (df2 / df1) * between / within
	p = distuv.F{D1: df1, D2: df2}.Survival(f)
	return f, p, ""
}

func absDeviations(x []float64) []float64 {
	sorted := append([]float64(nil), x...)
	sort.Float64s(sorted)
	med := median(sorted)
	z := make([]float64, len(x))
	for i, v := range x {
		z[i] = math.Abs(v - med)
	}
	return z
}

// MannWhitneyU runs the two-sided Mann–Whitney U test. U is reported for
// the first sample.
//
// The exact null distribution is used when either sample has fewer than 8
// values and there are no ties. Otherwise the normal approximation with tie
// and continuity correction applies.
func MannWhitneyU(a, b []float64) (u, p float64, reason string) {
	n1, n2 := len(a), len(b)
	if n1 == 0 || n2 == 0 {
		return 0, 0, "both samples must be non-empty"
	}

	ranks, tieSum := rankAll(a, b)
	r1 := floats.Sum(ranks[:n1])
	u1 := r1 - float64(n1*(n1+1))/2
	u2 := float64(n1*n2) - u1
	big := math.Max(u1, u2)

	if (n1 < 8 || n2 < 8) && tieSum == 0 {
		p = 2 * exactUpperTail(n1, n2, big)
		return u1, math.Min(p, 1), ""
	}

	n := float64(n1 + n2)
	mu := float64(n1*n2) / 2
	variance := float64(n1*n2) / 12 * ((n + 1) - tieSum/(n*(n-1)))
	if variance <= 0 {
		return u1, 0, "all values are identical"
	}
	z := (big - mu - 0.5) / math.Sqrt(variance)
	p = 2 * distuv.UnitNormal.Survival(z)
	return u1, math.Min(p, 1), ""
}

// rankAll ranks the concatenation of a and b (average ranks for ties) and
// returns the ranks plus Σ(t³ - t) over tie groups.
func rankAll(a, b []float64) ([]float64, float64) {
	all := append(append([]float64(nil), a...), b...)
	idx := make([]int, len(all))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return all[idx[i]] < all[idx[j]] })

	ranks := make([]float64, len(all))
	tieSum := 0.0
	for i := 0; i < len(idx); {
		j := i + 1
		for j < len(idx) && all[idx[j]] == all[idx[i]] {
			j++
		}
		avg := float64(i+j+1) / 2
		for k := i; k < j; k++ {
			ranks[idx[k]] = avg
		}
		if t := float64(j - i); t > 1 {
			tieSum += t*t*t - t
		}
		i = j
	}
	return ranks, tieSum
}

// exactUpperTail returns P(U >= u) under the null hypothesis for sample
// sizes m and n, from the coefficients of the Gaussian binomial
// Π_{i=1..m} (1 - q^(n+i)) / (1 - q^i).
func exactUpperTail(m, n int, u float64) float64 {
	if m > n {
		m, n = n, m
	}
	size := m*n + 1
	c := make([]float64, size)
	c[0] = 1
	for i := 1; i <= m; i++ {
		// multiply by (1 - q^(n+i))
		for k := size - 1; k >= n+i; k-- {
			c[k] -= c[k-n-i]
		}
		// divide by (1 - q^i)
		for k := i; k < size; k++ {
			c[k] += c[k-i]
		}
	}

	total := floats.Sum(c)
	start := int(math.Ceil(u - 1e-9))
	if start < 0 {
		start = 0
	}
	tail := 0.0
	for k := start; k < size; k++ {
		tail += c[k]
	}
	return tail / total
}

// EffectSize is Cliff's delta with its conventional magnitude label.
type EffectSize struct {
	Delta     float64
	Magnitude string
}

// CliffsDelta computes P(a > b) - P(a < b) over all pairs.
func CliffsDelta(a, b []float64) (EffectSize, string) {
	if len(a) == 0 || len(b) == 0 {
		return EffectSize{}, "both samples must be non-empty"
	}
	greater, less := 0, 0
	for _, x := range a {
		for _, y := range b {
			switch {
			case x > y:
				greater++
			case x < y:
				less++
			}
		}
	}
	d := float64(greater-less) / float64(len(a)*len(b))
	return EffectSize{Delta: d, Magnitude: CliffsMagnitude(d)}, ""
}

// CliffsMagnitude labels |d| with the thresholds 0.147, 0.33 and 0.474.
func CliffsMagnitude(d float64) string {
	switch ad := math.Abs(d); {
	case ad < 0.147:
		return "negligible"
	case ad < 0.33:
		return "small"
	case ad < 0.474:
		return "medium"
	default:
		return "large"
	}
}

// Battery is the fixed sequence of tests run on two groups.
type Battery struct {
	GroupA  Sample
	GroupB  Sample
	Alpha   float64
	Policy  string
	Results []TestResult
	Effect  *EffectSize
}

// RunBattery runs, in order: Shapiro–Wilk on each group, Levene on both,
// the Mann–Whitney U comparison and Cliff's delta. Group A is the baseline:
// U is reported for A, and Cliff's delta measures B relative to A. A test
// that cannot be computed is recorded with its reason; the battery always
// completes.
func RunBattery(groupA, groupB Sample, alpha float64) Battery {
	if alpha <= 0 || alpha >= 1 {
		alpha = DefaultAlpha
	}
	bat := Battery{GroupA: groupA, GroupB: groupB, Alpha: alpha, Policy: ComparisonPolicy}
	pair := groupA.Label + " vs " + groupB.Label

	for _, g := range []Sample{groupA, groupB} {
		if w, p, reason := ShapiroWilk(g.Values); reason != "" {
			bat.Results = append(bat.Results, failed(NameShapiroWilk, g.Label, alpha, reason))
		} else {
			bat.Results = append(bat.Results, decided(NameShapiroWilk, g.Label, alpha, w, p, "non-normal", "normal"))
		}
	}

	if f, p, reason := Levene(groupA.Values, groupB.Values); reason != "" {
		bat.Results = append(bat.Results, failed(NameLevene, pair, alpha, reason))
	} else {
		bat.Results = append(bat.Results, decided(NameLevene, pair, alpha, f, p, "unequal variances", "equal variances"))
	}

	if u, p, reason := MannWhitneyU(groupA.Values, groupB.Values); reason != "" {
		bat.Results = append(bat.Results, failed(NameMannWhitneyU, pair, alpha, reason))
	} else {
		bat.Results = append(bat.Results, decided(NameMannWhitneyU, pair, alpha, u, p, "significant difference", "no significant difference"))
	}

	effectPair := groupB.Label + " vs " + groupA.Label
	if es, reason := CliffsDelta(groupB.Values, groupA.Values); reason != "" {
		bat.Results = append(bat.Results, failed(NameCliffsDelta, effectPair, alpha, reason))
	} else {
		d := es.Delta
		bat.Effect = &es
		bat.Results = append(bat.Results, TestResult{
			Name: NameCliffsDelta, Group: effectPair, Statistic: &d, Alpha: alpha, Decision: es.Magnitude,
		})
	}
	return bat
}

// SplitByMediaType returns the metric values of screen and non-screen
// documents, in that order.
func SplitByMediaType(docs []*Document, metric Metric) (screen, nonScreen Sample) {
	screen.Label, nonScreen.Label = Screen.String(), NonScreen.String()
	for _, d := range docs {
		v := metric.Value(d.Metrics)
		if d.MediaType == Screen {
			screen.Values = append(screen.Values, v)
		} else {
			nonScreen.Values = append(nonScreen.Values, v)
		}
	}
	return screen, nonScreen
}

// SplitByPeriods returns the metric values of documents in periods p1
// and p2.
func SplitByPeriods(docs []*Document, metric Metric, p1, p2 Period) (Sample, Sample) {
	a := Sample{Label: p1.String()}
	b := Sample{Label: p2.String()}
	for _, d := range docs {
		switch d.Period {
		case p1:
			a.Values = append(a.Values, metric.Value(d.Metrics))
		case p2:
			b.Values = append(b.Values, metric.Value(d.Metrics))
		}
	}
	return a, b
}
