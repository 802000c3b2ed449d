package report

import (
	"image/color"
	"os"
	"sort"

	"github.com/pkg/errors"
	"golang.org/x/image/font/opentype"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/mediasenti/senticorpus"
)

// LoadFont registers a TrueType/OpenType font file as the default font of
// every chart drawn afterwards. Charts with Hangul labels need a font that
// covers Hangul syllables.
func LoadFont(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read font")
	}
	face, err := opentype.Parse(data)
	if err != nil {
		return errors.Wrapf(err, "parse font %s", path)
	}
	fnt := font.Font{Typeface: "senticorpus"}
	font.DefaultCache.Add(font.Collection{{Font: fnt, Face: face}})
	plot.DefaultFont = fnt
	plotter.DefaultFont = fnt
	return nil
}

func (w *Writer) save(p *plot.Plot, width, height vg.Length, name string) error {
	if err := p.Save(width, height, w.path(name)); err != nil {
		return errors.Wrapf(err, "save %s", name)
	}
	w.wrote(name)
	return nil
}

// WriteBoxplot draws one box per non-empty sample.
func (w *Writer) WriteBoxplot(title, yLabel string, samples ...senticorpus.Sample) error {
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = yLabel

	var names []string
	for _, s := range samples {
		if len(s.Values) == 0 {
			continue
		}
		box, err := plotter.NewBoxPlot(vg.Points(40), float64(len(names)), plotter.Values(s.Values))
		if err != nil {
			return errors.Wrapf(err, "boxplot of %s", s.Label)
		}
		p.Add(box)
		names = append(names, s.Label)
	}
	if len(names) == 0 {
		return errors.New("boxplot: no data")
	}
	p.NominalX(names...)
	return w.save(p, 6*vg.Inch, 4*vg.Inch, BoxplotFile)
}

// WriteQQPlot plots the sorted sample against standard normal quantiles,
// with the least-squares reference line.
func (w *Writer) WriteQQPlot(s senticorpus.Sample) error {
	n := len(s.Values)
	if n < 2 {
		return errors.Errorf("q-q plot of %s: needs at least 2 values", s.Label)
	}
	sorted := append([]float64(nil), s.Values...)
	sort.Float64s(sorted)

	theoretical := make([]float64, n)
	pts := make(plotter.XYs, n)
	for i, v := range sorted {
		q := distuv.UnitNormal.Quantile((float64(i+1) - 0.375) / (float64(n) + 0.25))
		theoretical[i] = q
		pts[i] = plotter.XY{X: q, Y: v}
	}
	intercept, slope := stat.LinearRegression(theoretical, sorted, nil, false)

	p := plot.New()
	p.Title.Text = "Q-Q Plot: " + s.Label
	p.X.Label.Text = "Theoretical quantiles"
	p.Y.Label.Text = "Ordered values"

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return errors.Wrapf(err, "q-q plot of %s", s.Label)
	}
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}
	line := plotter.NewFunction(func(x float64) float64 { return intercept + slope*x })
	line.Color = color.RGBA{R: 200, A: 255}
	p.Add(scatter, line)
	return w.save(p, 6*vg.Inch, 4*vg.Inch, QQPlotFile(s.Label))
}

// termGrid adapts a TermMatrix to plotter.GridXYZ: columns are terms, rows
// are periods.
type termGrid struct {
	m *senticorpus.TermMatrix
}

func (g termGrid) Dims() (c, r int)   { return len(g.m.Terms), len(g.m.Periods) }
func (g termGrid) Z(c, r int) float64 { return g.m.At(r, c) }
func (g termGrid) X(c int) float64    { return float64(c) }
func (g termGrid) Y(r int) float64    { return float64(r) }

// WriteHeatmap draws a period × term matrix.
func (w *Writer) WriteHeatmap(title string, m *senticorpus.TermMatrix) error {
	if m.Values == nil || len(m.Terms) == 0 || len(m.Periods) == 0 {
		return errors.New("heatmap: empty matrix")
	}
	grid := termGrid{m: m}
	h := plotter.NewHeatMap(grid, palette.Heat(12, 1))
	if h.Min == h.Max {
		h.Min, h.Max = h.Min-1, h.Max+1
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Words"
	p.Y.Label.Text = "Period"
	p.Add(h)
	p.NominalX(m.Terms...)
	labels := make([]string, len(m.Periods))
	for i, per := range m.Periods {
		labels[i] = per.String()
	}
	p.NominalY(labels...)
	p.X.Tick.Label.Rotation = 0.8
	p.X.Tick.Label.XAlign = draw.XRight

	width := vg.Length(len(m.Terms))*0.6*vg.Inch + 2*vg.Inch
	return w.save(p, width, 6*vg.Inch, HeatmapFile)
}

// WriteAverageSentiment draws the mean polarity of sentiment words per
// media type.
func (w *Writer) WriteAverageSentiment(words []senticorpus.SentimentWord) error {
	var (
		names  []string
		values plotter.Values
	)
	for _, mt := range senticorpus.MediaTypes {
		var pol []float64
		for _, sw := range words {
			if sw.MediaType == mt {
				pol = append(pol, float64(sw.Polarity))
			}
		}
		if len(pol) == 0 {
			continue
		}
		names = append(names, mt.String())
		values = append(values, stat.Mean(pol, nil))
	}
	if len(values) == 0 {
		return errors.New("average sentiment: no sentiment words")
	}

	bars, err := plotter.NewBarChart(values, vg.Points(40))
	if err != nil {
		return errors.Wrap(err, "average sentiment")
	}
	bars.Color = color.RGBA{R: 102, G: 194, B: 165, A: 255}
	zero := plotter.NewFunction(func(float64) float64 { return 0 })
	zero.Color = color.Gray{Y: 128}
	zero.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}

	p := plot.New()
	p.Title.Text = "Average Sentiment Score by Type"
	p.X.Label.Text = "Type"
	p.Y.Label.Text = "Average Sentiment Score"
	p.Add(bars, zero)
	p.NominalX(names...)
	return w.save(p, 8*vg.Inch, 5*vg.Inch, AverageSentimentFile)
}
