package pipeline

import (
	"go.uber.org/zap"

	"github.com/mediasenti/senticorpus"
	"github.com/mediasenti/senticorpus/internal/config"
	"github.com/mediasenti/senticorpus/report"
)

// stopwordLanguage drives the library stopword list applied to
// foreign-script terms on top of the configured exclusions.
const stopwordLanguage = "en"

func (st *run) sentiment() error {
	st.score()

	if err := st.out.WriteDocuments(st.docs); err != nil {
		return err
	}

	var groups []senticorpus.GroupSummary
	for _, m := range senticorpus.Metrics {
		groups = append(groups, senticorpus.Aggregate(st.docs, m)...)
		groups = append(groups, senticorpus.AggregateByPeriod(st.docs, m)...)
		groups = append(groups, senticorpus.AggregateByType(st.docs, m)...)
	}
	if err := st.out.WriteGroupSummary(groups); err != nil {
		return err
	}
	if err := st.out.WriteSentimentWords(st.words); err != nil {
		return err
	}

	metric, _ := senticorpus.ParseMetric(st.cfg.Stats.Metric)
	if err := st.out.WriteSummaryWorkbook(metric, senticorpus.AggregateByType(st.docs, metric), st.docs); err != nil {
		return err
	}

	if st.cfg.Output.Charts {
		if len(st.words) == 0 {
			st.log.Warn("no sentiment words, average sentiment chart skipped")
			return nil
		}
		return st.out.WriteAverageSentiment(st.words)
	}
	return nil
}

func (st *run) tfidf() error {
	c := st.cfg.TFIDF
	vec := senticorpus.NewVectorizer(
		senticorpus.WithStopwords(senticorpus.NewStopwordFilter(stopwordLanguage, c.Exclude...)),
		senticorpus.WithMinTermRunes(c.MinTermLength),
		senticorpus.WithNormalization(c.Normalize))
	res, err := vec.FitTransform(st.docs)
	if err != nil {
		return err
	}
	scope, _ := senticorpus.ParseZScope(c.ZScoreScope)
	top := res.TopTerms(c.TopN)
	st.log.Info("vocabulary built", zap.Int("terms", len(res.Terms)), zap.Strings("top", top))

	means := res.PeriodMeans().Select(top)
	sums := res.PeriodSums().Select(top)
	meanZ := senticorpus.ZScores(means, scope)

	for _, t := range []struct {
		name string
		m    *senticorpus.TermMatrix
	}{
		{report.MeanTFIDFFile, means},
		{report.MeanZScoreFile, meanZ},
		{report.SumTFIDFFile, sums},
		{report.SumZScoreFile, senticorpus.ZScores(sums, scope)},
	} {
		if err := st.out.WriteTermMatrix(t.name, t.m); err != nil {
			return err
		}
	}

	if st.cfg.Output.Charts {
		return st.out.WriteHeatmap("Mean TF-IDF z-scores ("+scope.String()+")", meanZ)
	}
	return nil
}

func (st *run) freq() error {
	docs := st.docs
	// The surface tokenizer counts Hangul words only, so other scripts are
	// blanked before counting. Analyser output keeps its tags intact.
	if st.cfg.Tokenizer.Kind == senticorpus.TokenizerSurface {
		docs = make([]*senticorpus.Document, 0, len(st.docs))
		for _, d := range st.docs {
			cleaned, err := senticorpus.NewDocument(d.ID, senticorpus.CleanHangul(d.Text),
				senticorpus.UsingTokenizer(st.tok),
				senticorpus.WithPeriod(d.Period),
				senticorpus.WithMediaType(d.MediaType))
			if err != nil {
				st.log.Warn("skipping document in frequency count", zap.String("id", d.ID), zap.Error(err))
				continue
			}
			docs = append(docs, cleaned)
		}
	}

	counter := senticorpus.CountTerms(docs, st.cfg.Freq.Tags...)
	st.log.Info("terms counted", zap.Int("distinct", counter.Len()))
	return st.out.WriteWordFrequency(counter.Top(st.cfg.Freq.TopN))
}

func (st *run) stats() error {
	st.score()
	metric, _ := senticorpus.ParseMetric(st.cfg.Stats.Metric)

	var a, b senticorpus.Sample
	if st.cfg.Stats.Split == config.SplitPeriod {
		p1, p2, err := st.cfg.ComparedPeriods()
		if err != nil {
			return err
		}
		a, b = senticorpus.SplitByPeriods(st.docs, metric, p1, p2)
	} else {
		screen, nonScreen := senticorpus.SplitByMediaType(st.docs, metric)
		a, b = nonScreen, screen
	}

	bat := senticorpus.RunBattery(a, b, st.cfg.Stats.Alpha)
	st.battery = &bat
	for _, r := range bat.Results {
		if r.Failed() {
			st.log.Warn("test not computed", zap.String("test", r.Name), zap.String("group", r.Group), zap.String("reason", r.Reason))
		}
	}
	if err := st.out.WriteTests(metric, bat); err != nil {
		return err
	}

	if !st.cfg.Output.Charts {
		return nil
	}
	if len(a.Values) > 0 || len(b.Values) > 0 {
		if err := st.out.WriteBoxplot(metric.String()+": "+a.Label+" vs "+b.Label, metric.String(), a, b); err != nil {
			return err
		}
	}
	for _, s := range []senticorpus.Sample{a, b} {
		if len(s.Values) < 2 {
			st.log.Warn("q-q plot skipped", zap.String("group", s.Label), zap.Int("n", len(s.Values)))
			continue
		}
		if err := st.out.WriteQQPlot(s); err != nil {
			return err
		}
	}
	return nil
}
