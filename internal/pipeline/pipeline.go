// Package pipeline runs the analysis stages over a corpus and writes
// their results with the report package.
package pipeline

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mediasenti/senticorpus"
	"github.com/mediasenti/senticorpus/internal/config"
	"github.com/mediasenti/senticorpus/report"
)

// Stage names one batch run.
type Stage string

const (
	StageSentiment Stage = "sentiment"
	StageTFIDF     Stage = "tfidf"
	StageFreq      Stage = "freq"
	StageStats     Stage = "stats"
	StageRun       Stage = "run" // every stage above, in order
)

// Stages lists the individual stages in the order StageRun executes them.
var Stages = []Stage{StageSentiment, StageTFIDF, StageFreq, StageStats}

// ParseStage resolves a stage name.
func ParseStage(name string) (Stage, error) {
	s := Stage(strings.ToLower(strings.TrimSpace(name)))
	if s == StageRun {
		return s, nil
	}
	for _, st := range Stages {
		if s == st {
			return s, nil
		}
	}
	return "", errors.Errorf("unknown stage %q", name)
}

func (s Stage) needsLexicon() bool {
	return s == StageSentiment || s == StageStats || s == StageRun
}

// Result summarises a finished run.
type Result struct {
	RunID     string
	Stage     Stage
	Documents int
	Skipped   int
	Files     []string
	Battery   *senticorpus.Battery // set by the stats stage
}

// Runner executes stages with one configuration.
type Runner struct {
	cfg    config.Config
	logger *zap.Logger
	now    func() time.Time
}

// New returns a Runner. A nil logger discards log output.
func New(cfg config.Config, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{cfg: cfg, logger: logger, now: time.Now}
}

// run holds the state shared by the stages of one invocation.
type run struct {
	*Runner
	id      string
	log     *zap.Logger
	tok     senticorpus.Tokenizer
	corpus  *senticorpus.Corpus
	docs    []*senticorpus.Document
	lexicon *senticorpus.Lexicon
	words   []senticorpus.SentimentWord
	scored  bool
	out     *report.Writer
	battery *senticorpus.Battery
}

// Run executes stage. Corpus-level failures (bad configuration, missing
// lexicon, unreadable or empty corpus) are returned; documents that fail
// to tokenise are skipped and logged.
func (r *Runner) Run(ctx context.Context, stage Stage) (*Result, error) {
	if _, err := ParseStage(string(stage)); err != nil {
		return nil, err
	}
	if err := r.cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	if stage.needsLexicon() {
		if err := r.cfg.RequireLexicon(); err != nil {
			return nil, errors.Wrap(err, "invalid configuration")
		}
	}

	started := r.now()
	st := &run{Runner: r, id: uuid.NewString()}
	st.log = r.logger.With(zap.String("run_id", st.id), zap.String("stage", string(stage)))
	st.log.Info("run started", zap.String("input", r.cfg.Input.Path))

	if err := st.prepare(ctx, stage); err != nil {
		return nil, err
	}

	stages := []Stage{stage}
	if stage == StageRun {
		stages = Stages
	}
	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t := r.now()
		if err := st.execute(s); err != nil {
			return nil, errors.Wrapf(err, "stage %s", s)
		}
		st.log.Info("stage finished", zap.String("name", string(s)), zap.Duration("took", r.now().Sub(t)))
	}

	m := report.Manifest{
		RunID:      st.id,
		Stage:      string(stage),
		Input:      r.cfg.Input.Path,
		Lexicon:    r.cfg.Lexicon.Path,
		StartedAt:  started,
		FinishedAt: r.now(),
		Documents:  len(st.docs),
		Settings:   r.settings(),
	}
	var tokenize time.Duration
	for _, d := range st.docs {
		m.Tokens += d.Metadata.TokenCount
		m.Sentences += d.Metadata.SentenceCount
		tokenize += d.Metadata.ProcessingTime
	}
	m.TokenizeMs = tokenize.Milliseconds()
	for _, sk := range st.corpus.Skipped {
		m.Skipped = append(m.Skipped, report.SkippedEntry{Row: sk.Row, ID: sk.ID, Reason: sk.Reason})
	}
	if err := st.out.WriteManifest(m); err != nil {
		return nil, err
	}

	st.log.Info("run finished",
		zap.Int("documents", len(st.docs)),
		zap.Int("skipped", len(st.corpus.Skipped)),
		zap.Int("files", len(st.out.Files())))
	return &Result{
		RunID:     st.id,
		Stage:     stage,
		Documents: len(st.docs),
		Skipped:   len(st.corpus.Skipped),
		Files:     st.out.Files(),
		Battery:   st.battery,
	}, nil
}

func (r *Runner) settings() map[string]string {
	c := r.cfg
	return map[string]string{
		"tokenizer":       c.Tokenizer.Kind,
		"tfidf.top_n":     strconv.Itoa(c.TFIDF.TopN),
		"tfidf.exclude":   strings.Join(c.TFIDF.Exclude, ","),
		"tfidf.normalize": strconv.FormatBool(c.TFIDF.Normalize),
		"tfidf.zscore":    c.TFIDF.ZScoreScope,
		"stats.metric":    c.Stats.Metric,
		"stats.alpha":     strconv.FormatFloat(c.Stats.Alpha, 'f', -1, 64),
		"stats.split":     c.Stats.Split,
		"stats.policy":    senticorpus.ComparisonPolicy,
		"freq.top_n":      strconv.Itoa(c.Freq.TopN),
	}
}

// surfaceLexiconWarning is logged when lexicon scores come from the surface
// tokenizer, which tags whole Hangul words (particles attached) as nouns.
const surfaceLexiconWarning = "surface tokenizer scores whole words, not morphemes"

// prepare loads the fatal resources first, then the corpus and its
// documents.
func (st *run) prepare(ctx context.Context, stage Stage) error {
	c := st.cfg
	if stage.needsLexicon() {
		lex, err := senticorpus.LoadLexicon(c.Lexicon.Path, senticorpus.WithLexiconLogger(st.log))
		if err != nil {
			return err
		}
		st.lexicon = lex
		st.log.Info("lexicon loaded", zap.String("path", c.Lexicon.Path), zap.Int("entries", lex.Len()))
	}

	var tcfg senticorpus.TokenizerConfig
	if c.Tokenizer.UserWords != "" {
		words, err := senticorpus.LoadUserWords(c.Tokenizer.UserWords)
		if err != nil {
			return err
		}
		tcfg.UserWords = words
	}
	tok, err := senticorpus.NewTokenizer(c.Tokenizer.Kind, tcfg)
	if err != nil {
		return err
	}
	st.tok = tok
	if stage.needsLexicon() && strings.EqualFold(strings.TrimSpace(c.Tokenizer.Kind), senticorpus.TokenizerSurface) {
		st.log.Warn(surfaceLexiconWarning,
			zap.String("hint", "use tokenizer.kind=tagged on morpheme analyser output"),
			zap.Int("user_words", len(tcfg.UserWords)))
	}

	if c.Output.Charts && c.Report.FontFile != "" {
		if err := report.LoadFont(c.Report.FontFile); err != nil {
			return err
		}
	}

	corpus, err := senticorpus.LoadCorpus(c.Input.Path,
		senticorpus.WithSheet(c.Input.Sheet),
		senticorpus.WithColumns(c.Input.Columns.Corpus()),
		senticorpus.WithCorpusLogger(st.log))
	if err != nil {
		return err
	}
	st.corpus = corpus

	docs, err := corpus.Documents(ctx, tok)
	if err != nil {
		return err
	}
	st.docs = docs

	out, err := report.NewWriter(c.Output.Dir, report.WithLogger(st.log))
	if err != nil {
		return err
	}
	st.out = out
	return nil
}

func (st *run) execute(s Stage) error {
	switch s {
	case StageSentiment:
		return st.sentiment()
	case StageTFIDF:
		return st.tfidf()
	case StageFreq:
		return st.freq()
	case StageStats:
		return st.stats()
	}
	return errors.Errorf("unknown stage %q", s)
}

// score fills Document.Metrics and collects the lexicon hits once per run.
func (st *run) score() {
	if st.scored {
		return
	}
	scorer := senticorpus.NewSentimentScorer(st.lexicon)
	for _, d := range st.docs {
		d.Metrics = scorer.ScoreDocument(d)
		st.words = append(st.words, scorer.SentimentWords(d.ID, d.MediaType, d.Tokens())...)
	}
	st.scored = true
}
