package senticorpus

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// A DocOpt represents a setting that changes the document creation process.
//
// For example, it might switch to pre-analysed input:
//
//    doc, err := senticorpus.NewDocument("a1", "...", senticorpus.UsingTokenizer(senticorpus.NewTaggedTokenizer()))
type DocOpt func(doc *Document, opts *DocOpts)

// DocOpts controls the Document creation process:
type DocOpts struct {
	Tokenizer Tokenizer       // Tokenizer to use
	Context   context.Context // Context for cancellation
}

// UsingTokenizer specifies the Tokenizer to use.
func UsingTokenizer(include Tokenizer) DocOpt {
	return func(doc *Document, opts *DocOpts) {
		opts.Tokenizer = include
	}
}

// WithContext sets the context for document processing
func WithContext(ctx context.Context) DocOpt {
	return func(doc *Document, opts *DocOpts) {
		opts.Context = ctx
	}
}

// WithPeriod sets the historical period of the article.
func WithPeriod(p Period) DocOpt {
	return func(doc *Document, opts *DocOpts) {
		doc.Period = p
	}
}

// WithMediaType sets the media category of the article.
func WithMediaType(m MediaType) DocOpt {
	return func(doc *Document, opts *DocOpts) {
		doc.MediaType = m
	}
}

// WithYear sets the publication year. Zero means unknown.
func WithYear(year int) DocOpt {
	return func(doc *Document, opts *DocOpts) {
		doc.Year = year
	}
}

// DocumentMetadata holds processing facts about a document. The pipeline
// totals them into the run manifest.
type DocumentMetadata struct {
	TokenCount     int
	SentenceCount  int
	ProcessingTime time.Duration // time spent tokenising
}

// A Document represents one tokenised article.
type Document struct {
	ID        string
	Text      string
	Year      int
	Period    Period
	MediaType MediaType
	Metrics   DocumentMetrics // set by the sentiment stage
	Metadata  DocumentMetadata

	tokens []Token
}

// Tokens returns `doc`'s tokens.
func (doc *Document) Tokens() []Token {
	tokens := make([]Token, len(doc.tokens))
	copy(tokens, doc.tokens)
	return tokens
}

// NewDocument tokenises text and returns the Document.
//
// For example,
//
//    doc, err := senticorpus.NewDocument("a1", "...", senticorpus.WithPeriod(senticorpus.Period1988))
func NewDocument(id, text string, opts ...DocOpt) (*Document, error) {
	startTime := time.Now()

	doc := Document{
		ID:   id,
		Text: text,
	}

	base := DocOpts{Context: context.Background()}
	for _, applyOpt := range opts {
		applyOpt(&doc, &base)
	}
	if base.Tokenizer == nil {
		base.Tokenizer = defaultTokenizer()
	}

	select {
	case <-base.Context.Done():
		return nil, base.Context.Err()
	default:
	}

	toks, err := base.Tokenizer.Tokenize(text)
	if err != nil {
		var terr *TokenizationError
		if errors.As(err, &terr) && terr.DocumentID == "" {
			terr.DocumentID = id
		}
		return nil, err
	}
	doc.tokens = toks
	doc.Metadata.TokenCount = len(toks)
	if n := len(toks); n > 0 {
		doc.Metadata.SentenceCount = toks[n-1].Sentence + 1
	}

	doc.Metadata.ProcessingTime = time.Since(startTime)
	return &doc, nil
}

var (
	surfaceOnce      sync.Once
	surfaceTokenizer Tokenizer
)

func defaultTokenizer() Tokenizer {
	surfaceOnce.Do(func() {
		surfaceTokenizer = NewIterTokenizer()
	})
	return surfaceTokenizer
}
