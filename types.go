package senticorpus

import "strings"

// A Token represents an individual morpheme produced by a Tokenizer.
type Token struct {
	Text     string // The morpheme's surface form.
	Tag      string // The morpheme's part-of-speech tag (Sejong tag set).
	Sentence int    // Index of the sentence the token belongs to.
	Start    int    // Start position in original text
	End      int    // End position in original text
}

// DictionaryForm returns the form used for lexicon and vocabulary lookups.
//
// Verb and adjective stems (VV*, VA*) are cited with the ending "다", the
// way Korean dictionaries list them; every other token is its own text.
// The ending is appended even when the stem itself ends in 다.
func (t Token) DictionaryForm() string {
	if t.IsPredicate() {
		return t.Text + "다"
	}
	return t.Text
}

// IsPredicate reports whether the token is a verb or adjective stem.
func (t Token) IsPredicate() bool {
	return strings.HasPrefix(t.Tag, "VV") || strings.HasPrefix(t.Tag, "VA")
}

// A Sentence represents a segmented portion of text.
type Sentence struct {
	Text  string // The sentence's text.
	Start int    // Start position in original text
	End   int    // End position in original text
}

// String returns the text content of the sentence
func (s Sentence) String() string {
	return s.Text
}

// Sejong part-of-speech tags the pipeline cares about.
const (
	TagCommonNoun  = "NNG"
	TagProperNoun  = "NNP"
	TagVerb        = "VV"
	TagAdjective   = "VA"
	TagAdverb      = "MAG"
	TagForeign     = "SL"
	TagHanja       = "SH"
	TagNumber      = "SN"
	TagTerminal    = "SF"
	TagOtherSymbol = "SW"
)

// MediaType is the coarse media category of an article.
type MediaType int

const (
	NonScreen MediaType = iota // straight articles (type codes 1 and 2)
	Screen                     // articles on screen media (type code 3)
)

// MediaTypes lists the media types in output order.
var MediaTypes = []MediaType{NonScreen, Screen}

// String returns the label written to output tables.
func (m MediaType) String() string {
	switch m {
	case NonScreen:
		return "non-screen"
	case Screen:
		return "screen"
	default:
		return "unknown"
	}
}

// DocumentMetrics holds the lexicon-based sentiment summary of one document.
//
// PositiveCount + NegativeCount always equals SentimentTokens, and
// SentimentTokens never exceeds TotalTokens.
type DocumentMetrics struct {
	TotalTokens     int
	SentimentTokens int
	PositiveCount   int
	NegativeCount   int
	MeanScore       float64 // mean polarity of sentiment tokens, 0 when there are none
	SentimentRatio  float64 // percentage of tokens carrying sentiment, in [0,100]
}

// SentimentWord records one lexicon hit inside a document.
type SentimentWord struct {
	DocumentID string
	MediaType  MediaType
	Word       string
	Polarity   int
	Position   int // token index within the document
}
