package senticorpus

import (
	"strings"

	"github.com/bbalet/stopwords"
	"golang.org/x/text/unicode/norm"
)

// DefaultExcludedTerms are dropped from TF-IDF vocabularies unless the
// caller supplies its own list: the search keyword itself and the
// ubiquitous light verb.
var DefaultExcludedTerms = []string{"미혼모", "하다"}

// StopwordFilter decides whether a term is excluded from a vocabulary.
//
// A term is a stopword when it is in the custom list or when the stopword
// list of the configured language (ISO 639-1) removes it. Korean terms
// are only caught by the custom list; the language list removes function
// words of foreign-script tokens.
type StopwordFilter struct {
	langCode string
	custom   map[string]struct{}
}

// NewStopwordFilter creates a filter from custom terms and a language code.
// An empty langCode disables the language list.
func NewStopwordFilter(langCode string, custom ...string) *StopwordFilter {
	f := &StopwordFilter{langCode: langCode, custom: make(map[string]struct{}, len(custom))}
	for _, w := range custom {
		w = norm.NFC.String(strings.TrimSpace(w))
		if w != "" {
			f.custom[w] = struct{}{}
		}
	}
	return f
}

// IsStopword reports whether term should be excluded.
func (f *StopwordFilter) IsStopword(term string) bool {
	if f == nil {
		return false
	}
	if _, ok := f.custom[term]; ok {
		return true
	}
	if f.langCode == "" {
		return false
	}
	// The library reports stopwords by removing them from the input.
	cleaned := stopwords.CleanString(term, f.langCode, false)
	return strings.TrimSpace(cleaned) == ""
}

// Terms returns the custom terms in no particular order.
func (f *StopwordFilter) Terms() []string {
	out := make([]string, 0, len(f.custom))
	for w := range f.custom {
		out = append(out, w)
	}
	return out
}
