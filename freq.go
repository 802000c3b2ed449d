package senticorpus

import "sort"

// DefaultFrequencyTags are the tags counted by a TermCounter unless others
// are given: common nouns, verbs, adjectives and general adverbs.
var DefaultFrequencyTags = []string{TagCommonNoun, TagVerb, TagAdjective, TagAdverb}

// DefaultFrequencyTop is the number of rows in a frequency table.
const DefaultFrequencyTop = 200

// TermFrequency is the number of occurrences of one (form, tag) pair.
// Form is the dictionary form of the morpheme.
type TermFrequency struct {
	Form  string
	Tag   string
	Count int
}

// TermCounter accumulates morpheme counts for a fixed set of tags.
type TermCounter struct {
	tags   map[string]bool
	counts map[TermFrequency]int
}

// NewTermCounter counts tokens whose tag is exactly one of tags, or one of
// DefaultFrequencyTags when none are given.
func NewTermCounter(tags ...string) *TermCounter {
	if len(tags) == 0 {
		tags = DefaultFrequencyTags
	}
	c := &TermCounter{tags: make(map[string]bool, len(tags)), counts: make(map[TermFrequency]int)}
	for _, t := range tags {
		c.tags[t] = true
	}
	return c
}

// Add counts the matching tokens of one document.
func (c *TermCounter) Add(tokens []Token) {
	for _, tok := range tokens {
		if !c.tags[tok.Tag] {
			continue
		}
		c.counts[TermFrequency{Form: tok.DictionaryForm(), Tag: tok.Tag}]++
	}
}

// Len returns the number of distinct (form, tag) pairs seen.
func (c *TermCounter) Len() int {
	return len(c.counts)
}

// Top returns the n most frequent pairs ordered by count (descending), then
// form, then tag. A negative n returns every pair.
func (c *TermCounter) Top(n int) []TermFrequency {
	out := make([]TermFrequency, 0, len(c.counts))
	for k, v := range c.counts {
		k.Count = v
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if a.Form != b.Form {
			return a.Form < b.Form
		}
		return a.Tag < b.Tag
	})
	if n >= 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// CountTerms counts the tokens of every document.
func CountTerms(docs []*Document, tags ...string) *TermCounter {
	c := NewTermCounter(tags...)
	for _, d := range docs {
		c.Add(d.tokens)
	}
	return c
}
