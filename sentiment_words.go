package senticorpus

import "sort"

// SentimentWords lists every sentiment token of a document in token order.
func (s *SentimentScorer) SentimentWords(docID string, media MediaType, tokens []Token) []SentimentWord {
	var out []SentimentWord
	for i, tok := range tokens {
		polarity, ok := s.polarity(tok)
		if !ok {
			continue
		}
		out = append(out, SentimentWord{
			DocumentID: docID,
			MediaType:  media,
			Word:       tok.DictionaryForm(),
			Polarity:   polarity,
			Position:   i,
		})
	}
	return out
}

// SentimentWordCount is the number of occurrences of one sentiment word
// within one media type.
type SentimentWordCount struct {
	MediaType MediaType
	Word      string
	Polarity  int
	Count     int
}

// CountSentimentWords tallies records by media type and word. The result is
// ordered by media type, then count (descending), then word.
func CountSentimentWords(words []SentimentWord) []SentimentWordCount {
	type key struct {
		media MediaType
		word  string
	}
	index := make(map[key]int)
	var out []SentimentWordCount
	for _, w := range words {
		k := key{w.MediaType, w.Word}
		if i, ok := index[k]; ok {
			out[i].Count++
			continue
		}
		index[k] = len(out)
		out = append(out, SentimentWordCount{MediaType: w.MediaType, Word: w.Word, Polarity: w.Polarity, Count: 1})
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.MediaType != b.MediaType {
			return a.MediaType < b.MediaType
		}
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Word < b.Word
	})
	return out
}
