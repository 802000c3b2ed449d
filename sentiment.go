package senticorpus

// SentimentScorer computes lexicon-based sentiment metrics for documents.
// It is stateless apart from the read-only lexicon and safe to share.
type SentimentScorer struct {
	lexicon *Lexicon
}

// NewSentimentScorer creates a scorer backed by lex. A nil lexicon scores
// every token as neutral.
func NewSentimentScorer(lex *Lexicon) *SentimentScorer {
	return &SentimentScorer{lexicon: lex}
}

// Score computes the DocumentMetrics of a token sequence.
//
// A token is a sentiment token when its dictionary form is in the lexicon
// with a non-zero polarity. Neutral entries count toward TotalTokens only.
func (s *SentimentScorer) Score(tokens []Token) DocumentMetrics {
	m := DocumentMetrics{TotalTokens: len(tokens)}

	sum := 0
	for _, tok := range tokens {
		polarity, ok := s.polarity(tok)
		if !ok {
			continue
		}
		sum += polarity
		m.SentimentTokens++
		if polarity > 0 {
			m.PositiveCount++
		} else {
			m.NegativeCount++
		}
	}

	if m.SentimentTokens > 0 {
		m.MeanScore = float64(sum) / float64(m.SentimentTokens)
	}
	if m.TotalTokens > 0 {
		m.SentimentRatio = 100 * float64(m.SentimentTokens) / float64(m.TotalTokens)
	}
	return m
}

// ScoreDocument is shorthand for s.Score(doc.Tokens()).
func (s *SentimentScorer) ScoreDocument(doc *Document) DocumentMetrics {
	return s.Score(doc.tokens)
}

// polarity returns the non-zero polarity of tok, if any.
func (s *SentimentScorer) polarity(tok Token) (int, bool) {
	p, ok := s.lexicon.Polarity(tok.DictionaryForm())
	if !ok || p == 0 {
		return 0, false
	}
	return p, true
}
