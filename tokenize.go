package senticorpus

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/neurosnap/sentences.v1"
	"gopkg.in/neurosnap/sentences.v1/english"
)

// A Tokenizer turns raw text into an ordered sequence of tagged morphemes.
// Empty text yields an empty sequence and no error.
type Tokenizer interface {
	Tokenize(text string) ([]Token, error)
}

// iterTokenizer is the surface fallback used when no analyzer output is
// available: it segments sentences, then splits each sentence into runs of
// one script and tags every run by script.
type iterTokenizer struct {
	segmenter    *sentences.DefaultSentenceTokenizer
	userWords    map[string]string
	maxUserRunes int
	segment      bool
}

type TokenizerOptFunc func(*iterTokenizer)

// UsingUserWords registers words the tokenizer must keep whole, with the tag
// to give them. A registered word at the start of a Hangul run is split off
// that run (longest match first).
func UsingUserWords(words map[string]string) TokenizerOptFunc {
	return func(tokenizer *iterTokenizer) {
		for w, tag := range words {
			w = norm.NFC.String(strings.TrimSpace(w))
			if w == "" {
				continue
			}
			tokenizer.userWords[w] = tag
			if n := utf8.RuneCountInString(w); n > tokenizer.maxUserRunes {
				tokenizer.maxUserRunes = n
			}
		}
	}
}

// UsingSegmentation can enable (the default) or disable sentence segmentation.
func UsingSegmentation(include bool) TokenizerOptFunc {
	return func(tokenizer *iterTokenizer) {
		tokenizer.segment = include
	}
}

// Constructor for default iterTokenizer
func NewIterTokenizer(opts ...TokenizerOptFunc) *iterTokenizer {
	tok := &iterTokenizer{
		userWords: make(map[string]string),
		segment:   true,
	}
	for _, applyOpt := range opts {
		applyOpt(tok)
	}
	if tok.segment {
		// The punkt model is embedded; a load failure leaves the text unsegmented.
		if seg, err := english.NewSentenceTokenizer(nil); err == nil {
			tok.segmenter = seg
		}
	}
	return tok
}

// Segment splits text into sentences. Offsets are byte offsets into the
// NFC-normalised text.
func (t *iterTokenizer) Segment(text string) []Sentence {
	text = norm.NFC.String(text)
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if t.segmenter == nil {
		return []Sentence{{Text: text, Start: 0, End: len(text)}}
	}

	var out []Sentence
	cursor := 0
	for _, s := range t.segmenter.Tokenize(text) {
		st := strings.TrimSpace(s.Text)
		if st == "" {
			continue
		}
		idx := strings.Index(text[cursor:], st)
		if idx < 0 {
			// The segmenter rewrote whitespace; keep the remainder as one sentence.
			break
		}
		start := cursor + idx
		out = append(out, Sentence{Text: st, Start: start, End: start + len(st)})
		cursor = start + len(st)
	}
	if rest := strings.TrimSpace(text[cursor:]); rest != "" {
		start := cursor + strings.Index(text[cursor:], rest)
		out = append(out, Sentence{Text: rest, Start: start, End: start + len(rest)})
	}
	return out
}

// Tokenize splits text into script runs. It never fails.
func (t *iterTokenizer) Tokenize(text string) ([]Token, error) {
	text = norm.NFC.String(text)
	var toks []Token
	for i, sent := range t.Segment(text) {
		toks = t.tokenizeSentence(sent, i, toks)
	}
	return toks, nil
}

type runeClass int

const (
	classSpace runeClass = iota
	classHangul
	classLatin
	classHan
	classDigit
	classLetter
	classPunct
)

func classify(r rune) runeClass {
	switch {
	case unicode.IsSpace(r):
		return classSpace
	case unicode.Is(unicode.Hangul, r):
		return classHangul
	case unicode.Is(unicode.Han, r):
		return classHan
	case unicode.IsDigit(r):
		return classDigit
	case r < unicode.MaxASCII && unicode.IsLetter(r):
		return classLatin
	case unicode.IsLetter(r):
		return classLetter
	default:
		return classPunct
	}
}

func (t *iterTokenizer) tokenizeSentence(sent Sentence, index int, toks []Token) []Token {
	s := sent.Text
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		class := classify(r)
		if class == classSpace {
			i += size
			continue
		}
		if class == classPunct {
			toks = append(toks, Token{Text: string(r), Tag: punctTag(r), Sentence: index,
				Start: sent.Start + i, End: sent.Start + i + size})
			i += size
			continue
		}
		j := i + size
		for j < len(s) {
			r2, size2 := utf8.DecodeRuneInString(s[j:])
			if classify(r2) != class {
				break
			}
			j += size2
		}
		if class == classHangul {
			toks = t.splitHangul(s[i:j], sent.Start+i, index, toks)
		} else {
			toks = append(toks, Token{Text: s[i:j], Tag: scriptTag(class), Sentence: index,
				Start: sent.Start + i, End: sent.Start + j})
		}
		i = j
	}
	return toks
}

// splitHangul peels registered user words off the front of a Hangul run.
func (t *iterTokenizer) splitHangul(run string, offset, index int, toks []Token) []Token {
	for run != "" {
		word, tag := t.longestUserWord(run)
		if word == "" {
			if tag, ok := t.userWords[run]; ok {
				return append(toks, Token{Text: run, Tag: tag, Sentence: index, Start: offset, End: offset + len(run)})
			}
			return append(toks, Token{Text: run, Tag: TagCommonNoun, Sentence: index, Start: offset, End: offset + len(run)})
		}
		toks = append(toks, Token{Text: word, Tag: tag, Sentence: index, Start: offset, End: offset + len(word)})
		offset += len(word)
		run = run[len(word):]
	}
	return toks
}

func (t *iterTokenizer) longestUserWord(run string) (string, string) {
	if len(t.userWords) == 0 {
		return "", ""
	}
	runes := []rune(run)
	n := t.maxUserRunes
	if n > len(runes) {
		n = len(runes)
	}
	for ; n > 0; n-- {
		prefix := string(runes[:n])
		if tag, ok := t.userWords[prefix]; ok {
			return prefix, tag
		}
	}
	return "", ""
}

func scriptTag(c runeClass) string {
	switch c {
	case classHangul:
		return TagCommonNoun
	case classHan:
		return TagHanja
	case classDigit:
		return TagNumber
	default:
		return TagForeign
	}
}

func punctTag(r rune) string {
	switch r {
	case '.', '?', '!', '。', '？', '！':
		return TagTerminal
	default:
		return TagOtherSymbol
	}
}

// taggedTokenizer reads morphological analyzer output written in the
// Sejong notation: whitespace separated eojeols, each a '+'-joined list of
// form/TAG morphemes, e.g. "학교/NNG+에/JKB 가/VV+ㄴ다/EF ./SF".
type taggedTokenizer struct{}

// NewTaggedTokenizer returns a Tokenizer for pre-analysed text.
func NewTaggedTokenizer() Tokenizer {
	return taggedTokenizer{}
}

var morphemeRE = regexp.MustCompile(`^(.+?)/([A-Z][A-Z0-9_-]*)(?:\+|$)`)

func (taggedTokenizer) Tokenize(text string) ([]Token, error) {
	text = norm.NFC.String(text)
	var (
		toks     []Token
		sentence int
	)
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if unicode.IsSpace(r) {
			i += size
			continue
		}
		j := i + size
		for j < len(text) {
			r2, size2 := utf8.DecodeRuneInString(text[j:])
			if unicode.IsSpace(r2) {
				break
			}
			j += size2
		}

		unit := text[i:j]
		for pos := 0; pos < len(unit); {
			m := morphemeRE.FindStringSubmatchIndex(unit[pos:])
			if m == nil {
				return nil, &TokenizationError{Offset: i + pos, Reason: "expected form/TAG in " + quoteUnit(unit)}
			}
			form := unit[pos+m[2] : pos+m[3]]
			tag := unit[pos+m[4] : pos+m[5]]
			toks = append(toks, Token{Text: form, Tag: tag, Sentence: sentence,
				Start: i + pos + m[2], End: i + pos + m[3]})
			if tag == TagTerminal {
				sentence++
			}
			pos += m[1]
		}
		i = j
	}
	return toks, nil
}

func quoteUnit(s string) string {
	if utf8.RuneCountInString(s) > 40 {
		s = string([]rune(s)[:40]) + "…"
	}
	return "\"" + s + "\""
}

var nonHangulRE = regexp.MustCompile(`[^가-힣\s]`)

// CleanHangul replaces every character that is neither a Hangul syllable nor
// whitespace with a space.
func CleanHangul(text string) string {
	return nonHangulRE.ReplaceAllString(norm.NFC.String(text), " ")
}
