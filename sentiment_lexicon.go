package senticorpus

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Polarity bounds accepted in a lexicon resource.
const (
	MinPolarity = -2
	MaxPolarity = 2
)

// A LexiconEntry pairs a word with its polarity score.
type LexiconEntry struct {
	Word     string
	Polarity int
}

// Lexicon is an immutable mapping from word to polarity. It is built once and
// handed to every component that needs it; nothing mutates it afterwards.
type Lexicon struct {
	words map[string]int
}

// NewLexicon copies m into a new Lexicon.
func NewLexicon(m map[string]int) *Lexicon {
	words := make(map[string]int, len(m))
	for w, p := range m {
		words[w] = p
	}
	return &Lexicon{words: words}
}

// Polarity returns the score of word and whether the lexicon knows it.
func (l *Lexicon) Polarity(word string) (int, bool) {
	if l == nil {
		return 0, false
	}
	p, ok := l.words[word]
	return p, ok
}

// Len returns the number of entries.
func (l *Lexicon) Len() int {
	if l == nil {
		return 0
	}
	return len(l.words)
}

// Entries returns every entry sorted by word.
func (l *Lexicon) Entries() []LexiconEntry {
	entries := make([]LexiconEntry, 0, l.Len())
	if l == nil {
		return entries
	}
	for w, p := range l.words {
		entries = append(entries, LexiconEntry{Word: w, Polarity: p})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Word < entries[j].Word })
	return entries
}

// A LexiconOpt changes how LoadLexicon reads a resource.
type LexiconOpt func(*lexiconOpts)

type lexiconOpts struct {
	logger *zap.Logger
	format string
}

// WithLexiconLogger sets the logger that receives duplicate-key warnings.
func WithLexiconLogger(logger *zap.Logger) LexiconOpt {
	return func(o *lexiconOpts) {
		o.logger = logger
	}
}

// WithLexiconFormat forces the resource format ("json" or "tsv") instead of
// guessing it from the file extension.
func WithLexiconFormat(format string) LexiconOpt {
	return func(o *lexiconOpts) {
		o.format = strings.ToLower(format)
	}
}

// sentiWordEntry is one record of a SentiWord_info style JSON lexicon.
type sentiWordEntry struct {
	Word     string          `json:"word"`
	WordRoot string          `json:"word_root,omitempty"`
	Polarity json.RawMessage `json:"polarity"`
}

// LoadLexicon reads a word → polarity resource.
//
// JSON resources are a list of {"word", "polarity"} records, polarity given
// as a number or a numeric string. TSV resources hold "word<TAB>score" lines;
// blank lines and lines starting with '#' are ignored. A key repeated with a
// different score keeps the last score and logs a warning.
func LoadLexicon(path string, opts ...LexiconOpt) (*Lexicon, error) {
	o := lexiconOpts{logger: zap.NewNop()}
	for _, applyOpt := range opts {
		applyOpt(&o)
	}
	if o.format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".json":
			o.format = "json"
		default:
			o.format = "tsv"
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		reason := "cannot read file"
		if os.IsNotExist(err) {
			reason = "file not found"
		}
		return nil, &LexiconLoadError{Path: path, Reason: reason, Err: err}
	}
	// Excel-exported resources often start with a byte order mark.
	data = bytes.TrimPrefix(data, utf8BOM)

	b := lexiconBuilder{path: path, logger: o.logger, words: make(map[string]int)}
	switch o.format {
	case "json":
		err = b.readJSON(data)
	case "tsv", "txt":
		err = b.readTSV(data)
	default:
		err = &LexiconLoadError{Path: path, Reason: "unsupported format " + strconv.Quote(o.format)}
	}
	if err != nil {
		return nil, err
	}
	if len(b.words) == 0 {
		return nil, &LexiconLoadError{Path: path, Reason: "no entries"}
	}
	if b.conflicts > 0 {
		o.logger.Warn("lexicon has conflicting duplicate keys, kept last score",
			zap.String("path", path), zap.Int("conflicts", b.conflicts))
	}
	return &Lexicon{words: b.words}, nil
}

type lexiconBuilder struct {
	path      string
	logger    *zap.Logger
	words     map[string]int
	conflicts int
}

func (b *lexiconBuilder) add(word string, polarity, line int) error {
	if word == "" {
		return &LexiconLoadError{Path: b.path, Line: line, Reason: "empty word"}
	}
	if polarity < MinPolarity || polarity > MaxPolarity {
		return &LexiconLoadError{Path: b.path, Line: line,
			Reason: "polarity " + strconv.Itoa(polarity) + " outside [-2, 2]"}
	}
	if prev, ok := b.words[word]; ok && prev != polarity {
		b.conflicts++
		b.logger.Warn("duplicate lexicon key with conflicting score",
			zap.String("word", word), zap.Int("previous", prev),
			zap.Int("polarity", polarity), zap.Int("entry", line))
	}
	b.words[word] = polarity
	return nil
}

func (b *lexiconBuilder) readJSON(data []byte) error {
	var records []sentiWordEntry
	if err := json.Unmarshal(data, &records); err != nil {
		return &LexiconLoadError{Path: b.path, Reason: "malformed JSON", Err: err}
	}
	for i, rec := range records {
		p, err := parsePolarity(rec.Polarity)
		if err != nil {
			return &LexiconLoadError{Path: b.path, Line: i + 1, Reason: "bad polarity", Err: err}
		}
		if err := b.add(strings.TrimSpace(rec.Word), p, i+1); err != nil {
			return err
		}
	}
	return nil
}

func (b *lexiconBuilder) readTSV(data []byte) error {
	scan := bufio.NewScanner(bytes.NewReader(data))
	scan.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scan.Scan() {
		line++
		raw := scan.Text()
		text := strings.TrimSpace(raw)
		if text == "" || text[0] == '#' {
			continue
		}
		parts := strings.SplitN(strings.TrimRight(raw, "\r"), "\t", 2)
		if len(parts) != 2 {
			return &LexiconLoadError{Path: b.path, Line: line, Reason: "expected word<TAB>score"}
		}
		p, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return &LexiconLoadError{Path: b.path, Line: line, Reason: "bad polarity", Err: err}
		}
		if err := b.add(strings.TrimSpace(parts[0]), p, line); err != nil {
			return err
		}
	}
	if err := scan.Err(); err != nil {
		return &LexiconLoadError{Path: b.path, Line: line, Reason: "cannot read file", Err: err}
	}
	return nil
}

// parsePolarity accepts 1, -1, "1" and " -2 ".
func parsePolarity(raw json.RawMessage) (int, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 0, strconv.ErrSyntax
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unquoted)
	}
	return strconv.Atoi(s)
}
