package senticorpus

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tagged struct {
	text string
	tag  string
}

func pairs(toks []Token) []tagged {
	out := make([]tagged, len(toks))
	for i, tok := range toks {
		out[i] = tagged{tok.Text, tok.Tag}
	}
	return out
}

func TestTaggedTokenizer(t *testing.T) {
	tests := []struct {
		input    string
		expected []tagged
		desc     string
	}{
		{
			"학교/NNG+에/JKB 가/VV+ㄴ다/EF ./SF",
			[]tagged{{"학교", "NNG"}, {"에", "JKB"}, {"가", "VV"}, {"ㄴ다", "EF"}, {".", "SF"}},
			"Eojeols with joined morphemes",
		},
		{
			"1/SN++/SW+2/SN",
			[]tagged{{"1", "SN"}, {"+", "SW"}, {"2", "SN"}},
			"Plus sign as a morpheme",
		},
		{
			"1/2/SN",
			[]tagged{{"1/2", "SN"}},
			"Slash inside a form",
		},
		{
			"돕/VV-I+어/EC",
			[]tagged{{"돕", "VV-I"}, {"어", "EC"}},
			"Irregular verb tag",
		},
		{"", nil, "Empty input"},
		{"  \n\t ", nil, "Whitespace only"},
	}

	tok := NewTaggedTokenizer()
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			toks, err := tok.Tokenize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, nilIfEmpty(pairs(toks)))
			for _, tk := range toks {
				assert.Equal(t, tk.Text, tt.input[tk.Start:tk.End], "offsets of %q", tk.Text)
			}
		})
	}
}

func nilIfEmpty(p []tagged) []tagged {
	if len(p) == 0 {
		return nil
	}
	return p
}

func TestTaggedTokenizerSentences(t *testing.T) {
	toks, err := NewTaggedTokenizer().Tokenize("좋/VA+다/EF ./SF 싫/VA+다/EF ./SF")
	require.NoError(t, err)
	require.Len(t, toks, 6)

	sentences := []int{0, 0, 0, 1, 1, 1}
	for i, tk := range toks {
		assert.Equal(t, sentences[i], tk.Sentence, "token %d %q", i, tk.Text)
	}
	assert.Equal(t, "좋다", toks[0].DictionaryForm())
}

func TestTaggedTokenizerMalformed(t *testing.T) {
	_, err := NewTaggedTokenizer().Tokenize("학교/NNG 에서")
	require.Error(t, err)

	var terr *TokenizationError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, len("학교/NNG "), terr.Offset)

	_, err = NewDocument("doc-7", "학교", UsingTokenizer(NewTaggedTokenizer()))
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, "doc-7", terr.DocumentID)
	assert.Contains(t, err.Error(), "doc-7")
}

func TestIterTokenizer(t *testing.T) {
	tok := NewIterTokenizer(
		UsingSegmentation(false),
		UsingUserWords(map[string]string{"다방마담": TagCommonNoun, "문경": TagProperNoun}),
	)

	input := "미혼모 2명이 Seoul에서 다방마담이었다! 문경 李"
	toks, err := tok.Tokenize(input)
	require.NoError(t, err)

	expected := []tagged{
		{"미혼모", "NNG"},
		{"2", "SN"},
		{"명이", "NNG"},
		{"Seoul", "SL"},
		{"에서", "NNG"},
		{"다방마담", "NNG"},
		{"이었다", "NNG"},
		{"!", "SF"},
		{"문경", "NNP"},
		{"李", "SH"},
	}
	assert.Equal(t, expected, pairs(toks))
	for _, tk := range toks {
		assert.Equal(t, tk.Text, input[tk.Start:tk.End])
		assert.Equal(t, 0, tk.Sentence)
	}
}

func TestIterTokenizerLongestUserWord(t *testing.T) {
	tok := NewIterTokenizer(
		UsingSegmentation(false),
		UsingUserWords(map[string]string{"가정": TagCommonNoun, "가정부인": TagCommonNoun, "자연스러": TagAdjective}),
	)
	toks, err := tok.Tokenize("가정부인들 자연스러운")
	require.NoError(t, err)
	assert.Equal(t, []tagged{{"가정부인", "NNG"}, {"들", "NNG"}, {"자연스러", "VA"}, {"운", "NNG"}}, pairs(toks))
	assert.Equal(t, "자연스러다", toks[2].DictionaryForm())
}

func TestIterTokenizerSegmentation(t *testing.T) {
	tok := NewIterTokenizer()
	input := "첫 문장입니다. 두 번째 문장입니다."

	toks, err := tok.Tokenize(input)
	require.NoError(t, err)
	require.NotEmpty(t, toks)
	for i, tk := range toks {
		assert.Equal(t, tk.Text, input[tk.Start:tk.End])
		if i > 0 {
			assert.GreaterOrEqual(t, tk.Start, toks[i-1].End, "tokens stay in order")
			assert.GreaterOrEqual(t, tk.Sentence, toks[i-1].Sentence)
		}
	}

	sents := tok.Segment(input)
	require.NotEmpty(t, sents)
	for _, s := range sents {
		assert.Equal(t, s.Text, input[s.Start:s.End])
	}

	empty, err := tok.Tokenize("")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestIterTokenizerNormalizes(t *testing.T) {
	// "한" spelled with conjoining jamo.
	decomposed := "\u1112\u1161\u11ab"
	toks, err := NewIterTokenizer(UsingSegmentation(false)).Tokenize(decomposed)
	require.NoError(t, err)
	require.Len(t, toks, 1)
	assert.Equal(t, "한", toks[0].Text)
}

func TestCleanHangul(t *testing.T) {
	got := CleanHangul("Hello, 세계! 123 미혼모의\n삶")
	assert.Equal(t, []string{"세계", "미혼모의", "삶"}, strings.Fields(got))
	assert.Contains(t, got, "\n")
}

func TestTokenizerRegistry(t *testing.T) {
	tok, err := NewTokenizer("tagged", TokenizerConfig{})
	require.NoError(t, err)
	toks, err := tok.Tokenize("희망/NNG")
	require.NoError(t, err)
	assert.Equal(t, []tagged{{"희망", "NNG"}}, pairs(toks))

	tok, err = NewTokenizer(" Surface ", TokenizerConfig{UserWords: map[string]string{"미망인": "NNG"}, NoSegments: true})
	require.NoError(t, err)
	toks, err = tok.Tokenize("미망인은")
	require.NoError(t, err)
	assert.Equal(t, []tagged{{"미망인", "NNG"}, {"은", "NNG"}}, pairs(toks))

	_, err = NewTokenizer("kiwi", TokenizerConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "surface, tagged")
}

func TestLoadUserWords(t *testing.T) {
	path := writeFixture(t, "user_words.yaml", `
- word: 다방마담
  tag: NNG
- word: 혁주
  tag: NNP
- word: " 튀기 "
`)
	words, err := LoadUserWords(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"다방마담": "NNG", "혁주": "NNP", "튀기": "NNG"}, words)

	bad := writeFixture(t, "bad.yaml", "- tag: NNG\n")
	_, err = LoadUserWords(bad)
	assert.Error(t, err)
}

func TestDictionaryForm(t *testing.T) {
	tests := []struct {
		tok      Token
		expected string
	}{
		{Token{Text: "가", Tag: "VV"}, "가다"},
		{Token{Text: "돕", Tag: "VV-I"}, "돕다"},
		{Token{Text: "예쁘", Tag: "VA"}, "예쁘다"},
		{Token{Text: "하", Tag: "VV"}, "하다"},
		{Token{Text: "다", Tag: "VV"}, "다다"},
		{Token{Text: "다다르", Tag: "VV"}, "다다르다"},
		{Token{Text: "학교", Tag: "NNG"}, "학교"},
		{Token{Text: "다", Tag: "EF"}, "다"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.tok.DictionaryForm(), "%+v", tt.tok)
	}
}
