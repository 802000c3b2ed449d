package senticorpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountTerms(t *testing.T) {
	docs := []*Document{
		taggedDoc(t, "a", "엄마/NNG+가/JKS 울/VV+었다/EF 엄마/NNG 아주/MAG 슬프/VA+다/EF", Period1970s),
		taggedDoc(t, "b", "엄마/NNG 울/VV+다/EF 울/NNG 서울/NNP", Period1980s),
	}

	c := CountTerms(docs)
	assert.Equal(t, 5, c.Len())
	assert.Equal(t, []TermFrequency{
		{Form: "엄마", Tag: "NNG", Count: 3},
		{Form: "울다", Tag: "VV", Count: 2},
		{Form: "슬프다", Tag: "VA", Count: 1},
		{Form: "아주", Tag: "MAG", Count: 1},
		{Form: "울", Tag: "NNG", Count: 1},
	}, c.Top(-1))

	assert.Len(t, c.Top(2), 2)
	assert.Len(t, c.Top(DefaultFrequencyTop), 5)

	nouns := CountTerms(docs, TagProperNoun)
	require.Equal(t, 1, nouns.Len())
	assert.Equal(t, "서울", nouns.Top(1)[0].Form)
}
