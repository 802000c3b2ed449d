package senticorpus

import (
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Registered tokenizer names.
const (
	TokenizerTagged  = "tagged"
	TokenizerSurface = "surface"
)

// TokenizerConfig carries the settings a tokenizer constructor may use.
type TokenizerConfig struct {
	UserWords  map[string]string // word -> tag
	NoSegments bool              // disable sentence segmentation
}

// A TokenizerConstructor builds a Tokenizer from its configuration.
type TokenizerConstructor func(cfg TokenizerConfig) (Tokenizer, error)

var (
	registryMu   sync.RWMutex
	constructors = make(map[string]TokenizerConstructor)
)

func init() {
	RegisterTokenizer(TokenizerTagged, func(TokenizerConfig) (Tokenizer, error) {
		return NewTaggedTokenizer(), nil
	})
	RegisterTokenizer(TokenizerSurface, func(cfg TokenizerConfig) (Tokenizer, error) {
		return NewIterTokenizer(UsingUserWords(cfg.UserWords), UsingSegmentation(!cfg.NoSegments)), nil
	})
}

// RegisterTokenizer makes a tokenizer available under name, replacing any
// previous registration.
func RegisterTokenizer(name string, c TokenizerConstructor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	constructors[name] = c
}

// NewTokenizer builds the tokenizer registered under name.
func NewTokenizer(name string, cfg TokenizerConfig) (Tokenizer, error) {
	registryMu.RLock()
	c, ok := constructors[strings.ToLower(strings.TrimSpace(name))]
	registryMu.RUnlock()
	if !ok {
		return nil, errors.Errorf("tokenizer type unsupported: %q (have %s)", name, strings.Join(TokenizerNames(), ", "))
	}
	return c(cfg)
}

// TokenizerNames lists the registered names, sorted.
func TokenizerNames() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(constructors))
	for n := range constructors {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

type userWord struct {
	Word string `yaml:"word"`
	Tag  string `yaml:"tag"`
}

// LoadUserWords reads a YAML user dictionary, a list of word/tag pairs:
//
//	- word: 다방마담
//	  tag: NNG
//	- word: 자연스러
//	  tag: VA
//
// A missing tag defaults to NNG.
func LoadUserWords(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read user words")
	}
	var list []userWord
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, errors.Wrapf(err, "parse user words %s", path)
	}
	words := make(map[string]string, len(list))
	for i, uw := range list {
		w := strings.TrimSpace(uw.Word)
		if w == "" {
			return nil, errors.Errorf("user words %s: entry %d has no word", path, i+1)
		}
		tag := strings.TrimSpace(uw.Tag)
		if tag == "" {
			tag = TagCommonNoun
		}
		words[w] = tag
	}
	return words, nil
}
