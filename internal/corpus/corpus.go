// Package corpus supplies target words and quotes for typing tests.
package corpus

import (
	_ "embed"
	"fmt"
	"math/rand"
	"time"
)

//go:embed data/words.txt
var defaultWords string

//go:embed data/quotes.txt
var defaultQuotes string

// Provider supplies target text.
type Provider interface {
	// Words returns count entries sampled uniformly with replacement.
	Words(count int) []string
	// Quote returns one quote, or "" when none are available.
	Quote() string
}

// Corpus is a Provider backed by in-memory word and quote lists.
type Corpus struct {
	words  []string
	quotes []string
	rnd    *rand.Rand
}

// New returns a Corpus over the given lists. A nil rnd is seeded with the current time.
func New(words, quotes []string, rnd *rand.Rand) *Corpus {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Corpus{words: words, quotes: quotes, rnd: rnd}
}

// Default returns the built-in English corpus.
func Default(rnd *rand.Rand) *Corpus {
	words, _ := parseLines(defaultWords)
	quotes, _ := parseLines(defaultQuotes)
	return New(words, quotes, rnd)
}

// Open returns the built-in corpus with either list replaced by a file when its path is set.
func Open(wordsPath, quotesPath string, rnd *rand.Rand) (*Corpus, error) {
	c := Default(rnd)
	if wordsPath != "" {
		words, err := LoadLines(wordsPath)
		if err != nil {
			return nil, err
		}
		c.words = filterWords(words)
		if len(c.words) == 0 {
			return nil, fmt.Errorf("%s has no single-word entries", wordsPath)
		}
	}
	if quotesPath != "" {
		quotes, err := LoadLines(quotesPath)
		if err != nil {
			return nil, err
		}
		c.quotes = quotes
	}
	return c, nil
}

// Words implements Provider.
func (c *Corpus) Words(count int) []string {
	if len(c.words) == 0 || count <= 0 {
		return nil
	}
	out := make([]string, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, c.words[c.rnd.Intn(len(c.words))])
	}
	return out
}

// Quote implements Provider.
func (c *Corpus) Quote() string {
	if len(c.quotes) == 0 {
		return ""
	}
	return c.quotes[c.rnd.Intn(len(c.quotes))]
}

// Sizes reports how many words and quotes are loaded.
func (c *Corpus) Sizes() (words, quotes int) {
	return len(c.words), len(c.quotes)
}
