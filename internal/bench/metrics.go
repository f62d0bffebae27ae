package bench

import (
	"fmt"
	"strings"
	"unicode/utf8"

	featurize "github.com/jamesainslie/go-featurize"
)

// Counts aggregates coverage numbers for one or more features.
type Counts struct {
	Features      int
	Characters    int
	Tokens        int
	UnknownTokens int
	RoundTrips    int // features whose decoded ids equal the whitespace-normalized text
}

// RoundTripRate is the fraction of features that decode back to their text.
func (c Counts) RoundTripRate() float64 {
	if c.Features == 0 {
		return 0
	}
	return float64(c.RoundTrips) / float64(c.Features)
}

// UnknownRate is the fraction of tokens that are the unknown token.
func (c Counts) UnknownRate() float64 {
	if c.Tokens == 0 {
		return 0
	}
	return float64(c.UnknownTokens) / float64(c.Tokens)
}

// TokensPerChar is the average number of tokens per input character.
func (c Counts) TokensPerChar() float64 {
	if c.Characters == 0 {
		return 0
	}
	return float64(c.Tokens) / float64(c.Characters)
}

func (c *Counts) add(o Counts) {
	c.Features += o.Features
	c.Characters += o.Characters
	c.Tokens += o.Tokens
	c.UnknownTokens += o.UnknownTokens
	c.RoundTrips += o.RoundTrips
}

// Metrics holds evaluation results.
type Metrics struct {
	Examples  int
	Total     Counts
	ByFeature map[string]Counts
}

// unkVocabulary is implemented by vocabularies with an unknown token.
type unkVocabulary interface {
	UnkID() int32
}

// Evaluate tokenizes every example and measures unknown-token rates and
// decode round trips for each configured feature.
func Evaluate(tok *featurize.Tokenizer, examples []featurize.Example) (Metrics, error) {
	m := Metrics{ByFeature: make(map[string]Counts)}
	configs := tok.Configs()

	for i, ex := range examples {
		out, err := tok.Apply(ex)
		if err != nil {
			return Metrics{}, fmt.Errorf("example %d: %w", i, err)
		}
		m.Examples++

		for _, f := range ex {
			c, ok := configs[f.Name]
			if !ok {
				continue
			}
			text := f.Value.(string) // Apply succeeded, so configured values are text
			v, _ := out.Get(f.Name)
			ids := v.([]int32)

			counts, err := evaluateFeature(tok, f.Name, c.Vocab, text, ids)
			if err != nil {
				return Metrics{}, fmt.Errorf("example %d: %w", i, err)
			}

			byFeature := m.ByFeature[f.Name]
			byFeature.add(counts)
			m.ByFeature[f.Name] = byFeature
			m.Total.add(counts)
		}
	}

	return m, nil
}

func evaluateFeature(tok *featurize.Tokenizer, name string, vocab featurize.Vocabulary, text string, ids []int32) (Counts, error) {
	c := Counts{
		Features:   1,
		Characters: utf8.RuneCountInString(text),
		Tokens:     len(ids),
	}

	if uv, ok := vocab.(unkVocabulary); ok {
		unk := uv.UnkID()
		for _, id := range ids {
			if id == unk {
				c.UnknownTokens++
			}
		}
	}

	decoded, err := tok.Decode(name, ids)
	if err != nil {
		return Counts{}, fmt.Errorf("decode %q: %w", name, err)
	}
	if normalizeSpace(decoded) == normalizeSpace(text) {
		c.RoundTrips++
	}

	return c, nil
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
