package bench

import (
	"math"
	"testing"

	featurize "github.com/jamesainslie/go-featurize"
	"github.com/jamesainslie/go-featurize/internal/sptest"
	"github.com/jamesainslie/go-featurize/sentencepiece"
)

func newTokenizer(t *testing.T, opts ...featurize.Option) *featurize.Tokenizer {
	t.Helper()

	vocab, err := sentencepiece.New(sptest.WriteModel(t, sptest.Alphabet()))
	if err != nil {
		t.Fatalf("sentencepiece.New failed: %v", err)
	}
	tok, err := featurize.New(map[string]featurize.TokenizerConfig{
		"inputs":  {Vocab: vocab},
		"targets": {Vocab: vocab},
	}, opts...)
	if err != nil {
		t.Fatalf("featurize.New failed: %v", err)
	}
	return tok
}

func TestEvaluate(t *testing.T) {
	tok := newTokenizer(t)
	examples := []featurize.Example{
		{
			{Name: "inputs", Value: "imdb ebc   ahgjefjhfe"},
			{Name: "targets", Value: "positive"},
		},
		{
			{Name: "targets", Value: "negative"},
			{Name: "metadata", Value: "ignored"},
		},
	}

	m, err := Evaluate(tok, examples)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	if m.Examples != 2 {
		t.Errorf("Examples = %d, want 2", m.Examples)
	}

	inputs := m.ByFeature["inputs"]
	want := Counts{Features: 1, Characters: 21, Tokens: 18, UnknownTokens: 5, RoundTrips: 0}
	if inputs != want {
		t.Errorf("inputs = %+v, want %+v", inputs, want)
	}

	// "negative" has a g, which is not in the vocabulary.
	targets := m.ByFeature["targets"]
	want = Counts{Features: 2, Characters: 16, Tokens: 18, UnknownTokens: 1, RoundTrips: 1}
	if targets != want {
		t.Errorf("targets = %+v, want %+v", targets, want)
	}

	if _, ok := m.ByFeature["metadata"]; ok {
		t.Error("unconfigured features must not be measured")
	}

	if m.Total.Features != 3 || m.Total.RoundTrips != 1 {
		t.Errorf("Total = %+v", m.Total)
	}
	if got := m.Total.RoundTripRate(); math.Abs(got-1.0/3) > 1e-9 {
		t.Errorf("RoundTripRate = %v, want 1/3", got)
	}
	if got := m.Total.UnknownRate(); math.Abs(got-6.0/36) > 1e-9 {
		t.Errorf("UnknownRate = %v, want 6/36", got)
	}
}

func TestEvaluate_WithEOS(t *testing.T) {
	tok := newTokenizer(t, featurize.WithEOS(true))

	m, err := Evaluate(tok, []featurize.Example{{{Name: "targets", Value: "positive"}}})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if m.Total.Tokens != 10 || m.Total.RoundTrips != 1 {
		t.Errorf("Total = %+v, want 10 tokens and 1 round trip", m.Total)
	}
}

func TestEvaluate_InvalidExample(t *testing.T) {
	tok := newTokenizer(t)

	_, err := Evaluate(tok, []featurize.Example{{{Name: "inputs", Value: 3}}})
	if err == nil {
		t.Fatal("expected error for non-text feature")
	}
}

func TestCounts_ZeroRates(t *testing.T) {
	var c Counts
	if c.RoundTripRate() != 0 || c.UnknownRate() != 0 || c.TokensPerChar() != 0 {
		t.Error("expected zero rates for empty counts")
	}
}
