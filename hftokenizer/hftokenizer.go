// Package hftokenizer adapts HuggingFace tokenizers loaded with
// github.com/sugarme/tokenizer to the featurize vocabulary contract.
package hftokenizer

import (
	"fmt"

	tk "github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
)

// Option configures a Vocabulary.
type Option func(*Vocabulary)

// WithSpecialTokens makes Encode run the tokenizer's post-processor, adding
// special tokens such as [CLS] and [SEP] (default: false).
func WithSpecialTokens(add bool) Option {
	return func(v *Vocabulary) {
		v.addSpecialTokens = add
	}
}

// WithEOSToken names the token reported by EOSID.
func WithEOSToken(token string) Option {
	return func(v *Vocabulary) {
		v.eosToken = token
	}
}

// Vocabulary wraps a sugarme tokenizer.
type Vocabulary struct {
	t                *tk.Tokenizer
	addSpecialTokens bool
	eosToken         string
	eosID            int32
}

// FromFile loads a tokenizer.json file.
func FromFile(path string, opts ...Option) (*Vocabulary, error) {
	t, err := pretrained.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading tokenizer.json: %w", err)
	}
	return New(t, opts...)
}

// New wraps an already built tokenizer. It fails if an EOS token was
// requested that the tokenizer does not know.
func New(t *tk.Tokenizer, opts ...Option) (*Vocabulary, error) {
	if t == nil {
		return nil, fmt.Errorf("hftokenizer: nil tokenizer")
	}

	v := &Vocabulary{t: t, eosID: -1}
	for _, opt := range opts {
		opt(v)
	}

	if v.eosToken != "" {
		id, ok := t.TokenToId(v.eosToken)
		if !ok {
			return nil, fmt.Errorf("hftokenizer: eos token %q not in vocabulary", v.eosToken)
		}
		v.eosID = int32(id)
	}

	return v, nil
}

// Encode returns token ids for text.
func (v *Vocabulary) Encode(text string) ([]int32, error) {
	enc, err := v.t.Encode(tk.NewSingleEncodeInput(tk.NewInputSequence(text)), v.addSpecialTokens)
	if err != nil {
		return nil, fmt.Errorf("encoding: %w", err)
	}

	uids := enc.GetIds()
	ids := make([]int32, len(uids))
	for i, id := range uids {
		ids[i] = int32(id)
	}
	return ids, nil
}

// Decode converts ids back to text, skipping special tokens.
func (v *Vocabulary) Decode(ids []int32) (string, error) {
	uids := make([]int, len(ids))
	for i, id := range ids {
		uids[i] = int(id)
	}
	return v.t.Decode(uids, true), nil
}

// EOSID returns the id of the configured EOS token, or -1.
func (v *Vocabulary) EOSID() int32 {
	return v.eosID
}

// VocabSize returns the vocabulary size including added tokens.
func (v *Vocabulary) VocabSize() int {
	return v.t.GetVocabSize(true)
}
