// Package tiktoken adapts OpenAI BPE encodings from
// github.com/pkoukk/tiktoken-go to the featurize vocabulary contract.
package tiktoken

import (
	"fmt"
	"sync"

	tiktokengo "github.com/pkoukk/tiktoken-go"
)

// Vocabulary wraps a tiktoken encoding. Encodings named by New or ForModel
// are loaded on first use, which may download the BPE ranks.
type Vocabulary struct {
	name string
	load func() (*tiktokengo.Tiktoken, error)

	once    sync.Once
	enc     *tiktokengo.Tiktoken
	initErr error
	eosID   int32
}

// New returns a vocabulary for an encoding name such as cl100k_base.
func New(encoding string) *Vocabulary {
	return &Vocabulary{
		name: encoding,
		load: func() (*tiktokengo.Tiktoken, error) { return tiktokengo.GetEncoding(encoding) },
	}
}

// ForModel returns a vocabulary for the encoding used by an OpenAI model.
func ForModel(model string) *Vocabulary {
	return &Vocabulary{
		name: model,
		load: func() (*tiktokengo.Tiktoken, error) { return tiktokengo.EncodingForModel(model) },
	}
}

// Wrap returns a vocabulary over an already constructed encoding.
func Wrap(name string, enc *tiktokengo.Tiktoken) *Vocabulary {
	return &Vocabulary{
		name: name,
		load: func() (*tiktokengo.Tiktoken, error) { return enc, nil },
	}
}

func (v *Vocabulary) init() error {
	v.once.Do(func() {
		enc, err := v.load()
		if err != nil {
			v.initErr = fmt.Errorf("init tiktoken encoding %s: %w", v.name, err)
			return
		}
		v.enc = enc

		// <|endoftext|> only encodes to a single id when the encoding
		// registers it as a special token.
		v.eosID = -1
		ids := enc.Encode(tiktokengo.ENDOFTEXT, []string{tiktokengo.ENDOFTEXT}, nil)
		if len(ids) == 1 && enc.Decode(ids) == tiktokengo.ENDOFTEXT {
			v.eosID = int32(ids[0])
		}
	})
	return v.initErr
}

// Encode returns token ids for text. Special token text is encoded as
// ordinary text.
func (v *Vocabulary) Encode(text string) ([]int32, error) {
	if err := v.init(); err != nil {
		return nil, err
	}

	tokens := v.enc.Encode(text, nil, nil)
	ids := make([]int32, len(tokens))
	for i, tok := range tokens {
		ids[i] = int32(tok)
	}
	return ids, nil
}

// Decode converts ids back to text.
func (v *Vocabulary) Decode(ids []int32) (string, error) {
	if err := v.init(); err != nil {
		return "", err
	}

	tokens := make([]int, len(ids))
	for i, id := range ids {
		tokens[i] = int(id)
	}
	return v.enc.Decode(tokens), nil
}

// Err loads the encoding if needed and returns the load error, if any.
func (v *Vocabulary) Err() error {
	return v.init()
}

// EOSID returns the id of <|endoftext|>, or -1 if the encoding has none or
// failed to load.
func (v *Vocabulary) EOSID() int32 {
	if err := v.init(); err != nil {
		return -1
	}
	return v.eosID
}

// Name returns the encoding or model name.
func (v *Vocabulary) Name() string {
	return fmt.Sprintf("tiktoken[%s]", v.name)
}
