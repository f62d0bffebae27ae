package featurize

// Vocabulary converts between text and integer token ids.
type Vocabulary interface {
	Encode(text string) ([]int32, error)
	Decode(ids []int32) (string, error)
}

// EOSVocabulary is a Vocabulary that defines an end-of-sequence token.
// EOSID returns a negative value when the vocabulary has none.
type EOSVocabulary interface {
	Vocabulary
	EOSID() int32
}

// LazyVocabulary is a Vocabulary that loads on first use. Err triggers the
// load and reports its failure.
type LazyVocabulary interface {
	Vocabulary
	Err() error
}

// TokenizerConfig associates a feature with the vocabulary that encodes it.
type TokenizerConfig struct {
	Vocab Vocabulary
}
