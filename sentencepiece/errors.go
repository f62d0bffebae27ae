package sentencepiece

import "errors"

var (
	// ErrInvalidModel indicates the model bytes are malformed or inconsistent.
	ErrInvalidModel = errors.New("sentencepiece: invalid model")

	// ErrUnsupportedModel indicates a model type other than UNIGRAM.
	ErrUnsupportedModel = errors.New("sentencepiece: unsupported model type")

	// ErrInvalidID indicates a token id outside the vocabulary.
	ErrInvalidID = errors.New("sentencepiece: token id out of range")
)
