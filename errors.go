package featurize

import "errors"

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrConfiguration indicates missing or malformed tokenizer configuration.
	ErrConfiguration = errors.New("featurize: invalid configuration")

	// ErrInvalidInput indicates a feature configured for tokenization does
	// not hold text, or its vocabulary rejected it.
	ErrInvalidInput = errors.New("featurize: invalid input")
)
