package featurize

import (
	"log/slog"
)

// Option configures a Tokenizer.
type Option func(*config)

type config struct {
	copyPretokenized bool
	withEOS          bool
	logger           *slog.Logger
}

func defaultConfig() config {
	return config{
		copyPretokenized: true,
		withEOS:          false,
		logger:           slog.Default(),
	}
}

// WithCopyPretokenized controls whether the original text of each tokenized
// feature is kept under "<feature>_pretokenized" (default: true).
func WithCopyPretokenized(enabled bool) Option {
	return func(c *config) {
		c.copyPretokenized = enabled
	}
}

// WithEOS appends each vocabulary's end-of-sequence id to the encoded
// features (default: false). Every configured vocabulary must then
// implement EOSVocabulary.
func WithEOS(eos bool) Option {
	return func(c *config) {
		c.withEOS = eos
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
