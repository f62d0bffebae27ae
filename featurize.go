package featurize

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
)

// PretokenizedSuffix is appended to a feature name to store its original text.
const PretokenizedSuffix = "_pretokenized"

// Tokenizer maps the text features of an Example to token ids using a
// per-feature vocabulary. It is safe for concurrent use.
type Tokenizer struct {
	configs          map[string]TokenizerConfig
	eosIDs           map[string]int32
	copyPretokenized bool
	withEOS          bool
	logger           *slog.Logger
}

// New creates a Tokenizer for the given feature configurations. Features
// missing from configs are passed through by Apply untouched.
func New(configs map[string]TokenizerConfig, opts ...Option) (*Tokenizer, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if configs == nil {
		return nil, fmt.Errorf("%w: tokenizer configs are required", ErrConfiguration)
	}

	t := &Tokenizer{
		configs:          maps.Clone(configs),
		copyPretokenized: cfg.copyPretokenized,
		withEOS:          cfg.withEOS,
		logger:           cfg.logger,
	}

	for name, c := range t.configs {
		if name == "" {
			return nil, fmt.Errorf("%w: empty feature name", ErrConfiguration)
		}
		if c.Vocab == nil {
			return nil, fmt.Errorf("%w: feature %q has no vocabulary", ErrConfiguration, name)
		}
	}

	if t.withEOS {
		t.eosIDs = make(map[string]int32, len(t.configs))
		for name, c := range t.configs {
			ev, ok := c.Vocab.(EOSVocabulary)
			if !ok {
				return nil, fmt.Errorf("%w: feature %q: vocabulary %T has no end-of-sequence token", ErrConfiguration, name, c.Vocab)
			}
			if lv, ok := c.Vocab.(LazyVocabulary); ok {
				if err := lv.Err(); err != nil {
					return nil, fmt.Errorf("%w: feature %q: %w", ErrConfiguration, name, err)
				}
			}
			id := ev.EOSID()
			if id < 0 {
				return nil, fmt.Errorf("%w: feature %q: vocabulary defines no end-of-sequence id", ErrConfiguration, name)
			}
			t.eosIDs[name] = id
		}
	}

	t.logger.Debug("tokenizer created",
		"features", t.Features(),
		"copy_pretokenized", t.copyPretokenized,
		"with_eos", t.withEOS)

	return t, nil
}

// Configs returns a copy of the per-feature configuration.
func (t *Tokenizer) Configs() map[string]TokenizerConfig {
	return maps.Clone(t.configs)
}

// Features returns the configured feature names in sorted order.
func (t *Tokenizer) Features() []string {
	return slices.Sorted(maps.Keys(t.configs))
}

// CopyPretokenized reports whether original text is kept alongside ids.
func (t *Tokenizer) CopyPretokenized() bool { return t.copyPretokenized }

// AddsEOS reports whether an end-of-sequence id is appended to every
// tokenized feature.
func (t *Tokenizer) AddsEOS() bool { return t.withEOS }

// Apply tokenizes every configured feature of example and returns a new
// Example. Tokenized features keep their position; pretokenized copies are
// appended after the original features in processing order. The input is
// not modified. On error nothing is returned.
func (t *Tokenizer) Apply(example Example) (Example, error) {
	out := make(Example, 0, len(example)+len(t.configs))
	out = append(out, example...)

	var pretokenized []Feature
	for i, f := range example {
		c, ok := t.configs[f.Name]
		if !ok {
			continue
		}

		text, ok := f.Value.(string)
		if !ok {
			t.logger.Debug("feature is not text", "feature", f.Name, "type", fmt.Sprintf("%T", f.Value))
			return nil, fmt.Errorf("%w: feature %q holds %T, want string", ErrInvalidInput, f.Name, f.Value)
		}

		ids, err := c.Vocab.Encode(text)
		if err != nil {
			t.logger.Debug("encode failed", "feature", f.Name, "error", err)
			return nil, fmt.Errorf("%w: feature %q: %w", ErrInvalidInput, f.Name, err)
		}
		if t.withEOS {
			ids = append(slices.Clip(ids), t.eosIDs[f.Name])
		}

		if t.copyPretokenized {
			pretokenized = append(pretokenized, Feature{Name: f.Name + PretokenizedSuffix, Value: text})
		}
		out[i].Value = ids
	}

	for _, f := range pretokenized {
		out.Set(f.Name, f.Value)
	}

	return out, nil
}

// Decode converts ids produced for feature back to text. A trailing
// end-of-sequence id added by WithEOS is dropped first.
func (t *Tokenizer) Decode(feature string, ids []int32) (string, error) {
	c, ok := t.configs[feature]
	if !ok {
		return "", fmt.Errorf("%w: feature %q is not configured", ErrConfiguration, feature)
	}

	if t.withEOS && len(ids) > 0 && ids[len(ids)-1] == t.eosIDs[feature] {
		ids = ids[:len(ids)-1]
	}
	return c.Vocab.Decode(ids)
}
