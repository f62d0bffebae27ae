// Package config loads pipeline tokenizer configuration files.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"

	featurize "github.com/jamesainslie/go-featurize"
	"github.com/jamesainslie/go-featurize/hftokenizer"
	"github.com/jamesainslie/go-featurize/sentencepiece"
	"github.com/jamesainslie/go-featurize/tiktoken"
)

// Vocabulary types.
const (
	TypeSentencePiece = "sentencepiece"
	TypeHuggingFace   = "huggingface"
	TypeTiktoken      = "tiktoken"
)

// EnvPrefix prefixes environment overrides, e.g. FEATURIZE_WITH_EOS=true.
const EnvPrefix = "FEATURIZE"

// Config is a tokenizer pipeline configuration.
// Feature and vocabulary names are case-insensitive.
type Config struct {
	CopyPretokenized bool                        `mapstructure:"copy_pretokenized"`
	WithEOS          bool                        `mapstructure:"with_eos"`
	Vocabularies     map[string]VocabularyConfig `mapstructure:"vocabularies"`
	Features         map[string]string           `mapstructure:"features"` // feature -> vocabulary name

	baseDir string
}

// VocabularyConfig describes how to construct one vocabulary.
type VocabularyConfig struct {
	Type          string `mapstructure:"type"`
	Path          string `mapstructure:"path"`     // sentencepiece, huggingface
	Encoding      string `mapstructure:"encoding"` // tiktoken
	Model         string `mapstructure:"model"`    // tiktoken, alternative to encoding
	EOSToken      string `mapstructure:"eos_token"`
	SpecialTokens bool   `mapstructure:"special_tokens"`
}

// Load reads configuration from a file, with environment overrides.
// Relative vocabulary paths resolve against the file's directory.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetDefault("copy_pretokenized", true)
	v.SetDefault("with_eos", false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	cfg.baseDir = filepath.Dir(path)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks vocabulary definitions and feature references.
func (c *Config) Validate() error {
	var errs []error

	if len(c.Features) == 0 {
		errs = append(errs, errors.New("no features configured"))
	}

	for _, name := range sortedKeys(c.Vocabularies) {
		vc := c.Vocabularies[name]
		switch vc.Type {
		case TypeSentencePiece, TypeHuggingFace:
			if vc.Path == "" {
				errs = append(errs, fmt.Errorf("vocabulary %q: path is required", name))
			}
		case TypeTiktoken:
			if vc.Encoding == "" && vc.Model == "" {
				errs = append(errs, fmt.Errorf("vocabulary %q: encoding or model is required", name))
			}
		default:
			errs = append(errs, fmt.Errorf("vocabulary %q: unknown type %q", name, vc.Type))
		}
	}

	for _, feature := range sortedKeys(c.Features) {
		if _, ok := c.Vocabularies[c.Features[feature]]; !ok {
			errs = append(errs, fmt.Errorf("feature %q: unknown vocabulary %q", feature, c.Features[feature]))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", featurize.ErrConfiguration, errors.Join(errs...))
	}
	return nil
}

// Build loads every referenced vocabulary once and returns a Tokenizer.
func (c *Config) Build(logger *slog.Logger) (*featurize.Tokenizer, error) {
	if logger == nil {
		logger = slog.Default()
	}

	vocabs := make(map[string]featurize.Vocabulary)
	configs := make(map[string]featurize.TokenizerConfig, len(c.Features))

	for _, feature := range sortedKeys(c.Features) {
		name := c.Features[feature]
		vocab, ok := vocabs[name]
		if !ok {
			var err error
			vocab, err = c.open(c.Vocabularies[name])
			if err != nil {
				return nil, fmt.Errorf("vocabulary %q: %w", name, err)
			}
			vocabs[name] = vocab
			logger.Debug("vocabulary loaded", "name", name, "type", c.Vocabularies[name].Type)
		}
		configs[feature] = featurize.TokenizerConfig{Vocab: vocab}
	}

	return featurize.New(configs,
		featurize.WithCopyPretokenized(c.CopyPretokenized),
		featurize.WithEOS(c.WithEOS),
		featurize.WithLogger(logger),
	)
}

func (c *Config) open(vc VocabularyConfig) (featurize.Vocabulary, error) {
	switch vc.Type {
	case TypeSentencePiece:
		return sentencepiece.New(c.resolve(vc.Path))
	case TypeHuggingFace:
		return hftokenizer.FromFile(c.resolve(vc.Path),
			hftokenizer.WithEOSToken(vc.EOSToken),
			hftokenizer.WithSpecialTokens(vc.SpecialTokens))
	case TypeTiktoken:
		if vc.Model != "" {
			return tiktoken.ForModel(vc.Model), nil
		}
		return tiktoken.New(vc.Encoding), nil
	default:
		return nil, fmt.Errorf("%w: unknown vocabulary type %q", featurize.ErrConfiguration, vc.Type)
	}
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) || c.baseDir == "" {
		return path
	}
	return filepath.Join(c.baseDir, path)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
