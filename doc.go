// Package featurize tokenizes the text features of pipeline examples.
//
// # Quick Start
//
//	spm, err := sentencepiece.New("sentencepiece.model")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	tok, err := featurize.New(map[string]featurize.TokenizerConfig{
//	    "inputs":  {Vocab: spm},
//	    "targets": {Vocab: spm},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	out, err := tok.Apply(featurize.Example{
//	    {Name: "inputs", Value: "imdb ebc ahgjefjhfe"},
//	    {Name: "targets", Value: "positive"},
//	})
//
// out holds token ids under "inputs" and "targets" plus the original strings
// under "inputs_pretokenized" and "targets_pretokenized".
//
// # Thread Safety
//
// Tokenizer is immutable after New and safe for concurrent use, provided the
// configured vocabularies are.
//
// # Vocabularies
//
// Any type with Encode and Decode methods can back a feature. The
// sentencepiece, hftokenizer and tiktoken packages provide ready-made ones.
package featurize
