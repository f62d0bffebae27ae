package sentencepiece

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

const sentencePieceSpace = '▁' // U+2581 LOWER ONE EIGHTH BLOCK

// normalize prepares text for tokenization according to the model's
// normalizer spec:
//   - Applies NFKC for the nfkc family of rule names
//   - Collapses whitespace runs and trims both ends (remove_extra_whitespaces)
//   - Replaces spaces with ▁ and adds a dummy prefix (add_dummy_prefix)
func normalize(text string, spec NormalizerSpec) string {
	if text == "" {
		return ""
	}

	switch spec.Name {
	case "nfkc", "nmt_nfkc":
		text = norm.NFKC.String(text)
	case "nfkc_cf", "nmt_nfkc_cf":
		// Casers are stateful, so one per call.
		text = cases.Fold().String(norm.NFKC.String(text))
	}

	var builder strings.Builder
	builder.Grow(len(text) + 3)

	if !spec.RemoveExtraWhitespaces {
		if spec.AddDummyPrefix {
			builder.WriteRune(sentencePieceSpace)
		}
		for _, r := range text {
			if unicode.IsSpace(r) {
				r = sentencePieceSpace
			}
			builder.WriteRune(r)
		}
		return builder.String()
	}

	needSpace := spec.AddDummyPrefix
	for _, r := range text {
		if unicode.IsSpace(r) {
			// Only separate words once something has been written.
			if builder.Len() > 0 {
				needSpace = true
			}
			continue
		}
		if needSpace {
			builder.WriteRune(sentencePieceSpace)
			needSpace = false
		}
		builder.WriteRune(r)
	}

	return builder.String()
}
