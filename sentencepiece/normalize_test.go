package sentencepiece

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	xlmr := NormalizerSpec{Name: "nmt_nfkc", AddDummyPrefix: true, RemoveExtraWhitespaces: true}

	tests := []struct {
		name     string
		spec     NormalizerSpec
		input    string
		expected string
	}{
		{"simple word", xlmr, "Hello", "▁Hello"},
		{"two words", xlmr, "Hello world", "▁Hello▁world"},
		{"extra spaces", xlmr, "  spaces  ", "▁spaces"},
		{"inner runs", xlmr, "imdb ebc   ahg", "▁imdb▁ebc▁ahg"},
		{"tabs and newlines", xlmr, "a\tb\nc", "▁a▁b▁c"},
		{"empty string", xlmr, "", ""},
		{"only spaces", xlmr, "   ", ""},
		{"nfkc fullwidth", xlmr, "ＡＢＣ", "▁ABC"},
		{"nfkc ligature", xlmr, "ﬁne", "▁fine"},
		{"identity keeps fullwidth", NormalizerSpec{Name: "identity", AddDummyPrefix: true, RemoveExtraWhitespaces: true}, "ＡＢ", "▁ＡＢ"},
		{"case fold", NormalizerSpec{Name: "nfkc_cf", AddDummyPrefix: true, RemoveExtraWhitespaces: true}, "Hello", "▁hello"},
		{"no dummy prefix", NormalizerSpec{RemoveExtraWhitespaces: true}, " a  b ", "a▁b"},
		{"keep whitespace", NormalizerSpec{AddDummyPrefix: true}, "a  b ", "▁a▁▁b▁"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := normalize(tc.input, tc.spec)
			if got != tc.expected {
				t.Errorf("normalize(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}
