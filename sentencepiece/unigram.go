package sentencepiece

import "math"

var negInf = math.Inf(-1)

// Encode returns token IDs for text. It never fails; the error return
// satisfies the vocabulary contract shared with other tokenizers.
func (t *Tokenizer) Encode(text string) ([]int32, error) {
	return t.EncodeIDs(text), nil
}

// EncodeIDs returns token IDs for the input text.
func (t *Tokenizer) EncodeIDs(text string) []int32 {
	tokens := t.Tokenize(text)
	ids := make([]int32, len(tokens))
	for i, tok := range tokens {
		ids[i] = tok.ID
	}
	return ids
}

// Tokenize segments text using the Viterbi algorithm. Runs of characters
// not covered by any piece collapse into a single unknown token.
func (t *Tokenizer) Tokenize(text string) []TokenInfo {
	if text == "" {
		return nil
	}

	normalized := normalize(text, t.normalizer)
	if normalized == "" {
		return nil
	}

	runes := []rune(normalized)
	n := len(runes)

	// best[i] = best log probability to tokenize runes[0:i]
	best := make([]float64, n+1)
	// parent[i] = start position of the token ending at position i
	parent := make([]int, n+1)
	// idAt[i] = the piece ending at position i
	idAt := make([]int32, n+1)

	for i := 1; i <= n; i++ {
		best[i] = negInf
		parent[i] = -1
	}

	for i := 1; i <= n; i++ {
		maxLen := t.maxTokenLen
		if maxLen > i {
			maxLen = i
		}

		for length := 1; length <= maxLen; length++ {
			j := i - length
			id, exists := t.pieces[string(runes[j:i])]
			if !exists {
				continue
			}

			candidate := best[j] + float64(t.scores[id])
			if candidate > best[i] {
				best[i] = candidate
				parent[i] = j
				idAt[i] = id
			}
		}

		// A character that is not a piece on its own may always be read as
		// unknown, even when a longer piece ends here.
		if _, single := t.pieces[string(runes[i-1])]; !single {
			if candidate := best[i-1] + t.unkScore; parent[i] == -1 || candidate > best[i] {
				best[i] = candidate
				parent[i] = i - 1
				idAt[i] = t.unkID
			}
		}
	}

	var tokens []TokenInfo
	for pos := n; pos > 0; pos = parent[pos] {
		tokens = append(tokens, TokenInfo{
			ID:   idAt[pos],
			Text: string(runes[parent[pos]:pos]),
		})
	}

	for i, j := 0, len(tokens)-1; i < j; i, j = i+1, j-1 {
		tokens[i], tokens[j] = tokens[j], tokens[i]
	}

	return t.mergeUnknown(tokens)
}

// mergeUnknown joins adjacent unknown tokens in place.
func (t *Tokenizer) mergeUnknown(tokens []TokenInfo) []TokenInfo {
	out := tokens[:0]
	for _, tok := range tokens {
		if last := len(out) - 1; last >= 0 && tok.ID == t.unkID && out[last].ID == t.unkID {
			out[last].Text += tok.Text
			continue
		}
		out = append(out, tok)
	}
	return out
}
