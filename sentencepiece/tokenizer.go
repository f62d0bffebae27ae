// Package sentencepiece implements SentencePiece unigram tokenization over
// .model files, without cgo or the sentencepiece C++ library.
package sentencepiece

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// unkPenalty is subtracted from the lowest piece score to score unknown runes.
const unkPenalty = 10.0

// unkSurface is what an unknown piece decodes to.
const unkSurface = " ⁇ "

// Tokenizer implements SentencePiece Unigram tokenization.
// Token IDs are the model's own piece indices.
// It is immutable after construction and safe for concurrent use.
type Tokenizer struct {
	pieces    map[string]int32 // token string -> piece index (matchable pieces only)
	scores    []float32        // piece index -> log probability
	idToPiece []string         // piece index -> token string
	types     []PieceType      // piece index -> type

	unkID int32
	bosID int32
	eosID int32
	padID int32

	unkScore    float64
	maxTokenLen int // in runes
	normalizer  NormalizerSpec
}

// TokenInfo represents a token and the normalized text it covers.
type TokenInfo struct {
	ID   int32
	Text string
}

// New loads a tokenizer from a SentencePiece .model file.
func New(modelPath string) (*Tokenizer, error) {
	model, err := LoadModel(modelPath)
	if err != nil {
		return nil, fmt.Errorf("loading model: %w", err)
	}

	return NewFromModel(model)
}

// NewFromModel builds a tokenizer from an already parsed model.
func NewFromModel(model *Model) (*Tokenizer, error) {
	if model == nil || len(model.Pieces) == 0 {
		return nil, fmt.Errorf("%w: no pieces", ErrInvalidModel)
	}
	if model.TrainerSpec.ModelType != Unigram {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedModel, model.TrainerSpec.ModelType)
	}

	n := int32(len(model.Pieces))
	spec := model.TrainerSpec
	if spec.UnkID < 0 || spec.UnkID >= n {
		return nil, fmt.Errorf("%w: unk id %d outside vocabulary of %d", ErrInvalidModel, spec.UnkID, n)
	}
	if model.Pieces[spec.UnkID].Type != Unknown {
		return nil, fmt.Errorf("%w: piece %d is not the unknown piece", ErrInvalidModel, spec.UnkID)
	}
	for _, id := range []int32{spec.BosID, spec.EosID, spec.PadID} {
		if id >= n {
			return nil, fmt.Errorf("%w: special id %d outside vocabulary of %d", ErrInvalidModel, id, n)
		}
	}

	t := &Tokenizer{
		pieces:     make(map[string]int32, len(model.Pieces)),
		scores:     make([]float32, len(model.Pieces)),
		idToPiece:  make([]string, len(model.Pieces)),
		types:      make([]PieceType, len(model.Pieces)),
		unkID:      spec.UnkID,
		bosID:      spec.BosID,
		eosID:      spec.EosID,
		padID:      spec.PadID,
		normalizer: model.NormalizerSpec,
	}

	minScore := float32(0)
	for i, piece := range model.Pieces {
		t.scores[i] = piece.Score
		t.idToPiece[i] = piece.Piece
		t.types[i] = piece.Type

		// Control, unknown and unused pieces never match input text.
		if piece.Type != Normal && piece.Type != UserDefined {
			continue
		}
		if _, dup := t.pieces[piece.Piece]; dup {
			continue
		}
		t.pieces[piece.Piece] = int32(i)

		if piece.Score < minScore {
			minScore = piece.Score
		}
		if l := utf8.RuneCountInString(piece.Piece); l > t.maxTokenLen {
			t.maxTokenLen = l
		}
	}
	t.unkScore = float64(minScore) - unkPenalty

	return t, nil
}

// Close releases tokenizer resources.
func (t *Tokenizer) Close() error {
	return nil
}

// VocabSize returns the number of pieces in the model.
func (t *Tokenizer) VocabSize() int {
	return len(t.idToPiece)
}

// UnkID returns the unknown token ID.
func (t *Tokenizer) UnkID() int32 { return t.unkID }

// BOSID returns the beginning-of-sentence token ID, or -1 if the model has none.
func (t *Tokenizer) BOSID() int32 { return t.bosID }

// EOSID returns the end-of-sentence token ID, or -1 if the model has none.
func (t *Tokenizer) EOSID() int32 { return t.eosID }

// PadID returns the padding token ID, or -1 if the model has none.
func (t *Tokenizer) PadID() int32 { return t.padID }

// IDToPiece returns the piece text for id.
func (t *Tokenizer) IDToPiece(id int32) (string, bool) {
	if id < 0 || int(id) >= len(t.idToPiece) {
		return "", false
	}
	return t.idToPiece[id], true
}

// PieceToID returns the id of a matchable piece.
func (t *Tokenizer) PieceToID(piece string) (int32, bool) {
	id, ok := t.pieces[piece]
	return id, ok
}

// Decode converts token IDs back into text. Control pieces are dropped and
// unknown pieces render as " ⁇ ". Byte pieces that do not form valid
// UTF-8 decode as U+FFFD.
func (t *Tokenizer) Decode(ids []int32) (string, error) {
	var builder strings.Builder
	var pending []byte // consecutive byte pieces form one UTF-8 sequence

	flush := func() {
		if len(pending) > 0 {
			builder.WriteString(strings.ToValidUTF8(string(pending), "\uFFFD"))
			pending = pending[:0]
		}
	}

	for i, id := range ids {
		if id < 0 || int(id) >= len(t.idToPiece) {
			return "", fmt.Errorf("%w: id %d at position %d", ErrInvalidID, id, i)
		}

		switch t.types[id] {
		case Control, Unused:
			continue
		case Unknown:
			flush()
			builder.WriteString(unkSurface)
		case Byte:
			if b, ok := parseBytePiece(t.idToPiece[id]); ok {
				pending = append(pending, b)
				continue
			}
			flush()
			builder.WriteString(unkSurface)
		default:
			flush()
			builder.WriteString(t.idToPiece[id])
		}
	}
	flush()

	text := strings.ReplaceAll(builder.String(), string(sentencePieceSpace), " ")
	if t.normalizer.AddDummyPrefix {
		text = strings.TrimPrefix(text, " ")
	}
	return text, nil
}

// parseBytePiece parses a byte-fallback piece of the form <0xNN>.
func parseBytePiece(piece string) (byte, bool) {
	if len(piece) != 6 || !strings.HasPrefix(piece, "<0x") || piece[5] != '>' {
		return 0, false
	}
	var b byte
	for _, c := range piece[3:5] {
		b <<= 4
		switch {
		case c >= '0' && c <= '9':
			b |= byte(c - '0')
		case c >= 'A' && c <= 'F':
			b |= byte(c - 'A' + 10)
		case c >= 'a' && c <= 'f':
			b |= byte(c - 'a' + 10)
		default:
			return 0, false
		}
	}
	return b, true
}
