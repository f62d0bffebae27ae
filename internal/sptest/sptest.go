// Package sptest builds small SentencePiece model files for tests.
package sptest

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"google.golang.org/protobuf/encoding/protowire"
)

// Piece types, as in sentencepiece_model.proto.
const (
	Normal  int32 = 1
	Unknown int32 = 2
	Control int32 = 3
	Byte    int32 = 6
)

// Unigram is the UNIGRAM model type.
const Unigram int32 = 1

// Piece is one vocabulary entry.
type Piece struct {
	Text  string
	Score float32
	Type  int32
}

// Spec describes a synthetic model.
type Spec struct {
	Pieces    []Piece
	ModelType int32

	UnkID int32
	BosID int32
	EosID int32
	PadID int32

	NormalizerName         string
	AddDummyPrefix         bool
	RemoveExtraWhitespaces bool
}

// Alphabet returns a T5-style character vocabulary: <pad>=0, </s>=1,
// <unk>=2, ▁=3, followed by single lowercase letters. b, f, g and j are
// deliberately missing so they encode as <unk>.
func Alphabet() Spec {
	pieces := []Piece{
		{Text: "<pad>", Type: Control},
		{Text: "</s>", Type: Control},
		{Text: "<unk>", Type: Unknown},
	}
	for i, s := range []string{"▁", "e", "a", "s", "o", "i", "n", "r", "l", "u", "c", "m", "p", "k", "w", "y", "x", "h", "d", "z", "q", "t", "v"} {
		pieces = append(pieces, Piece{Text: s, Score: -float32(i + 1), Type: Normal})
	}

	return Spec{
		Pieces:                 pieces,
		ModelType:              Unigram,
		UnkID:                  2,
		BosID:                  -1,
		EosID:                  1,
		PadID:                  0,
		NormalizerName:         "nmt_nfkc",
		AddDummyPrefix:         true,
		RemoveExtraWhitespaces: true,
	}
}

// Bytes serializes the spec as a ModelProto.
func (s Spec) Bytes() []byte {
	var b []byte
	for _, p := range s.Pieces {
		var msg []byte
		msg = protowire.AppendTag(msg, 1, protowire.BytesType)
		msg = protowire.AppendString(msg, p.Text)
		msg = protowire.AppendTag(msg, 2, protowire.Fixed32Type)
		msg = protowire.AppendFixed32(msg, math.Float32bits(p.Score))
		msg = protowire.AppendTag(msg, 3, protowire.VarintType)
		msg = protowire.AppendVarint(msg, uint64(int64(p.Type)))

		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendBytes(b, msg)
	}

	var trainer []byte
	for _, f := range []struct {
		num protowire.Number
		val int32
	}{
		{3, s.ModelType},
		{40, s.UnkID},
		{41, s.BosID},
		{42, s.EosID},
		{43, s.PadID},
	} {
		trainer = protowire.AppendTag(trainer, f.num, protowire.VarintType)
		trainer = protowire.AppendVarint(trainer, uint64(int64(f.val)))
	}
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendBytes(b, trainer)

	var normalizer []byte
	normalizer = protowire.AppendTag(normalizer, 1, protowire.BytesType)
	normalizer = protowire.AppendString(normalizer, s.NormalizerName)
	normalizer = protowire.AppendTag(normalizer, 3, protowire.VarintType)
	normalizer = protowire.AppendVarint(normalizer, protowire.EncodeBool(s.AddDummyPrefix))
	normalizer = protowire.AppendTag(normalizer, 4, protowire.VarintType)
	normalizer = protowire.AppendVarint(normalizer, protowire.EncodeBool(s.RemoveExtraWhitespaces))
	b = protowire.AppendTag(b, 3, protowire.BytesType)
	b = protowire.AppendBytes(b, normalizer)

	return b
}

// WriteModel writes the spec to a .model file in a test temp dir and
// returns its path.
func WriteModel(tb testing.TB, s Spec) string {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "sentencepiece.model")
	if err := os.WriteFile(path, s.Bytes(), 0o600); err != nil {
		tb.Fatalf("writing model: %v", err)
	}
	return path
}
