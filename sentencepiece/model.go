package sentencepiece

import (
	"fmt"
	"math"
	"os"

	"google.golang.org/protobuf/encoding/protowire"
)

// PieceType mirrors ModelProto.SentencePiece.Type.
type PieceType int32

const (
	Normal      PieceType = 1
	Unknown     PieceType = 2
	Control     PieceType = 3
	UserDefined PieceType = 4
	Unused      PieceType = 5
	Byte        PieceType = 6
)

// ModelType mirrors TrainerSpec.ModelType.
type ModelType int32

const (
	Unigram ModelType = 1
	BPE     ModelType = 2
	Word    ModelType = 3
	Char    ModelType = 4
)

func (m ModelType) String() string {
	switch m {
	case Unigram:
		return "UNIGRAM"
	case BPE:
		return "BPE"
	case Word:
		return "WORD"
	case Char:
		return "CHAR"
	default:
		return fmt.Sprintf("ModelType(%d)", int32(m))
	}
}

// Field numbers from sentencepiece_model.proto.
const (
	fieldModelPieces         = 1
	fieldModelTrainerSpec    = 2
	fieldModelNormalizerSpec = 3

	fieldPiecePiece = 1
	fieldPieceScore = 2
	fieldPieceType  = 3

	fieldTrainerModelType = 3
	fieldTrainerUnkID     = 40
	fieldTrainerBosID     = 41
	fieldTrainerEosID     = 42
	fieldTrainerPadID     = 43

	fieldNormalizerName                   = 1
	fieldNormalizerAddDummyPrefix         = 3
	fieldNormalizerRemoveExtraWhitespaces = 4
)

// Piece represents a vocabulary piece from the model.
type Piece struct {
	Piece string
	Score float32
	Type  PieceType
}

// TrainerSpec holds the trainer fields the tokenizer depends on.
type TrainerSpec struct {
	ModelType ModelType
	UnkID     int32
	BosID     int32
	EosID     int32
	PadID     int32
}

// NormalizerSpec holds the normalizer fields the tokenizer depends on.
type NormalizerSpec struct {
	Name                   string
	AddDummyPrefix         bool
	RemoveExtraWhitespaces bool
}

// Model represents a loaded SentencePiece model.
type Model struct {
	Pieces         []Piece
	TrainerSpec    TrainerSpec
	NormalizerSpec NormalizerSpec
}

// LoadModel loads a SentencePiece model from a .model file.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model file: %w", err)
	}

	return ParseModel(data)
}

// ParseModel decodes a serialized ModelProto. Unknown fields are skipped.
func ParseModel(data []byte) (*Model, error) {
	m := &Model{
		TrainerSpec: TrainerSpec{
			ModelType: Unigram,
			UnkID:     0,
			BosID:     1,
			EosID:     2,
			PadID:     -1,
		},
		NormalizerSpec: NormalizerSpec{
			AddDummyPrefix:         true,
			RemoveExtraWhitespaces: true,
		},
	}

	err := walk(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if typ != protowire.BytesType {
			return skip(num, typ, b)
		}
		msg, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return n, nil
		}
		var err error
		switch num {
		case fieldModelPieces:
			var p Piece
			p, err = parsePiece(msg)
			m.Pieces = append(m.Pieces, p)
		case fieldModelTrainerSpec:
			err = parseTrainerSpec(msg, &m.TrainerSpec)
		case fieldModelNormalizerSpec:
			err = parseNormalizerSpec(msg, &m.NormalizerSpec)
		}
		return n, err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidModel, err)
	}

	if len(m.Pieces) == 0 {
		return nil, fmt.Errorf("%w: no pieces", ErrInvalidModel)
	}

	return m, nil
}

func parsePiece(data []byte) (Piece, error) {
	p := Piece{Type: Normal}
	err := walk(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == fieldPiecePiece && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			p.Piece = string(v)
			return n, nil
		case num == fieldPieceScore && typ == protowire.Fixed32Type:
			v, n := protowire.ConsumeFixed32(b)
			p.Score = math.Float32frombits(v)
			return n, nil
		case num == fieldPieceType && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			p.Type = PieceType(int32(v))
			return n, nil
		}
		return skip(num, typ, b)
	})
	return p, err
}

func parseTrainerSpec(data []byte, spec *TrainerSpec) error {
	return walk(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if typ != protowire.VarintType {
			return skip(num, typ, b)
		}
		v, n := protowire.ConsumeVarint(b)
		// int32 fields are sign-extended to 64 bits on the wire.
		id := int32(int64(v))
		switch num {
		case fieldTrainerModelType:
			spec.ModelType = ModelType(id)
		case fieldTrainerUnkID:
			spec.UnkID = id
		case fieldTrainerBosID:
			spec.BosID = id
		case fieldTrainerEosID:
			spec.EosID = id
		case fieldTrainerPadID:
			spec.PadID = id
		}
		return n, nil
	})
}

func parseNormalizerSpec(data []byte, spec *NormalizerSpec) error {
	return walk(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == fieldNormalizerName && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			spec.Name = string(v)
			return n, nil
		case num == fieldNormalizerAddDummyPrefix && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			spec.AddDummyPrefix = protowire.DecodeBool(v)
			return n, nil
		case num == fieldNormalizerRemoveExtraWhitespaces && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			spec.RemoveExtraWhitespaces = protowire.DecodeBool(v)
			return n, nil
		}
		return skip(num, typ, b)
	})
}

// walk calls fn for every field in a message. fn receives the bytes after
// the tag and returns how many of them it consumed, or a negative protowire
// error code.
func walk(data []byte, fn func(protowire.Number, protowire.Type, []byte) (int, error)) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]

		m, err := fn(num, typ, data)
		if err != nil {
			return err
		}
		if m < 0 {
			return fmt.Errorf("field %d: %w", num, protowire.ParseError(m))
		}
		data = data[m:]
	}
	return nil
}

func skip(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	return protowire.ConsumeFieldValue(num, typ, b), nil
}
