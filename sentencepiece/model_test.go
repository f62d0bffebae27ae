package sentencepiece

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jamesainslie/go-featurize/internal/sptest"
)

func TestLoadModel(t *testing.T) {
	model, err := LoadModel(sptest.WriteModel(t, sptest.Alphabet()))
	if err != nil {
		t.Fatalf("LoadModel failed: %v", err)
	}

	if len(model.Pieces) != 26 {
		t.Errorf("expected 26 pieces, got %d", len(model.Pieces))
	}

	// piece[0] = <pad> (CONTROL)
	// piece[1] = </s>  (CONTROL)
	// piece[2] = <unk> (UNKNOWN)
	if model.Pieces[0].Piece != "<pad>" || model.Pieces[0].Type != Control {
		t.Errorf("expected piece[0] = <pad>/CONTROL, got %s/%d", model.Pieces[0].Piece, model.Pieces[0].Type)
	}
	if model.Pieces[1].Piece != "</s>" || model.Pieces[1].Type != Control {
		t.Errorf("expected piece[1] = </s>/CONTROL, got %s/%d", model.Pieces[1].Piece, model.Pieces[1].Type)
	}
	if model.Pieces[2].Piece != "<unk>" || model.Pieces[2].Type != Unknown {
		t.Errorf("expected piece[2] = <unk>/UNKNOWN, got %s/%d", model.Pieces[2].Piece, model.Pieces[2].Type)
	}
	if model.Pieces[4].Piece != "e" || model.Pieces[4].Score != -2 {
		t.Errorf("expected piece[4] = e with score -2, got %s/%v", model.Pieces[4].Piece, model.Pieces[4].Score)
	}
}

func TestLoadModel_Specs(t *testing.T) {
	model, err := ParseModel(sptest.Alphabet().Bytes())
	if err != nil {
		t.Fatalf("ParseModel failed: %v", err)
	}

	want := TrainerSpec{ModelType: Unigram, UnkID: 2, BosID: -1, EosID: 1, PadID: 0}
	if model.TrainerSpec != want {
		t.Errorf("trainer spec = %+v, want %+v", model.TrainerSpec, want)
	}

	wantNorm := NormalizerSpec{Name: "nmt_nfkc", AddDummyPrefix: true, RemoveExtraWhitespaces: true}
	if model.NormalizerSpec != wantNorm {
		t.Errorf("normalizer spec = %+v, want %+v", model.NormalizerSpec, wantNorm)
	}
}

func TestParseModel_Defaults(t *testing.T) {
	// Pieces only: trainer and normalizer specs fall back to proto defaults.
	piecesOnly := piecePrefix(t, sptest.Alphabet())

	model, err := ParseModel(piecesOnly)
	if err != nil {
		t.Fatalf("ParseModel failed: %v", err)
	}
	if len(model.Pieces) != 26 {
		t.Fatalf("expected 26 pieces, got %d", len(model.Pieces))
	}

	want := TrainerSpec{ModelType: Unigram, UnkID: 0, BosID: 1, EosID: 2, PadID: -1}
	if model.TrainerSpec != want {
		t.Errorf("trainer spec = %+v, want %+v", model.TrainerSpec, want)
	}
	if !model.NormalizerSpec.AddDummyPrefix || !model.NormalizerSpec.RemoveExtraWhitespaces {
		t.Errorf("expected normalizer defaults to be true, got %+v", model.NormalizerSpec)
	}
}

// piecePrefix returns the serialized pieces of spec without the trailing
// trainer and normalizer messages.
func piecePrefix(t *testing.T, spec sptest.Spec) []byte {
	t.Helper()
	pieces := spec.Pieces
	spec.Pieces = nil
	suffix := len(spec.Bytes())
	spec.Pieces = pieces
	b := spec.Bytes()
	return b[:len(b)-suffix]
}

func TestLoadModel_FileNotFound(t *testing.T) {
	_, err := LoadModel(filepath.Join(t.TempDir(), "nonexistent.model"))
	if err == nil {
		t.Error("expected error for non-existent file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got: %v", err)
	}
}

func TestLoadModel_InvalidProtobuf(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokenizer.json")
	if err := os.WriteFile(path, []byte(`{"model": {"type": "Unigram"}}`), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := LoadModel(path)
	if err == nil {
		t.Fatal("expected error for invalid protobuf data")
	}
	if !errors.Is(err, ErrInvalidModel) {
		t.Errorf("expected ErrInvalidModel, got: %v", err)
	}
}

func TestParseModel_Empty(t *testing.T) {
	_, err := ParseModel(nil)
	if !errors.Is(err, ErrInvalidModel) {
		t.Errorf("expected ErrInvalidModel for empty model, got: %v", err)
	}
}
