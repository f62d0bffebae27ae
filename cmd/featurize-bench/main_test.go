package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jamesainslie/go-featurize/internal/sptest"
)

func TestRun(t *testing.T) {
	dir := filepath.Dir(sptest.WriteModel(t, sptest.Alphabet()))

	configPath := filepath.Join(dir, "featurize.yaml")
	body := "vocabularies:\n  spm:\n    type: sentencepiece\n    path: sentencepiece.model\nfeatures:\n  targets: spm\n"
	if err := os.WriteFile(configPath, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	corpusPath := filepath.Join(dir, "corpus.jsonl")
	corpus := `{"targets":"positive"}` + "\n" + `{"targets":"negative","id":1}` + "\n"
	if err := os.WriteFile(corpusPath, []byte(corpus), 0o600); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	code := run([]string{"-config", configPath, "-corpus", corpusPath}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr.String())
	}

	out := stdout.String()
	if !strings.Contains(out, "Loaded 2 examples") {
		t.Errorf("expected example count in output:\n%s", out)
	}
	if !strings.Contains(out, "targets") || !strings.Contains(out, "0.500") {
		t.Errorf("expected targets row with 0.500 round trip rate:\n%s", out)
	}
}

func TestRun_MissingFlags(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-config", "x.yaml"}, &stdout, &stderr); code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
}
