// Package bench measures how well configured vocabularies cover a corpus.
package bench

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	featurize "github.com/jamesainslie/go-featurize"
)

// maxLineSize bounds a single JSONL record.
const maxLineSize = 16 << 20

// ReadExamples parses JSONL: one JSON object per line, blank lines skipped.
func ReadExamples(r io.Reader) ([]featurize.Example, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64<<10), maxLineSize)

	var examples []featurize.Example
	line := 0
	for scanner.Scan() {
		line++
		data := bytes.TrimSpace(scanner.Bytes())
		if len(data) == 0 {
			continue
		}

		var ex featurize.Example
		if err := json.Unmarshal(data, &ex); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		examples = append(examples, ex)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan corpus: %w", err)
	}
	return examples, nil
}

// LoadCorpus loads all examples from a JSONL file.
func LoadCorpus(path string) ([]featurize.Example, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer func() { _ = f.Close() }()

	examples, err := ReadExamples(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return examples, nil
}
