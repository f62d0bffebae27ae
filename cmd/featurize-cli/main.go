package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	featurize "github.com/jamesainslie/go-featurize"
	"github.com/jamesainslie/go-featurize/internal/config"
)

// maxLineSize bounds a single JSONL record.
const maxLineSize = 16 << 20

// Set by the stave build via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("featurize-cli", flag.ContinueOnError)
	fs.SetOutput(stderr)

	configPath := fs.String("config", "", "Path to tokenizer config file (required)")
	inputPath := fs.String("input", "-", "JSONL input file, - for stdin")
	noCopy := fs.Bool("no-copy", false, "Do not keep <feature>_pretokenized copies")
	eos := fs.Bool("eos", false, "Append each vocabulary's EOS id")
	verbose := fs.Bool("v", false, "Debug logging")
	showVersion := fs.Bool("version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Fprintf(stdout, "featurize-cli %s (%s, %s)\n", version, commit, date)
		return 0
	}

	if *configPath == "" {
		fmt.Fprintln(stderr, "Usage: featurize-cli -config CONFIG [OPTIONS] < examples.jsonl")
		fs.PrintDefaults()
		return 1
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return 1
	}
	if *noCopy {
		cfg.CopyPretokenized = false
	}
	if *eos {
		cfg.WithEOS = true
	}

	tok, err := cfg.Build(logger)
	if err != nil {
		fmt.Fprintf(stderr, "Error creating tokenizer: %v\n", err)
		return 1
	}

	in := stdin
	if *inputPath != "-" {
		f, err := os.Open(*inputPath)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		defer func() { _ = f.Close() }()
		in = f
	}

	n, err := process(tok, in, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	logger.Debug("done", "examples", n)
	return 0
}

// process tokenizes each JSONL line of in and writes the result to out.
func process(tok *featurize.Tokenizer, in io.Reader, out io.Writer) (int, error) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64<<10), maxLineSize)

	w := bufio.NewWriter(out)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	count := 0
	fail := func(err error) (int, error) {
		_ = w.Flush() // keep the lines already written
		return count, err
	}

	line := 0
	for scanner.Scan() {
		line++
		data := bytes.TrimSpace(scanner.Bytes())
		if len(data) == 0 {
			continue
		}

		var ex featurize.Example
		if err := json.Unmarshal(data, &ex); err != nil {
			return fail(fmt.Errorf("line %d: %w", line, err))
		}

		tokenized, err := tok.Apply(ex)
		if err != nil {
			return fail(fmt.Errorf("line %d: %w", line, err))
		}

		if err := enc.Encode(tokenized); err != nil {
			return fail(fmt.Errorf("line %d: %w", line, err))
		}
		count++
	}

	if err := scanner.Err(); err != nil {
		return fail(fmt.Errorf("reading input: %w", err))
	}
	return count, w.Flush()
}
