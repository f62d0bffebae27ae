package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/jamesainslie/go-featurize/internal/bench"
	"github.com/jamesainslie/go-featurize/internal/config"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("featurize-bench", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		configPath = fs.String("config", "", "Path to tokenizer config file (required)")
		corpusPath = fs.String("corpus", "", "JSONL corpus file (required)")
		verbose    = fs.Bool("v", false, "Debug logging")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *configPath == "" || *corpusPath == "" {
		fmt.Fprintln(stderr, "error: -config and -corpus required")
		fs.Usage()
		return 1
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "error loading config: %v\n", err)
		return 1
	}
	tok, err := cfg.Build(logger)
	if err != nil {
		fmt.Fprintf(stderr, "error creating tokenizer: %v\n", err)
		return 1
	}

	examples, err := bench.LoadCorpus(*corpusPath)
	if err != nil {
		fmt.Fprintf(stderr, "error loading corpus: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "Loaded %d examples from %s\n\n", len(examples), *corpusPath)

	m, err := bench.Evaluate(tok, examples)
	if err != nil {
		fmt.Fprintf(stderr, "error evaluating: %v\n", err)
		return 1
	}

	printMetrics(stdout, m)
	return 0
}

func printMetrics(w io.Writer, m bench.Metrics) {
	fmt.Fprintf(w, "%-20s %-8s %-8s %-8s %-8s %-8s\n", "Feature", "Count", "Tokens", "Tok/Chr", "Unk", "RoundTrip")
	fmt.Fprintln(w, strings.Repeat("-", 66))

	names := make([]string, 0, len(m.ByFeature))
	for name := range m.ByFeature {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		printRow(w, name, m.ByFeature[name])
	}
	fmt.Fprintln(w, strings.Repeat("-", 66))
	printRow(w, "total", m.Total)
}

func printRow(w io.Writer, name string, c bench.Counts) {
	fmt.Fprintf(w, "%-20s %-8d %-8d %-8.2f %-8.3f %-8.3f\n",
		name, c.Features, c.Tokens, c.TokensPerChar(), c.UnknownRate(), c.RoundTripRate())
}
