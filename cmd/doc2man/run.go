package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hollis/go-doc2man"
	"github.com/hollis/go-doc2man/internal/config"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInputs  = errors.New("usage: doc2man [flags] <header.h>...")
	ErrReadInput = errors.New("failed to read input file")
	ErrDocErrors = errors.New("documentation errors reported")
)

// run loads configuration, reads the input headers, generates the pages,
// and writes them to the output directory.
func run(ctx context.Context, flags *cliFlags, inputs []string, stderr io.Writer) error {
	if len(inputs) == 0 {
		return ErrNoInputs
	}

	cfg := config.DefaultConfig()
	if flags.config != "" {
		loaded, err := config.LoadConfig(flags.config)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	opts, err := buildOptions(flags, cfg)
	if err != nil {
		return err
	}

	files := make([]doc2man.SourceFile, 0, len(inputs))
	for _, path := range inputs {
		text, err := os.ReadFile(path) // #nosec G304 -- input paths are user-provided
		if err != nil {
			return fmt.Errorf("%w: %v", ErrReadInput, err)
		}
		files = append(files, doc2man.SourceFile{Name: filepath.Base(path), Text: string(text)})
	}

	svc := doc2man.New(opts...)
	result, err := svc.Generate(ctx, files)
	if err != nil {
		return err
	}

	if !flags.quiet {
		for _, d := range result.Diagnostics {
			fmt.Fprintln(stderr, formatDiagnostic(d))
		}
	}

	outDir := flags.output
	if outDir == "" {
		outDir = cfg.Output.Dir
	}
	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	for _, page := range result.Pages {
		target := filepath.Join(outDir, page.Target)
		if err := os.WriteFile(target, []byte(page.Body), 0o644); err != nil { // #nosec G306 -- man pages are world-readable
			return fmt.Errorf("writing %s: %w", target, err)
		}
		if flags.verbose {
			fmt.Fprintf(stderr, "Wrote %s\n", target)
		}
	}

	if result.HasErrors() {
		return ErrDocErrors
	}
	return nil
}

// buildOptions merges flags over config into service options.
// Precedence: explicit flags > config file > defaults.
func buildOptions(flags *cliFlags, cfg *config.Config) ([]doc2man.Option, error) {
	pick := func(flagValue, cfgValue string) string {
		if flagValue != "" {
			return flagValue
		}
		return cfgValue
	}

	var opts []doc2man.Option

	if name := pick(flags.project, cfg.Project.Name); name != "" {
		version := pick(flags.version, cfg.Project.Version)
		opts = append(opts, doc2man.WithProject(name, version))
	}
	if library := pick(flags.library, cfg.Project.Library); library != "" {
		opts = append(opts, doc2man.WithLibrary(library))
	}
	if topic := pick(flags.topic, cfg.Heading.Topic); topic != "" {
		opts = append(opts, doc2man.WithTopic(topic))
	}

	section := flags.section
	if section == 0 {
		section = cfg.Heading.Section
	}
	if section != 0 {
		opts = append(opts, doc2man.WithSection(section))
	}

	if v := pick(flags.footerMid, cfg.Heading.FooterMiddle); v != "" {
		opts = append(opts, doc2man.WithFooterMiddle(v))
	}
	if v := pick(flags.footerIn, cfg.Heading.FooterInside); v != "" {
		opts = append(opts, doc2man.WithFooterInside(v))
	}
	if v := pick(flags.headerMid, cfg.Heading.HeaderMiddle); v != "" {
		opts = append(opts, doc2man.WithHeaderMiddle(v))
	}
	if flags.autofill || cfg.Heading.Autofill {
		opts = append(opts, doc2man.WithAutofill())
	}

	workers := flags.workers
	if workers == 0 {
		workers = cfg.Workers
	}
	if workers != 0 {
		opts = append(opts, doc2man.WithWorkers(workers))
	}

	if len(cfg.Decorations) > 0 {
		decorations := make(doc2man.Decorations, len(cfg.Decorations))
		for title, d := range cfg.Decorations {
			decorations[title] = doc2man.Decoration{Preamble: d.Preamble, Epilogue: d.Epilogue}
		}
		opts = append(opts, doc2man.WithDecorations(decorations))
	}

	examplesDir := pick(flags.examplesDir, cfg.ExamplesDir)
	if examplesDir != "" {
		examples, err := readExamples(examplesDir)
		if err != nil {
			return nil, err
		}
		opts = append(opts, doc2man.WithExamples(examples))
	}

	return opts, nil
}

// readExamples loads every regular file in dir, keyed by base name, for
// \example lookup.
func readExamples(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading examples directory: %w", err)
	}
	examples := make(map[string]string, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		text, err := os.ReadFile(filepath.Join(dir, e.Name())) // #nosec G304 -- examples dir is user-provided
		if err != nil {
			return nil, fmt.Errorf("reading example %s: %w", e.Name(), err)
		}
		examples[e.Name()] = string(text)
	}
	return examples, nil
}

// formatDiagnostic renders one diagnostic in the conventional
// file:line: severity: message shape.
func formatDiagnostic(d doc2man.Diagnostic) string {
	if d.Line > 0 {
		return fmt.Sprintf("%s:%d: %s: %s", d.File, d.Line, d.Severity, d.Message)
	}
	if d.File != "" {
		return fmt.Sprintf("%s: %s: %s", d.File, d.Severity, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Severity, d.Message)
}
