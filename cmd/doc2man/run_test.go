package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hollis/go-doc2man"
)

const testHeader = `/**
 * \brief Allocates a fresh widget.
 * \param size Initial size in bytes.
 */
struct widget *widget_new(size_t size);
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseFlags(t *testing.T) {
	flags, inputs, err := parseFlags([]string{"-s", "2", "--project", "acme", "widget.h", "other.h"})
	if err != nil {
		t.Fatalf("parseFlags() unexpected error: %v", err)
	}
	if flags.section != 2 {
		t.Errorf("section = %d, want 2", flags.section)
	}
	if flags.project != "acme" {
		t.Errorf("project = %q, want %q", flags.project, "acme")
	}
	if len(inputs) != 2 || inputs[0] != "widget.h" {
		t.Errorf("inputs = %v, want [widget.h other.h]", inputs)
	}
}

func TestParseFlags_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"section too large", []string{"--section", "10"}},
		{"section negative", []string{"--section", "-1"}},
		{"workers negative", []string{"--workers", "-2"}},
		{"unknown flag", []string{"--bogus"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := parseFlags(tt.args); err == nil {
				t.Error("parseFlags() accepted invalid arguments")
			}
		})
	}
}

func TestRun_NoInputs(t *testing.T) {
	flags, _, err := parseFlags(nil)
	if err != nil {
		t.Fatal(err)
	}
	err = run(context.Background(), flags, nil, &bytes.Buffer{})
	if !errors.Is(err, ErrNoInputs) {
		t.Errorf("run() error = %v, want ErrNoInputs", err)
	}
}

func TestRun_WritesPages(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	input := writeFile(t, inDir, "widget.h", testHeader)

	flags, inputs, err := parseFlags([]string{"-o", outDir, "--project", "acme", input})
	if err != nil {
		t.Fatal(err)
	}

	var stderr bytes.Buffer
	if err := run(context.Background(), flags, inputs, &stderr); err != nil {
		t.Fatalf("run() unexpected error: %v\nstderr: %s", err, stderr.String())
	}

	body, err := os.ReadFile(filepath.Join(outDir, "widget_new.3"))
	if err != nil {
		t.Fatalf("expected widget_new.3 in output dir: %v", err)
	}
	if !strings.HasPrefix(string(body), `.TH "ACME" "3"`) {
		t.Errorf("page body starts with %q", strings.SplitN(string(body), "\n", 2)[0])
	}
}

// Flags override config values; config fills in what flags leave unset.
func TestRun_ConfigPrecedence(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	input := writeFile(t, inDir, "widget.h", testHeader)
	cfgPath := writeFile(t, inDir, "doc2man.yaml", "heading:\n  section: 2\n  topic: FROMCONFIG\n")

	t.Run("config applies", func(t *testing.T) {
		flags, inputs, err := parseFlags([]string{"-o", outDir, "-c", cfgPath, input})
		if err != nil {
			t.Fatal(err)
		}
		if err := run(context.Background(), flags, inputs, &bytes.Buffer{}); err != nil {
			t.Fatalf("run() unexpected error: %v", err)
		}
		body, err := os.ReadFile(filepath.Join(outDir, "widget_new.2"))
		if err != nil {
			t.Fatalf("expected widget_new.2: %v", err)
		}
		if !strings.HasPrefix(string(body), `.TH "FROMCONFIG" "2"`) {
			t.Errorf("heading = %q", strings.SplitN(string(body), "\n", 2)[0])
		}
	})

	t.Run("flag wins", func(t *testing.T) {
		flags, inputs, err := parseFlags([]string{"-o", outDir, "-c", cfgPath, "-s", "7", input})
		if err != nil {
			t.Fatal(err)
		}
		if err := run(context.Background(), flags, inputs, &bytes.Buffer{}); err != nil {
			t.Fatalf("run() unexpected error: %v", err)
		}
		if _, err := os.Stat(filepath.Join(outDir, "widget_new.7")); err != nil {
			t.Errorf("expected widget_new.7: %v", err)
		}
	})
}

func TestRun_Diagnostics(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	input := writeFile(t, inDir, "spin.h", "/**\n * \\brief Spins.\n *\n * See #missing_thing for details.\n */\nvoid spin(void);\n")

	flags, inputs, err := parseFlags([]string{"-o", outDir, input})
	if err != nil {
		t.Fatal(err)
	}
	var stderr bytes.Buffer
	if err := run(context.Background(), flags, inputs, &stderr); err != nil {
		t.Fatalf("run() unexpected error: %v", err)
	}
	if !strings.Contains(stderr.String(), "spin.h") || !strings.Contains(stderr.String(), "warning") {
		t.Errorf("stderr missing diagnostic: %q", stderr.String())
	}

	stderr.Reset()
	flags, inputs, err = parseFlags([]string{"-o", outDir, "-q", input})
	if err != nil {
		t.Fatal(err)
	}
	if err := run(context.Background(), flags, inputs, &stderr); err != nil {
		t.Fatal(err)
	}
	if stderr.Len() != 0 {
		t.Errorf("quiet run wrote to stderr: %q", stderr.String())
	}
}

func TestReadExamples(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "demo.c", "int main(void) { return 0; }\n")
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	examples, err := readExamples(dir)
	if err != nil {
		t.Fatalf("readExamples() unexpected error: %v", err)
	}
	if len(examples) != 1 {
		t.Fatalf("examples = %v, want one entry", examples)
	}
	if !strings.Contains(examples["demo.c"], "int main") {
		t.Errorf("demo.c content = %q", examples["demo.c"])
	}
}

func TestFormatDiagnostic(t *testing.T) {
	tests := []struct {
		name string
		d    doc2man.Diagnostic
		want string
	}{
		{
			name: "with position",
			d:    doc2man.Diagnostic{File: "a.h", Line: 4, Severity: doc2man.SeverityWarning, Message: "unknown tag"},
			want: "a.h:4: warning: unknown tag",
		},
		{
			name: "file only",
			d:    doc2man.Diagnostic{File: "a.h", Severity: doc2man.SeverityError, Message: "group never closed"},
			want: "a.h: error: group never closed",
		},
		{
			name: "no position",
			d:    doc2man.Diagnostic{Severity: doc2man.SeverityWarning, Message: "odd input"},
			want: "warning: odd input",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatDiagnostic(tt.d); got != tt.want {
				t.Errorf("formatDiagnostic() = %q, want %q", got, tt.want)
			}
		})
	}
}
