package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "zero config is valid",
			cfg:     Config{},
			wantErr: false,
		},
		{
			name: "full config is valid",
			cfg: Config{
				Project: ProjectConfig{Name: "acme", Version: "1.2.0", Library: "Acme library (libacme, -lacme)"},
				Heading: HeadingConfig{Topic: "ACME", Section: 3, Autofill: true},
				Workers: 4,
			},
			wantErr: false,
		},
		{
			name:    "section out of range",
			cfg:     Config{Heading: HeadingConfig{Section: 10}},
			wantErr: true,
		},
		{
			name:    "negative workers",
			cfg:     Config{Workers: -1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc2man.yaml")
	content := `project:
  name: acme
  version: 1.2.0
heading:
  section: 2
  autofill: true
decorations:
  widget_new:
    preamble: '.\" generated'
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() unexpected error: %v", err)
	}
	if cfg.Project.Name != "acme" || cfg.Project.Version != "1.2.0" {
		t.Errorf("Project = %+v, want acme 1.2.0", cfg.Project)
	}
	if cfg.Heading.Section != 2 || !cfg.Heading.Autofill {
		t.Errorf("Heading = %+v, want section 2 with autofill", cfg.Heading)
	}
	if cfg.Decorations["widget_new"].Preamble != `.\" generated` {
		t.Errorf("Decorations = %+v, want widget_new preamble", cfg.Decorations)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("empty name", func(t *testing.T) {
		_, err := LoadConfig("")
		if !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("unknown field", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		if err := os.WriteFile(path, []byte("bogus: field\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("invalid section", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		if err := os.WriteFile(path, []byte("heading:\n  section: 12\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfig(path); err == nil {
			t.Error("LoadConfig() accepted an out-of-range section")
		}
	})
}
