// Package config loads the optional YAML configuration consumed by the
// doc2man CLI. Flags override config values, which override defaults; the
// merge itself happens in the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hollis/go-doc2man/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
)

// Config holds all configuration for page generation.
type Config struct {
	Project     ProjectConfig         `yaml:"project"`
	Heading     HeadingConfig         `yaml:"heading"`
	Output      OutputConfig          `yaml:"output"`
	Workers     int                   `yaml:"workers"`
	ExamplesDir string                `yaml:"examplesDir"`
	Decorations map[string]Decoration `yaml:"decorations"`
}

// ProjectConfig names the documented project.
type ProjectConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Library string `yaml:"library"` // LIBRARY section text, e.g. "Acme library (libacme, -lacme)"
}

// HeadingConfig fills the .TH heading fields.
type HeadingConfig struct {
	Topic        string `yaml:"topic"`
	Section      int    `yaml:"section"` // 1-9, default 3
	FooterMiddle string `yaml:"footerMiddle"`
	FooterInside string `yaml:"footerInside"`
	HeaderMiddle string `yaml:"headerMiddle"`
	Autofill     bool   `yaml:"autofill"`
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	Dir string `yaml:"dir"` // default output directory (empty = current directory)
}

// Decoration is verbatim roff text wrapped around one page, keyed by page
// title in Config.Decorations.
type Decoration struct {
	Preamble string `yaml:"preamble"`
	Epilogue string `yaml:"epilogue"`
}

// Validate checks value ranges. Called automatically by LoadConfig, but
// available for consumers who construct Config manually.
func (c *Config) Validate() error {
	if c.Heading.Section != 0 && (c.Heading.Section < 1 || c.Heading.Section > 9) {
		return fmt.Errorf("heading.section: must be between 1 and 9, got %d", c.Heading.Section)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers: must not be negative, got %d", c.Workers)
	}
	return nil
}

// DefaultConfig returns a neutral configuration.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns an error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, then the user config
// directory under go-doc2man/.
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-doc2man", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
