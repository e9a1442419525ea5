package main

import (
	"fmt"

	flag "github.com/spf13/pflag"
)

// cliFlags holds all parsed command-line flags.
type cliFlags struct {
	output      string
	config      string
	topic       string
	section     int
	project     string
	version     string
	library     string
	footerMid   string
	footerIn    string
	headerMid   string
	autofill    bool
	examplesDir string
	workers     int
	quiet       bool
	verbose     bool
	showVersion bool
}

// parseFlags parses args (excluding the program name) and returns the flags
// with the remaining positional arguments, the input header paths.
func parseFlags(args []string) (*cliFlags, []string, error) {
	f := &cliFlags{}
	fs := flag.NewFlagSet("doc2man", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: doc2man [flags] <header.h>...\n\nFlags:\n%s", fs.FlagUsages())
	}

	fs.StringVarP(&f.output, "output", "o", "", "output directory for rendered pages (default: current directory)")
	fs.StringVarP(&f.config, "config", "c", "", "config file path or name")
	fs.StringVar(&f.topic, "topic", "", "page heading topic (default: project name uppercased)")
	fs.IntVarP(&f.section, "section", "s", 0, "man section number 1-9 (default: 3)")
	fs.StringVar(&f.project, "project", "", "project name for headings")
	fs.StringVar(&f.version, "project-version", "", "project version for headings")
	fs.StringVar(&f.library, "library", "", "LIBRARY section text")
	fs.StringVar(&f.footerMid, "footer-middle", "", "heading footer-middle text")
	fs.StringVar(&f.footerIn, "footer-inside", "", "heading footer-inside text")
	fs.StringVar(&f.headerMid, "header-middle", "", "heading header-middle text")
	fs.BoolVar(&f.autofill, "autofill", false, "fill empty footer fields from the date and project version")
	fs.StringVar(&f.examplesDir, "examples", "", "directory holding \\example source files")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parse and render fan-out width (default: auto)")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "suppress diagnostics on stderr")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "report progress on stderr")
	fs.BoolVar(&f.showVersion, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	if f.section != 0 && (f.section < 1 || f.section > 9) {
		return nil, nil, fmt.Errorf("--section must be between 1 and 9, got %d", f.section)
	}
	if f.workers < 0 {
		return nil, nil, fmt.Errorf("--workers must not be negative, got %d", f.workers)
	}
	return f, fs.Args(), nil
}
