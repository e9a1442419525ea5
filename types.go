package doc2man

import (
	"runtime"
	"time"
)

// Man section bounds.
const (
	MinSection     = 1
	MaxSection     = 9
	DefaultSection = 3
)

// Worker pool sizing constants.
const (
	// MinWorkers ensures at least one goroutine makes progress.
	MinWorkers = 1

	// MaxWorkers caps the fan-out; parsing is CPU bound and more
	// goroutines than cores only add scheduling overhead.
	MaxWorkers = 32
)

// SourceFile is one header to process. Name is the display name used in
// diagnostics, include lines, and page targets; the library never opens it.
type SourceFile struct {
	Name string
	Text string
}

// Page is one rendered man page.
type Page struct {
	Title  string // page name, lowercased symbol or header stem
	Target string // suggested output file name, e.g. "widget_new.3"
	Body   string // complete roff source including the heading
}

// Severity classifies a diagnostic.
type Severity int

const (
	// SeverityWarning marks a recoverable condition; output was still
	// produced, possibly degraded.
	SeverityWarning Severity = iota

	// SeverityError marks a condition that caused content to be skipped.
	SeverityError
)

// String returns the lowercase severity label.
func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Diagnostic describes one problem found while processing the input.
type Diagnostic struct {
	File     string
	Line     int // 1-based, 0 when the position is unknown
	Severity Severity
	Message  string
}

// Result holds the output of one run.
type Result struct {
	Pages       []Page
	Diagnostics []Diagnostic
}

// HasErrors reports whether any diagnostic has error severity.
func (r *Result) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Decoration is verbatim roff text wrapped around one page's body.
type Decoration struct {
	Preamble string
	Epilogue string
}

// Decorations maps a page title to its decoration.
type Decorations map[string]Decoration

// Option configures a Service.
type Option func(*Service)

// serviceConfig holds internal configuration for Service.
type serviceConfig struct {
	workers      int
	topic        string
	section      int
	project      string
	version      string
	library      string
	footerMiddle string
	footerInside string
	headerMiddle string
	autofill     bool
	now          time.Time
	decorations  Decorations
	examples     map[string]string
}

// WithWorkers sets the parse and render fan-out width.
// Panics if n < 0 (programmer error); zero means auto-size.
func WithWorkers(n int) Option {
	if n < 0 {
		panic("doc2man: WithWorkers count must not be negative")
	}
	return func(s *Service) {
		s.cfg.workers = n
	}
}

// WithTopic sets the .TH heading topic. The default is the project name
// uppercased.
func WithTopic(topic string) Option {
	return func(s *Service) {
		s.cfg.topic = topic
	}
}

// WithSection sets the man section number for every page.
// Panics if the section is outside 1..9 (programmer error).
func WithSection(section int) Option {
	if section < MinSection || section > MaxSection {
		panic("doc2man: WithSection number must be between 1 and 9")
	}
	return func(s *Service) {
		s.cfg.section = section
	}
}

// WithProject sets the project name and version used in headings.
func WithProject(name, version string) Option {
	return func(s *Service) {
		s.cfg.project = name
		s.cfg.version = version
	}
}

// WithLibrary sets the LIBRARY section text, conventionally the library
// name with its link flag, e.g. "Acme library (libacme, -lacme)".
func WithLibrary(text string) Option {
	return func(s *Service) {
		s.cfg.library = text
	}
}

// WithFooterMiddle sets the .TH footer-middle field, overriding autofill.
func WithFooterMiddle(text string) Option {
	return func(s *Service) {
		s.cfg.footerMiddle = text
	}
}

// WithFooterInside sets the .TH footer-inside field, overriding autofill.
func WithFooterInside(text string) Option {
	return func(s *Service) {
		s.cfg.footerInside = text
	}
}

// WithHeaderMiddle sets the .TH header-middle field.
func WithHeaderMiddle(text string) Option {
	return func(s *Service) {
		s.cfg.headerMiddle = text
	}
}

// WithAutofill fills empty .TH footer fields from the current date and the
// project name and version.
func WithAutofill() Option {
	return func(s *Service) {
		s.cfg.autofill = true
	}
}

// WithDecorations sets per-page preamble and epilogue text, keyed by page
// title.
func WithDecorations(d Decorations) Option {
	return func(s *Service) {
		s.cfg.decorations = d
	}
}

// WithExamples sets the example file lookup used by \example tags, mapping
// file names to their source text.
func WithExamples(examples map[string]string) Option {
	return func(s *Service) {
		s.cfg.examples = examples
	}
}

// ResolveWorkers determines the fan-out width.
// Priority: explicit workers > GOMAXPROCS.
// Exported for use by servers and CLIs.
func ResolveWorkers(workers int) int {
	if workers > 0 {
		return workers
	}

	n := runtime.GOMAXPROCS(0)
	if n < MinWorkers {
		return MinWorkers
	}
	if n > MaxWorkers {
		return MaxWorkers
	}
	return n
}
