// Package diag defines the diagnostic values accumulated during a
// documentation run. Diagnostics are data, not errors: a recoverable
// problem in one file must never abort processing of another.
package diag

import (
	"fmt"
	"sort"
)

// Severity classifies a diagnostic.
type Severity int

const (
	// Warning marks a recoverable condition; output was still produced,
	// possibly degraded (unknown tag, unresolved reference).
	Warning Severity = iota

	// Error marks a condition that caused content to be skipped
	// (unterminated comment, unbalanced group markers).
	Error
)

// String returns the lowercase severity label.
func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

// Diagnostic describes one problem found while processing a source file.
type Diagnostic struct {
	File     string
	Line     int // 1-based, 0 when the position is unknown
	Severity Severity
	Message  string
}

// String formats the diagnostic in the conventional file:line: severity: message shape.
func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("%s:%d: %s: %s", d.File, d.Line, d.Severity, d.Message)
	}
	if d.File != "" {
		return fmt.Sprintf("%s: %s: %s", d.File, d.Severity, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Severity, d.Message)
}

// List collects diagnostics for one file or one run.
type List struct {
	all []Diagnostic
}

// Warningf appends a warning.
func (l *List) Warningf(file string, line int, format string, args ...any) {
	l.all = append(l.all, Diagnostic{File: file, Line: line, Severity: Warning, Message: fmt.Sprintf(format, args...)})
}

// Errorf appends an error.
func (l *List) Errorf(file string, line int, format string, args ...any) {
	l.all = append(l.all, Diagnostic{File: file, Line: line, Severity: Error, Message: fmt.Sprintf(format, args...)})
}

// Append merges another list into this one.
func (l *List) Append(other *List) {
	if other != nil {
		l.all = append(l.all, other.all...)
	}
}

// Add appends pre-built diagnostics.
func (l *List) Add(ds ...Diagnostic) {
	l.all = append(l.all, ds...)
}

// All returns the accumulated diagnostics in insertion order.
func (l *List) All() []Diagnostic {
	return l.all
}

// Len reports the number of accumulated diagnostics.
func (l *List) Len() int {
	return len(l.all)
}

// HasErrors reports whether any diagnostic has Error severity.
func (l *List) HasErrors() bool {
	for _, d := range l.all {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// SortStable orders diagnostics by file then line, preserving insertion
// order within a position. Used to make concurrent runs deterministic.
func (l *List) SortStable() {
	sort.SliceStable(l.all, func(i, j int) bool {
		if l.all[i].File != l.all[j].File {
			return l.all[i].File < l.all[j].File
		}
		return l.all[i].Line < l.all[j].Line
	})
}
