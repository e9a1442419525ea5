// Package roff assembles man page source. A Builder collects text runs,
// literal source lines, and macro calls, then serializes them with the
// format's line discipline: macros on their own lines, sentences on their
// own lines, and control characters neutralized at line starts.
package roff

import "strings"

type entryKind int

const (
	textEntry entryKind = iota
	literalEntry
	macroEntry
)

type entry struct {
	kind       entryKind
	content    string // text or literal content, macro name for macros
	arg        string
	hasArg     bool
	standalone bool // literal occupies its own output line
}

// Builder accumulates page content. The zero value is ready to use.
type Builder struct {
	entries []entry
}

// Man pages render most portably with plain ASCII quotes.
var asciiQuotes = strings.NewReplacer(
	"“", `"`,
	"”", `"`,
	"‘", "'",
	"’", "'",
)

// Text appends paragraph text. Adjacent text runs are joined and split into
// one sentence per output line when the page is serialized.
func (b *Builder) Text(s string) {
	b.entries = append(b.entries, entry{kind: textEntry, content: asciiQuotes.Replace(s)})
}

// Source appends one verbatim line, such as a line of example code. It is
// emitted on its own line with backslashes doubled so they survive output.
func (b *Builder) Source(line string) {
	b.entries = append(b.entries, entry{kind: literalEntry, content: asciiQuotes.Replace(line), standalone: true})
}

// Raw appends literal content that flows with its neighbors, for output the
// caller has already formatted, such as tbl cell separators.
func (b *Builder) Raw(s string) {
	b.entries = append(b.entries, entry{kind: literalEntry, content: s})
}

// Macro appends a macro call. The leading dot is implied.
func (b *Builder) Macro(name string, args ...string) {
	e := entry{kind: macroEntry, content: name}
	if len(args) > 0 {
		e.arg = strings.Join(args, " ")
		e.hasArg = true
	}
	b.entries = append(b.entries, e)
}

// Extend appends all of other's entries.
func (b *Builder) Extend(other *Builder) {
	b.entries = append(b.entries, other.entries...)
}

// Len reports the number of entries appended so far.
func (b *Builder) Len() int { return len(b.entries) }

// IsText reports whether the builder holds only plain text runs.
func (b *Builder) IsText() bool {
	for _, e := range b.entries {
		if e.kind != textEntry {
			return false
		}
	}
	return true
}

// ReplaceMacro renames every occurrence of a macro. Descriptions nested
// under .TP use it to turn paragraph breaks into indented breaks.
func (b *Builder) ReplaceMacro(from, to string) {
	for i := range b.entries {
		if b.entries[i].kind == macroEntry && b.entries[i].content == from {
			b.entries[i].content = to
		}
	}
}

// StripLeadingMacro removes the first entry when it is the named macro.
// Bodies nested under .TP drop their opening paragraph break so the body
// starts on the tag's line.
func (b *Builder) StripLeadingMacro(name string) {
	if len(b.entries) > 0 && b.entries[0].kind == macroEntry && b.entries[0].content == name {
		b.entries = b.entries[1:]
	}
}

// StripMacro removes every occurrence of a macro. List items strip .PP so
// item text stays on the bullet's line.
func (b *Builder) StripMacro(name string) {
	kept := b.entries[:0]
	for _, e := range b.entries {
		if e.kind == macroEntry && e.content == name {
			continue
		}
		kept = append(kept, e)
	}
	b.entries = kept
}

// simplify drops blank text, leading and duplicated and trailing paragraph
// breaks, and pulls sentence punctuation into a preceding .UE macro so it
// hugs the link text.
func (b *Builder) simplify() []entry {
	keep := make([]entry, 0, len(b.entries))
	for _, e := range b.entries {
		switch e.kind {
		case textEntry:
			if strings.TrimSpace(e.content) != "" {
				keep = append(keep, e)
			}
		case literalEntry:
			keep = append(keep, e)
		case macroEntry:
			if e.content == "PP" {
				if len(keep) == 0 {
					continue
				}
				if last := keep[len(keep)-1]; last.kind == macroEntry && last.content == "PP" {
					continue
				}
			}
			keep = append(keep, e)
		}
	}

	for i := 1; i < len(keep); i++ {
		prev := &keep[i-1]
		if prev.kind != macroEntry || prev.content != "UE" || keep[i].kind == macroEntry {
			continue
		}
		content := keep[i].content
		for len(content) > 0 && strings.IndexByte(".!?,", content[0]) >= 0 {
			prev.arg += content[:1]
			prev.hasArg = true
			content = content[1:]
		}
		keep[i].content = content
	}

	for len(keep) > 0 && keep[len(keep)-1].kind == macroEntry && keep[len(keep)-1].content == "PP" {
		keep = keep[:len(keep)-1]
	}
	return keep
}

// String serializes the page body. Neighboring text runs coalesce first so
// sentence segmentation sees whole paragraphs.
func (b *Builder) String() string {
	var entries []entry
	var blob strings.Builder
	for _, e := range b.simplify() {
		if e.kind == textEntry {
			blob.WriteString(e.content)
			continue
		}
		if blob.Len() > 0 {
			entries = append(entries, entry{kind: textEntry, content: blob.String()})
			blob.Reset()
		}
		entries = append(entries, e)
	}
	if blob.Len() > 0 {
		entries = append(entries, entry{kind: textEntry, content: blob.String()})
	}

	var sb strings.Builder
	var prev *entry
	for i := range entries {
		curr := &entries[i]
		switch curr.kind {
		case macroEntry:
			if sb.Len() > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteByte('.')
			sb.WriteString(curr.content)
			if curr.hasArg {
				sb.WriteByte(' ')
				sb.WriteString(curr.arg)
			}
		case literalEntry:
			content := strings.ReplaceAll(curr.content, `\`, `\\`)
			if curr.standalone {
				content = neutralize(content)
			} else if prev == nil || prev.kind == macroEntry {
				content = neutralize(content)
			}
			if prev != nil && (prev.kind == macroEntry || prev.kind == literalEntry) {
				sb.WriteByte('\n')
			}
			sb.WriteString(content)
		case textEntry:
			if prev != nil && (prev.kind == macroEntry || prev.kind == literalEntry && prev.standalone) {
				sb.WriteByte('\n')
			}
			lines := segment(curr.content)
			for j, line := range lines {
				if j > 0 {
					sb.WriteByte('\n')
				}
				sb.WriteString(neutralize(line))
			}
		}
		prev = curr
	}
	return sb.String()
}

// neutralize escapes a leading control character so the line is not
// interpreted as a macro or line continuation.
func neutralize(line string) string {
	if line == "" {
		return line
	}
	switch line[0] {
	case '.':
		return `\[char46]` + line[1:]
	case '\'':
		return `\[char39]` + line[1:]
	case '"':
		return `\[char34]` + line[1:]
	}
	return line
}
