// Package markup parses documentation comment bodies into a structured
// document tree. Block tags (\brief, \param, \return, ...) are recognized
// by a line-oriented splitter; paragraph bodies, inline styling, and pipe
// tables are parsed with goldmark after inline tag normalization.
package markup

// Block is one block-level element of a comment flow.
type Block interface{ block() }

// Paragraph is a run of inline content.
type Paragraph struct {
	Inlines []Inline
}

// CodeBlock is verbatim source text. Content is preserved byte-for-byte;
// no inline processing or reference linking applies inside it.
type CodeBlock struct {
	Language string
	Lines    []string
}

// List is an ordered or bulleted list.
type List struct {
	Ordered bool
	Items   [][]Block
}

// Table is a pipe table. Header is nil when the table has no heading row.
type Table struct {
	Header []TableCell
	Rows   [][]TableCell
}

// TableCell is one cell of a table row.
type TableCell struct {
	Inlines []Inline
}

func (Paragraph) block() {}
func (CodeBlock) block() {}
func (List) block()      {}
func (Table) block()     {}

// Inline is one span of paragraph content.
type Inline interface{ inline() }

// Text is plain character data.
type Text struct {
	Content string
}

// Style selects the rendering of a Styled span.
type Style int

const (
	Bold Style = iota
	Italic
	Code
	Strike
)

// Styled wraps inline content in a presentation style. Code spans hold
// exactly one Text child with the verbatim span content.
type Styled struct {
	Style   Style
	Inlines []Inline
}

// Link is an external URL link.
type Link struct {
	URL     string
	Inlines []Inline
}

// SymbolRef is an unresolved reference to a declared symbol, produced from
// #Identifier shorthand or a \ref tag. Name may be member-qualified
// ("Tag::Member"). Custom holds replacement link text when the reference
// carried its own, nil otherwise.
type SymbolRef struct {
	Name   string
	Custom []Inline
}

// LineBreak forces a line break within a paragraph.
type LineBreak struct{}

func (Text) inline()      {}
func (Styled) inline()    {}
func (Link) inline()      {}
func (SymbolRef) inline() {}
func (LineBreak) inline() {}
