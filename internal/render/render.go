// Package render turns resolved symbols, header pages, and groups into man
// page bodies. Section layout and styling follow the man-pages(7)
// conventions: NAME, LIBRARY, SYNOPSIS, DESCRIPTION, then the detail
// sections, with cross references as bold name(section) text.
package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"

	"github.com/hollis/go-doc2man/internal/decl"
	"github.com/hollis/go-doc2man/internal/diag"
	"github.com/hollis/go-doc2man/internal/index"
	"github.com/hollis/go-doc2man/internal/markup"
	"github.com/hollis/go-doc2man/internal/roff"
)

// Meta carries project metadata and .TH heading fields shared by every page.
type Meta struct {
	Topic        string // heading topic; defaults to the project name uppercased
	Section      int    // man section number
	Project      string
	Version      string
	Brief        string // LIBRARY section text, omitted when empty
	FooterMiddle string
	FooterInside string
	HeaderMiddle string
	Autofill     bool      // fill footer fields from the date and project version
	Now          time.Time // autofill date; zero means time.Now()
}

// Renderer emits page bodies from a read-only index. It holds no mutable
// state and is safe for concurrent use.
type Renderer struct {
	ix       *index.Index
	meta     Meta
	examples map[string]string
}

// New returns a renderer over a resolved index. examples maps \example file
// names to their source text and may be nil.
func New(ix *index.Index, meta Meta, examples map[string]string) *Renderer {
	if meta.Section == 0 {
		meta.Section = 3
	}
	return &Renderer{ix: ix, meta: meta, examples: examples}
}

// pageCtx is the per-page rendering state: the source position for
// diagnostics and the parameter names that render in italics.
type pageCtx struct {
	file   string
	line   int
	params map[string]bool
	diags  *diag.List
}

// PageName returns the man page file name for a symbol page.
func PageName(name string) string { return strings.ToLower(name) }

// HeaderPageName returns the man page file name for a header page, with
// the file extension stripped.
func HeaderPageName(name string) string {
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	return strings.ToLower(name)
}

// Heading builds the .TH line shared by all pages.
func (r *Renderer) Heading() string {
	topic := r.meta.Topic
	if topic == "" {
		topic = strings.ToUpper(r.meta.Project)
	}
	quote := func(s string) string { return `"` + s + `"` }
	params := []string{
		quote(topic),
		quote(strconv.Itoa(r.meta.Section)),
	}

	switch {
	case r.meta.FooterMiddle != "":
		params = append(params, quote(r.meta.FooterMiddle))
	case r.meta.Autofill:
		now := r.meta.Now
		if now.IsZero() {
			now = time.Now()
		}
		date := fmt.Sprintf("%s %d%s %d", now.Format("Jan"), now.Day(), ordinalSuffix(now.Day()), now.Year())
		params = append(params, quote(date))
	default:
		params = append(params, "")
	}

	switch {
	case r.meta.FooterInside != "":
		params = append(params, quote(r.meta.FooterInside))
	case r.meta.Autofill && r.meta.Version != "":
		params = append(params, quote(r.meta.Project+" "+r.meta.Version))
	default:
		params = append(params, "")
	}

	if r.meta.HeaderMiddle != "" {
		params = append(params, quote(r.meta.HeaderMiddle))
	} else {
		params = append(params, "")
	}

	for len(params) > 0 && params[len(params)-1] == "" {
		params = params[:len(params)-1]
	}
	return ".TH " + strings.Join(params, " ") + "\n"
}

func ordinalSuffix(day int) string {
	if day%100 >= 11 && day%100 <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	}
	return "th"
}

// lowerify lowercases the first letter unless it begins an acronym.
func lowerify(text string) string {
	runes := []rune(text)
	if len(runes) >= 2 && unicode.IsUpper(runes[0]) && !unicode.IsUpper(runes[1]) {
		runes[0] = unicode.ToLower(runes[0])
		return string(runes)
	}
	return text
}

func briefify(brief string) string {
	return strings.TrimRight(lowerify(brief), ".")
}

// SymbolPage renders the body of one symbol's page.
func (r *Renderer) SymbolPage(s *index.Symbol, diags *diag.List) string {
	ctx := &pageCtx{
		file:   s.Unit.File,
		line:   s.Unit.Line,
		params: paramNames(s),
		diags:  diags,
	}
	doc := s.Doc
	if doc == nil {
		doc = &markup.Doc{}
	}

	var b roff.Builder
	b.Macro("SH", "NAME")
	brief := r.flatten(doc.Brief, ctx)
	if brief != "" {
		b.Text(s.Name() + ` \- ` + briefify(brief))
	} else {
		b.Text(s.Name())
	}

	r.library(&b)
	r.synopsis(&b, s, ctx)

	if len(doc.Description) > 0 {
		b.Macro("SH", "DESCRIPTION")
		r.blocks(&b, doc.Description, ctx)
	} else if brief != "" {
		b.Macro("SH", "DESCRIPTION")
		b.Text(brief)
	}

	if len(doc.Params) > 0 {
		b.Macro("SH", "PARAMETERS")
		for _, p := range doc.Params {
			b.Macro("TP")
			b.Text(strings.Join(p.Names, ", ") + "\n")
			r.tagged(&b, p.Body, ctx)
		}
	}

	if len(doc.Returns) > 0 || len(doc.RetVals) > 0 {
		b.Macro("SH", "RETURN VALUE")
		r.blocks(&b, doc.Returns, ctx)
		for _, rv := range doc.RetVals {
			b.Macro("TP")
			b.Text(strings.Join(rv.Values, ", ") + "\n")
			r.tagged(&b, rv.Body, ctx)
		}
	}

	switch s.Unit.Kind {
	case decl.Enum:
		r.members(&b, s, "CONSTANTS", ctx)
	case decl.Struct, decl.Union:
		r.members(&b, s, "FIELDS", ctx)
	}

	r.boilerplate(&b, s, doc, ctx)
	return b.String()
}

// tagged renders a block flow indented under a .TP tag: the opening
// paragraph break is dropped and later ones become indented breaks.
func (r *Renderer) tagged(b *roff.Builder, blocks []markup.Block, ctx *pageCtx) {
	var body roff.Builder
	r.blocks(&body, blocks, ctx)
	body.StripLeadingMacro("PP")
	body.ReplaceMacro("PP", "IP")
	b.Extend(&body)
}

func (r *Renderer) library(b *roff.Builder) {
	if r.meta.Brief != "" {
		b.Macro("SH", "LIBRARY")
		b.Text(strings.TrimSpace(r.meta.Brief))
	}
}

// members emits the CONSTANTS or FIELDS section with per-member docs.
// Detached \var redocumentation overrides the inline member comment.
func (r *Renderer) members(b *roff.Builder, s *index.Symbol, title string, ctx *pageCtx) {
	if len(s.Unit.Members) == 0 {
		return
	}
	b.Macro("SH", title)
	for _, m := range s.Unit.Members {
		b.Macro("TP")
		b.Macro("BR", m.Name)
		doc := s.MemberDocs[m.Name]
		if doc == nil && m.Comment != "" {
			doc = markup.Parse(s.Unit.File, m.Comment, m.Line, ctx.diags)
		}
		if doc == nil {
			continue
		}
		if len(doc.Description) > 0 {
			r.tagged(b, doc.Description, ctx)
		} else if brief := r.flatten(doc.Brief, ctx); brief != "" {
			b.Text(brief)
		}
	}
}

// boilerplate emits the trailing detail sections shared by every page kind.
func (r *Renderer) boilerplate(b *roff.Builder, s *index.Symbol, doc *markup.Doc, ctx *pageCtx) {
	r.flowSection(b, "DEPRECATION", doc.Deprecated, ctx)
	r.exampleSection(b, doc, ctx)
	r.flowSection(b, "NOTES", doc.Notes, ctx)
	r.flowSection(b, "WARNINGS", doc.Warnings, ctx)
	r.flowSection(b, "CAUTION", doc.Cautions, ctx)
	r.flowSection(b, "AUTHORS", doc.Authors, ctx)
	r.flowSection(b, "BUGS", doc.Bugs, ctx)
	if len(doc.Since) > 0 {
		b.Macro("SH", "HISTORY")
		r.blocks(b, doc.Since, ctx)
	}
	var refs []string
	if s != nil {
		refs = r.ix.SeeAlso(s)
	}
	r.seeAlso(b, refs)
}

func (r *Renderer) flowSection(b *roff.Builder, title string, flows [][]markup.Block, ctx *pageCtx) {
	if len(flows) == 0 {
		return
	}
	b.Macro("SH", title)
	for i, flow := range flows {
		if i > 0 {
			b.Macro("PP")
		}
		r.blocks(b, flow, ctx)
	}
}

func (r *Renderer) exampleSection(b *roff.Builder, doc *markup.Doc, ctx *pageCtx) {
	var found []string
	for _, name := range doc.Examples {
		text, ok := r.examples[name]
		if !ok {
			ctx.diags.Warningf(ctx.file, ctx.line, "example file %q is not available", name)
			continue
		}
		found = append(found, text)
	}
	if len(found) == 0 {
		return
	}
	b.Macro("SH", "EXAMPLES")
	for _, text := range found {
		b.Macro("PP")
		b.Macro("in", "+4n")
		b.Macro("EX")
		for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
			b.Source(line)
		}
		b.Macro("EE")
		b.Macro("in")
		b.Macro("PP")
	}
}

func (r *Renderer) seeAlso(b *roff.Builder, refs []string) {
	if len(refs) == 0 {
		return
	}
	b.Macro("SH", "SEE ALSO")
	section := strconv.Itoa(r.meta.Section)
	for i, name := range refs {
		arg := name + " (" + section + ")"
		if i < len(refs)-1 {
			arg += ","
		}
		b.Macro("BR", arg)
	}
}

// ---------------------------------------------------------------------------
// Synopsis
// ---------------------------------------------------------------------------

func (r *Renderer) synopsis(b *roff.Builder, s *index.Symbol, ctx *pageCtx) {
	b.Macro("SH", "SYNOPSIS")
	b.Macro("nf")
	b.Macro("B", "#include <"+s.Unit.File+">")
	b.Macro("PP")
	u := s.Unit
	switch u.Kind {
	case decl.Function:
		b.Macro("BI", functionSignature(u))
	case decl.Macro:
		if u.FunctionLike {
			b.Macro("BI", macroSignature(u))
		} else {
			arg := "#define " + u.Name
			if u.Initializer != "" {
				arg += " " + u.Initializer
			}
			b.Macro("B", arg)
		}
	case decl.Struct, decl.Union:
		keyword := "struct"
		if u.Kind == decl.Union {
			keyword = "union"
		}
		b.Macro("B", keyword+" "+u.Name+" {")
		b.Macro("RS")
		for _, m := range u.Members {
			b.Macro("B", fieldString(m))
		}
		b.Macro("RE")
		b.Macro("B", "};")
	case decl.Enum:
		b.Macro("B", "enum "+u.Name+" {")
		b.Macro("RS")
		for _, m := range u.Members {
			b.Macro("B", m.Name+",")
		}
		b.Macro("RE")
		b.Macro("B", "};")
	case decl.Typedef:
		b.Macro("BI", typedefSignature(u, ctx.params))
	case decl.Variable:
		sig := joinType(u.Type, u.Name) + u.Args + ";"
		b.Macro("B", sig)
	}
	b.Macro("fi")
}

// joinType joins a type and a name with a space unless the type ends with
// an asterisk, keeping pointer declarators tight.
func joinType(typ, name string) string {
	if strings.HasSuffix(typ, "*") {
		return typ + name
	}
	return typ + " " + name
}

// functionSignature builds the quoted .BI argument for a prototype:
// alternating bold type text and italic parameter names.
func functionSignature(u decl.Unit) string {
	sig := `"` + u.ReturnType
	if !strings.HasSuffix(u.ReturnType, "*") {
		sig += " "
	}
	sig += u.Name + "("
	if u.NoArgs {
		sig += "void"
	}
	for i, p := range u.Params {
		sig += p.Type
		if p.Name != "" || p.Array != "" {
			if !strings.HasSuffix(sig, "*") {
				sig += " "
			}
		}
		if p.Name != "" {
			sig += `" ` + p.Name + ` "`
		}
		if p.Array != "" {
			sig += p.Array
		}
		if i < len(u.Params)-1 {
			sig += ", "
		}
	}
	if u.Variadic {
		if len(u.Params) > 0 {
			sig += ", "
		}
		sig += "..."
	}
	sig += `);"`
	return sig
}

func macroSignature(u decl.Unit) string {
	sig := `"#define ` + u.Name + "("
	for i, p := range u.Params {
		sig += `" ` + p.Name + ` "`
		if i < len(u.Params)-1 {
			sig += ", "
		}
	}
	sig += `);"`
	return sig
}

var cLexer = lexers.Get("c")

// typedefSignature builds the quoted .BI argument for a typedef. The
// trailing declarator text is tokenized so documented parameter names
// render in italics, the way prototypes do.
func typedefSignature(u decl.Unit, params map[string]bool) string {
	sig := `"typedef ` + joinType(u.Type, u.Name)
	if u.Args != "" {
		it, err := cLexer.Tokenise(nil, u.Args)
		if err != nil {
			sig += u.Args
		} else {
			for tok := it(); tok != chroma.EOF; tok = it() {
				if tok.Value == "\n" {
					continue
				}
				if params[tok.Value] {
					sig += `" ` + tok.Value + ` "`
				} else {
					sig += tok.Value
				}
			}
		}
	}
	sig += `;"`
	return sig
}

func fieldString(m decl.Member) string {
	return joinType(m.Type, m.Name) + m.Args + ";"
}

func paramNames(s *index.Symbol) map[string]bool {
	params := make(map[string]bool)
	for _, p := range s.Unit.Params {
		if p.Name != "" {
			params[p.Name] = true
		}
	}
	if s.Doc != nil {
		for _, p := range s.Doc.Params {
			for _, name := range p.Names {
				params[name] = true
			}
		}
	}
	return params
}

// ---------------------------------------------------------------------------
// Block and inline content
// ---------------------------------------------------------------------------

func (r *Renderer) blocks(b *roff.Builder, blocks []markup.Block, ctx *pageCtx) {
	for _, bl := range blocks {
		switch t := bl.(type) {
		case markup.Paragraph:
			b.Macro("PP")
			r.inlines(b, t.Inlines, ctx)
		case markup.CodeBlock:
			b.Macro("PP")
			b.Macro("in", "+4n")
			b.Macro("EX")
			for _, line := range t.Lines {
				b.Source(line)
			}
			b.Macro("EE")
			b.Macro("in")
			b.Macro("PP")
		case markup.List:
			b.Macro("RS")
			for i, item := range t.Items {
				if t.Ordered {
					n := i + 1
					indent := int(math.Log10(float64(n))) + 3
					b.Macro("IP", fmt.Sprintf("%d. %d", n, indent))
				} else {
					b.Macro("IP", `\[bu] 2`)
				}
				var content roff.Builder
				r.blocks(&content, item, ctx)
				content.StripMacro("PP")
				b.Extend(&content)
			}
			b.Macro("RE")
		case markup.Table:
			r.table(b, t, ctx)
		}
	}
}

func (r *Renderer) table(b *roff.Builder, t markup.Table, ctx *pageCtx) {
	columns := len(t.Header)
	if columns == 0 && len(t.Rows) > 0 {
		columns = len(t.Rows[0])
	}
	if columns == 0 {
		return
	}
	b.Macro("TS")
	b.Text("allbox tab(|);\n")
	layout := make([]string, columns)
	for i := range layout {
		layout[i] = "l"
	}
	b.Text(strings.Join(layout, " ") + ".\n")
	// T{...T} blocks keep cell content literal, so a cell holding the tab
	// character cannot shift its row. The header gets the same protection.
	if len(t.Header) > 0 {
		for cellIndex, cell := range t.Header {
			b.Text("T{\n")
			b.Text(`\fB` + r.flatten(cell.Inlines, ctx) + `\fR` + "\n")
			b.Text("T}")
			if cellIndex < len(t.Header)-1 {
				b.Text("|")
			} else if len(t.Rows) > 0 {
				b.Raw("\n")
			}
		}
	}
	for rowIndex, row := range t.Rows {
		for cellIndex, cell := range row {
			b.Text("T{\n")
			b.Text(r.flatten(cell.Inlines, ctx) + "\n")
			b.Text("T}")
			if cellIndex < len(row)-1 {
				b.Text("|")
			} else if rowIndex < len(t.Rows)-1 {
				b.Raw("\n")
			}
		}
	}
	b.Macro("TE")
}

func (r *Renderer) inlines(b *roff.Builder, inlines []markup.Inline, ctx *pageCtx) {
	for _, in := range inlines {
		switch t := in.(type) {
		case markup.Text:
			b.Text(escapeText(t.Content))
		case markup.LineBreak:
			b.Macro("br")
		case markup.Styled:
			switch t.Style {
			case markup.Bold:
				b.Text(`\f[B]` + r.flatten(t.Inlines, ctx) + `\f[R]`)
			case markup.Italic:
				b.Text(`\f[I]` + r.flatten(t.Inlines, ctx) + `\f[R]`)
			case markup.Code:
				b.Text(r.codeSpan(t, ctx))
			case markup.Strike:
				ctx.diags.Warningf(ctx.file, ctx.line, "strikethrough has no man page rendering; emitting plain text")
				r.inlines(b, t.Inlines, ctx)
			}
		case markup.SymbolRef:
			r.symbolRef(b, t, ctx)
		case markup.Link:
			b.Macro("UR", t.URL)
			r.inlines(b, t.Inlines, ctx)
			b.Macro("UE")
		}
	}
}

// codeSpan styles an inline code span. Parameter names render italic, known
// libc and POSIX functions render as man references, everything else is
// monospace.
func (r *Renderer) codeSpan(t markup.Styled, ctx *pageCtx) string {
	content := flattenRaw(t.Inlines)
	switch {
	case ctx.params[content]:
		return `\f[I]` + content + `\f[R]`
	case libcFunctions[content]:
		return `\f[B]` + content + `\f[R](3)`
	default:
		return `\f[C]` + escapeText(content) + `\f[R]`
	}
}

func (r *Renderer) symbolRef(b *roff.Builder, ref markup.SymbolRef, ctx *pageCtx) {
	target, ok := r.ix.Resolve(ref.Name)
	if !ok {
		ctx.diags.Warningf(ctx.file, ctx.line, "unresolved reference %q", ref.Name)
		if len(ref.Custom) > 0 {
			r.inlines(b, ref.Custom, ctx)
			return
		}
		b.Text(`\f[I]` + escapeText(displayName(ref.Name)) + `\f[R]`)
		return
	}
	if len(ref.Custom) > 0 {
		r.inlines(b, ref.Custom, ctx)
		return
	}
	switch {
	case target.Member != "" && target.Sym.Unit.Kind == decl.Enum:
		b.Text(`\f[B]` + target.Member + `\f[R]`)
	case target.Member != "":
		b.Text(`\f[I]` + target.Member + `\f[R]`)
	default:
		b.Text(`\f[B]` + target.Sym.Name() + `\f[R](` + strconv.Itoa(r.meta.Section) + `)`)
	}
}

// displayName strips the tag qualifier from a member reference for display.
func displayName(name string) string {
	if _, member, found := strings.Cut(name, "::"); found {
		return member
	}
	return name
}

// flatten renders inline content to a styled text string, for contexts that
// cannot hold macros such as table cells and the NAME line.
func (r *Renderer) flatten(inlines []markup.Inline, ctx *pageCtx) string {
	var sb strings.Builder
	for _, in := range inlines {
		switch t := in.(type) {
		case markup.Text:
			sb.WriteString(escapeText(t.Content))
		case markup.LineBreak:
			sb.WriteByte(' ')
		case markup.Styled:
			switch t.Style {
			case markup.Bold:
				sb.WriteString(`\f[B]` + r.flatten(t.Inlines, ctx) + `\f[R]`)
			case markup.Italic:
				sb.WriteString(`\f[I]` + r.flatten(t.Inlines, ctx) + `\f[R]`)
			case markup.Code:
				sb.WriteString(r.codeSpan(t, ctx))
			case markup.Strike:
				sb.WriteString(r.flatten(t.Inlines, ctx))
			}
		case markup.SymbolRef:
			if len(t.Custom) > 0 {
				sb.WriteString(r.flatten(t.Custom, ctx))
			} else {
				sb.WriteString(escapeText(displayName(t.Name)))
			}
		case markup.Link:
			sb.WriteString(r.flatten(t.Inlines, ctx))
		}
	}
	return sb.String()
}

// flattenRaw extracts the verbatim text of a code span.
func flattenRaw(inlines []markup.Inline) string {
	var sb strings.Builder
	for _, in := range inlines {
		if t, ok := in.(markup.Text); ok {
			sb.WriteString(t.Content)
		}
	}
	return sb.String()
}

// escapeText neutralizes raw backslashes in prose so they print instead of
// starting an escape sequence. Styling escapes are added after this point.
func escapeText(s string) string {
	return strings.ReplaceAll(s, `\`, `\[char92]`)
}
