package markup

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/hollis/go-doc2man/internal/diag"
)

var (
	blockTag  = regexp.MustCompile(`^[\\@]([A-Za-z]+)(?:\[([A-Za-z,]+)\])?[ \t]*(.*)$`)
	codeOpen  = regexp.MustCompile(`^[\\@]code(?:\{\.?([A-Za-z0-9+]+)\})?[ \t]*$`)
	codeClose = regexp.MustCompile(`^[\\@]endcode[ \t]*$`)
)

// Tags that style a following word inline. They are left in place for the
// normalization pass instead of being dispatched as block tags.
var inlineTags = map[string]bool{
	"a": true, "b": true, "c": true, "e": true, "em": true, "p": true, "ref": true,
}

// Parse turns one comment body into a document. The line argument is the
// 1-based source line of the comment opener, used for diagnostics.
func Parse(file, comment string, line int, diags *diag.List) *Doc {
	p := &parser{file: file, lineno: line, diags: diags, doc: &Doc{}}
	p.resetFlow()
	for i, raw := range strings.Split(crlfOrCR.ReplaceAllString(comment, "\n"), "\n") {
		p.lineno = line + i
		p.consume(raw)
	}
	p.finish()
	return p.doc
}

type parser struct {
	file   string
	lineno int
	diags  *diag.List
	doc    *Doc

	buf      []string           // pending markdown lines for the active flow
	appendTo func(bs []Block)   // destination of the active flow
	scoped   bool               // flow ends at the next blank line

	briefMode bool
	brief     []string

	inCode   bool
	codeLang string
	code     []string
}

func (p *parser) consume(raw string) {
	trimmed := strings.TrimSpace(raw)

	// Code content is captured before any other processing so escape
	// sequences and blank lines survive untouched.
	if p.inCode {
		if codeClose.MatchString(trimmed) {
			p.endCode()
			return
		}
		p.code = append(p.code, strings.TrimRight(raw, " \t"))
		return
	}
	if m := codeOpen.FindStringSubmatch(trimmed); m != nil {
		p.flushText()
		p.inCode = true
		p.codeLang = m[1]
		return
	}

	// Group markers are structural; the classifier already consumed them.
	if trimmed == "@{" || trimmed == "@}" || trimmed == `\{` || trimmed == `\}` {
		return
	}
	if trimmed == "" {
		p.blankLine()
		return
	}
	if m := blockTag.FindStringSubmatch(trimmed); m != nil && !inlineTags[m[1]] {
		p.dispatch(m[1], m[2], m[3], trimmed)
		return
	}
	if p.briefMode {
		p.brief = append(p.brief, trimmed)
		return
	}
	p.buf = append(p.buf, strings.TrimRight(raw, " \t"))
}

func (p *parser) dispatch(tag, attr, rest, raw string) {
	d := p.doc
	switch tag {
	case "brief", "short":
		p.flushText()
		p.resetFlow()
		p.briefMode = true
		p.brief = nil
		if rest != "" {
			p.brief = append(p.brief, rest)
		}

	case "param":
		names, body := splitNames(rest)
		d.Params = append(d.Params, ParamDoc{Names: names, Direction: attr})
		idx := len(d.Params) - 1
		p.startFlow(true, func(bs []Block) { d.Params[idx].Body = append(d.Params[idx].Body, bs...) })
		if body != "" {
			p.buf = append(p.buf, body)
		}

	case "retval":
		values, body := splitNames(rest)
		d.RetVals = append(d.RetVals, RetValDoc{Values: values})
		idx := len(d.RetVals) - 1
		p.startFlow(true, func(bs []Block) { d.RetVals[idx].Body = append(d.RetVals[idx].Body, bs...) })
		if body != "" {
			p.buf = append(p.buf, body)
		}

	case "return", "returns", "result":
		p.startFlow(false, func(bs []Block) { d.Returns = append(d.Returns, bs...) })
		if rest != "" {
			p.buf = append(p.buf, rest)
		}

	case "since":
		p.startFlow(false, func(bs []Block) { d.Since = append(d.Since, bs...) })
		if rest != "" {
			p.buf = append(p.buf, rest)
		}

	case "note":
		p.admonition(&d.Notes, rest, true)
	case "warning":
		p.admonition(&d.Warnings, rest, true)
	case "attention":
		p.admonition(&d.Cautions, rest, true)
	case "author", "authors":
		p.admonition(&d.Authors, rest, true)
	case "bug":
		p.admonition(&d.Bugs, rest, false)
	case "deprecated":
		p.admonition(&d.Deprecated, rest, false)

	case "sa", "see":
		p.flushText()
		d.SeeAlso = append(d.SeeAlso, splitSymbolList(rest)...)

	case "example":
		p.flushText()
		if name := strings.TrimSpace(rest); name != "" {
			d.Examples = append(d.Examples, name)
		}

	case "file", "defgroup", "addtogroup", "name", "var":
		// The classifier owns these directives; the remainder of the
		// comment flows as the description.
		p.flushText()
		p.resetFlow()

	case "par":
		p.flushText()
		if rest != "" {
			title := Styled{Style: Bold, Inlines: []Inline{Text{Content: rest}}}
			p.appendTo([]Block{Paragraph{Inlines: []Inline{title}}})
		}

	case "li":
		p.buf = append(p.buf, "- "+rest)

	case "endcode":
		p.diags.Warningf(p.file, p.lineno, "\\endcode without matching \\code")

	default:
		p.diags.Warningf(p.file, p.lineno, "unknown tag \\%s; keeping literal text", tag)
		p.buf = append(p.buf, raw)
	}
}

func (p *parser) blankLine() {
	if p.briefMode {
		p.endBrief()
		return
	}
	if p.scoped {
		p.flushText()
		p.resetFlow()
		return
	}
	p.buf = append(p.buf, "")
}

// startFlow flushes the active flow and redirects subsequent text.
func (p *parser) startFlow(scoped bool, appendTo func([]Block)) {
	p.flushText()
	if p.briefMode {
		p.endBrief()
	}
	p.appendTo = appendTo
	p.scoped = scoped
}

func (p *parser) resetFlow() {
	p.appendTo = func(bs []Block) { p.doc.Description = append(p.doc.Description, bs...) }
	p.scoped = false
}

func (p *parser) admonition(slot *[][]Block, rest string, scoped bool) {
	*slot = append(*slot, nil)
	idx := len(*slot) - 1
	p.startFlow(scoped, func(bs []Block) { (*slot)[idx] = append((*slot)[idx], bs...) })
	if rest != "" {
		p.buf = append(p.buf, rest)
	}
}

func (p *parser) flushText() {
	if len(p.buf) == 0 {
		return
	}
	text := strings.Join(p.buf, "\n")
	p.buf = nil
	if blocks := parseBlocks(text); len(blocks) > 0 {
		p.appendTo(blocks)
	}
}

func (p *parser) endBrief() {
	p.briefMode = false
	text := strings.TrimSpace(strings.Join(p.brief, " "))
	p.brief = nil
	if text == "" {
		return
	}
	blocks := parseBlocks(text)
	if len(blocks) > 0 {
		if para, ok := blocks[0].(Paragraph); ok {
			p.doc.Brief = para.Inlines
		}
	}
}

func (p *parser) endCode() {
	block := CodeBlock{Language: p.codeLang, Lines: dedent(p.code)}
	p.inCode = false
	p.codeLang = ""
	p.code = nil
	p.appendTo([]Block{block})
}

func (p *parser) finish() {
	if p.inCode {
		p.diags.Errorf(p.file, p.lineno, "missing \\endcode")
		p.endCode()
	}
	if p.briefMode {
		p.endBrief()
	}
	p.flushText()
}

// splitNames separates the leading comma-grouped name list of a \param or
// \retval tag from the start of its description.
func splitNames(rest string) ([]string, string) {
	head, body, _ := strings.Cut(strings.TrimSpace(rest), " ")
	var names []string
	for _, n := range strings.Split(head, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names, strings.TrimSpace(body)
}

// splitSymbolList breaks a \sa argument into symbol names. Call
// parentheses and trailing punctuation are not part of the name.
func splitSymbolList(rest string) []string {
	var names []string
	fields := strings.FieldsFunc(rest, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	for _, f := range fields {
		f = strings.TrimPrefix(f, "#")
		f = strings.TrimSuffix(f, "()")
		f = strings.TrimRight(f, ".;:")
		if f != "" {
			names = append(names, f)
		}
	}
	return names
}

// dedent removes the longest common leading space run, ignoring blank lines.
func dedent(lines []string) []string {
	margin := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " "))
		if margin < 0 || indent < margin {
			margin = indent
		}
	}
	if margin <= 0 {
		return lines
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		if len(line) >= margin {
			out[i] = line[margin:]
		} else {
			out[i] = strings.TrimLeft(line, " ")
		}
	}
	return out
}
