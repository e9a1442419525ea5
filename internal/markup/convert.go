package markup

import (
	"strings"

	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	gtext "github.com/yuin/goldmark/text"
)

// The markdown parser is stateless and shared across goroutines.
var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// parseBlocks parses one buffered markdown flow into block nodes and links
// symbol references found in plain text.
func parseBlocks(text string) []Block {
	text = normalize(text)
	if strings.TrimSpace(text) == "" {
		return nil
	}
	src := []byte(text)
	root := md.Parser().Parse(gtext.NewReader(src))
	return linkRefs(convertBlocks(root, src))
}

func convertBlocks(parent gast.Node, src []byte) []Block {
	var blocks []Block
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		switch t := n.(type) {
		case *gast.Paragraph, *gast.TextBlock:
			if inlines := convertInlines(n, src); len(inlines) > 0 {
				blocks = append(blocks, Paragraph{Inlines: inlines})
			}
		case *gast.Heading:
			title := Styled{Style: Bold, Inlines: convertInlines(t, src)}
			blocks = append(blocks, Paragraph{Inlines: []Inline{title}})
		case *gast.FencedCodeBlock:
			blocks = append(blocks, CodeBlock{
				Language: string(t.Language(src)),
				Lines:    nodeLines(t, src),
			})
		case *gast.CodeBlock:
			blocks = append(blocks, CodeBlock{Lines: nodeLines(t, src)})
		case *gast.List:
			var items [][]Block
			for li := t.FirstChild(); li != nil; li = li.NextSibling() {
				items = append(items, convertBlocks(li, src))
			}
			blocks = append(blocks, List{Ordered: t.IsOrdered(), Items: items})
		case *gast.Blockquote:
			blocks = append(blocks, convertBlocks(t, src)...)
		case *east.Table:
			blocks = append(blocks, convertTable(t, src))
		case *gast.ThematicBreak:
			// No man page equivalent.
		case *gast.HTMLBlock:
			if lines := nodeLines(t, src); len(lines) > 0 {
				text := Text{Content: strings.Join(lines, " ")}
				blocks = append(blocks, Paragraph{Inlines: []Inline{text}})
			}
		}
	}
	return blocks
}

func convertTable(t *east.Table, src []byte) Table {
	var out Table
	for row := t.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []TableCell
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, TableCell{Inlines: convertInlines(cell, src)})
		}
		if _, ok := row.(*east.TableHeader); ok {
			out.Header = cells
		} else {
			out.Rows = append(out.Rows, cells)
		}
	}
	return out
}

func convertInlines(parent gast.Node, src []byte) []Inline {
	var out []Inline
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		switch t := n.(type) {
		case *gast.Text:
			out = appendText(out, unescapePunct(string(t.Segment.Value(src))))
			if t.HardLineBreak() {
				out = append(out, LineBreak{})
			} else if t.SoftLineBreak() {
				out = appendText(out, " ")
			}
		case *gast.String:
			out = appendText(out, string(t.Value))
		case *gast.Emphasis:
			style := Italic
			if t.Level >= 2 {
				style = Bold
			}
			out = append(out, Styled{Style: style, Inlines: convertInlines(t, src)})
		case *east.Strikethrough:
			out = append(out, Styled{Style: Strike, Inlines: convertInlines(t, src)})
		case *gast.CodeSpan:
			out = append(out, Styled{
				Style:   Code,
				Inlines: []Inline{Text{Content: codeSpanText(t, src)}},
			})
		case *gast.Link:
			dest := string(t.Destination)
			inner := convertInlines(t, src)
			if name, ok := strings.CutPrefix(dest, "#"); ok {
				ref := SymbolRef{Name: name}
				if !isPlainName(inner, name) {
					ref.Custom = inner
				}
				out = append(out, ref)
			} else {
				out = append(out, Link{URL: dest, Inlines: inner})
			}
		case *gast.AutoLink:
			url := string(t.URL(src))
			out = append(out, Link{URL: url, Inlines: []Inline{Text{Content: string(t.Label(src))}}})
		case *gast.RawHTML:
			for i := 0; i < t.Segments.Len(); i++ {
				seg := t.Segments.At(i)
				out = appendText(out, string(seg.Value(src)))
			}
		}
	}
	return out
}

// unescapePunct resolves markdown backslash escapes of ASCII punctuation.
// Escaped "#" is kept as-is; the reference pass needs the backslash to tell
// a literal hash from reference shorthand.
func unescapePunct(content string) string {
	if !strings.Contains(content, `\`) {
		return content
	}
	var sb strings.Builder
	sb.Grow(len(content))
	for i := 0; i < len(content); i++ {
		c := content[i]
		if c == '\\' && i+1 < len(content) {
			next := content[i+1]
			if next != '#' && isPunctByte(next) {
				sb.WriteByte(next)
				i++
				continue
			}
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

func isPunctByte(c byte) bool {
	return strings.IndexByte("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", c) >= 0
}

// appendText adds character data, merging with a trailing Text node.
func appendText(out []Inline, content string) []Inline {
	if content == "" {
		return out
	}
	if len(out) > 0 {
		if prev, ok := out[len(out)-1].(Text); ok {
			out[len(out)-1] = Text{Content: prev.Content + content}
			return out
		}
	}
	return append(out, Text{Content: content})
}

func codeSpanText(n *gast.CodeSpan, src []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*gast.Text); ok {
			sb.Write(t.Segment.Value(src))
		}
	}
	return sb.String()
}

func nodeLines(n gast.Node, src []byte) []string {
	segments := n.Lines()
	lines := make([]string, 0, segments.Len())
	for i := 0; i < segments.Len(); i++ {
		seg := segments.At(i)
		lines = append(lines, strings.TrimRight(string(seg.Value(src)), "\n"))
	}
	return lines
}

func isPlainName(inlines []Inline, name string) bool {
	if len(inlines) != 1 {
		return false
	}
	t, ok := inlines[0].(Text)
	return ok && t.Content == name
}
