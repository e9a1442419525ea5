package markup

import (
	"regexp"
	"strings"
)

// #Identifier shorthand, optionally member-qualified.
var symbolPattern = regexp.MustCompile(`#[A-Za-z_][A-Za-z0-9_]*(?:::[A-Za-z_][A-Za-z0-9_]*)?`)

// linkRefs rewrites #Identifier occurrences in plain text into symbol
// references. Code spans, code blocks, and existing link spans are left
// alone so identifiers in them stay literal.
func linkRefs(blocks []Block) []Block {
	out := make([]Block, len(blocks))
	for i, b := range blocks {
		out[i] = linkBlockRefs(b)
	}
	return out
}

func linkBlockRefs(b Block) Block {
	switch t := b.(type) {
	case Paragraph:
		t.Inlines = linkInlineRefs(t.Inlines)
		return t
	case List:
		for i, item := range t.Items {
			t.Items[i] = linkRefs(item)
		}
		return t
	case Table:
		for i, cell := range t.Header {
			t.Header[i].Inlines = linkInlineRefs(cell.Inlines)
		}
		for _, row := range t.Rows {
			for i, cell := range row {
				row[i].Inlines = linkInlineRefs(cell.Inlines)
			}
		}
		return t
	default:
		return b
	}
}

func linkInlineRefs(inlines []Inline) []Inline {
	var out []Inline
	for _, in := range inlines {
		switch t := in.(type) {
		case Text:
			out = append(out, splitSymbolText(t.Content)...)
		case Styled:
			if t.Style != Code {
				t.Inlines = linkInlineRefs(t.Inlines)
			}
			out = append(out, t)
		default:
			out = append(out, in)
		}
	}
	return out
}

// splitSymbolText breaks text around #Identifier occurrences. A reference
// must start the text or follow a non-word character; "\#" escapes the
// shorthand and the backslash is dropped. Trailing punctuation never
// matches the identifier pattern, so it stays outside the reference.
func splitSymbolText(content string) []Inline {
	locs := symbolPattern.FindAllStringIndex(content, -1)
	if len(locs) == 0 {
		return []Inline{Text{Content: content}}
	}
	var out []Inline
	var plain strings.Builder
	last := 0
	for _, loc := range locs {
		start, end := loc[0], loc[1]
		if start > 0 {
			switch prev := content[start-1]; {
			case prev == '\\':
				plain.WriteString(content[last : start-1])
				plain.WriteString(content[start:end])
				last = end
				continue
			case isWordByte(prev) || prev == '#':
				continue
			}
		}
		plain.WriteString(content[last:start])
		if plain.Len() > 0 {
			out = append(out, Text{Content: plain.String()})
			plain.Reset()
		}
		out = append(out, SymbolRef{Name: content[start+1 : end]})
		last = end
	}
	plain.WriteString(content[last:])
	if plain.Len() > 0 {
		out = append(out, Text{Content: plain.String()})
	}
	return out
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
