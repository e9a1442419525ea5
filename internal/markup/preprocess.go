package markup

import (
	"regexp"
	"strings"
)

// Precompiled regex patterns for performance.
var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// Fenced code block delimiter
	fencedCodeLine = regexp.MustCompile("^(```|~~~)")

	// Indented code block (4 spaces or tab)
	indentedCodeLine = regexp.MustCompile(`^(    |\t)`)

	// \ref Name "custom text" and bare \ref Name
	refWithText = regexp.MustCompile(`[\\@]ref[ \t]+([A-Za-z_][A-Za-z0-9_]*(?:::[A-Za-z_][A-Za-z0-9_]*)?)[ \t]+"([^"]*)"`)
	refPlain    = regexp.MustCompile(`[\\@]ref[ \t]+([A-Za-z_][A-Za-z0-9_]*(?:::[A-Za-z_][A-Za-z0-9_]*)?)`)

	// Single-word inline styling tags
	boldWord   = regexp.MustCompile(`[\\@]b[ \t]+(\w+)`)
	italicWord = regexp.MustCompile(`[\\@](?:em|e|a|p)[ \t]+(\w+)`)
	codeWord   = regexp.MustCompile(`[\\@]c[ \t]+([\w.]+)`)

	// HTML styling spans
	htmlBold   = regexp.MustCompile(`(?i)<(?:b|strong)>(.*?)</(?:b|strong)>`)
	htmlItalic = regexp.MustCompile(`(?i)<(?:em|i)>(.*?)</(?:em|i)>`)
	htmlCode   = regexp.MustCompile(`(?i)<(?:tt|code)>(.*?)</(?:tt|code)>`)
)

// Man pages are best kept to basic Latin; typographic quotes from
// copy-pasted prose are folded to their ASCII forms.
var smartQuotes = strings.NewReplacer(
	"“", `"`,
	"”", `"`,
	"‘", "'",
	"’", "'",
)

// normalize rewrites inline documentation tags and HTML styling spans to
// their markdown equivalents so one parser handles all paragraph content.
// Lines inside fenced or indented code blocks pass through untouched.
func normalize(text string) string {
	text = crlfOrCR.ReplaceAllString(text, "\n")
	lines := strings.Split(text, "\n")
	inFence := false
	for i, line := range lines {
		if fencedCodeLine.MatchString(line) {
			inFence = !inFence
			continue
		}
		if inFence || indentedCodeLine.MatchString(line) {
			continue
		}
		lines[i] = rewriteLine(line)
	}
	return strings.Join(lines, "\n")
}

func rewriteLine(line string) string {
	line = smartQuotes.Replace(line)
	line = refWithText.ReplaceAllString(line, `[$2](#$1)`)
	line = refPlain.ReplaceAllString(line, `#$1`)
	line = boldWord.ReplaceAllString(line, `**$1**`)
	line = italicWord.ReplaceAllString(line, `*$1*`)
	line = codeWord.ReplaceAllString(line, "`$1`")
	line = htmlBold.ReplaceAllString(line, `**$1**`)
	line = htmlItalic.ReplaceAllString(line, `*$1*`)
	line = htmlCode.ReplaceAllString(line, "`$1`")
	return line
}
