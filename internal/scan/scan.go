// Package scan recovers documentation comment blocks and the declaration
// text each one precedes from raw C header source.
//
// The scanner is shape-level only: it pairs comments with declarations and
// balances braces, parentheses, and literals, but performs no type checking.
// Classification of the captured declaration text happens in internal/decl.
package scan

import (
	"strings"

	"github.com/hollis/go-doc2man/internal/diag"
)

// Block is one (comment, declaration) pair in source order. Either part
// may be empty: a documentation comment followed by another comment is a
// comment-only block, and an undocumented declaration has no comment.
type Block struct {
	Comment     string // comment body with delimiters and gutter stripped
	CommentLine int    // 1-based line of the comment opener, 0 if none
	Decl        string // raw declaration text including any member comments
	DeclLine    int    // 1-based line of the first declaration token, 0 if none
}

// HasComment reports whether the block carries a documentation comment.
func (b Block) HasComment() bool { return b.CommentLine != 0 }

// HasDecl reports whether the block carries declaration text.
func (b Block) HasDecl() bool { return b.DeclLine != 0 }

// Split scans src and returns its blocks in source order. The file name is
// used only for diagnostics. Malformed input (an unterminated comment, a
// declaration with no terminator) produces a diagnostic and scanning resumes
// at the next plausible block start, so one error never discards the rest of
// the file.
func Split(file, src string) ([]Block, *diag.List) {
	s := &scanner{file: file, src: src, line: 1, diags: &diag.List{}}
	s.run()
	return s.blocks, s.diags
}

type scanner struct {
	file   string
	src    string
	pos    int
	line   int
	diags  *diag.List
	blocks []Block

	pending     string // comment waiting for its declaration
	pendingLine int
}

func (s *scanner) run() {
	for s.pos < len(s.src) {
		s.skipSpace()
		if s.pos >= len(s.src) {
			break
		}
		switch {
		case s.has("/*!") || s.has("/**"):
			s.docComment()
		case s.has("/*"):
			s.plainComment()
		case s.has("//!") || s.has("///"):
			s.docLineComments()
		case s.has("//"):
			s.skipLine()
		default:
			s.declaration()
		}
	}
	s.flushPending()
}

// docComment consumes a /*! or /** block comment and stages it as the
// pending comment. A previously pending comment becomes a comment-only block.
func (s *scanner) docComment() {
	startLine := s.line
	s.advance(3) // opener: "/*!" or "/**"
	end := strings.Index(s.src[s.pos:], "*/")
	if end < 0 {
		s.diags.Errorf(s.file, startLine, "unterminated comment")
		s.resumeAtNextComment()
		return
	}
	body := s.src[s.pos : s.pos+end]
	s.advance(end + 2)
	s.stageComment(StripGutter(body), startLine)
}

// plainComment consumes an ordinary /* */ comment without recording it.
func (s *scanner) plainComment() {
	startLine := s.line
	s.advance(2)
	end := strings.Index(s.src[s.pos:], "*/")
	if end < 0 {
		s.diags.Errorf(s.file, startLine, "unterminated comment")
		s.resumeAtNextComment()
		return
	}
	s.advance(end + 2)
}

// docLineComments consumes a run of //! or /// lines as one comment.
func (s *scanner) docLineComments() {
	startLine := s.line
	var lines []string
	for s.pos < len(s.src) {
		s.skipHorizontalSpace()
		if !s.has("//!") && !s.has("///") {
			break
		}
		s.advance(3)
		lineStart := s.pos
		for s.pos < len(s.src) && s.src[s.pos] != '\n' {
			s.pos++
		}
		lines = append(lines, strings.TrimPrefix(s.src[lineStart:s.pos], " "))
		if s.pos < len(s.src) {
			s.pos++
			s.line++
		}
	}
	s.stageComment(strings.TrimRight(strings.Join(lines, "\n"), " \t\n"), startLine)
}

func (s *scanner) stageComment(body string, line int) {
	s.flushPending()
	s.pending = body
	s.pendingLine = line
}

func (s *scanner) flushPending() {
	if s.pendingLine != 0 {
		s.blocks = append(s.blocks, Block{Comment: s.pending, CommentLine: s.pendingLine})
		s.pending = ""
		s.pendingLine = 0
	}
}

// declaration captures declaration text up to its terminator and emits a
// block, attaching the pending comment if one is staged.
func (s *scanner) declaration() {
	startLine := s.line
	var text string
	if s.src[s.pos] == '#' {
		text = s.preprocessorLine()
		if !strings.HasPrefix(text, "#define") {
			// Include guards, #include lines, and other directives carry no
			// documentation of their own.
			return
		}
	} else {
		text = s.balancedDecl(startLine)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	b := Block{Decl: text, DeclLine: startLine}
	if s.pendingLine != 0 {
		b.Comment = s.pending
		b.CommentLine = s.pendingLine
		s.pending = ""
		s.pendingLine = 0
	}
	s.blocks = append(s.blocks, b)
}

// preprocessorLine consumes one logical preprocessor line, honoring
// backslash continuations.
func (s *scanner) preprocessorLine() string {
	start := s.pos
	for s.pos < len(s.src) {
		if s.src[s.pos] == '\n' {
			if s.pos > start && lastNonSpace(s.src[start:s.pos]) == '\\' {
				s.pos++
				s.line++
				continue
			}
			break
		}
		s.pos++
	}
	text := s.src[start:s.pos]
	if s.pos < len(s.src) {
		s.pos++
		s.line++
	}
	return text
}

// balancedDecl consumes text up to the first ';' at brace depth zero,
// skipping over string literals, character literals, and comments when
// counting. Member documentation comments inside composite bodies are kept
// verbatim; internal/decl re-scans them.
func (s *scanner) balancedDecl(startLine int) string {
	start := s.pos
	depth := 0
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == '"' || c == '\'':
			s.skipLiteral(c)
			continue
		case s.has("/*"):
			// Keep the comment text, but do not count braces inside it.
			end := strings.Index(s.src[s.pos+2:], "*/")
			if end < 0 {
				s.diags.Errorf(s.file, s.line, "unterminated comment")
				text := s.src[start:s.pos]
				s.pos = len(s.src)
				return text
			}
			s.advance(end + 4)
			continue
		case s.has("//"):
			for s.pos < len(s.src) && s.src[s.pos] != '\n' {
				s.pos++
			}
			continue
		case c == '{' || c == '(':
			depth++
		case c == '}' || c == ')':
			depth--
		case c == ';' && depth <= 0:
			text := s.src[start:s.pos]
			s.pos++
			return text
		case c == '\n':
			s.line++
		}
		s.pos++
	}
	s.diags.Errorf(s.file, startLine, "declaration has no terminating ';'")
	return s.src[start:]
}

// skipLiteral consumes a quoted literal including escape sequences.
func (s *scanner) skipLiteral(quote byte) {
	s.pos++
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if c == '\\' && s.pos+1 < len(s.src) {
			s.pos += 2
			continue
		}
		if c == '\n' {
			s.line++
			s.pos++
			return // unterminated on this line; tolerate
		}
		s.pos++
		if c == quote {
			return
		}
	}
}

// resumeAtNextComment recovers from an unterminated comment by seeking the
// next comment opener.
func (s *scanner) resumeAtNextComment() {
	rest := s.src[s.pos:]
	next := strings.Index(rest, "/*")
	if next < 0 {
		s.line += strings.Count(rest, "\n")
		s.pos = len(s.src)
		return
	}
	s.line += strings.Count(rest[:next], "\n")
	s.pos += next
}

func (s *scanner) has(prefix string) bool {
	return strings.HasPrefix(s.src[s.pos:], prefix)
}

func (s *scanner) advance(n int) {
	end := s.pos + n
	if end > len(s.src) {
		end = len(s.src)
	}
	s.line += strings.Count(s.src[s.pos:end], "\n")
	s.pos = end
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case '\n':
			s.line++
			s.pos++
		case ' ', '\t', '\r':
			s.pos++
		default:
			return
		}
	}
}

func (s *scanner) skipHorizontalSpace() {
	for s.pos < len(s.src) && (s.src[s.pos] == ' ' || s.src[s.pos] == '\t') {
		s.pos++
	}
}

func (s *scanner) skipLine() {
	for s.pos < len(s.src) && s.src[s.pos] != '\n' {
		s.pos++
	}
	if s.pos < len(s.src) {
		s.pos++
		s.line++
	}
}

func lastNonSpace(s string) byte {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] != ' ' && s[i] != '\t' && s[i] != '\r' {
			return s[i]
		}
	}
	return 0
}

// StripGutter removes the conventional " * " left margin from a block
// comment body. The first line keeps everything after the opener.
// Exposed for internal/decl, which extracts member comments from
// composite bodies.
func StripGutter(body string) string {
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		if i == 0 {
			lines[i] = strings.TrimPrefix(line, " ")
			continue
		}
		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, "*") {
			trimmed = strings.TrimPrefix(trimmed[1:], " ")
			lines[i] = trimmed
		} else {
			lines[i] = trimmed
		}
	}
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}
