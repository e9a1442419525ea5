// Package decl classifies declaration text captured by internal/scan into
// typed declaration units: kind, name, and a signature skeleton.
//
// Classification is shape matching, not parsing: keyword dispatch plus
// balanced brace and parenthesis scanning. Identifier extraction leans on
// the chroma C lexer so the classifier never needs its own token tables.
package decl

import (
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"

	"github.com/hollis/go-doc2man/internal/diag"
	"github.com/hollis/go-doc2man/internal/scan"
)

// Kind identifies what a declaration unit is.
type Kind int

const (
	Unknown Kind = iota
	Function
	Struct
	Union
	Enum
	Typedef
	Macro
	Variable
	File      // a \file comment documenting the header itself
	GroupOpen // \defgroup, \addtogroup, or \name directive
	GroupClose
	MemberDoc // a detached \var Tag::Member redocumentation block
)

var kindNames = map[Kind]string{
	Unknown:    "unknown",
	Function:   "function",
	Struct:     "struct",
	Union:      "union",
	Enum:       "enumeration",
	Typedef:    "typedef",
	Macro:      "macro",
	Variable:   "variable",
	File:       "file",
	GroupOpen:  "group",
	GroupClose: "group end",
	MemberDoc:  "member documentation",
}

// String returns a human-readable kind label for diagnostics.
func (k Kind) String() string { return kindNames[k] }

// Param is one entry of a function or function-like macro parameter list.
type Param struct {
	Type  string
	Name  string
	Array string // trailing array suffix, e.g. "[64]"
}

// Member is one field of a composite type or one constant of an enum.
type Member struct {
	Name     string
	Type     string
	Args     string // array or bitfield suffix
	Value    string // enum constant initializer, without the '='
	Comment  string
	Line     int
	Children []Member // fields of a nested anonymous composite
}

// Unit is one classified declaration.
type Unit struct {
	Kind        Kind
	Name        string
	File        string
	Line        int
	Comment     string
	CommentLine int

	// Function and function-like macro shape.
	ReturnType string
	Params     []Param
	Variadic   bool
	NoArgs     bool // explicit (void) parameter list

	// Composite and enum members.
	Members []Member

	// Typedef and variable shape.
	Type string
	Args string

	// Typedef alias bookkeeping: AliasTag names the struct/union/enum tag
	// this typedef directly aliases, Aliases lists typedef names attached
	// to a composite declared in the same statement.
	AliasTag string
	TagKind  Kind
	Aliases  []string

	// Macro shape.
	FunctionLike bool
	Initializer  string

	// Group directives.
	GroupTitle string
	Opens      bool // the directive comment also contained @{

	// Raw declaration text, preserved verbatim for Unknown units.
	Raw string
}

// Directive patterns looked for inside comment bodies. Full markup parsing
// happens later in internal/markup; the classifier only needs kind and name.
var (
	fileDirective       = regexp.MustCompile(`(?m)^[\\@]file\b[ \t]*(\S*)`)
	defgroupDirective   = regexp.MustCompile(`(?m)^[\\@]defgroup[ \t]+(\S+)[ \t]*([^\n]*)`)
	addtogroupDirective = regexp.MustCompile(`(?m)^[\\@]addtogroup[ \t]+(\S+)[ \t]*([^\n]*)`)
	nameDirective       = regexp.MustCompile(`(?m)^[\\@]name\b[ \t]*([^\n]*)`)
	varDirective        = regexp.MustCompile(`(?m)^[\\@]var[ \t]+(\S+)`)
	openMarker          = regexp.MustCompile(`(?m)^@\{|[\\@]\{`)
	closeMarker         = regexp.MustCompile(`(?m)@\}`)
)

// Classify maps one scanned block to its declaration units. Most blocks
// yield exactly one unit; directive comments and declarations with nested
// named composites may yield several. The returned slice preserves source
// order. A nil result means the block carries nothing documentable.
func Classify(file string, b scan.Block, diags *diag.List) []Unit {
	var units []Unit

	directives, consumed := directiveUnits(file, b)
	units = append(units, directives...)

	if b.HasDecl() {
		comment, commentLine := b.Comment, b.CommentLine
		if consumed {
			// The comment documented a directive, not this declaration.
			comment, commentLine = "", 0
		}
		units = append(units, classifyDecl(file, b.Decl, b.DeclLine, comment, commentLine, diags)...)
	} else if !consumed && b.HasComment() {
		// A free-standing comment with no recognizable directive and no
		// declaration is preserved so its content is not silently lost.
		units = append(units, Unit{
			Kind:        Unknown,
			File:        file,
			Line:        b.CommentLine,
			Comment:     b.Comment,
			CommentLine: b.CommentLine,
		})
	}
	return units
}

// directiveUnits extracts \file, group, and \var directives from a comment.
// The second result reports whether the comment belongs to a directive.
func directiveUnits(file string, b scan.Block) ([]Unit, bool) {
	if !b.HasComment() {
		return nil, false
	}
	var units []Unit
	comment := b.Comment
	opens := openMarker.MatchString(comment)

	if m := fileDirective.FindStringSubmatch(comment); m != nil {
		units = append(units, Unit{
			Kind: File, Name: m[1], File: file,
			Line: b.CommentLine, Comment: comment, CommentLine: b.CommentLine,
		})
	}
	if m := varDirective.FindStringSubmatch(comment); m != nil {
		units = append(units, Unit{
			Kind: MemberDoc, Name: m[1], File: file,
			Line: b.CommentLine, Comment: comment, CommentLine: b.CommentLine,
		})
	}
	groupComment := comment
	for _, m := range defgroupDirective.FindAllStringSubmatch(comment, -1) {
		u := Unit{
			Kind: GroupOpen, Name: m[1], GroupTitle: strings.TrimSpace(m[2]),
			File: file, Line: b.CommentLine, Opens: opens,
		}
		if len(units) == 0 {
			u.Comment, u.CommentLine = groupComment, b.CommentLine
		}
		units = append(units, u)
	}
	for _, m := range addtogroupDirective.FindAllStringSubmatch(comment, -1) {
		u := Unit{
			Kind: GroupOpen, Name: m[1], GroupTitle: strings.TrimSpace(m[2]),
			File: file, Line: b.CommentLine, Opens: opens,
		}
		if len(units) == 0 {
			u.Comment, u.CommentLine = groupComment, b.CommentLine
		}
		units = append(units, u)
	}
	if len(units) == 0 {
		if m := nameDirective.FindStringSubmatch(comment); m != nil {
			title := strings.TrimSpace(m[1])
			units = append(units, Unit{
				Kind: GroupOpen, Name: title, GroupTitle: title,
				File: file, Line: b.CommentLine, Opens: opens,
				Comment: comment, CommentLine: b.CommentLine,
			})
		}
	}
	for range closeMarker.FindAllString(comment, -1) {
		units = append(units, Unit{Kind: GroupClose, File: file, Line: b.CommentLine})
	}
	return units, len(units) > 0
}

func classifyDecl(file, text string, line int, comment string, commentLine int, diags *diag.List) []Unit {
	base := Unit{File: file, Line: line, Comment: comment, CommentLine: commentLine, Raw: text}

	switch {
	case strings.HasPrefix(text, "#define"):
		u := classifyMacro(text, base)
		return []Unit{u}
	case firstWord(text) == "typedef":
		return classifyTypedef(file, text, line, base, diags)
	case isCompositeKeyword(firstWord(text)):
		return classifyComposite(file, text, line, base, diags)
	}

	if p := topLevelParen(text); p >= 0 && !isFunctionPointer(text, p) {
		u := classifyFunction(text, p, base)
		return []Unit{u}
	}
	if u, ok := classifyVariable(text, base); ok {
		return []Unit{u}
	}

	diags.Warningf(file, line, "cannot classify declaration; keeping raw text")
	base.Kind = Unknown
	return []Unit{base}
}

// --- functions -------------------------------------------------------------

func classifyFunction(text string, paren int, base Unit) Unit {
	u := base
	u.Kind = Function
	name, nameStart := trailingIdentifier(text[:paren])
	u.Name = name
	u.ReturnType = collapseSpace(text[:nameStart])

	inner := innerParens(text[paren:])
	u.Params, u.Variadic, u.NoArgs = parseParams(inner)
	return u
}

// parseParams splits a parameter list on top-level commas.
func parseParams(list string) (params []Param, variadic, noArgs bool) {
	list = strings.TrimSpace(list)
	if list == "" {
		return nil, false, false
	}
	if list == "void" {
		return nil, false, true
	}
	for _, part := range splitTop(list, ',') {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if part == "..." {
			variadic = true
			continue
		}
		params = append(params, parseParam(part))
	}
	return params, variadic, false
}

func parseParam(text string) Param {
	text, array := splitArraySuffix(text)
	name := lastIdentifier(text)
	p := Param{Type: collapseSpace(text), Name: name, Array: array}
	if name != "" {
		if off := strings.LastIndex(text, name); off >= 0 {
			p.Type = collapseSpace(text[:off] + text[off+len(name):])
		}
	}
	return p
}

// --- composites and enums --------------------------------------------------

func classifyComposite(file, text string, line int, base Unit, diags *diag.List) []Unit {
	keyword := firstWord(text)
	kind := compositeKind(keyword)

	open := strings.IndexByte(text, '{')
	if open < 0 {
		// Forward declaration: no members, still documentable.
		u := base
		u.Kind = kind
		u.Name, _ = trailingIdentifier(text)
		return []Unit{u}
	}
	closing := matchBrace(text, open)
	if closing < 0 {
		diags.Errorf(file, line, "unbalanced braces in %s declaration", keyword)
		u := base
		u.Kind = Unknown
		return []Unit{u}
	}

	u := base
	u.Kind = kind
	u.Name, _ = trailingIdentifier(text[:open])
	if u.Name == keyword {
		u.Name = "" // anonymous composite
	}
	body := text[open+1 : closing]

	var nested []Unit
	if kind == Enum {
		u.Members = parseEnumBody(body, line)
	} else {
		u.Members, nested = parseCompositeBody(file, body, line, diags)
	}
	return append([]Unit{u}, nested...)
}

// parseEnumBody splits an enum body into constants with attached comments.
func parseEnumBody(body string, line int) []Member {
	var members []Member
	for _, seg := range splitTop(body, ',') {
		comment, rest := leadingComments(seg)
		comment = attachPostfix(comment, members)
		rest, trailing := splitTrailingComment(rest)
		if comment == "" {
			comment = trailing
		}
		rest = strings.TrimSpace(rest)
		if rest == "" {
			continue
		}
		m := Member{Comment: comment, Line: line}
		if eq := strings.IndexByte(rest, '='); eq >= 0 {
			m.Name = strings.TrimSpace(rest[:eq])
			m.Value = strings.TrimSpace(rest[eq+1:])
		} else {
			m.Name = rest
		}
		members = append(members, m)
	}
	return members
}

// parseCompositeBody splits a struct or union body into fields. Nested
// anonymous composites attach their fields as children of the enclosing
// member; nested named composites are additionally returned as their own
// units so they can be indexed.
func parseCompositeBody(file, body string, line int, diags *diag.List) ([]Member, []Unit) {
	var members []Member
	var nested []Unit
	for _, seg := range splitTop(body, ';') {
		comment, rest := leadingComments(seg)
		comment = attachPostfix(comment, members)
		rest, trailing := splitTrailingComment(rest)
		if comment == "" {
			comment = trailing
		}
		rest = strings.TrimSpace(rest)
		if rest == "" {
			continue
		}
		m := Member{Comment: comment, Line: line}
		if open := strings.IndexByte(rest, '{'); open >= 0 && isCompositeKeyword(firstCompositeWord(rest)) {
			closing := matchBrace(rest, open)
			if closing < 0 {
				diags.Errorf(file, line, "unbalanced braces in nested composite")
				continue
			}
			units := classifyComposite(file, rest[:closing+1], line, Unit{File: file, Line: line, Comment: comment, CommentLine: line}, diags)
			inner := units[0]
			m.Children = inner.Members
			m.Name = lastIdentifier(rest[closing+1:])
			m.Type = collapseSpace(rest[:open])
			if inner.Name != "" {
				// Independently named nested composite: index it too.
				nested = append(nested, units...)
			} else {
				nested = append(nested, units[1:]...)
			}
		} else {
			fieldText, array := splitArraySuffix(rest)
			fieldText, bits := splitBitfield(fieldText)
			m.Name = lastIdentifier(fieldText)
			m.Args = array + bits
			if off := strings.LastIndex(fieldText, m.Name); m.Name != "" && off >= 0 {
				m.Type = collapseSpace(fieldText[:off] + fieldText[off+len(m.Name):])
			} else {
				m.Type = collapseSpace(fieldText)
			}
		}
		members = append(members, m)
	}
	return members, nested
}

// --- typedefs --------------------------------------------------------------

var funcPointerName = regexp.MustCompile(`\(\s*\*+\s*([A-Za-z_][A-Za-z0-9_]*)\s*\)`)

func classifyTypedef(file, text string, line int, base Unit, diags *diag.List) []Unit {
	rest := strings.TrimSpace(strings.TrimPrefix(text, "typedef"))

	if open := strings.IndexByte(rest, '{'); open >= 0 && isCompositeKeyword(firstWord(rest)) {
		// typedef struct Tag { ... } alias; — classify the composite and
		// record the alias name(s) that follow the closing brace.
		closing := matchBrace(rest, open)
		if closing < 0 {
			diags.Errorf(file, line, "unbalanced braces in typedef")
			u := base
			u.Kind = Unknown
			return []Unit{u}
		}
		units := classifyComposite(file, rest[:closing+1], line, base, diags)
		alias := lastIdentifier(rest[closing+1:])
		if alias != "" {
			units[0].Aliases = append(units[0].Aliases, alias)
			if units[0].Name == "" {
				// Anonymous tag: the typedef name is the only handle.
				units[0].Name = alias
				units[0].Aliases = nil
			}
		}
		return units
	}

	u := base
	u.Kind = Typedef
	if m := funcPointerName.FindStringSubmatch(rest); m != nil {
		u.Name = m[1]
		u.Type = collapseSpace(rest)
		return []Unit{u}
	}

	typeText, array := splitArraySuffix(rest)
	u.Name = lastIdentifier(typeText)
	u.Args = array
	if off := strings.LastIndex(typeText, u.Name); u.Name != "" && off >= 0 {
		u.Type = collapseSpace(typeText[:off] + typeText[off+len(u.Name):])
	} else {
		u.Type = collapseSpace(typeText)
	}

	// typedef struct X X; aliases the tag directly when no pointer is involved.
	words := strings.Fields(u.Type)
	if len(words) == 2 && isCompositeKeyword(words[0]) && !strings.Contains(u.Type, "*") {
		u.AliasTag = words[1]
		u.TagKind = compositeKind(words[0])
	}
	return []Unit{u}
}

// --- macros and variables --------------------------------------------------

func classifyMacro(text string, base Unit) Unit {
	u := base
	u.Kind = Macro
	rest := strings.TrimSpace(strings.TrimPrefix(text, "#define"))
	rest = strings.ReplaceAll(rest, "\\\n", "\n") // drop continuations

	end := 0
	for end < len(rest) && isIdentByte(rest[end]) {
		end++
	}
	u.Name = rest[:end]
	rest = rest[end:]

	if strings.HasPrefix(rest, "(") {
		u.FunctionLike = true
		inner := innerParens(rest)
		for _, part := range splitTop(inner, ',') {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if part == "..." {
				u.Variadic = true
				continue
			}
			u.Params = append(u.Params, Param{Name: part})
		}
		if closing := strings.IndexByte(rest, ')'); closing >= 0 {
			u.Initializer = strings.TrimSpace(rest[closing+1:])
		}
	} else {
		u.Initializer = strings.TrimSpace(rest)
	}
	return u
}

func classifyVariable(text string, base Unit) (Unit, bool) {
	u := base
	u.Kind = Variable
	typeText, array := splitArraySuffix(text)
	u.Name = lastIdentifier(typeText)
	if u.Name == "" {
		return u, false
	}
	u.Args = array
	if off := strings.LastIndex(typeText, u.Name); off >= 0 {
		u.Type = collapseSpace(typeText[:off] + typeText[off+len(u.Name):])
	}
	u.Type = strings.TrimSpace(strings.TrimPrefix(u.Type, "extern"))
	u.Type = collapseSpace(u.Type)
	return u, true
}

// --- shape helpers ---------------------------------------------------------

func isCompositeKeyword(w string) bool {
	return w == "struct" || w == "union" || w == "enum"
}

func compositeKind(keyword string) Kind {
	switch keyword {
	case "struct":
		return Struct
	case "union":
		return Union
	default:
		return Enum
	}
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// firstCompositeWord finds the first struct/union/enum keyword in a field
// declaration, skipping qualifiers like const.
func firstCompositeWord(s string) string {
	for _, w := range strings.Fields(s) {
		if isCompositeKeyword(w) {
			return w
		}
		if w != "const" && w != "volatile" && w != "static" {
			return w
		}
	}
	return ""
}

// topLevelParen returns the index of the first '(' at depth zero, or -1.
func topLevelParen(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{', '[':
			depth++
		case '}', ']':
			depth--
		case '(':
			if depth == 0 {
				return i
			}
			depth++
		case ')':
			depth--
		}
	}
	return -1
}

// isFunctionPointer reports whether the '(' at p starts a (*name) group,
// which marks a function-pointer declarator rather than a parameter list.
func isFunctionPointer(s string, p int) bool {
	for i := p + 1; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\n':
			continue
		case '*':
			return true
		default:
			return false
		}
	}
	return false
}

// innerParens returns the text between the first '(' and its match.
func innerParens(s string) string {
	open := strings.IndexByte(s, '(')
	if open < 0 {
		return ""
	}
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return s[open+1 : i]
			}
		}
	}
	return s[open+1:]
}

// matchBrace returns the index of the '}' matching the '{' at open, or -1.
// Braces inside comments and literals do not count.
func matchBrace(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch {
		case s[i] == '"' || s[i] == '\'':
			i = skipLiteralAt(s, i)
		case strings.HasPrefix(s[i:], "/*"):
			if end := strings.Index(s[i+2:], "*/"); end >= 0 {
				i += end + 3
			} else {
				return -1
			}
		case strings.HasPrefix(s[i:], "//"):
			for i < len(s) && s[i] != '\n' {
				i++
			}
		case s[i] == '{':
			depth++
		case s[i] == '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// splitTop splits s on sep at brace/paren/bracket depth zero, skipping
// string literals and comments.
func splitTop(s string, sep byte) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"' || c == '\'':
			i = skipLiteralAt(s, i)
		case strings.HasPrefix(s[i:], "/*"):
			if end := strings.Index(s[i+2:], "*/"); end >= 0 {
				i += end + 3
			} else {
				i = len(s) - 1
			}
		case strings.HasPrefix(s[i:], "//"):
			for i < len(s) && s[i] != '\n' {
				i++
			}
		case c == '{' || c == '(' || c == '[':
			depth++
		case c == '}' || c == ')' || c == ']':
			depth--
		case c == sep && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		parts = append(parts, s[start:])
	}
	return parts
}

func skipLiteralAt(s string, i int) int {
	quote := s[i]
	i++
	for i < len(s) {
		if s[i] == '\\' {
			i += 2
			continue
		}
		if s[i] == quote || s[i] == '\n' {
			return i
		}
		i++
	}
	return len(s) - 1
}

// leadingComments strips documentation comments from the front of a member
// segment, returning the joined comment body and the remaining text.
func leadingComments(seg string) (comment, rest string) {
	var bodies []string
	rest = seg
	for {
		trimmed := strings.TrimLeft(rest, " \t\n\r")
		if !strings.HasPrefix(trimmed, "/*!") && !strings.HasPrefix(trimmed, "/**") {
			break
		}
		end := strings.Index(trimmed, "*/")
		if end < 0 {
			break
		}
		bodies = append(bodies, scan.StripGutter(strings.TrimPrefix(trimmed[3:end], " ")))
		rest = trimmed[end+2:]
	}
	return strings.Join(bodies, "\n"), rest
}

// attachPostfix handles a "<" postfix marker on a leading comment: the
// comment documents the previous member, not the upcoming one. If the
// previous member already has a comment the marker text is dropped onto
// the upcoming member unchanged.
func attachPostfix(comment string, members []Member) string {
	if !strings.HasPrefix(comment, "<") {
		return comment
	}
	body := strings.TrimSpace(strings.TrimPrefix(comment, "<"))
	if len(members) > 0 && members[len(members)-1].Comment == "" {
		members[len(members)-1].Comment = body
		return ""
	}
	return body
}

// splitTrailingComment extracts a postfix documentation comment from the
// tail of a member segment, e.g. "FOO /*!< First. */".
func splitTrailingComment(seg string) (text, comment string) {
	for _, marker := range []string{"/*!<", "/**<"} {
		if i := strings.Index(seg, marker); i >= 0 {
			if end := strings.Index(seg[i:], "*/"); end >= 0 {
				body := scan.StripGutter(strings.TrimSpace(seg[i+len(marker) : i+end]))
				return seg[:i] + seg[i+end+2:], body
			}
		}
	}
	for _, marker := range []string{"//!<", "///<"} {
		if i := strings.Index(seg, marker); i >= 0 {
			rest := seg[i+len(marker):]
			if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
				return seg[:i] + rest[nl:], strings.TrimSpace(rest[:nl])
			}
			return seg[:i], strings.TrimSpace(rest)
		}
	}
	return seg, ""
}

// splitArraySuffix separates trailing [..] groups from a declarator.
func splitArraySuffix(s string) (text, array string) {
	text = strings.TrimRight(s, " \t\n")
	for strings.HasSuffix(text, "]") {
		open := strings.LastIndexByte(text, '[')
		if open < 0 {
			break
		}
		array = text[open:] + array
		text = strings.TrimRight(text[:open], " \t\n")
	}
	return text, array
}

// splitBitfield separates a trailing ": width" bitfield suffix.
func splitBitfield(s string) (text, bits string) {
	if colon := strings.LastIndexByte(s, ':'); colon >= 0 {
		return strings.TrimRight(s[:colon], " \t"), " : " + strings.TrimSpace(s[colon+1:])
	}
	return s, ""
}

// trailingIdentifier returns the identifier ending s (ignoring trailing
// space) and its start offset.
func trailingIdentifier(s string) (string, int) {
	end := len(s)
	for end > 0 && (s[end-1] == ' ' || s[end-1] == '\t' || s[end-1] == '\n') {
		end--
	}
	start := end
	for start > 0 && isIdentByte(s[start-1]) {
		start--
	}
	return s[start:end], start
}

func isIdentByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// cKeywords excludes C keywords from identifier extraction in case the
// lexer classifies one of them as a plain name.
var cKeywords = map[string]bool{
	"auto": true, "char": true, "const": true, "double": true, "enum": true,
	"extern": true, "float": true, "inline": true, "int": true, "long": true,
	"register": true, "restrict": true, "short": true, "signed": true,
	"static": true, "struct": true, "union": true, "unsigned": true,
	"void": true, "volatile": true, "_Bool": true,
}

// lastIdentifier returns the last plain identifier in a declarator,
// tokenized with the chroma C lexer the same way the parameter lists are.
func lastIdentifier(src string) string {
	lexer := lexers.Get("c")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	it, err := lexer.Tokenise(nil, src)
	if err != nil {
		return ""
	}
	last := ""
	for tok := it(); tok != chroma.EOF; tok = it() {
		if !tok.Type.InCategory(chroma.Name) {
			continue
		}
		value := strings.TrimSpace(tok.Value)
		if value == "" || cKeywords[value] || !isIdentWord(value) {
			continue
		}
		last = value
	}
	return last
}

func isIdentWord(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isIdentByte(s[i]) {
			return false
		}
	}
	return s[0] < '0' || s[0] > '9'
}
