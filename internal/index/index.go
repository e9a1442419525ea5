// Package index builds the run-wide symbol and group index from classified,
// parsed declaration units. The index is built by a single writer after all
// files are parsed and is read-only afterwards; resolution during rendering
// never mutates it.
package index

import (
	"strings"

	"github.com/hollis/go-doc2man/internal/decl"
	"github.com/hollis/go-doc2man/internal/diag"
	"github.com/hollis/go-doc2man/internal/markup"
)

// Parsed pairs a classified declaration with its parsed comment.
type Parsed struct {
	Unit decl.Unit
	Doc  *markup.Doc
}

// FileUnits is the parse result of one source file, in source order.
type FileUnits struct {
	Name  string
	Units []Parsed
}

// Symbol is one renderable declaration with its documentation.
type Symbol struct {
	Unit       decl.Unit
	Doc        *markup.Doc
	Group      string // owning group name, empty when top level
	Shadowed   bool   // a later declaration with the same name owns the link target
	Aliases    []string
	MemberDocs map[string]*markup.Doc // \var Tag::Member overrides

	skip bool // consolidated into another symbol's page
}

// Name returns the declared symbol name.
func (s *Symbol) Name() string { return s.Unit.Name }

// Target is a resolved symbol reference. Member is non-empty when the
// reference names an enum constant or a composite field; Sym is then the
// enclosing type.
type Target struct {
	Sym    *Symbol
	Member string
}

// Group aggregates symbols declared between @{ and @} markers. Reopenings
// with the same name merge into one group.
type Group struct {
	Name    string
	Title   string
	Doc     *markup.Doc
	Members []*Symbol // first-seen order, duplicate-free
}

func (g *Group) add(s *Symbol) {
	for _, m := range g.Members {
		if m == s {
			return
		}
	}
	g.Members = append(g.Members, s)
}

// FilePage is the page for a header documented with a \file comment.
type FilePage struct {
	Name    string
	Doc     *markup.Doc
	Symbols []*Symbol // declared in the file, source order
}

// Index is the resolved view of a whole run.
type Index struct {
	Pages      []*Symbol // one per renderable declaration, source order
	Files      []*FilePage
	Groups     map[string]*Group
	GroupOrder []string // first-definition order

	targets  map[string]Target
	replaced map[*Symbol]*Symbol // consolidated symbol -> canonical owner
}

type memberRef struct {
	file string
	unit decl.Unit
	doc  *markup.Doc
}

// Build indexes all files in input order. Diagnostics cover duplicate
// symbols, unbalanced group markers, and dangling member documentation.
func Build(files []FileUnits, diags *diag.List) *Index {
	ix := &Index{
		Groups:   make(map[string]*Group),
		targets:  make(map[string]Target),
		replaced: make(map[*Symbol]*Symbol),
	}
	var pending []memberRef

	for _, f := range files {
		var stack []string
		var page *FilePage

		for _, p := range f.Units {
			u := p.Unit
			switch u.Kind {
			case decl.File:
				if page != nil {
					diags.Warningf(f.Name, u.Line, "duplicate \\file comment; keeping the first")
					continue
				}
				name := u.Name
				if name == "" {
					name = f.Name
				}
				page = &FilePage{Name: name, Doc: p.Doc}
				ix.Files = append(ix.Files, page)

			case decl.GroupOpen:
				g := ix.group(u.Name)
				// First title wins until a reopening supplies its own.
				if u.GroupTitle != "" {
					g.Title = u.GroupTitle
				}
				if g.Doc == nil && p.Doc != nil && !p.Doc.IsZero() {
					g.Doc = p.Doc
				}
				if u.Opens {
					stack = append(stack, u.Name)
				}

			case decl.GroupClose:
				if len(stack) == 0 {
					diags.Errorf(f.Name, u.Line, "group close without a matching open")
					continue
				}
				stack = stack[:len(stack)-1]

			case decl.MemberDoc:
				pending = append(pending, memberRef{file: f.Name, unit: u, doc: p.Doc})

			case decl.Function, decl.Struct, decl.Union, decl.Enum,
				decl.Typedef, decl.Macro, decl.Variable:
				if u.Name == "" {
					diags.Warningf(f.Name, u.Line, "skipping unnamed %s", u.Kind)
					continue
				}
				s := &Symbol{Unit: u, Doc: p.Doc, MemberDocs: make(map[string]*markup.Doc)}
				if len(stack) > 0 {
					s.Group = stack[len(stack)-1]
				}
				s.Aliases = append(s.Aliases, u.Aliases...)
				canonical := ix.addSymbol(s, diags)
				if canonical.Group == "" {
					canonical.Group = s.Group
				}
				if canonical.Group != "" {
					ix.group(canonical.Group).add(canonical)
				}
				if page != nil {
					page.addSymbol(canonical)
				}
			}
		}

		if len(stack) > 0 {
			diags.Errorf(f.Name, 0, "group %q is never closed", stack[len(stack)-1])
		}
	}

	ix.compactPages()
	ix.attachMemberDocs(pending, diags)
	return ix
}

func (ix *Index) group(name string) *Group {
	if g, ok := ix.Groups[name]; ok {
		return g
	}
	g := &Group{Name: name}
	ix.Groups[name] = g
	ix.GroupOrder = append(ix.GroupOrder, name)
	return g
}

// addSymbol registers a symbol and returns the canonical symbol holding its
// page. A typedef that aliases a same-named tag type merges into the tag's
// page instead of creating (or shadowing) one; any other name collision is
// last-wins with a warning.
func (ix *Index) addSymbol(s *Symbol, diags *diag.List) *Symbol {
	name := s.Unit.Name
	prev, collides := ix.targets[name]

	// typedef struct X X; arriving after struct X.
	if isTagAlias(s) && collides && prev.Member == "" && prev.Sym.Unit.Kind == s.Unit.TagKind {
		mergeDoc(prev.Sym, s.Doc)
		return prev.Sym
	}
	// struct X arriving after typedef struct X X. The typedef's symbol may
	// already sit in group and file member lists; compactPages repoints
	// those entries at the tag's symbol.
	if collides && prev.Member == "" && isTagAlias(prev.Sym) && prev.Sym.Unit.TagKind == s.Unit.Kind {
		prev.Sym.skip = true
		ix.replaced[prev.Sym] = s
		mergeDoc(s, prev.Sym.Doc)
		collides = false
	}

	if collides && prev.Member == "" {
		prev.Sym.Shadowed = true
		diags.Warningf(s.Unit.File, s.Unit.Line,
			"duplicate symbol %q; this declaration becomes the link target", name)
	}

	ix.Pages = append(ix.Pages, s)
	ix.targets[name] = Target{Sym: s}
	for _, alias := range s.Aliases {
		ix.targets[alias] = Target{Sym: s}
	}
	if s.Unit.Kind == decl.Enum {
		for _, m := range s.Unit.Members {
			ix.targets[m.Name] = Target{Sym: s, Member: m.Name}
		}
	}
	return s
}

func isTagAlias(s *Symbol) bool {
	return s.Unit.Kind == decl.Typedef && s.Unit.AliasTag == s.Unit.Name
}

func mergeDoc(dst *Symbol, doc *markup.Doc) {
	if doc == nil || doc.IsZero() {
		return
	}
	if dst.Doc == nil || dst.Doc.IsZero() {
		dst.Doc = doc
	}
}

func (p *FilePage) addSymbol(s *Symbol) {
	for _, existing := range p.Symbols {
		if existing == s {
			return
		}
	}
	p.Symbols = append(p.Symbols, s)
}

func (ix *Index) compactPages() {
	kept := ix.Pages[:0]
	for _, s := range ix.Pages {
		if !s.skip {
			kept = append(kept, s)
		}
	}
	ix.Pages = kept

	for _, g := range ix.Groups {
		g.Members = ix.repoint(g.Members)
	}
	for _, p := range ix.Files {
		p.Symbols = ix.repoint(p.Symbols)
	}
}

// repoint swaps consolidated symbols for their canonical owners and drops
// the duplicates that repointing can introduce.
func (ix *Index) repoint(list []*Symbol) []*Symbol {
	out := list[:0]
	seen := make(map[*Symbol]bool, len(list))
	for _, s := range list {
		if canonical, ok := ix.replaced[s]; ok {
			s = canonical
		}
		if s.skip || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func (ix *Index) attachMemberDocs(pending []memberRef, diags *diag.List) {
	for _, ref := range pending {
		t, ok := ix.Resolve(ref.unit.Name)
		if !ok || t.Member == "" {
			diags.Warningf(ref.file, ref.unit.Line, "\\var %s does not name a known member", ref.unit.Name)
			continue
		}
		t.Sym.MemberDocs[t.Member] = ref.doc
	}
}

// Resolve maps a reference name to its target. Member-qualified names
// ("Tag::Member") resolve through the enclosing type.
func (ix *Index) Resolve(name string) (Target, bool) {
	if t, ok := ix.targets[name]; ok {
		return t, true
	}
	if tag, member, found := strings.Cut(name, "::"); found {
		if t, ok := ix.targets[tag]; ok && t.Member == "" && hasMember(t.Sym.Unit.Members, member) {
			return Target{Sym: t.Sym, Member: member}, true
		}
	}
	return Target{}, false
}

func hasMember(members []decl.Member, name string) bool {
	for _, m := range members {
		if m.Name == name || hasMember(m.Children, name) {
			return true
		}
	}
	return false
}

// SeeAlso returns the page names cross-referenced from a symbol: explicit
// \sa targets first in source order, then in-prose references, then group
// co-members in group order. The symbol itself never appears; the result
// is duplicate-free.
func (ix *Index) SeeAlso(s *Symbol) []string {
	var names []string
	seen := make(map[string]bool)
	add := func(t Target) {
		if t.Sym == s {
			return
		}
		name := t.Sym.Unit.Name
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	if s.Doc != nil {
		for _, n := range s.Doc.SeeAlso {
			if t, ok := ix.Resolve(n); ok {
				add(t)
			}
		}
		for _, n := range s.Doc.Refs() {
			if t, ok := ix.Resolve(n); ok {
				add(t)
			}
		}
	}
	if s.Group != "" {
		for _, m := range ix.Groups[s.Group].Members {
			add(Target{Sym: m})
		}
	}
	return names
}
