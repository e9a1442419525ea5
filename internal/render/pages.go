package render

import (
	"strconv"

	"github.com/hollis/go-doc2man/internal/decl"
	"github.com/hollis/go-doc2man/internal/diag"
	"github.com/hollis/go-doc2man/internal/index"
	"github.com/hollis/go-doc2man/internal/markup"
	"github.com/hollis/go-doc2man/internal/roff"
)

// HeaderPage renders the page for a header documented with \file: a summary
// table of its top-level symbols followed by one subsection per group.
func (r *Renderer) HeaderPage(p *index.FilePage, diags *diag.List) string {
	ctx := &pageCtx{file: p.Name, params: map[string]bool{}, diags: diags}
	doc := p.Doc
	if doc == nil {
		doc = &markup.Doc{}
	}

	var b roff.Builder
	b.Macro("SH", "NAME")
	brief := r.flatten(doc.Brief, ctx)
	if brief != "" {
		b.Text(p.Name + ` \- ` + briefify(brief))
	} else {
		b.Text(p.Name)
	}

	r.library(&b)
	b.Macro("SH", "SYNOPSIS")
	b.Macro("nf")
	b.Macro("B", "#include <"+p.Name+">")
	b.Macro("fi")

	if len(doc.Description) > 0 {
		b.Macro("SH", "DESCRIPTION")
		r.blocks(&b, doc.Description, ctx)
	} else if brief != "" {
		b.Macro("SH", "DESCRIPTION")
		b.Text(brief)
	}

	var top []*index.Symbol
	grouped := make(map[string][]*index.Symbol)
	for _, s := range p.Symbols {
		if s.Group == "" {
			top = append(top, s)
		} else {
			grouped[s.Group] = append(grouped[s.Group], s)
		}
	}

	r.summaryTable(&b, top, ctx)

	// Group subsections in group-definition order.
	for _, name := range r.ix.GroupOrder {
		members, ok := grouped[name]
		if !ok {
			continue
		}
		g := r.ix.Groups[name]
		title := g.Title
		if title == "" {
			title = g.Name
		}
		b.Macro("SS", title)
		if g.Doc != nil {
			if len(g.Doc.Description) > 0 {
				r.blocks(&b, g.Doc.Description, ctx)
			} else if gb := r.flatten(g.Doc.Brief, ctx); gb != "" {
				b.Text(gb)
			}
		}
		r.summaryTable(&b, members, ctx)
	}

	r.boilerplate(&b, nil, doc, ctx)
	return b.String()
}

// GroupPage renders the standalone page for a group: its description and a
// summary table of every member across all reopenings.
func (r *Renderer) GroupPage(g *index.Group, diags *diag.List) string {
	ctx := &pageCtx{file: g.Name, params: map[string]bool{}, diags: diags}
	doc := g.Doc
	if doc == nil {
		doc = &markup.Doc{}
	}

	var b roff.Builder
	b.Macro("SH", "NAME")
	title := g.Title
	if title == "" {
		title = r.flatten(doc.Brief, ctx)
	}
	if title != "" {
		b.Text(g.Name + ` \- ` + briefify(title))
	} else {
		b.Text(g.Name)
	}

	r.library(&b)

	if len(doc.Description) > 0 {
		b.Macro("SH", "DESCRIPTION")
		r.blocks(&b, doc.Description, ctx)
	} else if brief := r.flatten(doc.Brief, ctx); brief != "" {
		b.Macro("SH", "DESCRIPTION")
		b.Text(brief)
	}

	r.summaryTable(&b, g.Members, ctx)
	r.boilerplate(&b, nil, doc, ctx)
	return b.String()
}

// Summary table category order. Typedefs that survive as standalone pages
// are listed with the structures they alias would be, so they get their own
// category at the end.
var summaryCategories = []struct {
	title string
	kinds []decl.Kind
}{
	{"Functions", []decl.Kind{decl.Function}},
	{"Defines", []decl.Kind{decl.Macro}},
	{"Enumerations", []decl.Kind{decl.Enum}},
	{"Structures", []decl.Kind{decl.Struct}},
	{"Unions", []decl.Kind{decl.Union}},
	{"Variables", []decl.Kind{decl.Variable}},
	{"Typedefs", []decl.Kind{decl.Typedef}},
}

// summaryTable emits a two-column name/brief table per symbol category.
func (r *Renderer) summaryTable(b *roff.Builder, symbols []*index.Symbol, ctx *pageCtx) {
	if len(symbols) == 0 {
		return
	}
	byKind := make(map[decl.Kind][]*index.Symbol)
	for _, s := range symbols {
		byKind[s.Unit.Kind] = append(byKind[s.Unit.Kind], s)
	}

	emitted := false
	var table roff.Builder
	table.Macro("TS")
	table.Text("tab(;);\n")
	for _, category := range summaryCategories {
		var members []*index.Symbol
		for _, kind := range category.kinds {
			members = append(members, byKind[kind]...)
		}
		if len(members) == 0 {
			continue
		}
		if emitted {
			table.Source("\n")
			table.Macro("T&")
		}
		table.Text("l l.\n")
		table.Text(`\fB` + category.title + `\fR;\fBDescription\fR` + "\n")
		table.Text("_\n")
		for _, s := range members {
			table.Text(`\fB` + s.Name() + `\fR(` + strconv.Itoa(r.meta.Section) + `);`)
			table.Text("T{\n")
			brief := ""
			if s.Doc != nil {
				brief = r.flatten(s.Doc.Brief, ctx)
			}
			table.Text(brief + "\n")
			table.Text("T}\n")
		}
		emitted = true
	}
	table.Macro("TE")
	if emitted {
		b.Extend(&table)
	}
}
