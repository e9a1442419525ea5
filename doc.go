// Package doc2man extracts documentation comments from annotated C-style
// headers and renders them as man pages in roff source form.
//
// # Quick Start
//
// Create a service and generate pages from in-memory sources:
//
//	svc := doc2man.New(
//	    doc2man.WithProject("acme", "1.2.0"),
//	    doc2man.WithAutofill(),
//	)
//
//	result, err := svc.Generate(ctx, []doc2man.SourceFile{
//	    {Name: "widget.h", Text: header},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, page := range result.Pages {
//	    os.WriteFile(page.Target, []byte(page.Body), 0644)
//	}
//
// The library never touches the filesystem; callers supply source text and
// write the rendered pages. Recoverable problems (unknown tags, unresolved
// references, unterminated comments) accumulate in result.Diagnostics
// instead of aborting the run.
//
// # Pipeline
//
// Generation follows these stages:
//
//  1. Source scanning (comment blocks and the declarations they annotate)
//  2. Declaration classification (functions, composites, typedefs, macros)
//  3. Markup parsing (Doxygen-style tags, inline styles, tables, code)
//  4. Symbol indexing and cross-reference resolution
//  5. Page rendering (escaped roff with tbl tables and semantic newlines)
//
// Stages 1-3 run per file and stage 5 per page on a worker pool sized from
// GOMAXPROCS; stage 4 is a single-writer barrier between them.
//
// # Output
//
// Every documented symbol yields a page. A \file comment yields a summary
// page for the header itself, and \defgroup yields a page per group. Pages
// come back in a deterministic order: symbols in declaration order, then
// header pages, then group pages.
//
// # Configuration
//
// Use functional options to customize the service:
//
//	svc := doc2man.New(
//	    doc2man.WithSection(2),
//	    doc2man.WithTopic("ACME"),
//	    doc2man.WithLibrary("Acme library (libacme, -lacme)"),
//	    doc2man.WithExamples(map[string]string{"demo.c": demoSource}),
//	)
package doc2man
