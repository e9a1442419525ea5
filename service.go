package doc2man

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/hollis/go-doc2man/internal/decl"
	"github.com/hollis/go-doc2man/internal/diag"
	"github.com/hollis/go-doc2man/internal/index"
	"github.com/hollis/go-doc2man/internal/markup"
	"github.com/hollis/go-doc2man/internal/render"
	"github.com/hollis/go-doc2man/internal/scan"
)

// Service orchestrates the header-to-man-page pipeline.
type Service struct {
	cfg serviceConfig
}

// New creates a Service with default configuration.
// Use options to customize behavior (e.g., WithSection).
func New(opts ...Option) *Service {
	s := &Service{
		cfg: serviceConfig{section: DefaultSection},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Generate runs the full pipeline over the given files and returns the
// rendered pages with accumulated diagnostics. Files parse concurrently,
// the index is built by a single writer, then pages render concurrently
// over the read-only index. Page order is deterministic: symbol pages in
// declaration order, then header pages, then group pages.
// The context is used for cancellation.
func (s *Service) Generate(ctx context.Context, files []SourceFile) (*Result, error) {
	if len(files) == 0 {
		return nil, ErrNoInput
	}
	for i, f := range files {
		if f.Name == "" {
			return nil, fmt.Errorf("%w: index %d", ErrUnnamedFile, i)
		}
	}

	workers := ResolveWorkers(s.cfg.workers)

	// Stage 1-3: scan, classify, and parse markup per file.
	parsed := make([]index.FileUnits, len(files))
	fileDiags := make([]*diag.List, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			parsed[i], fileDiags[i] = parseFile(f)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	run := &diag.List{}
	for _, fd := range fileDiags {
		run.Append(fd)
	}

	// Stage 4: single-writer index build; read-only afterwards.
	ix := index.Build(parsed, run)
	r := render.New(ix, s.meta(), s.cfg.examples)
	jobs := pageJobs(r, ix)

	// Stage 5: render pages over the shared index.
	pages := make([]Page, len(jobs))
	pageDiags := make([]*diag.List, len(jobs))
	pg, pctx := errgroup.WithContext(ctx)
	pg.SetLimit(workers)
	for i, job := range jobs {
		i, job := i, job
		pg.Go(func() error {
			if err := pctx.Err(); err != nil {
				return err
			}
			var d diag.List
			pages[i] = s.assemble(r, job, &d)
			pageDiags[i] = &d
			return nil
		})
	}
	if err := pg.Wait(); err != nil {
		return nil, err
	}

	for _, pd := range pageDiags {
		run.Append(pd)
	}
	run.SortStable()

	return &Result{Pages: pages, Diagnostics: toDiagnostics(run.All())}, nil
}

// parseFile runs stages 1-3 for one file. The returned diagnostics stay
// local to the file until the barrier so concurrent parses never share a
// list.
func parseFile(f SourceFile) (index.FileUnits, *diag.List) {
	blocks, diags := scan.Split(f.Name, f.Text)
	fu := index.FileUnits{Name: f.Name}
	for _, b := range blocks {
		for _, u := range decl.Classify(f.Name, b, diags) {
			p := index.Parsed{Unit: u}
			if u.Comment != "" {
				p.Doc = markup.Parse(f.Name, u.Comment, u.CommentLine, diags)
			}
			fu.Units = append(fu.Units, p)
		}
	}
	return fu, diags
}

// pageJob names one page and defers its body rendering to stage 5.
type pageJob struct {
	title string
	body  func(*diag.List) string
}

func pageJobs(r *render.Renderer, ix *index.Index) []pageJob {
	var jobs []pageJob
	for _, sym := range ix.Pages {
		jobs = append(jobs, pageJob{
			title: render.PageName(sym.Name()),
			body:  func(d *diag.List) string { return r.SymbolPage(sym, d) },
		})
	}
	for _, fp := range ix.Files {
		jobs = append(jobs, pageJob{
			title: render.HeaderPageName(fp.Name),
			body:  func(d *diag.List) string { return r.HeaderPage(fp, d) },
		})
	}
	for _, name := range ix.GroupOrder {
		grp := ix.Groups[name]
		jobs = append(jobs, pageJob{
			title: render.PageName(grp.Name),
			body:  func(d *diag.List) string { return r.GroupPage(grp, d) },
		})
	}
	return jobs
}

// assemble renders one page body and wraps it with the shared heading and
// any configured decoration.
func (s *Service) assemble(r *render.Renderer, job pageJob, d *diag.List) Page {
	body := job.body(d)
	dec := s.cfg.decorations[job.title]

	var sb strings.Builder
	writeBlock(&sb, dec.Preamble)
	sb.WriteString(r.Heading())
	writeBlock(&sb, body)
	writeBlock(&sb, dec.Epilogue)

	return Page{
		Title:  job.title,
		Target: job.title + "." + strconv.Itoa(s.cfg.section),
		Body:   sb.String(),
	}
}

// writeBlock appends text with a guaranteed trailing newline, skipping
// empty blocks.
func writeBlock(sb *strings.Builder, text string) {
	if text == "" {
		return
	}
	sb.WriteString(text)
	if !strings.HasSuffix(text, "\n") {
		sb.WriteByte('\n')
	}
}

func (s *Service) meta() render.Meta {
	return render.Meta{
		Topic:        s.cfg.topic,
		Section:      s.cfg.section,
		Project:      s.cfg.project,
		Version:      s.cfg.version,
		Brief:        s.cfg.library,
		FooterMiddle: s.cfg.footerMiddle,
		FooterInside: s.cfg.footerInside,
		HeaderMiddle: s.cfg.headerMiddle,
		Autofill:     s.cfg.autofill,
		Now:          s.cfg.now,
	}
}

// toDiagnostics converts internal diagnostics to the public type.
func toDiagnostics(ds []diag.Diagnostic) []Diagnostic {
	if len(ds) == 0 {
		return nil
	}
	out := make([]Diagnostic, len(ds))
	for i, d := range ds {
		sev := SeverityWarning
		if d.Severity == diag.Error {
			sev = SeverityError
		}
		out[i] = Diagnostic{File: d.File, Line: d.Line, Severity: sev, Message: d.Message}
	}
	return out
}
