package doc2man

import (
	"context"
	"errors"
	"strings"
	"testing"
)

const widgetHeader = `/**
 * \file widget.h
 * \brief Widget management.
 */

/**
 * \defgroup lifecycle Widget lifecycle
 * \brief Create and destroy widgets.
 * @{
 */

/**
 * \brief Allocates a fresh widget.
 * \param size Initial size in bytes.
 * \return A new widget, or NULL when allocation fails.
 */
struct widget *widget_new(size_t size);

/**
 * \brief Releases a widget.
 * \param w The widget to release.
 */
void widget_free(struct widget *w);

/** @} */
`

func generate(t *testing.T, svc *Service, files ...SourceFile) *Result {
	t.Helper()
	result, err := svc.Generate(context.Background(), files)
	if err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}
	return result
}

func findPage(t *testing.T, result *Result, title string) Page {
	t.Helper()
	for _, p := range result.Pages {
		if p.Title == title {
			return p
		}
	}
	t.Fatalf("no page titled %q; have %v", title, pageTitles(result))
	return Page{}
}

func pageTitles(result *Result) []string {
	titles := make([]string, len(result.Pages))
	for i, p := range result.Pages {
		titles[i] = p.Title
	}
	return titles
}

func TestGenerate_Validation(t *testing.T) {
	t.Parallel()
	svc := New()

	tests := []struct {
		name    string
		files   []SourceFile
		wantErr error
	}{
		{
			name:    "no files",
			files:   nil,
			wantErr: ErrNoInput,
		},
		{
			name:    "unnamed file",
			files:   []SourceFile{{Text: "int x;"}},
			wantErr: ErrUnnamedFile,
		},
		{
			name:    "valid input",
			files:   []SourceFile{{Name: "a.h", Text: ""}},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Generate(context.Background(), tt.files)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Generate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGenerate_PageOrder(t *testing.T) {
	t.Parallel()
	svc := New(WithProject("acme", "1.2.0"))
	result := generate(t, svc, SourceFile{Name: "widget.h", Text: widgetHeader})

	want := []string{"widget_new", "widget_free", "widget", "lifecycle"}
	got := pageTitles(result)
	if len(got) != len(want) {
		t.Fatalf("page titles = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("page[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	for _, p := range result.Pages {
		if !strings.HasPrefix(p.Body, `.TH "ACME" "3"`) {
			t.Errorf("page %q body does not start with the heading: %q", p.Title, firstLine(p.Body))
		}
		if !strings.HasSuffix(p.Target, ".3") {
			t.Errorf("page %q target = %q, want .3 suffix", p.Title, p.Target)
		}
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func TestGenerate_SymbolPage(t *testing.T) {
	t.Parallel()
	svc := New(WithProject("acme", "1.2.0"))
	result := generate(t, svc, SourceFile{Name: "widget.h", Text: widgetHeader})

	page := findPage(t, result, "widget_new")
	wants := []string{
		".SH NAME\nwidget_new \\- allocates a fresh widget",
		`.BI "struct widget *widget_new(size_t " size ");"`,
		".SH PARAMETERS\n.TP\nsize\nInitial size in bytes.",
		".SH RETURN VALUE",
	}
	for _, want := range wants {
		if !strings.Contains(page.Body, want) {
			t.Errorf("widget_new body missing %q\n%s", want, page.Body)
		}
	}
}

// SEE ALSO lists group co-members but never the page's own symbol.
func TestGenerate_SeeAlsoExcludesSelf(t *testing.T) {
	t.Parallel()
	svc := New()
	result := generate(t, svc, SourceFile{Name: "widget.h", Text: widgetHeader})

	page := findPage(t, result, "widget_new")
	if !strings.Contains(page.Body, ".BR widget_free (3)") {
		t.Errorf("widget_new SEE ALSO missing widget_free:\n%s", page.Body)
	}
	if strings.Contains(page.Body, ".BR widget_new (3)") {
		t.Errorf("widget_new SEE ALSO references itself:\n%s", page.Body)
	}
}

// A group reopened from another file merges into a single page listing the
// members of both openings.
func TestGenerate_GroupReopening(t *testing.T) {
	t.Parallel()
	const first = `/**
 * \defgroup audio Audio controls
 * @{
 */

/** \brief Emits a beep. */
void beep(void);

/** @} */
`
	const second = `/**
 * \addtogroup audio
 * @{
 */

/** \brief Emits a boop. */
void boop(void);

/** @} */
`
	svc := New()
	result := generate(t, svc,
		SourceFile{Name: "a.h", Text: first},
		SourceFile{Name: "b.h", Text: second},
	)

	groups := 0
	for _, p := range result.Pages {
		if p.Title == "audio" {
			groups++
		}
	}
	if groups != 1 {
		t.Fatalf("group pages = %d, want 1; titles %v", groups, pageTitles(result))
	}

	page := findPage(t, result, "audio")
	if !strings.Contains(page.Body, ".SH NAME\naudio \\- audio controls") {
		t.Errorf("group page NAME wrong:\n%s", page.Body)
	}
	for _, member := range []string{`\fBbeep\fR(3);`, `\fBboop\fR(3);`} {
		if !strings.Contains(page.Body, member) {
			t.Errorf("group page missing member row %q:\n%s", member, page.Body)
		}
	}
}

// A composite with no members still gets a page, without a FIELDS section.
func TestGenerate_EmptyComposite(t *testing.T) {
	t.Parallel()
	const src = `/** \brief Reserved for future use. */
struct empty {};
`
	svc := New()
	result := generate(t, svc, SourceFile{Name: "empty.h", Text: src})

	page := findPage(t, result, "empty")
	if !strings.Contains(page.Body, ".SH SYNOPSIS") {
		t.Errorf("empty struct page missing SYNOPSIS:\n%s", page.Body)
	}
	if strings.Contains(page.Body, ".SH FIELDS") {
		t.Errorf("empty struct page has a FIELDS section:\n%s", page.Body)
	}
}

// Smart quotes in comment text come out as plain ASCII quotes.
func TestGenerate_SmartQuotes(t *testing.T) {
	t.Parallel()
	const src = "/** \\brief Says \u201chello\u201d and \u2018goodbye\u2019. */\nvoid greet(void);\n"
	svc := New()
	result := generate(t, svc, SourceFile{Name: "greet.h", Text: src})

	page := findPage(t, result, "greet")
	if !strings.Contains(page.Body, `says "hello" and 'goodbye'`) {
		t.Errorf("smart quotes not normalized:\n%s", page.Body)
	}
	for _, bad := range []string{"\u201c", "\u201d", "\u2018", "\u2019"} {
		if strings.Contains(page.Body, bad) {
			t.Errorf("page still contains %q:\n%s", bad, page.Body)
		}
	}
}

func TestGenerate_Decorations(t *testing.T) {
	t.Parallel()
	svc := New(WithDecorations(Decorations{
		"widget_new": {
			Preamble: `.\" generated header`,
			Epilogue: `.\" generated footer`,
		},
	}))
	result := generate(t, svc, SourceFile{Name: "widget.h", Text: widgetHeader})

	page := findPage(t, result, "widget_new")
	if !strings.HasPrefix(page.Body, ".\\\" generated header\n.TH ") {
		t.Errorf("preamble not prepended:\n%s", firstLine(page.Body))
	}
	if !strings.HasSuffix(page.Body, ".\\\" generated footer\n") {
		t.Errorf("epilogue not appended:\n%s", page.Body)
	}

	undecorated := findPage(t, result, "widget_free")
	if !strings.HasPrefix(undecorated.Body, ".TH ") {
		t.Errorf("undecorated page gained a preamble:\n%s", firstLine(undecorated.Body))
	}
}

func TestGenerate_Section(t *testing.T) {
	t.Parallel()
	svc := New(WithSection(2), WithTopic("SYSCALLS"))
	result := generate(t, svc, SourceFile{Name: "widget.h", Text: widgetHeader})

	page := findPage(t, result, "widget_new")
	if page.Target != "widget_new.2" {
		t.Errorf("Target = %q, want %q", page.Target, "widget_new.2")
	}
	if !strings.HasPrefix(page.Body, `.TH "SYSCALLS" "2"`) {
		t.Errorf("heading = %q", firstLine(page.Body))
	}
	if !strings.Contains(page.Body, ".BR widget_free (2)") {
		t.Errorf("SEE ALSO does not use section 2:\n%s", page.Body)
	}
}

// An unresolved reference degrades the page and surfaces as a warning.
func TestGenerate_Diagnostics(t *testing.T) {
	t.Parallel()
	const src = `/**
 * \brief Spins.
 *
 * See #no_such_symbol for details.
 */
void spin(void);
`
	svc := New()
	result := generate(t, svc, SourceFile{Name: "spin.h", Text: src})

	if len(result.Diagnostics) == 0 {
		t.Fatal("expected a diagnostic for the unresolved reference")
	}
	d := result.Diagnostics[0]
	if d.Severity != SeverityWarning {
		t.Errorf("severity = %v, want warning", d.Severity)
	}
	if d.File != "spin.h" {
		t.Errorf("file = %q, want %q", d.File, "spin.h")
	}
	if !strings.Contains(d.Message, "no_such_symbol") {
		t.Errorf("message = %q, want it to name the reference", d.Message)
	}
	if result.HasErrors() {
		t.Error("HasErrors() = true for a warning-only run")
	}
}

func TestGenerate_Cancellation(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := New()
	_, err := svc.Generate(ctx, []SourceFile{{Name: "widget.h", Text: widgetHeader}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Generate() error = %v, want context.Canceled", err)
	}
}

func TestResolveWorkers(t *testing.T) {
	t.Parallel()
	if got := ResolveWorkers(4); got != 4 {
		t.Errorf("ResolveWorkers(4) = %d, want 4", got)
	}
	if got := ResolveWorkers(0); got < MinWorkers || got > MaxWorkers {
		t.Errorf("ResolveWorkers(0) = %d, want between %d and %d", got, MinWorkers, MaxWorkers)
	}
}
