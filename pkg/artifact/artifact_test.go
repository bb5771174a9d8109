package artifact

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-maryme/pkg/declaration"
	"github.com/goliatone/go-maryme/pkg/render/template/gotemplate"
)

func samplePayload() declaration.Payload {
	return declaration.Payload{
		Email:       "couple@example.sn",
		Celebrant:   declaration.Person{Nom: "Ndiaye", Prenom: "Awa", DateNaissance: "1975-05-01", Telephone: "771112233"},
		Epoux:       declaration.Person{Nom: "Sarr", Prenom: "Moussa", DateNaissance: "1990-01-02", Telephone: "772223344"},
		Epouse:      declaration.Person{Nom: "N'Diaye <b>Fall</b>", Prenom: "Fatou", DateNaissance: "1992-03-04", Telephone: "773334455"},
		Temoins:     []declaration.Person{{Nom: "Ba", DateNaissance: "1980-01-01", Telephone: "774445566"}, {Nom: "Diop", DateNaissance: "1981-02-02"}},
		DateMariage: "2026-12-12",
		IDCommune:   5,
		NomCommune:  "Thiaroye",
	}
}

func sampleDocument(t *testing.T) Document {
	t.Helper()
	doc, err := NewDocument(declaration.Receipt{ID: 42}, samplePayload())
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	return doc
}

type fakePDF struct{ html string }

func (f *fakePDF) FromHTML(_ context.Context, html string) ([]byte, error) {
	f.html = html
	return []byte("%PDF-1.4 fake"), nil
}

func TestNewDocument(t *testing.T) {
	doc := sampleDocument(t)

	if doc.Header != "Declaration No: 42" {
		t.Fatalf("header = %q", doc.Header)
	}
	if doc.Epouse.Nom != "N'Diaye Fall" {
		t.Fatalf("markup must be stripped without escaping text, got %q", doc.Epouse.Nom)
	}
	var roles []string
	for _, p := range doc.Parties() {
		roles = append(roles, p.Role)
	}
	want := []string{"Officier celebrant", "Epoux", "Epouse", "Temoin 1", "Temoin 2"}
	if diff := cmp.Diff(want, roles); diff != "" {
		t.Fatalf("parties mismatch (-want +got):\n%s", diff)
	}

	if _, err := NewDocument(declaration.Receipt{}, samplePayload()); !errors.Is(err, ErrMissingID) {
		t.Fatalf("expected ErrMissingID, got %v", err)
	}
}

func TestFileName(t *testing.T) {
	got := []string{
		FileName(42, FormatHTML),
		FileName(42, FormatMarkdown),
		FileName(42, FormatTerminal),
		FileName(42, FormatPDF),
	}
	want := []string{"declaration-42.html", "declaration-42.md", "declaration-42.txt", "declaration-42.pdf"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("file names mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderer_HTML(t *testing.T) {
	r, err := NewRenderer(WithTheme(&theme.RendererConfig{
		Theme:   "etat-civil",
		Variant: "light",
		CSSVars: map[string]string{"color-primary": "#0b6e4f"},
	}))
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}

	out, err := r.HTML(sampleDocument(t))
	if err != nil {
		t.Fatalf("html: %v", err)
	}
	for _, want := range []string{
		"<h1>Declaration No: 42</h1>",
		"<strong>Thiaroye</strong>",
		"12/12/2026",
		`data-theme="etat-civil"`,
		"--color-primary: #0b6e4f;",
		"N&#39;Diaye Fall",
		"Temoin 2",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("html output missing %q", want)
		}
	}
	if strings.Contains(out, "<b>Fall</b>") {
		t.Fatalf("user markup leaked into html")
	}
}

func TestRenderer_MarkdownAndTerminal(t *testing.T) {
	r, err := NewRenderer(WithTerminalStyle("notty", 100))
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	doc := sampleDocument(t)

	md, err := r.Markdown(doc)
	if err != nil {
		t.Fatalf("markdown: %v", err)
	}
	if !strings.HasPrefix(md, "# Declaration No: 42") {
		t.Fatalf("markdown should start with the header, got %q", md[:min(40, len(md))])
	}
	if !strings.Contains(md, "| Temoin 2 | Diop | 02/02/1981 | - |") {
		t.Fatalf("markdown witness row missing:\n%s", md)
	}

	term, err := r.Terminal(doc)
	if err != nil {
		t.Fatalf("terminal: %v", err)
	}
	if !strings.Contains(term, "Declaration No: 42") {
		t.Fatalf("terminal output missing header:\n%s", term)
	}
}

func TestRenderer_PDFAndWriteFile(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	doc := sampleDocument(t)

	if _, err := r.Render(context.Background(), doc, FormatPDF); !errors.Is(err, ErrPDFDisabled) {
		t.Fatalf("expected ErrPDFDisabled, got %v", err)
	}

	exporter := &fakePDF{}
	r, _ = NewRenderer(WithPDFExporter(exporter))
	dir := t.TempDir()
	path, err := r.WriteFile(context.Background(), dir, doc, FormatPDF)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if path != filepath.Join(dir, "declaration-42.pdf") {
		t.Fatalf("path = %q", path)
	}
	data, _ := os.ReadFile(path)
	if !strings.HasPrefix(string(data), "%PDF") || !strings.Contains(exporter.html, "Declaration No: 42") {
		t.Fatalf("pdf export not driven by html page")
	}
}

func TestRenderer_CustomTemplatesSeeFiltersAndStamp(t *testing.T) {
	files := fstest.MapFS{
		"declaration.md.tpl": {Data: []byte("{{ doc.header }} / {{ theme.name|orblank }} / {{ doc.date_mariage|datefr }} / {{ generated_at }}")},
	}
	engine, err := gotemplate.New(gotemplate.WithFS(files))
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	clock := func() time.Time { return time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC) }
	r, err := NewRenderer(WithTemplateRenderer(engine), WithClock(clock))
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}

	got, err := r.Markdown(sampleDocument(t))
	if err != nil {
		t.Fatalf("markdown: %v", err)
	}
	if want := "Declaration No: 42 / - / 12/12/2026 / 17/10/2026 09:30"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestParseFormat(t *testing.T) {
	for raw, want := range map[string]Format{"HTML": FormatHTML, ".md": FormatMarkdown, "terminal": FormatTerminal, "pdf": FormatPDF} {
		got, err := ParseFormat(raw)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", raw, got, err)
		}
	}
	if _, err := ParseFormat("docx"); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}
