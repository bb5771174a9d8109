package artifact

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-maryme/pkg/render/template"
	"github.com/goliatone/go-maryme/pkg/render/template/gotemplate"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// Template names resolved by the engine.
const (
	TemplateHTML     = "declaration.html"
	TemplateMarkdown = "declaration.md"
)

// PDFExporter prints HTML to PDF. *pdf.Exporter satisfies it.
type PDFExporter interface {
	FromHTML(ctx context.Context, html string) ([]byte, error)
}

type Option func(*Renderer)

// WithTemplateRenderer replaces the embedded templates.
func WithTemplateRenderer(engine template.TemplateRenderer) Option {
	return func(r *Renderer) {
		if engine != nil {
			r.engine = engine
		}
	}
}

// WithTheme applies theme tokens and CSS variables to HTML output.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(r *Renderer) { r.theme = cfg }
}

// WithPDFExporter enables FormatPDF.
func WithPDFExporter(exporter PDFExporter) Option {
	return func(r *Renderer) { r.pdf = exporter }
}

// WithTerminalStyle selects the glamour style ("auto", "dark", "light",
// "notty", ...) and word wrap width.
func WithTerminalStyle(style string, wordWrap int) Option {
	return func(r *Renderer) {
		if style = strings.TrimSpace(style); style != "" {
			r.termStyle = style
		}
		if wordWrap > 0 {
			r.wordWrap = wordWrap
		}
	}
}

// WithClock sets the time printed as the edition stamp.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		if now != nil {
			r.now = now
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Renderer turns documents into their output formats.
type Renderer struct {
	engine    template.TemplateRenderer
	theme     *theme.RendererConfig
	pdf       PDFExporter
	termStyle string
	wordWrap  int
	now       func() time.Time
	logger    *zap.Logger
}

// NewRenderer builds a renderer backed by the embedded templates.
func NewRenderer(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		termStyle: "auto",
		wordWrap:  80,
		now:       time.Now,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.engine == nil {
		files, err := fs.Sub(embeddedTemplates, "templates")
		if err != nil {
			return nil, fmt.Errorf("artifact: templates: %w", err)
		}
		engine, err := gotemplate.New(gotemplate.WithFS(files))
		if err != nil {
			return nil, fmt.Errorf("artifact: template engine: %w", err)
		}
		r.engine = engine
	}
	if err := registerFilters(r.engine); err != nil {
		return nil, fmt.Errorf("artifact: filters: %w", err)
	}
	if err := r.engine.GlobalContext(map[string]any{"theme": buildThemeView(r.theme)}); err != nil {
		return nil, fmt.Errorf("artifact: theme: %w", err)
	}
	r.logger = r.logger.Named("artifact")
	return r, nil
}

// Render produces doc in format.
func (r *Renderer) Render(ctx context.Context, doc Document, format Format) ([]byte, error) {
	switch format {
	case FormatHTML:
		out, err := r.HTML(doc)
		return []byte(out), err
	case FormatMarkdown:
		out, err := r.Markdown(doc)
		return []byte(out), err
	case FormatTerminal:
		out, err := r.Terminal(doc)
		return []byte(out), err
	case FormatPDF:
		return r.PDF(ctx, doc)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// HTML renders the themed page.
func (r *Renderer) HTML(doc Document) (string, error) {
	out, err := r.engine.RenderTemplate(TemplateHTML, r.viewData(doc))
	if err != nil {
		return "", fmt.Errorf("artifact: render html: %w", err)
	}
	return out, nil
}

// Markdown renders the plain-text document.
func (r *Renderer) Markdown(doc Document) (string, error) {
	out, err := r.engine.RenderTemplate(TemplateMarkdown, r.viewData(doc))
	if err != nil {
		return "", fmt.Errorf("artifact: render markdown: %w", err)
	}
	return out, nil
}

// Terminal renders the Markdown through glamour for display in a terminal.
func (r *Renderer) Terminal(doc Document) (string, error) {
	md, err := r.Markdown(doc)
	if err != nil {
		return "", err
	}
	styleOpt := glamour.WithStandardStyle(r.termStyle)
	if r.termStyle == "auto" {
		styleOpt = glamour.WithAutoStyle()
	}
	term, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(r.wordWrap))
	if err != nil {
		return "", fmt.Errorf("artifact: terminal renderer: %w", err)
	}
	out, err := term.Render(md)
	if err != nil {
		return "", fmt.Errorf("artifact: render terminal: %w", err)
	}
	return out, nil
}

// PDF prints the HTML page through the configured exporter.
func (r *Renderer) PDF(ctx context.Context, doc Document) ([]byte, error) {
	if r.pdf == nil {
		return nil, ErrPDFDisabled
	}
	page, err := r.HTML(doc)
	if err != nil {
		return nil, err
	}
	out, err := r.pdf.FromHTML(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("artifact: export pdf: %w", err)
	}
	return out, nil
}

// WriteFile renders doc into dir using the conventional file name and
// returns the written path.
func (r *Renderer) WriteFile(ctx context.Context, dir string, doc Document, format Format) (string, error) {
	data, err := r.Render(ctx, doc, format)
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("artifact: create %s: %w", dir, err)
	}
	path := filepath.Join(dir, doc.FileName(format))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("artifact: write %s: %w", path, err)
	}
	r.logger.Info("artifact written", zap.Int("id", doc.ID), zap.String("path", path))
	return path, nil
}

type themeView struct {
	Name    string            `json:"name"`
	Variant string            `json:"variant"`
	Tokens  map[string]string `json:"tokens"`
	CSSVars string            `json:"css_vars"`
}

func (r *Renderer) viewData(doc Document) map[string]any {
	return map[string]any{
		"doc":          doc,
		"parties":      doc.Parties(),
		"generated_at": r.now().Format("02/01/2006 15:04"),
	}
}

func buildThemeView(cfg *theme.RendererConfig) themeView {
	if cfg == nil {
		return themeView{}
	}
	return themeView{
		Name:    cfg.Theme,
		Variant: cfg.Variant,
		Tokens:  cfg.Tokens,
		CSSVars: cssVarsStyle(cfg.CSSVars),
	}
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		name := key
		if !strings.HasPrefix(name, "--") {
			name = "--" + name
		}
		fmt.Fprintf(&b, "  %s: %s;\n", name, vars[key])
	}
	b.WriteString("}")
	return b.String()
}
