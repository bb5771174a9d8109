// Package pdf prints HTML documents to PDF with a headless Chromium driven by
// rod.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// ErrNoBrowser is returned when no Chromium binary can be found.
var ErrNoBrowser = errors.New("pdf: no chromium binary found")

type Option func(*Exporter)

// WithBin uses an explicit browser binary instead of looking one up.
func WithBin(bin string) Option {
	return func(e *Exporter) { e.bin = bin }
}

// WithControlURL connects to an already running browser.
func WithControlURL(url string) Option {
	return func(e *Exporter) { e.controlURL = url }
}

// WithTimeout bounds a single export.
func WithTimeout(d time.Duration) Option {
	return func(e *Exporter) {
		if d > 0 {
			e.timeout = d
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(e *Exporter) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Exporter launches a browser per export. Exports are rare, one per
// declaration, so nothing is kept running between calls.
type Exporter struct {
	bin        string
	controlURL string
	timeout    time.Duration
	logger     *zap.Logger
}

func New(opts ...Option) *Exporter {
	e := &Exporter{timeout: 30 * time.Second, logger: zap.NewNop()}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(e)
	}
	e.logger = e.logger.Named("pdf")
	return e
}

// Available reports whether a browser can be reached.
func (e *Exporter) Available() bool {
	if e.controlURL != "" || e.bin != "" {
		return true
	}
	_, ok := launcher.LookPath()
	return ok
}

// FromHTML renders html in a blank page and prints it to PDF.
func (e *Exporter) FromHTML(ctx context.Context, html string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	controlURL := e.controlURL
	if controlURL == "" {
		if !e.Available() {
			return nil, ErrNoBrowser
		}
		l := launcher.New().Headless(true).Context(ctx)
		if e.bin != "" {
			l = l.Bin(e.bin)
		}
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("pdf: launch browser: %w", err)
		}
		defer l.Cleanup()
		controlURL = u
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("pdf: connect: %w", err)
	}
	defer func() { _ = browser.Close() }()

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("pdf: open page: %w", err)
	}
	defer func() { _ = page.Close() }()

	if err := page.SetDocumentContent(html); err != nil {
		return nil, fmt.Errorf("pdf: set content: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("pdf: wait load: %w", err)
	}

	stream, err := page.PDF(&proto.PagePrintToPDF{PrintBackground: true})
	if err != nil {
		return nil, fmt.Errorf("pdf: print: %w", err)
	}
	out, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("pdf: read: %w", err)
	}
	e.logger.Debug("pdf exported", zap.Int("bytes", len(out)))
	return out, nil
}
