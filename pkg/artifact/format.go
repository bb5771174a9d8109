package artifact

import (
	"fmt"
	"strings"
)

// Format selects an output representation.
type Format string

const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "md"
	FormatTerminal Format = "txt"
	FormatPDF      Format = "pdf"
)

// Formats lists supported formats.
func Formats() []Format {
	return []Format{FormatHTML, FormatMarkdown, FormatTerminal, FormatPDF}
}

// ParseFormat accepts format names and common aliases.
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(raw), ".")) {
	case "html", "htm":
		return FormatHTML, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "txt", "text", "term", "terminal":
		return FormatTerminal, nil
	case "pdf":
		return FormatPDF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, raw)
}

// Extension is the file extension without a dot.
func (f Format) Extension() string {
	return string(f)
}

// ContentType is the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	}
	return "text/plain; charset=utf-8"
}
