// Package artifact produces the confirmation document handed to the couple
// once a declaration is created.
//
// A Document is derived only from the submitted payload and the identifier
// returned by the backend. It renders to themed HTML (pongo2 templates,
// go-theme tokens), Markdown, styled terminal output (glamour) and, when a
// Chromium binary is available, PDF through the pdf subpackage.
package artifact
