package template

import (
	"errors"
	"io"
)

// ErrFilterExists is returned when a filter name is already registered.
// Filters are shared by every engine of the process, so callers that build
// several engines may ignore it.
var ErrFilterExists = errors.New("template: filter already registered")

// FilterFunc transforms a value inside a template, e.g. {{ date|datefr }}.
type FilterFunc func(input any, param any) (any, error)

// TemplateRenderer renders named templates. The output is returned and also
// written to the optional writers.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn FilterFunc) error
	GlobalContext(data any) error
}
