package artifact

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-maryme/pkg/render/template"
	"github.com/goliatone/go-maryme/pkg/validation"
)

// Template filters used by the declaration templates.
var filters = map[string]template.FilterFunc{
	"datefr":  dateFR,
	"orblank": orBlank,
}

func registerFilters(engine template.TemplateRenderer) error {
	for name, fn := range filters {
		if err := engine.RegisterFilter(name, fn); err != nil && !errors.Is(err, template.ErrFilterExists) {
			return err
		}
	}
	return nil
}

// dateFR prints dates as DD/MM/YYYY and leaves unparsable input alone.
func dateFR(in any, _ any) (any, error) {
	raw := strings.TrimSpace(text(in))
	if t, ok := validation.ParseDate(raw); ok {
		return t.Format("02/01/2006"), nil
	}
	return raw, nil
}

// orBlank substitutes param, "-" by default, for empty values.
func orBlank(in any, param any) (any, error) {
	if s := strings.TrimSpace(text(in)); s != "" {
		return in, nil
	}
	if p := text(param); p != "" {
		return p, nil
	}
	return "-", nil
}

func text(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
