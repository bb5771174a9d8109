package communes

import (
	"context"
	"net/http"

	"github.com/goliatone/go-maryme/pkg/location"
)

// Source supplies the region tree. *location.Loader satisfies it.
type Source interface {
	Load(ctx context.Context) (*location.Tree, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (*location.Tree, error)

func (f SourceFunc) Load(ctx context.Context) (*location.Tree, error) { return f(ctx) }

type GuardFunc func(r *http.Request) error

type Options struct {
	RoutePath       string
	SearchParam     string
	RegionParam     string
	DepartmentParam string
	LimitParam      string
	DefaultLimit    int
	MaxLimit        int
	Guard           GuardFunc

	Source Source
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		RoutePath:       "/api/communes",
		SearchParam:     "q",
		RegionParam:     "region",
		DepartmentParam: "departement",
		LimitParam:      "limit",
		DefaultLimit:    50,
		MaxLimit:        200,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = 50
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = 200
	}
	if opts.RoutePath == "" {
		opts.RoutePath = "/api/communes"
	}
	if opts.SearchParam == "" {
		opts.SearchParam = "q"
	}
	if opts.RegionParam == "" {
		opts.RegionParam = "region"
	}
	if opts.DepartmentParam == "" {
		opts.DepartmentParam = "departement"
	}
	if opts.LimitParam == "" {
		opts.LimitParam = "limit"
	}
	return opts
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RoutePath = path
	}
}

func WithSearchParam(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.SearchParam = name
	}
}

func WithDefaultLimit(limit int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.DefaultLimit = limit
	}
}

func WithMaxLimit(limit int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxLimit = limit
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

// WithSource sets where the tree comes from.
func WithSource(src Source) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Source = src
	}
}

// WithTree serves a fixed tree.
func WithTree(tree *location.Tree) OptionFn {
	return WithSource(SourceFunc(func(context.Context) (*location.Tree, error) { return tree, nil }))
}

func clampLimit(limit int, opts Options) int {
	if limit < 0 {
		return 0
	}
	if limit == 0 {
		limit = opts.DefaultLimit
	}
	if opts.MaxLimit > 0 && limit > opts.MaxLimit {
		return opts.MaxLimit
	}
	return limit
}
