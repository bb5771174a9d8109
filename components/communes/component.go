package communes

import (
	"context"
	"net/http"

	"github.com/goliatone/go-maryme/pkg/location"
)

// Component bundles the commune lookup with the options it was built from,
// so the same configuration drives both the route and in-process lookups.
type Component struct {
	opts Options
}

func New(fns ...OptionFn) *Component {
	return &Component{opts: NewOptions(fns...)}
}

func (c *Component) Options() Options {
	if c == nil {
		return DefaultOptions()
	}
	return NewOptions(func(o *Options) { *o = c.opts })
}

// Handler serves region, department and commune options as JSON.
func (c *Component) Handler() http.Handler {
	return HandlerWithOptions(c.Options())
}

// Lookup answers q against the current region tree without going through
// HTTP. Limits are clamped the same way the handler clamps them.
func (c *Component) Lookup(ctx context.Context, q Query) ([]location.Option, error) {
	opts := c.Options()
	if opts.Source == nil {
		return nil, ErrNoSource
	}
	tree, err := opts.Source.Load(ctx)
	if err != nil {
		return nil, err
	}
	return List(tree, q, opts)
}

// RegisterRoutes mounts the lookup under basePath, e.g. "/v1" gives
// "/v1/api/communes" with default options.
func (c *Component) RegisterRoutes(mux Mux, basePath string) (string, error) {
	return RegisterRoutesWithOptions(mux, basePath, c.Options())
}
