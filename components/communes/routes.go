package communes

import (
	"errors"
	"net/http"
	"strings"
)

var (
	// ErrNoMux is returned when routes are registered on a nil mux.
	ErrNoMux = errors.New("communes: missing mux")
	// ErrNoSource is returned when the region tree has no source. The
	// handler would only ever answer 500 without one.
	ErrNoSource = errors.New("communes: missing region source")
)

// Mux is the registration half of *http.ServeMux.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// MountPath reports where the commune lookup lands under basePath, e.g.
// "/v1/api/communes".
func MountPath(basePath string, fns ...OptionFn) string {
	return joinRoute(basePath, NewOptions(fns...).RoutePath)
}

// RegisterRoutes mounts the commune lookup under basePath.
func RegisterRoutes(mux Mux, basePath string, fns ...OptionFn) (string, error) {
	return RegisterRoutesWithOptions(mux, basePath, NewOptions(fns...))
}

// RegisterRoutesWithOptions mounts the commune lookup using opts as given.
// The returned pattern is what the form's commune select should fetch.
func RegisterRoutesWithOptions(mux Mux, basePath string, opts Options) (string, error) {
	switch {
	case mux == nil:
		return "", ErrNoMux
	case opts.Source == nil:
		return "", ErrNoSource
	}
	opts = NewOptions(func(o *Options) { *o = opts })
	route := joinRoute(basePath, opts.RoutePath)
	mux.Handle(route, HandlerWithOptions(opts))
	return route, nil
}

func joinRoute(basePath, routePath string) string {
	route := "/" + strings.Trim(strings.TrimSpace(routePath), "/")
	base := strings.Trim(strings.TrimSpace(basePath), "/")
	if base == "" {
		return route
	}
	if route == "/" {
		return "/" + base + "/"
	}
	return "/" + base + route
}
