package communes

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/goliatone/go-maryme/pkg/gateway"
	"github.com/goliatone/go-maryme/pkg/location"
)

// Messages written in failure envelopes.
const (
	MessageUnavailable = "Liste des communes indisponible"
	MessageNotFound    = "Region ou departement inconnu"
	MessageBadRequest  = "Parametre invalide"
)

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// Handler builds a net/http handler with default options plus any overrides.
func Handler(fns ...OptionFn) http.Handler {
	return HandlerWithOptions(NewOptions(fns...))
}

// HandlerWithOptions builds a handler from a pre-constructed Options value.
func HandlerWithOptions(opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", http.MethodGet+", "+http.MethodHead)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		if opts.Guard != nil {
			if err := opts.Guard(r); err != nil {
				writeGuardError(w, err)
				return
			}
		}
		if opts.Source == nil {
			writeFailure(w, r, http.StatusInternalServerError, gateway.Envelope[[]location.Option]{Message: MessageUnavailable})
			return
		}

		params := r.URL.Query()
		q := Query{Search: params.Get(opts.SearchParam), Limit: parseInt(params.Get(opts.LimitParam))}
		var err error
		if q.Region, err = parseID(params.Get(opts.RegionParam)); err == nil {
			q.Department, err = parseID(params.Get(opts.DepartmentParam))
		}
		if err != nil {
			writeFailure(w, r, http.StatusBadRequest, gateway.Envelope[[]location.Option]{Message: MessageBadRequest})
			return
		}

		tree, err := opts.Source.Load(r.Context())
		if err != nil {
			writeFailure(w, r, http.StatusBadGateway, gateway.Envelope[[]location.Option]{
				Error:   gateway.CodeError(gateway.Code(err)),
				Message: MessageUnavailable,
			})
			return
		}

		results, err := List(tree, q, opts)
		if err != nil {
			writeFailure(w, r, http.StatusNotFound, gateway.Envelope[[]location.Option]{Message: MessageNotFound})
			return
		}
		if results == nil {
			results = []location.Option{}
		}
		writeJSON(w, r, http.StatusOK, gateway.Envelope[[]location.Option]{Data: results})
	})
}

func writeFailure(w http.ResponseWriter, r *http.Request, status int, env gateway.Envelope[[]location.Option]) {
	if !env.Error.IsError() {
		env.Error = gateway.FlagError(true)
	}
	writeJSON(w, r, status, env)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(v)
}

func writeGuardError(w http.ResponseWriter, err error) {
	code := http.StatusForbidden
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
		if code <= 0 {
			code = http.StatusForbidden
		}
	}
	http.Error(w, http.StatusText(code), code)
}

func parseID(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, StatusError{Code: http.StatusBadRequest, Err: err}
	}
	return value, nil
}

func parseInt(raw string) int {
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}
