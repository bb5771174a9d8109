// Package testsupport holds helpers shared by package tests: a scripted
// envelope backend served over httptest and small fixture builders.
package testsupport

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/goliatone/go-maryme/pkg/gateway"
)

// Request is a recorded call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// Decode unmarshals the recorded body into v.
func (r Request) Decode(t *testing.T, v any) {
	t.Helper()
	if err := json.Unmarshal(r.Body, v); err != nil {
		t.Fatalf("decode %s %s body: %v", r.Method, r.Path, err)
	}
}

// Responder answers one route. The returned value is encoded as JSON unless
// it is a string, which is written verbatim.
type Responder func(req Request) (status int, body any)

// Backend is a scripted REST backend speaking the {data, error, message}
// envelope.
type Backend struct {
	t      *testing.T
	server *httptest.Server

	mu       sync.Mutex
	routes   map[string]Responder
	requests []Request
}

// NewBackend starts a backend closed at test cleanup.
func NewBackend(t *testing.T) *Backend {
	t.Helper()
	b := &Backend{t: t, routes: make(map[string]Responder)}
	b.server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.server.Close)
	return b
}

// URL is the backend base URL.
func (b *Backend) URL() string { return b.server.URL }

// Gateway returns a client for the backend with retries disabled.
func (b *Backend) Gateway(fns ...gateway.OptionFn) *gateway.Client {
	b.t.Helper()
	opts := append([]gateway.OptionFn{gateway.WithHTTPClient(b.server.Client()), gateway.WithRetry(0, 0, 0)}, fns...)
	client, err := gateway.New(b.server.URL, opts...)
	if err != nil {
		b.t.Fatalf("gateway: %v", err)
	}
	return client
}

// Handle registers a responder for method and path (without leading slash).
func (b *Backend) Handle(method, path string, fn Responder) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[routeKey(method, path)] = fn
}

// Reply registers a fixed response.
func (b *Backend) Reply(method, path string, status int, body any) {
	b.Handle(method, path, func(Request) (int, any) { return status, body })
}

// Requests returns recorded calls in arrival order.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

// Hits counts calls to method and path.
func (b *Backend) Hits(method, path string) int {
	n := 0
	for _, r := range b.Requests() {
		if r.Method == method && r.Path == strings.TrimPrefix(path, "/") {
			n++
		}
	}
	return n
}

// Last returns the most recent call to method and path.
func (b *Backend) Last(method, path string) (Request, bool) {
	reqs := b.Requests()
	for i := len(reqs) - 1; i >= 0; i-- {
		if reqs[i].Method == method && reqs[i].Path == strings.TrimPrefix(path, "/") {
			return reqs[i], true
		}
	}
	return Request{}, false
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	req := Request{
		Method: r.Method,
		Path:   strings.TrimPrefix(r.URL.Path, "/"),
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
		Body:   body,
	}

	b.mu.Lock()
	b.requests = append(b.requests, req)
	fn, ok := b.routes[routeKey(req.Method, req.Path)]
	b.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, Failure("NOT FOUND", "route not scripted"))
		return
	}
	status, payload := fn(req)
	if raw, isString := payload.(string); isString {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, raw)
		return
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func routeKey(method, path string) string {
	return strings.ToUpper(method) + " " + strings.TrimPrefix(path, "/")
}

// Data wraps v in a success envelope.
func Data(v any) map[string]any {
	return map[string]any{"data": v}
}

// Failure builds an error envelope with a string code. An empty code sends
// the boolean flag instead.
func Failure(code, message string) map[string]any {
	out := map[string]any{"error": true}
	if code != "" {
		out["error"] = code
	}
	if message != "" {
		out["message"] = message
	}
	return out
}
