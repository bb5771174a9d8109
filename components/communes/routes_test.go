package communes

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goliatone/go-maryme/pkg/location"
	"github.com/goliatone/go-maryme/pkg/testsupport"
)

func TestMountPath_JoinsBasePath(t *testing.T) {
	if got := MountPath("/admin"); got != "/admin/api/communes" {
		t.Fatalf("unexpected mount path: %q", got)
	}
	if got := MountPath("admin"); got != "/admin/api/communes" {
		t.Fatalf("unexpected mount path: %q", got)
	}
	if got := MountPath("/admin/", WithRoutePath("api/lieux")); got != "/admin/api/lieux" {
		t.Fatalf("unexpected mount path: %q", got)
	}
}

func TestComponent_RegisterRoutes(t *testing.T) {
	mux := http.NewServeMux()
	c := New(WithTree(location.NewTree(testsupport.Regions())))
	pattern, err := c.RegisterRoutes(mux, "/v1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if pattern != "/v1/api/communes" {
		t.Fatalf("unexpected registered pattern: %q", pattern)
	}

	req := httptest.NewRequest(http.MethodGet, pattern+"?q=thia", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	if _, err := RegisterRoutes(nil, "/"); !errors.Is(err, ErrNoMux) {
		t.Fatalf("expected missing mux error, got %v", err)
	}
	if _, err := RegisterRoutes(mux, "/v2"); !errors.Is(err, ErrNoSource) {
		t.Fatalf("expected missing source error, got %v", err)
	}
}

func TestComponent_LookupMatchesRoute(t *testing.T) {
	c := New(WithTree(location.NewTree(testsupport.Regions())))
	got, err := c.Lookup(context.Background(), Query{Search: "thia"})
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if len(got) == 0 {
		t.Fatalf("expected a commune for %q", "thia")
	}

	if _, err := New().Lookup(context.Background(), Query{}); !errors.Is(err, ErrNoSource) {
		t.Fatalf("expected missing source error, got %v", err)
	}
}
