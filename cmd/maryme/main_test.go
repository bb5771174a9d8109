package main

import (
	"bytes"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/goliatone/go-maryme/pkg/declaration"
	"github.com/goliatone/go-maryme/pkg/location"
	"github.com/goliatone/go-maryme/pkg/officer"
	"github.com/goliatone/go-maryme/pkg/testsupport"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("MARYME_TOKEN", "")
	t.Setenv("MARYME_BACKEND_URL", "")
	t.Setenv("MARYME_LOG_LEVEL", "")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", ""}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRegionsCommand(t *testing.T) {
	b := testsupport.NewBackend(t)
	b.Reply(http.MethodGet, location.RegionsPath, http.StatusOK, testsupport.Data(testsupport.Regions()))

	out, err := execute(t, "--backend", b.URL(), "regions")
	if err != nil {
		t.Fatalf("regions: %v", err)
	}
	for _, want := range []string{"Dakar (1)", "  Pikine (2)", "    Thiaroye (5)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Rufisque") || strings.Contains(out, "Kolda") {
		t.Fatalf("empty branches should be pruned:\n%s", out)
	}
}

func TestRegionsCommand_Search(t *testing.T) {
	b := testsupport.NewBackend(t)
	b.Reply(http.MethodGet, location.RegionsPath, http.StatusOK, testsupport.Data(testsupport.Regions()))
	t.Cleanup(func() { regionsSearch = "" })

	out, err := execute(t, "--backend", b.URL(), "regions", "--search", "thia")
	if err != nil {
		t.Fatalf("regions search: %v", err)
	}
	if !strings.Contains(out, "   5  Thiaroye (Pikine, Dakar)") {
		t.Fatalf("missing commune in:\n%s", out)
	}
}

func TestBoardCommand(t *testing.T) {
	b := testsupport.NewBackend(t)
	records := []declaration.Record{
		{ID: 7, Status: declaration.StatusAccepted, Commune: declaration.CommuneRef{ID: 5, Nom: "Thiaroye"}, Epoux: testsupport.Person("Sarr"), Epouse: testsupport.Person("Fall")},
	}
	b.Reply(http.MethodGet, officer.PathBoard, http.StatusOK, testsupport.Data(records))

	out, err := execute(t, "--backend", b.URL(), "board", "--sort", officer.SortPublication)
	if err != nil {
		t.Fatalf("board: %v", err)
	}
	if !strings.Contains(out, "Thiaroye") || !strings.Contains(out, "Sarr") {
		t.Fatalf("unexpected board output:\n%s", out)
	}
}

func TestParseRecordID(t *testing.T) {
	if id, err := parseRecordID(" 12 "); err != nil || id != 12 {
		t.Fatalf("got %d %v", id, err)
	}
	for _, raw := range []string{"", "abc", "0", "-3"} {
		if _, err := parseRecordID(raw); !errors.Is(err, officer.ErrInvalidID) {
			t.Fatalf("%q: expected ErrInvalidID, got %v", raw, err)
		}
	}
}
