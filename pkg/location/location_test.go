package location

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/goliatone/go-maryme/pkg/gateway"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

func fixtureRegions() []Region {
	return []Region{
		{
			ID:  1,
			Nom: "Dakar",
			Departements: []Department{
				{ID: 1, RegionID: 1, Nom: "Dakar", Communes: []Commune{{ID: 1, DepartmentID: 1, Nom: "Plateau"}}},
				{ID: 2, RegionID: 1, Nom: "Pikine", Communes: []Commune{
					{ID: 5, DepartmentID: 2, Nom: "Thiaroye"},
					{ID: 6, DepartmentID: 2, Nom: "Guinaw Rails"},
				}},
			},
		},
		{ID: 2, Nom: "Thies", Departements: []Department{{ID: 3, RegionID: 2, Nom: "Mbour"}}},
		{ID: 3, Nom: "Kolda"},
		{
			ID:  4,
			Nom: "Saint-Louis",
			Departements: []Department{
				{ID: 4, RegionID: 4, Nom: "Podor"},
				{ID: 5, RegionID: 4, Nom: "Dagana", Communes: []Commune{{ID: 9, DepartmentID: 5, Nom: "Richard-Toll"}}},
			},
		},
	}
}

func TestPrune_DropsEmptyBranches(t *testing.T) {
	tree := NewTree(fixtureRegions())

	var got []string
	for _, r := range tree.Regions() {
		got = append(got, r.Nom)
		for _, d := range r.Departements {
			got = append(got, "  "+d.Nom)
		}
	}
	want := []string{"Dakar", "  Dakar", "  Pikine", "Saint-Louis", "  Dagana"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("pruned tree mismatch (-want +got):\n%s", diff)
	}
	if tree.CommuneCount() != 4 {
		t.Fatalf("commune count = %d", tree.CommuneCount())
	}
}

func TestChain_SelectingParentResetsChildren(t *testing.T) {
	c := NewChain(NewTree(fixtureRegions()))

	if err := c.SelectRegion(1); err != nil {
		t.Fatalf("select region: %v", err)
	}
	if err := c.SelectDepartment(2); err != nil {
		t.Fatalf("select department: %v", err)
	}
	if err := c.SelectCommune(5); err != nil {
		t.Fatalf("select commune: %v", err)
	}

	if err := c.SelectDepartment(1); err != nil {
		t.Fatalf("reselect department: %v", err)
	}
	if _, _, commune := c.Selected(); commune != 0 {
		t.Fatalf("department change must clear commune, got %d", commune)
	}

	_ = c.SelectCommune(1)
	if err := c.SelectRegion(1); err != nil {
		t.Fatalf("reselect region: %v", err)
	}
	if _, dept, commune := c.Selected(); dept != 0 || commune != 0 {
		t.Fatalf("region change must clear children, got dept=%d commune=%d", dept, commune)
	}
	if c.CommuneOptions() != nil {
		t.Fatalf("commune selector should be disabled")
	}
}

func TestChain_LeafScenario(t *testing.T) {
	c := NewChain(NewTree(fixtureRegions()))
	_ = c.SelectRegion(1)

	wantDepts := []Option{{ID: 1, Label: "Dakar"}, {ID: 2, Label: "Pikine"}}
	if diff := cmp.Diff(wantDepts, c.DepartmentOptions()); diff != "" {
		t.Fatalf("department options mismatch (-want +got):\n%s", diff)
	}
	_ = c.SelectDepartment(2)
	_ = c.SelectCommune(5)

	leaf, err := c.Leaf()
	if err != nil {
		t.Fatalf("leaf: %v", err)
	}
	if leaf.Commune.ID != 5 || leaf.Commune.Nom != "Thiaroye" || leaf.Region.ID != 1 {
		t.Fatalf("unexpected leaf %+v", leaf)
	}
}

func TestChain_RejectsOutOfChainSelections(t *testing.T) {
	c := NewChain(NewTree(fixtureRegions()))

	if err := c.SelectDepartment(2); !errors.Is(err, ErrSelectorDisabled) {
		t.Fatalf("expected ErrSelectorDisabled, got %v", err)
	}
	if err := c.SelectRegion(2); !errors.Is(err, ErrUnknownRegion) {
		t.Fatalf("pruned region should be unknown, got %v", err)
	}
	_ = c.SelectRegion(1)
	if err := c.SelectDepartment(5); !errors.Is(err, ErrUnknownDepartment) {
		t.Fatalf("expected ErrUnknownDepartment, got %v", err)
	}
	_ = c.SelectDepartment(1)
	if err := c.SelectCommune(9); !errors.Is(err, ErrUnknownCommune) {
		t.Fatalf("expected ErrUnknownCommune, got %v", err)
	}
	if _, err := c.Leaf(); !errors.Is(err, ErrIncomplete) {
		t.Fatalf("expected ErrIncomplete, got %v", err)
	}
}

func TestChain_FormValues(t *testing.T) {
	c := NewChain(NewTree(fixtureRegions()))
	for _, kv := range [][2]string{{FieldRegion, "4"}, {FieldDepartment, "5"}, {FieldCommune, "9"}} {
		if err := c.Set(kv[0], kv[1]); err != nil {
			t.Fatalf("set %s: %v", kv[0], err)
		}
	}
	want := map[string]string{FieldRegion: "4", FieldDepartment: "5", FieldCommune: "9"}
	if diff := cmp.Diff(want, c.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}

	if err := c.Set(FieldRegion, ""); err != nil {
		t.Fatalf("clear region: %v", err)
	}
	want = map[string]string{FieldRegion: "", FieldDepartment: "", FieldCommune: ""}
	if diff := cmp.Diff(want, c.Values()); diff != "" {
		t.Fatalf("cleared values mismatch (-want +got):\n%s", diff)
	}
	if err := c.Set(FieldCommune, "abc"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestTree_Search(t *testing.T) {
	tree := NewTree(fixtureRegions())
	got := tree.Search("A", 2)
	var names []string
	for _, p := range got {
		names = append(names, p.Commune.Nom)
	}
	if diff := cmp.Diff([]string{"Guinaw Rails", "Plateau"}, names); diff != "" {
		t.Fatalf("search mismatch (-want +got):\n%s", diff)
	}
}

func TestLoader_CollapsesConcurrentLoads(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"data": fixtureRegions()})
	}))
	defer srv.Close()

	client, err := gateway.New(srv.URL, gateway.WithHTTPClient(srv.Client()), gateway.WithRetry(0, 0, 0))
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	loader := NewLoader(client, zap.NewNop())

	var wg sync.WaitGroup
	trees := make([]*Tree, 4)
	for i := range trees {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tree, err := loader.Load(context.Background())
			if err != nil {
				t.Errorf("load: %v", err)
				return
			}
			trees[i] = tree
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if hits.Load() != 1 {
		t.Fatalf("expected one backend hit, got %d", hits.Load())
	}
	for _, tree := range trees {
		if tree == nil || tree.CommuneCount() != 4 {
			t.Fatalf("unexpected tree %+v", tree)
		}
	}

	if _, err := loader.Load(context.Background()); err != nil || hits.Load() != 1 {
		t.Fatalf("cached load should not hit backend: err=%v hits=%d", err, hits.Load())
	}
}
