package communes

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-maryme/pkg/location"
)

// Query narrows the options returned for one request. A non-empty Search
// ignores Region and Department.
type Query struct {
	Search     string
	Region     int
	Department int
	Limit      int
}

// List resolves q against tree. Region and department lists come from the
// selection chain, so unknown ids fail the same way a selector would.
func List(tree *location.Tree, q Query, opts Options) ([]location.Option, error) {
	limit := clampLimit(q.Limit, opts)
	if limit == 0 {
		return nil, nil
	}
	if strings.TrimSpace(q.Search) != "" {
		return SearchOptions(tree, q.Search, limit), nil
	}

	chain := location.NewChain(tree)
	var out []location.Option
	switch {
	case q.Region == 0:
		out = chain.RegionOptions()
	case q.Department == 0:
		if err := chain.SelectRegion(q.Region); err != nil {
			return nil, err
		}
		out = chain.DepartmentOptions()
	default:
		if err := chain.SelectRegion(q.Region); err != nil {
			return nil, err
		}
		if err := chain.SelectDepartment(q.Department); err != nil {
			return nil, err
		}
		out = chain.CommuneOptions()
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// SearchOptions matches commune names, prefix matches first. Labels carry
// the department and region so homonyms stay distinguishable.
func SearchOptions(tree *location.Tree, query string, limit int) []location.Option {
	paths := tree.Search(query, 0)
	if len(paths) == 0 {
		return nil
	}
	q := strings.ToLower(strings.TrimSpace(query))
	sort.SliceStable(paths, func(i, j int) bool {
		pi := strings.HasPrefix(strings.ToLower(paths[i].Commune.Nom), q)
		pj := strings.HasPrefix(strings.ToLower(paths[j].Commune.Nom), q)
		return pi && !pj
	})
	if limit > 0 && len(paths) > limit {
		paths = paths[:limit]
	}
	out := make([]location.Option, 0, len(paths))
	for _, p := range paths {
		out = append(out, location.Option{
			ID:    p.Commune.ID,
			Label: fmt.Sprintf("%s (%s, %s)", p.Commune.Nom, p.Department.Nom, p.Region.Nom),
		})
	}
	return out
}
