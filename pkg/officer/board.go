package officer

import (
	"context"
	"net/url"

	"github.com/goliatone/go-maryme/pkg/declaration"
	"github.com/goliatone/go-maryme/pkg/gateway"
)

// CommuneGroup is one section of the publication board.
type CommuneGroup struct {
	CommuneID int
	Nom       string
	Records   []declaration.Record
}

// Board returns published declarations grouped by commune. The board is
// public and needs no token.
func (c *Client) Board(ctx context.Context, sortBy, sortOrder string) ([]CommuneGroup, error) {
	sort, err := normalizeSort(sortBy, sortOrder)
	if err != nil {
		return nil, err
	}
	query := url.Values{"sortBy": []string{sort.by}, "sortOrder": []string{sort.order}}
	env, err := gateway.Get[[]declaration.Record](ctx, c.gw, PathBoard, query)
	if err != nil {
		return nil, failure("board", err)
	}
	return GroupByCommune(env.Data), nil
}

// GroupByCommune groups records by commune id. Groups appear in the order
// their first record appears, records keep their relative order.
func GroupByCommune(records []declaration.Record) []CommuneGroup {
	var groups []CommuneGroup
	index := make(map[int]int)
	for _, rec := range records {
		id := rec.CommuneID
		if id == 0 {
			id = rec.Commune.ID
		}
		i, ok := index[id]
		if !ok {
			i = len(groups)
			index[id] = i
			groups = append(groups, CommuneGroup{CommuneID: id, Nom: rec.Commune.Nom})
		}
		groups[i].Records = append(groups[i].Records, rec)
	}
	return groups
}
