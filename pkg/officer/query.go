package officer

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-maryme/pkg/declaration"
)

// Sortable record fields.
const (
	SortDeclaration = "date_declaration"
	SortCelebration = "date_celebration"
	SortPublication = "date_publication"
)

// Sort orders.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Query filters the declaration list. Zero values use the dashboard
// defaults: pending records, newest declaration first.
type Query struct {
	Status    declaration.Status
	SortBy    string
	SortOrder string
}

// Normalize fills defaults and checks every field.
func (q Query) Normalize() (Query, error) {
	if q.Status == "" {
		q.Status = declaration.StatusPending
	}
	if !q.Status.Valid() {
		return q, fmt.Errorf("%w: %q", ErrInvalidStatus, q.Status)
	}
	sort, err := normalizeSort(q.SortBy, q.SortOrder)
	if err != nil {
		return q, err
	}
	q.SortBy, q.SortOrder = sort.by, sort.order
	return q, nil
}

// Values encodes the query string.
func (q Query) Values() url.Values {
	v := url.Values{}
	v.Set("status", string(q.Status))
	v.Set("sortBy", q.SortBy)
	v.Set("sortOrder", q.SortOrder)
	return v
}

type sortSpec struct {
	by, order string
}

func normalizeSort(by, order string) (sortSpec, error) {
	s := sortSpec{by: strings.TrimSpace(by), order: strings.ToLower(strings.TrimSpace(order))}
	if s.by == "" {
		s.by = SortDeclaration
	}
	if s.order == "" {
		s.order = OrderDesc
	}
	switch s.by {
	case SortDeclaration, SortCelebration, SortPublication:
	default:
		return s, fmt.Errorf("%w: field %q", ErrInvalidSort, s.by)
	}
	if s.order != OrderAsc && s.order != OrderDesc {
		return s, fmt.Errorf("%w: order %q", ErrInvalidSort, s.order)
	}
	return s, nil
}
