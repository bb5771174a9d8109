package location

import (
	"fmt"
	"strconv"
	"strings"
)

// Field names the chain answers to when driven as a form slice.
const (
	FieldRegion     = "id_region"
	FieldDepartment = "id_departement"
	FieldCommune    = "id_commune"
)

// Option is one entry of a cascading selector.
type Option struct {
	ID    int    `json:"value"`
	Label string `json:"label"`
}

// Chain holds the region, department and commune selections. Option lists
// are always derived from the parent selection; a zero id means unselected.
type Chain struct {
	tree       *Tree
	region     int
	department int
	commune    int
}

// NewChain starts an empty selection over tree.
func NewChain(tree *Tree) *Chain {
	return &Chain{tree: tree}
}

// Tree returns the tree the chain selects from.
func (c *Chain) Tree() *Tree { return c.tree }

// SetTree swaps the tree and clears every selection.
func (c *Chain) SetTree(tree *Tree) {
	c.tree = tree
	c.Reset()
}

// Reset clears every selection.
func (c *Chain) Reset() {
	c.region, c.department, c.commune = 0, 0, 0
}

// SelectRegion records the region and always clears the department and
// commune.
func (c *Chain) SelectRegion(id int) error {
	if _, ok := c.tree.Region(id); !ok {
		return fmt.Errorf("%w: %d", ErrUnknownRegion, id)
	}
	c.region = id
	c.department = 0
	c.commune = 0
	return nil
}

// SelectDepartment records a child of the selected region and always clears
// the commune.
func (c *Chain) SelectDepartment(id int) error {
	if c.region == 0 {
		return fmt.Errorf("%w: region", ErrSelectorDisabled)
	}
	if _, ok := c.tree.Department(c.region, id); !ok {
		return fmt.Errorf("%w: %d", ErrUnknownDepartment, id)
	}
	c.department = id
	c.commune = 0
	return nil
}

// SelectCommune records the leaf, which must belong to the selected
// department.
func (c *Chain) SelectCommune(id int) error {
	if c.department == 0 {
		return fmt.Errorf("%w: department", ErrSelectorDisabled)
	}
	path, ok := c.tree.Commune(id)
	if !ok || path.Department.ID != c.department || path.Region.ID != c.region {
		return fmt.Errorf("%w: %d", ErrUnknownCommune, id)
	}
	c.commune = id
	return nil
}

// RegionOptions lists every region.
func (c *Chain) RegionOptions() []Option {
	regions := c.tree.Regions()
	out := make([]Option, 0, len(regions))
	for _, r := range regions {
		out = append(out, Option{ID: r.ID, Label: r.Nom})
	}
	return out
}

// DepartmentOptions lists the selected region's departments, nil while the
// selector is disabled.
func (c *Chain) DepartmentOptions() []Option {
	region, ok := c.tree.Region(c.region)
	if !ok {
		return nil
	}
	out := make([]Option, 0, len(region.Departements))
	for _, d := range region.Departements {
		out = append(out, Option{ID: d.ID, Label: d.Nom})
	}
	return out
}

// CommuneOptions lists the selected department's communes, nil while the
// selector is disabled.
func (c *Chain) CommuneOptions() []Option {
	dept, ok := c.tree.Department(c.region, c.department)
	if !ok {
		return nil
	}
	out := make([]Option, 0, len(dept.Communes))
	for _, cm := range dept.Communes {
		out = append(out, Option{ID: cm.ID, Label: cm.Nom})
	}
	return out
}

// Selected returns the raw selection ids.
func (c *Chain) Selected() (region, department, commune int) {
	return c.region, c.department, c.commune
}

// Leaf resolves the selected commune.
func (c *Chain) Leaf() (Path, error) {
	if c.commune == 0 {
		return Path{}, ErrIncomplete
	}
	path, ok := c.tree.Commune(c.commune)
	if !ok {
		return Path{}, fmt.Errorf("%w: %d", ErrUnknownCommune, c.commune)
	}
	return path, nil
}

// Values exposes the selection as form values.
func (c *Chain) Values() map[string]string {
	return map[string]string{
		FieldRegion:     idString(c.region),
		FieldDepartment: idString(c.department),
		FieldCommune:    idString(c.commune),
	}
}

// Set routes a form value to the matching selector. An empty value clears
// that selector and its dependents.
func (c *Chain) Set(field, value string) error {
	value = strings.TrimSpace(value)
	var id int
	if value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("location: %s: invalid id %q", field, value)
		}
		id = parsed
	}
	switch field {
	case FieldRegion:
		if id == 0 {
			c.Reset()
			return nil
		}
		return c.SelectRegion(id)
	case FieldDepartment:
		if id == 0 {
			c.department, c.commune = 0, 0
			return nil
		}
		return c.SelectDepartment(id)
	case FieldCommune:
		if id == 0 {
			c.commune = 0
			return nil
		}
		return c.SelectCommune(id)
	}
	return fmt.Errorf("location: unknown field %q", field)
}

func idString(id int) string {
	if id == 0 {
		return ""
	}
	return strconv.Itoa(id)
}

func matches(name, query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), query)
}
