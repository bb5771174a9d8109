package location

import "sort"

// Commune is a leaf of the administrative hierarchy.
type Commune struct {
	ID           int    `json:"id_commune"`
	DepartmentID int    `json:"id_departement"`
	Nom          string `json:"nom"`
}

// Department groups communes.
type Department struct {
	ID       int       `json:"id_departement"`
	RegionID int       `json:"id_region"`
	Nom      string    `json:"nom"`
	Communes []Commune `json:"Communes"`
}

// Region groups departments.
type Region struct {
	ID           int          `json:"id_region"`
	Nom          string       `json:"nom"`
	Departements []Department `json:"Departements"`
}

// Path is a fully resolved region, department and commune.
type Path struct {
	Region     Region
	Department Department
	Commune    Commune
}

// Tree is an immutable, pruned region tree with id lookups.
type Tree struct {
	regions  []Region
	byRegion map[int]int
	communes map[int]Path
}

// NewTree prunes regions and indexes every level.
func NewTree(regions []Region) *Tree {
	pruned := Prune(regions)
	t := &Tree{
		regions:  pruned,
		byRegion: make(map[int]int, len(pruned)),
		communes: make(map[int]Path),
	}
	for i, region := range pruned {
		t.byRegion[region.ID] = i
		for _, dept := range region.Departements {
			for _, commune := range dept.Communes {
				t.communes[commune.ID] = Path{Region: region, Department: dept, Commune: commune}
			}
		}
	}
	return t
}

// Prune drops departments without communes and regions left without
// departments. Input order is preserved.
func Prune(regions []Region) []Region {
	out := make([]Region, 0, len(regions))
	for _, region := range regions {
		depts := make([]Department, 0, len(region.Departements))
		for _, dept := range region.Departements {
			if len(dept.Communes) == 0 {
				continue
			}
			dept.Communes = append([]Commune(nil), dept.Communes...)
			depts = append(depts, dept)
		}
		if len(depts) == 0 {
			continue
		}
		region.Departements = depts
		out = append(out, region)
	}
	return out
}

// Regions returns the pruned regions.
func (t *Tree) Regions() []Region {
	if t == nil {
		return nil
	}
	return t.regions
}

// Region looks up a region by id.
func (t *Tree) Region(id int) (Region, bool) {
	if t == nil {
		return Region{}, false
	}
	idx, ok := t.byRegion[id]
	if !ok {
		return Region{}, false
	}
	return t.regions[idx], true
}

// Department looks up a department under regionID.
func (t *Tree) Department(regionID, id int) (Department, bool) {
	region, ok := t.Region(regionID)
	if !ok {
		return Department{}, false
	}
	for _, dept := range region.Departements {
		if dept.ID == id {
			return dept, true
		}
	}
	return Department{}, false
}

// Commune resolves a commune id into its full path.
func (t *Tree) Commune(id int) (Path, bool) {
	if t == nil {
		return Path{}, false
	}
	path, ok := t.communes[id]
	return path, ok
}

// CommuneCount reports the number of indexed communes.
func (t *Tree) CommuneCount() int {
	if t == nil {
		return 0
	}
	return len(t.communes)
}

// Search returns communes whose name contains query, case-insensitively,
// sorted by name.
func (t *Tree) Search(query string, limit int) []Path {
	if t == nil {
		return nil
	}
	var out []Path
	for _, path := range t.communes {
		if matches(path.Commune.Nom, query) {
			out = append(out, path)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Commune.Nom == out[j].Commune.Nom {
			return out[i].Commune.ID < out[j].Commune.ID
		}
		return out[i].Commune.Nom < out[j].Commune.Nom
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
