package testsupport

import (
	"github.com/goliatone/go-maryme/pkg/declaration"
	"github.com/goliatone/go-maryme/pkg/location"
)

// Regions is a small tree with one empty region and one empty department,
// both dropped by pruning.
func Regions() []location.Region {
	return []location.Region{
		{
			ID:  1,
			Nom: "Dakar",
			Departements: []location.Department{
				{ID: 1, RegionID: 1, Nom: "Dakar", Communes: []location.Commune{{ID: 1, DepartmentID: 1, Nom: "Plateau"}}},
				{ID: 2, RegionID: 1, Nom: "Pikine", Communes: []location.Commune{
					{ID: 5, DepartmentID: 2, Nom: "Thiaroye"},
					{ID: 6, DepartmentID: 2, Nom: "Guinaw Rails"},
				}},
				{ID: 3, RegionID: 1, Nom: "Rufisque"},
			},
		},
		{ID: 2, Nom: "Kolda"},
	}
}

// Person returns a valid identity block.
func Person(nom string) declaration.Person {
	return declaration.Person{Nom: nom, Prenom: "Awa", DateNaissance: "1990-01-02", Telephone: "771234567"}
}

// StepValues lists field values that satisfy every data step, keyed by
// field name.
func StepValues() map[string]string {
	values := map[string]string{
		declaration.FieldDateMariage: "2026-12-12",
		declaration.FieldLieuMariage: "Mairie de Thiaroye",
	}
	people := map[string]string{
		declaration.SuffixOfficiant: "Ndiaye",
		declaration.SuffixHusband:   "Sarr",
		declaration.SuffixWife:      "Fall",
		declaration.SuffixWitness1:  "Ba",
		declaration.SuffixWitness2:  "Diop",
	}
	for suffix, nom := range people {
		p := Person(nom)
		values[declaration.FieldNom+suffix] = p.Nom
		values[declaration.FieldPrenom+suffix] = p.Prenom
		values[declaration.FieldDateNaissance+suffix] = p.DateNaissance
		values[declaration.FieldTelephone+suffix] = p.Telephone
	}
	return values
}
