package declaration

import "strings"

// Person is the identity block shared by the officiant, the spouses and the
// witnesses.
type Person struct {
	Nom           string `json:"nom"`
	Prenom        string `json:"prenom,omitempty"`
	DateNaissance string `json:"date_naissance"`
	Telephone     string `json:"telephone"`
}

// Person field stems. Form field names append a role suffix, e.g.
// nomEpoux or telephoneTemoin2.
const (
	FieldNom           = "nom"
	FieldPrenom        = "prenom"
	FieldDateNaissance = "date_naissance"
	FieldTelephone     = "telephone"
)

var personStems = []string{FieldNom, FieldPrenom, FieldDateNaissance, FieldTelephone}

// FullName joins first and last name.
func (p Person) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(p.Prenom) + " " + strings.TrimSpace(p.Nom))
}

func (p Person) values(suffix string) map[string]string {
	return map[string]string{
		FieldNom + suffix:           p.Nom,
		FieldPrenom + suffix:        p.Prenom,
		FieldDateNaissance + suffix: p.DateNaissance,
		FieldTelephone + suffix:     p.Telephone,
	}
}

func (p *Person) set(suffix, field, value string) bool {
	stem, ok := strings.CutSuffix(field, suffix)
	if !ok {
		return false
	}
	switch stem {
	case FieldNom:
		p.Nom = value
	case FieldPrenom:
		p.Prenom = value
	case FieldDateNaissance:
		p.DateNaissance = value
	case FieldTelephone:
		p.Telephone = value
	default:
		return false
	}
	return true
}

func personFieldNames(suffix string) []string {
	out := make([]string, 0, len(personStems))
	for _, stem := range personStems {
		out = append(out, stem+suffix)
	}
	return out
}
