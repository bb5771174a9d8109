package declaration

import "strings"

// Draft composes every step slice of one declaration session. Slices start
// empty and are mutated in place through their Set methods.
type Draft struct {
	Account   Account
	Spouses   SpousePair
	Witnesses WitnessPair
	Officiant Officiant
	Venue     Venue
}

// NewDraft returns an empty draft.
func NewDraft() *Draft {
	return &Draft{}
}

// Payload is the aggregate sent to the creation endpoint. Values are carried
// exactly as entered.
type Payload struct {
	Email       string   `json:"email,omitempty"`
	Celebrant   Person   `json:"Celebrant"`
	Epoux       Person   `json:"Epoux"`
	Epouse      Person   `json:"Epouse"`
	Temoins     []Person `json:"Temoins"`
	DateMariage string   `json:"date_mariage"`
	LieuMariage string   `json:"lieu_mariage,omitempty"`
	IDCommune   int      `json:"id_commune"`
	NomCommune  string   `json:"nom_commune"`
}

// Payload merges the slices with the selected commune leaf.
func (d *Draft) Payload(communeID int, communeName string) (Payload, error) {
	if communeID <= 0 || strings.TrimSpace(communeName) == "" {
		return Payload{}, ErrCommuneRequired
	}
	return Payload{
		Email:       d.Account.Email,
		Celebrant:   d.Officiant.Person,
		Epoux:       d.Spouses.Epoux,
		Epouse:      d.Spouses.Epouse,
		Temoins:     []Person{d.Witnesses[0], d.Witnesses[1]},
		DateMariage: d.Venue.DateMariage,
		LieuMariage: d.Venue.LieuMariage,
		IDCommune:   communeID,
		NomCommune:  communeName,
	}, nil
}
