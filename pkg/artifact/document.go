package artifact

import (
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-maryme/pkg/declaration"
)

// Party is one person printed on the document.
type Party struct {
	Role          string `json:"role"`
	Nom           string `json:"nom"`
	Prenom        string `json:"prenom"`
	FullName      string `json:"full_name"`
	DateNaissance string `json:"date_naissance"`
	Telephone     string `json:"telephone"`
}

// Document is the printable view of a created declaration.
type Document struct {
	ID          int     `json:"id"`
	Header      string  `json:"header"`
	Commune     string  `json:"commune"`
	CommuneID   int     `json:"commune_id"`
	DateMariage string  `json:"date_mariage"`
	LieuMariage string  `json:"lieu_mariage"`
	Email       string  `json:"email"`
	Officiant   Party   `json:"officiant"`
	Epoux       Party   `json:"epoux"`
	Epouse      Party   `json:"epouse"`
	Temoins     []Party `json:"temoins"`
}

// Header returns the document title line for id.
func Header(id int) string {
	return fmt.Sprintf("Declaration No: %d", id)
}

// FileName returns the download name for the document in format.
func FileName(id int, format Format) string {
	return fmt.Sprintf("declaration-%d.%s", id, format.Extension())
}

// NewDocument builds the document for a created declaration. Text values are
// stripped of markup so every output format can print them verbatim.
func NewDocument(receipt declaration.Receipt, payload declaration.Payload) (Document, error) {
	if receipt.ID <= 0 {
		return Document{}, ErrMissingID
	}
	doc := Document{
		ID:          receipt.ID,
		Header:      Header(receipt.ID),
		Commune:     clean(payload.NomCommune),
		CommuneID:   payload.IDCommune,
		DateMariage: clean(payload.DateMariage),
		LieuMariage: clean(payload.LieuMariage),
		Email:       clean(payload.Email),
		Officiant:   party("Officier celebrant", payload.Celebrant),
		Epoux:       party("Epoux", payload.Epoux),
		Epouse:      party("Epouse", payload.Epouse),
	}
	for i, t := range payload.Temoins {
		doc.Temoins = append(doc.Temoins, party(fmt.Sprintf("Temoin %d", i+1), t))
	}
	return doc, nil
}

// FileName returns the download name of the document.
func (d Document) FileName(format Format) string {
	return FileName(d.ID, format)
}

// Parties lists every person in print order.
func (d Document) Parties() []Party {
	out := []Party{d.Officiant, d.Epoux, d.Epouse}
	return append(out, d.Temoins...)
}

func party(role string, p declaration.Person) Party {
	out := Party{
		Role:          role,
		Nom:           clean(p.Nom),
		Prenom:        clean(p.Prenom),
		DateNaissance: clean(p.DateNaissance),
		Telephone:     clean(p.Telephone),
	}
	out.FullName = strings.TrimSpace(out.Prenom + " " + out.Nom)
	return out
}

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

func clean(raw string) string {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	// The policy escapes entities; the document keeps plain text and leaves
	// escaping to each output format.
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(strings.TrimSpace(raw))))
}
