package declaration

import "fmt"

// Role suffixes appended to person field stems.
const (
	SuffixOfficiant = "Celebrant"
	SuffixHusband   = "Epoux"
	SuffixWife      = "Epouse"
	SuffixWitness1  = "Temoin1"
	SuffixWitness2  = "Temoin2"
)

// Venue and account field names.
const (
	FieldDateMariage = "date_mariage"
	FieldLieuMariage = "lieu_mariage"
	FieldEmail       = "email"
	FieldCode        = "otp"
)

// Officiant holds the celebrant identity.
type Officiant struct {
	Person
}

func (o *Officiant) Values() map[string]string { return o.Person.values(SuffixOfficiant) }

func (o *Officiant) Set(field, value string) error {
	if o.Person.set(SuffixOfficiant, field, value) {
		return nil
	}
	return unknownField(field)
}

// SpousePair holds both spouses.
type SpousePair struct {
	Epoux  Person
	Epouse Person
}

func (s *SpousePair) Values() map[string]string {
	out := s.Epoux.values(SuffixHusband)
	for k, v := range s.Epouse.values(SuffixWife) {
		out[k] = v
	}
	return out
}

func (s *SpousePair) Set(field, value string) error {
	if s.Epoux.set(SuffixHusband, field, value) || s.Epouse.set(SuffixWife, field, value) {
		return nil
	}
	return unknownField(field)
}

// WitnessPair holds the two mandatory witnesses.
type WitnessPair [2]Person

func (w *WitnessPair) Values() map[string]string {
	out := w[0].values(SuffixWitness1)
	for k, v := range w[1].values(SuffixWitness2) {
		out[k] = v
	}
	return out
}

func (w *WitnessPair) Set(field, value string) error {
	if w[0].set(SuffixWitness1, field, value) || w[1].set(SuffixWitness2, field, value) {
		return nil
	}
	return unknownField(field)
}

// Venue holds the ceremony date and place. The commune itself comes from the
// location chain.
type Venue struct {
	DateMariage string `json:"date_mariage"`
	LieuMariage string `json:"lieu_mariage,omitempty"`
}

func (v *Venue) Values() map[string]string {
	return map[string]string{
		FieldDateMariage: v.DateMariage,
		FieldLieuMariage: v.LieuMariage,
	}
}

func (v *Venue) Set(field, value string) error {
	switch field {
	case FieldDateMariage:
		v.DateMariage = value
	case FieldLieuMariage:
		v.LieuMariage = value
	default:
		return unknownField(field)
	}
	return nil
}

// Account holds the e-mail and one-time code used to authenticate the
// declarant.
type Account struct {
	Email string `json:"email"`
	Code  string `json:"otp,omitempty"`

	verified string
}

// MarkVerified records that the backend accepted a code for email. It has no
// effect when email is no longer the current address.
func (a *Account) MarkVerified(email string) {
	if email != "" && email == a.Email {
		a.verified = email
	}
}

// Verified reports whether the current address passed code verification.
func (a *Account) Verified() bool {
	return a.verified != "" && a.verified == a.Email
}

func (a *Account) Values() map[string]string {
	return map[string]string{
		FieldEmail: a.Email,
		FieldCode:  a.Code,
	}
}

func (a *Account) Set(field, value string) error {
	switch field {
	case FieldEmail:
		if a.Email != value {
			a.Code = ""
			a.verified = ""
		}
		a.Email = value
	case FieldCode:
		a.Code = value
	default:
		return unknownField(field)
	}
	return nil
}

func unknownField(field string) error {
	return fmt.Errorf("%w: %q", ErrUnknownField, field)
}
