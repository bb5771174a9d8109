package declaration

import "time"

// Status is the review state of a declaration held by the backend.
type Status string

const (
	StatusPending  Status = "en_attente"
	StatusAccepted Status = "accepte"
	StatusRejected Status = "refuse"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// Label returns the French display label.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "En attente"
	case StatusAccepted:
		return "Acceptee"
	case StatusRejected:
		return "Refusee"
	}
	return string(s)
}

// Receipt is what the creation endpoint returns.
type Receipt struct {
	ID int `json:"id"`
}

// CommuneRef is the commune summary embedded in records.
type CommuneRef struct {
	ID  int    `json:"id_commune,omitempty"`
	Nom string `json:"nom"`
}

// Message is an officer to declarant message.
type Message struct {
	Contenu     string `json:"contenu"`
	TypeMessage string `json:"type_message"`
	DateEnvoi   string `json:"date_envoi"`
}

// Opposition is an objection lodged against a published declaration.
type Opposition struct {
	ID             int    `json:"id_opposition,omitempty"`
	Motif          string `json:"motif"`
	DateOpposition string `json:"date_opposition"`
}

// Record is a declaration as listed on the officer dashboard and the
// publication board.
type Record struct {
	ID              int          `json:"id_declaration"`
	UserID          int          `json:"id_utilisateur,omitempty"`
	Status          Status       `json:"status"`
	DateDeclaration string       `json:"date_declaration"`
	DateCelebration string       `json:"date_celebration"`
	DatePublication string       `json:"date_publication,omitempty"`
	CommuneID       int          `json:"id_commune"`
	Commune         CommuneRef   `json:"Commune"`
	Celebrant       Person       `json:"Celebrant"`
	Epoux           Person       `json:"Epoux"`
	Epouse          Person       `json:"Epouse"`
	Temoins         []Person     `json:"Temoins"`
	Messages        []Message    `json:"Messages,omitempty"`
	Oppositions     []Opposition `json:"Oppositions,omitempty"`
	Utilisateur     *struct {
		Email string `json:"email"`
	} `json:"Utilisateur,omitempty"`
}

// Pending reports whether the record still awaits review.
func (r Record) Pending() bool {
	return r.Status == StatusPending
}

// CelebrationTime parses DateCelebration, accepting RFC 3339 timestamps and
// plain dates.
func (r Record) CelebrationTime() (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, r.DateCelebration); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
