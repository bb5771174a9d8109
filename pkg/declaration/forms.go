package declaration

import (
	"github.com/goliatone/go-maryme/pkg/location"
	"github.com/goliatone/go-maryme/pkg/model"
)

// Location field names used by the confirmation step.
const (
	FieldRegion     = location.FieldRegion
	FieldDepartment = location.FieldDepartment
	FieldCommune    = location.FieldCommune
)

// Step keys.
const (
	StepAuthentication = "authentification"
	StepVerification   = "verification"
	StepSpouses        = "conjoints"
	StepWitnesses      = "temoins"
	StepCeremony       = "mariage"
	StepConfirmation   = "confirmation"
)

func personFields(suffix, role string) []model.Field {
	return []model.Field{
		{
			Name:     FieldNom + suffix,
			Type:     model.FieldTypeString,
			Label:    "Nom " + role,
			Required: true,
		},
		{
			Name:  FieldPrenom + suffix,
			Type:  model.FieldTypeString,
			Label: "Prenom " + role,
		},
		{
			Name:        FieldDateNaissance + suffix,
			Type:        model.FieldTypeString,
			Format:      model.FormatDate,
			Label:       "Date de naissance " + role,
			Placeholder: "AAAA-MM-JJ",
			Required:    true,
			Validations: []model.ValidationRule{model.MinLength(8), model.MaxLength(10)},
		},
		{
			Name:        FieldTelephone + suffix,
			Type:        model.FieldTypeString,
			Format:      model.FormatPhone,
			Label:       "Telephone " + role,
			Required:    true,
			Validations: []model.ValidationRule{model.MinLength(6), model.MaxLength(12)},
		},
	}
}

// EmailForm collects the declarant e-mail.
func EmailForm() model.FormModel {
	return model.FormModel{
		Key:         StepAuthentication,
		Title:       "Authentification",
		Description: "Un code de verification sera envoye a cette adresse.",
		Fields: []model.Field{
			{Name: FieldEmail, Type: model.FieldTypeString, Format: model.FormatEmail, Label: "Adresse electronique", Required: true},
		},
	}
}

// CodeForm collects the one-time code.
func CodeForm() model.FormModel {
	return model.FormModel{
		Key:         StepVerification,
		Title:       "Verification",
		Description: "Saisissez le code a 6 chiffres recu par e-mail. Il expire apres 5 minutes.",
		Fields: []model.Field{
			{Name: FieldCode, Type: model.FieldTypeString, Format: model.FormatCode, Label: "Code de verification", Required: true},
		},
	}
}

// SpousesForm collects both spouses.
func SpousesForm() model.FormModel {
	fields := personFields(SuffixHusband, "de l'epoux")
	fields = append(fields, personFields(SuffixWife, "de l'epouse")...)
	return model.FormModel{Key: StepSpouses, Title: "Conjoints", Fields: fields}
}

// WitnessesForm collects the two witnesses.
func WitnessesForm() model.FormModel {
	fields := personFields(SuffixWitness1, "du premier temoin")
	fields = append(fields, personFields(SuffixWitness2, "du second temoin")...)
	return model.FormModel{Key: StepWitnesses, Title: "Temoins", Fields: fields}
}

// CeremonyForm collects the officiant and the ceremony date.
func CeremonyForm() model.FormModel {
	fields := personFields(SuffixOfficiant, "du celebrant")
	fields = append(fields,
		model.Field{
			Name:        FieldDateMariage,
			Type:        model.FieldTypeString,
			Format:      model.FormatDate,
			Label:       "Date du mariage",
			Placeholder: "AAAA-MM-JJ",
			Required:    true,
			Validations: []model.ValidationRule{model.MinLength(8), model.MaxLength(10)},
		},
		model.Field{
			Name:        FieldLieuMariage,
			Type:        model.FieldTypeString,
			Label:       "Lieu de la ceremonie",
			Validations: []model.ValidationRule{model.MaxLength(120)},
		},
	)
	return model.FormModel{Key: StepCeremony, Title: "Mariage", Fields: fields}
}

// LocationForm collects the region, department and commune of the ceremony.
func LocationForm() model.FormModel {
	selectField := func(name, label string) model.Field {
		return model.Field{
			Name:        name,
			Type:        model.FieldTypeSelect,
			Label:       label,
			Required:    true,
			Validations: []model.ValidationRule{model.Min(1)},
		}
	}
	return model.FormModel{
		Key:   StepConfirmation,
		Title: "Confirmation",
		Fields: []model.Field{
			selectField(FieldRegion, "Region"),
			selectField(FieldDepartment, "Departement"),
			selectField(FieldCommune, "Commune"),
		},
	}
}
