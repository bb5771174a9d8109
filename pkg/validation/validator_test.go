package validation

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-maryme/pkg/model"
)

func personForm() model.FormModel {
	return model.FormModel{
		Key: "person",
		Fields: []model.Field{
			{Name: "nom", Type: model.FieldTypeString, Required: true},
			{Name: "prenom", Type: model.FieldTypeString},
			{Name: "date_naissance", Type: model.FieldTypeString, Format: model.FormatDate, Required: true,
				Validations: []model.ValidationRule{model.MinLength(8), model.MaxLength(10)}},
			{Name: "telephone", Type: model.FieldTypeString, Format: model.FormatPhone, Required: true,
				Validations: []model.ValidationRule{model.MinLength(6), model.MaxLength(12)}},
		},
	}
}

func TestValidate_ReportsPerFieldErrors(t *testing.T) {
	v := New()
	got := v.Validate(personForm(), map[string]string{
		"nom":            "",
		"date_naissance": "1990-13-45",
		"telephone":      "12",
	})

	want := Result{
		Valid: false,
		Errors: map[string]string{
			"nom":            MessageRequired,
			"date_naissance": MessageDate,
			"telephone":      "Doit contenir au moins 6 caracteres",
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"nom", "date_naissance", "telephone"}, got.Fields(personForm())); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_ValidValuesPass(t *testing.T) {
	v := New()
	got := v.Validate(personForm(), map[string]string{
		"nom":            "Diallo",
		"date_naissance": "14/02/1992",
		"telephone":      "77 123 45 67",
	})
	if !got.Valid || len(got.Errors) != 0 {
		t.Fatalf("expected valid result, got %+v", got)
	}
}

func TestValidate_Formats(t *testing.T) {
	form := model.FormModel{
		Key: "formats",
		Fields: []model.Field{
			{Name: "email", Format: model.FormatEmail, Required: true},
			{Name: "otp", Format: model.FormatCode, Required: true},
			{Name: "commune", Type: model.FieldTypeSelect, Required: true, Validations: []model.ValidationRule{model.Min(1)}},
			{Name: "code", Validations: []model.ValidationRule{model.Pattern("^[A-Z]{3}$", "Trois majuscules")}},
		},
	}

	cases := []struct {
		name   string
		values map[string]string
		want   map[string]string
	}{
		{
			name:   "all valid",
			values: map[string]string{"email": "awa@example.sn", "otp": "123456", "commune": "5", "code": "DKR"},
		},
		{
			name:   "display name email rejected",
			values: map[string]string{"email": "Awa <awa@example.sn>", "otp": "123456", "commune": "5"},
			want:   map[string]string{"email": MessageEmail},
		},
		{
			name:   "short code and zero commune",
			values: map[string]string{"email": "awa@example.sn", "otp": "12345", "commune": "0"},
			want: map[string]string{
				"otp":     MessageCode,
				"commune": "Doit etre superieur ou egal a 1",
			},
		},
		{
			name:   "pattern override message",
			values: map[string]string{"email": "awa@example.sn", "otp": "123456", "commune": "2", "code": "dkr"},
			want:   map[string]string{"code": "Trois majuscules"},
		},
	}

	v := New()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := v.Validate(form, tc.values)
			if diff := cmp.Diff(tc.want, got.Errors); diff != "" {
				t.Fatalf("errors mismatch (-want +got):\n%s", diff)
			}
			if got.Valid != (len(tc.want) == 0) {
				t.Fatalf("valid=%v with errors %v", got.Valid, got.Errors)
			}
		})
	}
}

func TestValidateField(t *testing.T) {
	v := New()
	if msg := v.ValidateField(personForm(), "nom", " "); msg != MessageRequired {
		t.Fatalf("expected required message, got %q", msg)
	}
	if msg := v.ValidateField(personForm(), "prenom", ""); msg != "" {
		t.Fatalf("optional field should pass, got %q", msg)
	}
	if msg := v.ValidateField(personForm(), "unknown", "x"); msg != "" {
		t.Fatalf("unknown field should pass, got %q", msg)
	}
}

func TestNormalizeDate(t *testing.T) {
	if got := NormalizeDate("14/02/1992"); got != "1992-02-14" {
		t.Fatalf("NormalizeDate = %q", got)
	}
	if got := NormalizeDate("soon"); got != "soon" {
		t.Fatalf("NormalizeDate should leave invalid input, got %q", got)
	}
}
