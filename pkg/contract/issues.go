package contract

import (
	"errors"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Issue is one schema violation.
type Issue struct {
	// Path is the JSON pointer of the offending value, e.g. /Epoux/nom.
	Path string
	// Field is the wizard form field owning the value, empty when the
	// violation concerns the payload as a whole.
	Field string
	// Rule is the schema keyword that failed (minLength, required, ...).
	Rule    string
	Message string
}

// FieldErrors indexes issues by field, keeping the first message for each.
// Issues without a field are returned separately.
func FieldErrors(issues []Issue) (map[string]string, []string) {
	var (
		fields map[string]string
		form   []string
	)
	seen := make(map[string]struct{})
	for _, issue := range issues {
		if issue.Field == "" {
			msg := strings.TrimSpace(issue.Message)
			if _, dup := seen[msg]; msg == "" || dup {
				continue
			}
			seen[msg] = struct{}{}
			form = append(form, msg)
			continue
		}
		if fields == nil {
			fields = make(map[string]string)
		}
		if _, exists := fields[issue.Field]; !exists {
			fields[issue.Field] = issue.Message
		}
	}
	return fields, form
}

func collectIssues(err error) []Issue {
	var out []Issue
	var walk func(error)
	walk = func(err error) {
		var multi openapi3.MultiError
		if errors.As(err, &multi) {
			for _, inner := range multi {
				walk(inner)
			}
			return
		}
		var schemaErr *openapi3.SchemaError
		if errors.As(err, &schemaErr) {
			segments := schemaErr.JSONPointer()
			out = append(out, Issue{
				Path:    pointer(segments),
				Field:   fieldFor(segments),
				Rule:    schemaErr.SchemaField,
				Message: schemaErr.Reason,
			})
			return
		}
		out = append(out, Issue{Message: err.Error()})
	}
	walk(err)
	return out
}

func pointer(segments []string) string {
	if len(segments) == 0 {
		return "/"
	}
	escaped := make([]string, len(segments))
	for i, s := range segments {
		s = strings.ReplaceAll(s, "~", "~0")
		escaped[i] = strings.ReplaceAll(s, "/", "~1")
	}
	return "/" + strings.Join(escaped, "/")
}

// Person objects are keyed by role; their form fields append the role to the
// property name (nomEpoux, telephoneTemoin2).
var personRoles = map[string]string{
	"Celebrant": "Celebrant",
	"Epoux":     "Epoux",
	"Epouse":    "Epouse",
}

// fieldFor maps payload pointers to form field names.
func fieldFor(segments []string) string {
	switch len(segments) {
	case 0:
		return ""
	case 1:
		switch segments[0] {
		case "nom_commune", "id_commune":
			return "id_commune"
		case "Temoins", "Celebrant", "Epoux", "Epouse":
			return ""
		}
		return segments[0]
	}

	if role, ok := personRoles[segments[0]]; ok {
		return segments[1] + role
	}
	if segments[0] == "Temoins" && len(segments) >= 3 {
		idx, err := strconv.Atoi(segments[1])
		if err != nil || idx < 0 || idx > 1 {
			return ""
		}
		return segments[2] + "Temoin" + strconv.Itoa(idx+1)
	}
	return ""
}
