package validation

import (
	"fmt"
	"net/mail"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/goliatone/go-maryme/pkg/model"
)

// Default messages reported for failed rules.
const (
	MessageRequired = "Ce champ est obligatoire"
	MessageDate     = "Date invalide"
	MessageEmail    = "Adresse electronique invalide"
	MessagePhone    = "Numero de telephone invalide"
	MessageCode     = "Le code doit contenir 6 chiffres"
	MessagePattern  = "Format invalide"
	MessageInteger  = "Valeur numerique attendue"
)

// DateLayouts lists the accepted date encodings, canonical first.
var DateLayouts = []string{"2006-01-02", "02/01/2006", "02-01-2006"}

var (
	phonePattern = regexp.MustCompile(`^\+?[0-9]{6,12}$`)
	codePattern  = regexp.MustCompile(`^[0-9]{6}$`)
)

// Result reports the outcome of validating one step. Errors is keyed by field
// name and holds the first failing message for that field.
type Result struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors,omitempty"`
}

// Error returns the message attached to field, if any.
func (r Result) Error(field string) string {
	if r.Errors == nil {
		return ""
	}
	return r.Errors[field]
}

// Fields lists failing field names in form order.
func (r Result) Fields(form model.FormModel) []string {
	var out []string
	for _, name := range form.FieldNames() {
		if _, ok := r.Errors[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

// Validator checks step values against the rules declared on a form model.
// Compiled rules are cached per form and field.
type Validator struct {
	mu    sync.Mutex
	cache map[string]fieldRules
}

// New returns a ready Validator.
func New() *Validator {
	return &Validator{cache: make(map[string]fieldRules)}
}

// Validate never fails: every problem is reported through Result.
func (v *Validator) Validate(form model.FormModel, values map[string]string) Result {
	result := Result{Valid: true}
	for _, field := range form.Fields {
		rules := v.rulesFor(form.Key, field)
		if msg := rules.check(values[field.Name]); msg != "" {
			if result.Errors == nil {
				result.Errors = make(map[string]string)
			}
			result.Errors[field.Name] = msg
			result.Valid = false
		}
	}
	return result
}

// ValidateField checks a single value, used by prompt drivers for inline
// feedback.
func (v *Validator) ValidateField(form model.FormModel, name, value string) string {
	field, ok := form.Field(name)
	if !ok {
		return ""
	}
	return v.rulesFor(form.Key, field).check(value)
}

func (v *Validator) rulesFor(formKey string, field model.Field) fieldRules {
	key := formKey + "." + field.Name
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.cache == nil {
		v.cache = make(map[string]fieldRules)
	}
	if rules, ok := v.cache[key]; ok {
		return rules
	}
	rules := collectRules(field)
	v.cache[key] = rules
	return rules
}

type fieldRules struct {
	required   bool
	fieldType  model.FieldType
	format     string
	min        *float64
	max        *float64
	minLen     *int
	maxLen     *int
	pattern    *regexp.Regexp
	patternMsg string
	messages   map[string]string
}

func collectRules(field model.Field) fieldRules {
	rules := fieldRules{
		required:  field.Required,
		fieldType: field.Type,
		format:    field.Format,
		messages:  make(map[string]string),
	}
	for _, v := range field.Validations {
		if msg := strings.TrimSpace(v.Params["message"]); msg != "" {
			rules.messages[v.Kind] = msg
		}
		switch v.Kind {
		case model.ValidationRuleMin:
			if val, ok := parseFloat(v.Params["value"]); ok {
				rules.min = &val
			}
		case model.ValidationRuleMax:
			if val, ok := parseFloat(v.Params["value"]); ok {
				rules.max = &val
			}
		case model.ValidationRuleMinLength:
			if val, ok := parseInt(v.Params["value"]); ok {
				rules.minLen = &val
			}
		case model.ValidationRuleMaxLength:
			if val, ok := parseInt(v.Params["value"]); ok {
				rules.maxLen = &val
			}
		case model.ValidationRulePattern:
			if expr := v.Params["pattern"]; expr != "" {
				if re, err := regexp.Compile(expr); err == nil {
					rules.pattern = re
				}
			}
		}
	}
	return rules
}

func (r fieldRules) check(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		if r.required {
			return MessageRequired
		}
		return ""
	}

	length := utf8.RuneCountInString(value)
	if r.minLen != nil && length < *r.minLen {
		return r.message(model.ValidationRuleMinLength, fmt.Sprintf("Doit contenir au moins %d caracteres", *r.minLen))
	}
	if r.maxLen != nil && length > *r.maxLen {
		return r.message(model.ValidationRuleMaxLength, fmt.Sprintf("Doit contenir au plus %d caracteres", *r.maxLen))
	}

	switch r.format {
	case model.FormatDate:
		if _, ok := ParseDate(value); !ok {
			return MessageDate
		}
	case model.FormatEmail:
		addr, err := mail.ParseAddress(value)
		if err != nil || addr.Address != value {
			return MessageEmail
		}
	case model.FormatPhone:
		if !phonePattern.MatchString(NormalizePhone(value)) {
			return MessagePhone
		}
	case model.FormatCode:
		if !codePattern.MatchString(value) {
			return MessageCode
		}
	}

	if r.fieldType == model.FieldTypeInteger || r.fieldType == model.FieldTypeSelect {
		if r.min != nil || r.max != nil || r.fieldType == model.FieldTypeInteger {
			n, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return MessageInteger
			}
			if r.min != nil && n < *r.min {
				return r.message(model.ValidationRuleMin, fmt.Sprintf("Doit etre superieur ou egal a %v", *r.min))
			}
			if r.max != nil && n > *r.max {
				return r.message(model.ValidationRuleMax, fmt.Sprintf("Doit etre inferieur ou egal a %v", *r.max))
			}
		}
	}

	if r.pattern != nil && !r.pattern.MatchString(value) {
		return r.message(model.ValidationRulePattern, MessagePattern)
	}
	return ""
}

func (r fieldRules) message(kind, fallback string) string {
	if msg, ok := r.messages[kind]; ok {
		return msg
	}
	return fallback
}

// ParseDate accepts any of DateLayouts.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NormalizeDate rewrites a valid date in the canonical layout and leaves
// anything else untouched.
func NormalizeDate(value string) string {
	if t, ok := ParseDate(value); ok {
		return t.Format(DateLayouts[0])
	}
	return value
}

// NormalizePhone drops separators commonly typed inside phone numbers.
func NormalizePhone(value string) string {
	return strings.NewReplacer(" ", "", ".", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(value))
}

func parseFloat(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}
	val, err := strconv.ParseFloat(raw, 64)
	return val, err == nil
}

func parseInt(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	val, err := strconv.Atoi(raw)
	return val, err == nil
}
