package model

import "strconv"

// MinLength builds a minLength rule.
func MinLength(n int) ValidationRule {
	return ValidationRule{Kind: ValidationRuleMinLength, Params: map[string]string{"value": strconv.Itoa(n)}}
}

// MaxLength builds a maxLength rule.
func MaxLength(n int) ValidationRule {
	return ValidationRule{Kind: ValidationRuleMaxLength, Params: map[string]string{"value": strconv.Itoa(n)}}
}

// Pattern builds a regex rule with an optional message override.
func Pattern(expr, message string) ValidationRule {
	params := map[string]string{"pattern": expr}
	if message != "" {
		params["message"] = message
	}
	return ValidationRule{Kind: ValidationRulePattern, Params: params}
}

// Min builds a numeric lower bound.
func Min(v float64) ValidationRule {
	return ValidationRule{Kind: ValidationRuleMin, Params: map[string]string{"value": strconv.FormatFloat(v, 'f', -1, 64)}}
}

// Max builds a numeric upper bound.
func Max(v float64) ValidationRule {
	return ValidationRule{Kind: ValidationRuleMax, Params: map[string]string{"value": strconv.FormatFloat(v, 'f', -1, 64)}}
}
