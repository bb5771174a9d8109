// Package model defines the typed step forms consumed by the validator and the
// prompt drivers. Validation rules expose canonical identifiers (min/max,
// minLength/maxLength, pattern) with string parameters so validators can map
// bounds and regexes onto runtime checks without reflection. Field formats
// (date, email, phone, otp) select additional shape checks.
package model
