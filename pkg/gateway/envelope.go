package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ErrorField is the tri-state `error` member of the response envelope: absent
// or false means success, true flags a failure without a code, and a string
// carries a machine-readable code.
type ErrorField struct {
	flag bool
	code string
}

// FlagError builds a boolean error field.
func FlagError(v bool) ErrorField { return ErrorField{flag: v} }

// CodeError builds a coded error field.
func CodeError(code string) ErrorField { return ErrorField{flag: code != "", code: code} }

// IsError reports whether the field signals a failure.
func (e ErrorField) IsError() bool { return e.flag || e.code != "" }

// Code returns the machine-readable code, empty for boolean errors.
func (e ErrorField) Code() string { return e.code }

// IsZero lets encoding/json omit a success field.
func (e ErrorField) IsZero() bool { return !e.IsError() }

func (e ErrorField) MarshalJSON() ([]byte, error) {
	if e.code != "" {
		return json.Marshal(e.code)
	}
	return json.Marshal(e.flag)
}

func (e *ErrorField) UnmarshalJSON(raw []byte) error {
	raw = bytes.TrimSpace(raw)
	*e = ErrorField{}
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	switch raw[0] {
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return err
		}
		e.flag = b
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		*e = CodeError(s)
	default:
		// Objects or numbers still signal a failure; keep the raw text as code.
		e.flag = true
		e.code = string(raw)
	}
	return nil
}

func (e ErrorField) String() string {
	if e.code != "" {
		return e.code
	}
	return fmt.Sprint(e.flag)
}

// Envelope is the normalized response shape shared by every endpoint.
type Envelope[T any] struct {
	Data    T          `json:"data"`
	Error   ErrorField `json:"error,omitzero"`
	Message string     `json:"message,omitempty"`

	// Status is the HTTP status, zero when the request never completed.
	Status int `json:"-"`
}

// Failed reports a domain failure: an error flag/code or a non-2xx status.
func (e Envelope[T]) Failed() bool {
	return e.Error.IsError() || (e.Status != 0 && (e.Status < 200 || e.Status >= 300))
}

// Err converts a failed envelope into an *Error of kind KindDomain.
func (e Envelope[T]) Err() error {
	if !e.Failed() {
		return nil
	}
	return &Error{
		Kind:    KindDomain,
		Code:    e.Error.Code(),
		Message: e.Message,
		Status:  e.Status,
	}
}
