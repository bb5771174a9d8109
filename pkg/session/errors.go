package session

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-maryme/pkg/validation"
	"github.com/goliatone/go-maryme/pkg/wizard"
)

var (
	// ErrClosed is returned by every call made after Close, including calls
	// whose response arrived after Close.
	ErrClosed = errors.New("session: closed")
	// ErrBusy aliases the coordinator sentinel so every in-flight refusal
	// matches one error.
	ErrBusy = wizard.ErrBusy
	// ErrNotSubmitted is returned when the artifact is requested too early.
	ErrNotSubmitted = errors.New("session: declaration not submitted")
	// ErrInvalid is wrapped by ValidationError.
	ErrInvalid = errors.New("session: declaration incomplete")
)

// MessageUnverified is reported on the code field when a declaration is
// submitted before the e-mail was verified.
const MessageUnverified = "Veuillez verifier votre code avant d'envoyer la declaration"

// ValidationError reports the first step that fails validation on submit.
type ValidationError struct {
	Step   int
	Key    string
	Result validation.Result
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("session: step %d (%s) has %d invalid field(s)", e.Step, e.Key, len(e.Result.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrInvalid }
