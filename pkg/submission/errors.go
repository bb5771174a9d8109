package submission

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-maryme/pkg/contract"
)

// FallbackMessage is shown when the backend rejects the declaration without
// a message.
const FallbackMessage = "Oups quelque chose a mal fonctionne"

var (
	ErrAlreadySubmitted = errors.New("submission: declaration already submitted")
	ErrInFlight         = errors.New("submission: submission in flight")
	ErrMissingID        = errors.New("submission: backend returned no declaration id")
	ErrContract         = errors.New("submission: payload violates the backend contract")
)

// Error is a rejected submission. Message is the user-facing copy.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// ContractError lists the payload fields the backend description rejects.
type ContractError struct {
	Issues []contract.Issue
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("submission: %d contract violation(s)", len(e.Issues))
}

func (e *ContractError) Unwrap() error { return ErrContract }
