package auth

import "errors"

var (
	// ErrBusy is returned while the same action is already in flight.
	ErrBusy = errors.New("auth: request in flight")
	// ErrThrottled is returned when a code is requested again too soon.
	ErrThrottled = errors.New("auth: code requested too recently")
	// ErrMissingEmail is returned when verifying without an e-mail.
	ErrMissingEmail = errors.New("auth: e-mail required")
	// ErrMissingToken is returned when a login succeeds without a token.
	ErrMissingToken = errors.New("auth: no token in response")
)

// Error carries the user-facing message of a failed authentication step.
type Error struct {
	Op      string
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "auth: " + e.Op + " failed"
}

func (e *Error) Unwrap() error { return e.Err }
