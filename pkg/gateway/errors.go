package gateway

import (
	"errors"
	"fmt"
)

// NetworkMessage is the user-facing copy for transport failures.
const NetworkMessage = "Une erreur reseau est survenu"

var (
	// ErrTransport marks network failures and unreadable responses.
	ErrTransport = errors.New("gateway: transport error")
	// ErrDomain marks failures reported by the backend envelope.
	ErrDomain = errors.New("gateway: domain error")
	// ErrBaseURL is returned when the client is built without a usable base URL.
	ErrBaseURL = errors.New("gateway: invalid base url")
)

// Kind classifies a gateway failure.
type Kind string

const (
	KindDomain    Kind = "domain"
	KindTransport Kind = "transport"
)

// Error carries the envelope code and message of a failed call.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Code != "" && e.Message != "":
		return fmt.Sprintf("gateway: %s: %s (%s)", e.Kind, e.Message, e.Code)
	case e.Code != "":
		return fmt.Sprintf("gateway: %s: %s", e.Kind, e.Code)
	case e.Message != "":
		return fmt.Sprintf("gateway: %s: %s", e.Kind, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("gateway: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("gateway: %s failure", e.Kind)
}

func (e *Error) Unwrap() []error {
	sentinel := ErrDomain
	if e.Kind == KindTransport {
		sentinel = ErrTransport
	}
	if e.Err != nil {
		return []error{sentinel, e.Err}
	}
	return []error{sentinel}
}

func transportError(status int, cause error) *Error {
	return &Error{Kind: KindTransport, Message: NetworkMessage, Status: status, Err: cause}
}

// bodyError reports a response that arrived but could not be decoded.
func bodyError(status int, cause error) *Error {
	return &Error{Kind: KindTransport, Message: "Erreur " + cause.Error(), Status: status, Err: cause}
}

// Code extracts the envelope code from err, empty when absent.
func Code(err error) string {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.Code
	}
	return ""
}

// Message extracts the server message from err, falling back to fallback.
func Message(err error, fallback string) string {
	var gwErr *Error
	if errors.As(err, &gwErr) && gwErr.Message != "" {
		return gwErr.Message
	}
	return fallback
}
