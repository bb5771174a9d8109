package officer

import (
	"errors"
	"fmt"
)

// EmptyMessageText is shown when an officer tries to send a blank message.
const EmptyMessageText = "Veuillez saisir le contenu de l'email."

// FallbackMessage is shown when the backend fails without a message.
const FallbackMessage = "Oups quelque chose a mal fonctionne"

var (
	ErrNotPending    = errors.New("officer: declaration is not pending")
	ErrEmptyMessage  = errors.New("officer: message is empty")
	ErrInvalidStatus = errors.New("officer: invalid status")
	ErrInvalidSort   = errors.New("officer: invalid sort")
	ErrInvalidID     = errors.New("officer: invalid declaration id")
)

// Error wraps a failed officer operation. Message is the user-facing copy.
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
	return fmt.Sprintf("officer: %s failed: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
