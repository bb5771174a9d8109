package contract

import "errors"

var (
	ErrEmptyDocument    = errors.New("contract: document payload is empty")
	ErrUnknownOperation = errors.New("contract: unknown operation")
	ErrNoRequestSchema  = errors.New("contract: operation has no JSON request schema")
)
