package declaration

import "errors"

var (
	// ErrUnknownField is returned when a slice receives a field it does not own.
	ErrUnknownField = errors.New("declaration: unknown field")
	// ErrCommuneRequired signals a payload built without a commune leaf.
	ErrCommuneRequired = errors.New("declaration: commune selection required")
)
