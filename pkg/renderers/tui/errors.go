package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoCommunes is returned when the region tree offers nothing to select.
	ErrNoCommunes = errors.New("tui: no commune available")
	// ErrNoSelection is returned when a select prompt resolves to no option.
	ErrNoSelection = errors.New("tui: no option selected")
)
