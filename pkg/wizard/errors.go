package wizard

import "errors"

var (
	// ErrNoSteps is returned when a coordinator is built without steps.
	ErrNoSteps = errors.New("wizard: at least one step is required")
	// ErrStepOutOfRange is returned for indices outside [0, terminal]. The
	// current step is left unchanged.
	ErrStepOutOfRange = errors.New("wizard: step index out of range")
	// ErrSubmitted is returned for navigation and edits after submission.
	ErrSubmitted = errors.New("wizard: declaration already submitted")
	// ErrNotTerminal is returned when submission is marked away from the
	// terminal step.
	ErrNotTerminal = errors.New("wizard: not on the terminal step")
	// ErrBusy is returned while a gated transition is in flight.
	ErrBusy = errors.New("wizard: transition in flight")
	// ErrNoSlice is returned when a step has no slice to edit.
	ErrNoSlice = errors.New("wizard: step has no slice")
)
