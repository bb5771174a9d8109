package location

import "errors"

var (
	// ErrUnknownRegion is returned when a region id is not in the tree.
	ErrUnknownRegion = errors.New("location: unknown region")
	// ErrUnknownDepartment is returned when a department is not a child of the
	// selected region.
	ErrUnknownDepartment = errors.New("location: department not in selected region")
	// ErrUnknownCommune is returned when a commune is not a child of the
	// selected department.
	ErrUnknownCommune = errors.New("location: commune not in selected department")
	// ErrSelectorDisabled is returned when a dependent selector is used before
	// its parent is chosen.
	ErrSelectorDisabled = errors.New("location: parent selection required")
	// ErrIncomplete is returned when no commune leaf is selected.
	ErrIncomplete = errors.New("location: selection incomplete")
)
