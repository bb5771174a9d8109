package artifact

import "errors"

var (
	ErrMissingID     = errors.New("artifact: declaration id is required")
	ErrUnknownFormat = errors.New("artifact: unknown format")
	ErrPDFDisabled   = errors.New("artifact: pdf export not configured")
)
