package pump

import "errors"

var (
	ErrNotFound      = errors.New("pump not found")
	ErrNameTaken     = errors.New("pump name already in use")
	ErrNotAssigned   = errors.New("pump is not assigned to this employer")
	ErrInvalidStatus = errors.New("invalid pump status")
)
