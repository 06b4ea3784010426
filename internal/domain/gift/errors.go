package gift

import "errors"

var (
	ErrNotFound          = errors.New("gift not found")
	ErrNameTaken         = errors.New("gift name already in use")
	ErrInsufficientStock = errors.New("insufficient gift stock")
)
