package redemption

import "errors"

var (
	ErrNotFound             = errors.New("redemption not found")
	ErrDuplicateOutstanding = errors.New("an outstanding redemption for this gift already exists")
	ErrInsufficientStock    = errors.New("insufficient gift stock")
	ErrInsufficientPoints   = errors.New("insufficient reward points")
	ErrInvalidTransition    = errors.New("invalid status transition")
)
