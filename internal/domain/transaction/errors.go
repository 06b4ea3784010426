package transaction

import "errors"

var (
	ErrNotFound         = errors.New("transaction not found")
	ErrDuplicateInvoice = errors.New("invoice number already used")
	ErrInvalidAmount    = errors.New("amount must be positive")
)
