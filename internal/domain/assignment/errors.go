package assignment

import "errors"

var (
	ErrNotFound            = errors.New("assignment not found")
	ErrPumpAlreadyAssigned = errors.New("pump is already assigned to this employer")
	ErrUserAlreadyAssigned = errors.New("user is already assigned to this employer")
	ErrInvalidTargetRole   = errors.New("assignment target has the wrong role")
	ErrNotAssignee         = errors.New("gift assignment belongs to another account")
	ErrNotPending          = errors.New("gift assignment is not pending")
)
