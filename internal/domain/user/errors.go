package user

import "errors"

var (
	ErrNotFound      = errors.New("user not found")
	ErrAlreadyExists = errors.New("user with this email and role already exists")
	ErrInvalidRole   = errors.New("invalid role, must be user, admin, supervisor, or employer")
	ErrAlreadyLinked = errors.New("customer already assigned to this employer")
	ErrNotLinked     = errors.New("customer is not assigned to this employer")
)
