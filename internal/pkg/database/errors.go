package database

import (
	"errors"

	"github.com/lib/pq"
)

const sqlStateUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a PostgreSQL duplicate-key error.
// Uniqueness races are resolved at the store level: exactly one writer wins
// and the loser sees SQLSTATE 23505, which handlers map to a 400 response.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == sqlStateUniqueViolation
}

// UniqueConstraint returns the violated constraint name, if the error is a
// duplicate-key error.
func UniqueConstraint(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == sqlStateUniqueViolation {
		return pqErr.Constraint
	}
	return ""
}
