package repository

import (
	"errors"

	"github.com/lib/pq"
)

const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
)

// IsUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation. Uniqueness is enforced by the schema, so two concurrent writers
// passing the application-level pre-check still resolve to exactly one row;
// the loser surfaces here.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolationCode
	}
	return false
}

// IsForeignKeyViolation reports whether err is a PostgreSQL foreign key
// violation, meaning a referenced row does not exist.
func IsForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == foreignKeyViolationCode
	}
	return false
}
