package dberrors

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"go.mongodb.org/mongo-driver/mongo"
)

// PostgreSQL error code for unique_violation
const pgUniqueViolation = "23505"

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique violation error
// for a specific constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == constraintName
}

// IsUniqueViolation reports whether err is any PostgreSQL unique violation
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// IsDuplicateKeyError reports whether err is a MongoDB duplicate key error
func IsDuplicateKeyError(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

// IsDuplicateIndexError reports whether err is a MongoDB duplicate key error
// raised by the named unique index.
func IsDuplicateIndexError(err error, indexName string) bool {
	if !mongo.IsDuplicateKeyError(err) {
		return false
	}
	return strings.Contains(err.Error(), "index: "+indexName+" ")
}
