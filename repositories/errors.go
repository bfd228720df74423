package repositories

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrStaleVersion is returned by compare-and-swap writes when the row's
// version no longer matches the caller's.
var ErrStaleVersion = errors.New("post was modified concurrently")

const (
	pgUniqueViolation   = "23505"
	pgUndefinedFunction = "42883"
)

// IsNotFound reports whether err means "no such row".
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsUniqueViolation reports whether err is a unique constraint conflict.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// IsUndefinedFunction reports whether err means the called database function
// is not installed.
func IsUndefinedFunction(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUndefinedFunction
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "no such function") ||
		(strings.Contains(msg, "function") && strings.Contains(msg, "does not exist"))
}
