package repository

import (
	"errors"
	"strings"

	"github.com/lib/pq"
)

// ErrDuplicate reports a unique constraint violation.
var ErrDuplicate = errors.New("duplicate record")

const pqUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}
	// go-sqlite3 reports "UNIQUE constraint failed: <table>.<column>".
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
