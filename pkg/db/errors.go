package db

import (
	"strings"

	pkgerrors "github.com/orderbridge/orderbridge-backend/pkg/errors"
)

// IsUniqueViolation reports whether the provided error is a unique constraint
// violation. It prefers the typed driver inspection and falls back to message
// matching so repository tests on sqlite behave the same way.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	if pkgerrors.IsUniqueViolation(err) {
		return true
	}
	msg := err.Error()
	if constraintName != "" && strings.Contains(msg, constraintName) {
		return true
	}
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
