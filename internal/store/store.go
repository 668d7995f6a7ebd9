// Package store provides typed repositories per entity, each operation
// returning a typed result or a typed error.
package store

import (
	"errors"
	"strings"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrDuplicateEmail       = errors.New("email already exists")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrPrescriptionRequired = errors.New("medicine requires a prescription")
)

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "unique constraint")
}
