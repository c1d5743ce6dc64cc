package services

import (
	"errors"
	"maps"
	"slices"
	"strings"
)

var (
	ErrValidation          = errors.New("validation failed")
	ErrNotFound            = errors.New("not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrUniquenessViolation = errors.New("uniqueness violation")
)

// FieldErrors carries per-field messages for a failed form. It unwraps to ErrValidation.
type FieldErrors map[string]string

// Error lists every field in name order.
func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return ErrValidation.Error()
	}
	parts := make([]string, 0, len(e))
	for _, field := range slices.Sorted(maps.Keys(e)) {
		parts = append(parts, field+": "+e[field])
	}
	return strings.Join(parts, "; ")
}

func (e FieldErrors) Unwrap() error {
	return ErrValidation
}
