// Package service holds the business rules for films and users. Services
// validate input, call the stores and relationship indexes, and compose read
// views (popular films, mutual friends). They report two error kinds that the
// HTTP layer maps onto status codes: ValidationError and NotFoundError.
package service

import (
	"errors"
	"fmt"
)

// ValidationError means the caller supplied input that breaks a domain rule.
// It is always fixable by the caller and is never retried internally.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError means a referenced identifier does not exist.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func validationf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func notFoundf(format string, args ...any) error {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsNotFound reports whether err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

const (
	msgInvalidFilmID   = "Invalid film ID: must be greater than 0"
	msgFilmNotFound    = "Film with ID %d not found"
	msgInvalidUserID   = "Invalid user ID: must be greater than 0"
	msgUserNotFound    = "User with ID %d not found"
	msgSelfInteraction = "Users cannot interact with themselves"
	msgAlreadyLiked    = "User has already liked this film"
	msgNotLiked        = "User hasn't liked this film"
	msgCountPositive   = "Count must be positive"
)
