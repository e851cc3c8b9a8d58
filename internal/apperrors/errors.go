package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrAlreadyInvoiced indicates that an invoice has already been created
// from the referenced quotation (single-invoice-per-quotation policy).
var ErrAlreadyInvoiced = errors.New("invoice already created for this quotation")

// ErrEmptySource indicates an invoice-from-quotation request where the
// quotation has no items to copy and none were supplied either.
var ErrEmptySource = errors.New("quotation has no items to copy")

// ErrUnauthorized indicates a missing, malformed, expired, or revoked token.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates an authenticated but not permitted request.
var ErrForbidden = errors.New("forbidden")

// NewInvalidReference builds a validation error naming the offending
// reference field (e.g. "customer_id"). Callers detect it with
// errors.Is(err, ErrValidation).
func NewInvalidReference(field string) error {
	return fmt.Errorf("invalid %s: %w", field, ErrValidation)
}
