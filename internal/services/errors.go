package services

import (
	"errors"
	"fmt"

	"github.com/luxe-clothing/storefront/internal/utils"
)

var (
	ErrValidation    = errors.New("validation failed")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrNotFound      = errors.New("not found")
	ErrGateway       = errors.New("payment gateway error")
	ErrAuth          = errors.New("authentication failed")
	ErrConflict      = errors.New("conflict")
)

// ValidationError reports input rejected before any state was touched.
type ValidationError struct {
	Field   string
	Message string
	Details []utils.ValidationError
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// validateRequest runs the struct validator and converts its failures.
func validateRequest(req interface{}) error {
	err := utils.ValidateStruct(req)
	if err == nil {
		return nil
	}
	details := utils.GetValidationErrors(err)
	if len(details) == 0 {
		return fmt.Errorf("validate request: %w", err)
	}
	return &ValidationError{
		Field:   details[0].Field,
		Message: details[0].Message,
		Details: details,
	}
}

// InvalidAmountError is the validation failure for a payment amount.
type InvalidAmountError struct {
	Message string
}

func (e *InvalidAmountError) Error() string { return e.Message }

func (e *InvalidAmountError) Is(target error) bool {
	return target == ErrInvalidAmount || target == ErrValidation
}

type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// GatewayError wraps a failed payment processor call. Its message is the
// processor's message, unchanged.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string { return e.Err.Error() }

func (e *GatewayError) Unwrap() error { return e.Err }

func (e *GatewayError) Is(target error) bool { return target == ErrGateway }

type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string { return e.Reason }

func (e *AuthError) Is(target error) bool { return target == ErrAuth }

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }
