package errors

import (
	"errors"
	"fmt"
)

var (
	// Transaction errors
	ErrTransactionNotFound    = errors.New("transaction not found")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrOrderMismatch          = errors.New("payment does not belong to order")

	// Notification errors
	ErrNotificationNotFound = errors.New("notification not found")
	ErrUnknownTemplate      = errors.New("no template for notification type")
	ErrOutcomeNotRecorded   = errors.New("dispatch outcome not recorded")

	// Provider errors
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrDispatchFailed     = errors.New("message dispatch failed")
	ErrSignatureMismatch  = errors.New("signature verification failed")
	ErrCircuitOpen        = errors.New("circuit breaker open")

	// Auth errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidInput     = errors.New("invalid input")
)

// DomainError wraps errors with additional context
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
}

// Is lets callers match any validation error with errors.Is(err, ErrValidationFailed).
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// GatewayError is returned when the payment gateway call fails or answers with a
// non-success status. Message carries the gateway's own description when present.
type GatewayError struct {
	Op         string
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *GatewayError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("gateway %s failed (status %d): %s", e.Op, e.StatusCode, msg)
	}
	return fmt.Sprintf("gateway %s failed: %s", e.Op, msg)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

func (e *GatewayError) Is(target error) bool {
	return target == ErrGatewayUnavailable
}

// NewGatewayError creates a gateway error for the named operation.
func NewGatewayError(op string, statusCode int, code, message string, err error) *GatewayError {
	return &GatewayError{
		Op:         op,
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
		Err:        err,
	}
}

// DispatchError is returned when the messaging provider rejects a message or the
// request never completes.
type DispatchError struct {
	StatusCode int
	Code       int
	Message    string
	Err        error
}

func (e *DispatchError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("dispatch failed (status %d): %s", e.StatusCode, msg)
	}
	return fmt.Sprintf("dispatch failed: %s", msg)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

func (e *DispatchError) Is(target error) bool {
	return target == ErrDispatchFailed
}

// NewDispatchError creates a dispatch error.
func NewDispatchError(statusCode, code int, message string, err error) *DispatchError {
	return &DispatchError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
		Err:        err,
	}
}
