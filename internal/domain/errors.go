package domain

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrNotFound               = errors.New("resource not found")
	ErrAlreadyExists          = errors.New("resource already exists")
	ErrInvalidInput           = errors.New("invalid input")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrInternalError          = errors.New("internal error")
	ErrUserNotFound           = errors.New("user not found")
	ErrTransactionNotFound    = errors.New("transaction not found")
	ErrInvalidAmount          = errors.New("amount must be a positive number")
	ErrInvalidTransactionType = errors.New("transaction type must be either Income or Expense")
	ErrInvalidDate            = errors.New("invalid date format, use YYYY-MM-DD")
	ErrTextTooLong            = errors.New("text exceeds maximum length")
	ErrNameRequired           = errors.New("name is required")
	ErrEmailRequired          = errors.New("email is required")
	ErrPasswordTooShort       = errors.New("password is too short")
	ErrInvalidCredentials     = errors.New("invalid email or password")

	// ErrUnauthenticated is reported when no credential is held or the remote
	// API rejected it. Both cases must be handled identically by callers.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// Validation constants
const (
	MaxTransactionTextLength = 200
	MaxUserNameLength        = 100
	MinPasswordLength        = 6
)

// DefaultSyncMessage is used when the remote API gave no usable message.
const DefaultSyncMessage = "the ledger service could not complete the request"

// ValidationError reports bad user input caught before any remote call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is makes every ValidationError match ErrInvalidInput.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a ValidationError for the given field
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// SyncError is any remote failure other than an authentication rejection.
// Status is zero for transport failures.
type SyncError struct {
	Status  int
	Message string
	Err     error
}

func (e *SyncError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = DefaultSyncMessage
	}
	if e.Status != 0 {
		return fmt.Sprintf("sync failed (status %d): %s", e.Status, msg)
	}
	return "sync failed: " + msg
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// MalformedDataError reports a remote payload that violates the transaction contract.
type MalformedDataError struct {
	Reason string
}

func (e *MalformedDataError) Error() string {
	return "malformed ledger data: " + e.Reason
}
