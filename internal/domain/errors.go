package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for infrastructure-level conditions. Everything the caller
// can act on is one of the typed errors below instead.
var (
	ErrRecordNotFound = errors.New("record not found")
	ErrEditConflict   = errors.New("edit conflict")
)

// NotFoundError reports that a referenced entity does not exist.
type NotFoundError struct {
	Entity string
	Field  string
	Value  any
}

func NewNotFoundError(entity, field string, value any) *NotFoundError {
	return &NotFoundError{Entity: entity, Field: field, Value: value}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s found with %s %v", e.Entity, e.Field, e.Value)
}

// ValidationError reports caller-supplied values that violate a structural
// rule the engine itself enforces, such as a showroom grid out of bounds.
type ValidationError struct {
	Violations []string
}

func NewValidationError(violations ...string) *ValidationError {
	return &ValidationError{Violations: violations}
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Violations, "; ")
}

// ClashError reports a scheduling conflict: an overlapping screening or a
// duplicate showroom letter.
type ClashError struct {
	Message string
}

func NewClashError(format string, args ...any) *ClashError {
	return &ClashError{Message: fmt.Sprintf(format, args...)}
}

func (e *ClashError) Error() string {
	return e.Message
}

// InvalidActionError reports an operation disallowed by the current state of
// an entity: seat already booked, ticket not refundable, expired card, past
// screening, suspended customer authority.
type InvalidActionError struct {
	Reason string
}

func NewInvalidActionError(format string, args ...any) *InvalidActionError {
	return &InvalidActionError{Reason: fmt.Sprintf(format, args...)}
}

func (e *InvalidActionError) Error() string {
	return e.Reason
}

// NotificationError wraps a failure to deliver an outbound notification.
// It is logged on its own channel and never propagated to booking callers.
type NotificationError struct {
	Recipient string
	Err       error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notification to %s failed: %v", e.Recipient, e.Err)
}

func (e *NotificationError) Unwrap() error {
	return e.Err
}
