// Package apperrors defines the error taxonomy shared by the payment core.
// Handlers map these to HTTP status codes; anything else is an internal error
// whose detail is logged but never returned to callers.
package apperrors

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed input or a failed signature/proof check.
// State is left untouched when it is returned.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports an unknown master or sub-transaction.
type NotFoundError struct {
	Resource string
	Id       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.Id)
}

func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, Id: id}
}

// GatewayError wraps a failed payment gateway call.
type GatewayError struct {
	Op  string // "create_order", "refund"
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway %s failed: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// InvalidTransitionError reports an illegal state machine edge. It is always
// surfaced to the caller, never swallowed.
type InvalidTransitionError struct {
	MasterTxnId string
	From        string
	To          string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition %s -> %s for master %s", e.From, e.To, e.MasterTxnId)
}

// ConcurrencyError reports that the per-master lock could not be acquired
// before the caller's context expired.
type ConcurrencyError struct {
	MasterTxnId string
}

func (e *ConcurrencyError) Error() string {
	return fmt.Sprintf("master %s is locked by a concurrent operation", e.MasterTxnId)
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsGateway(err error) bool {
	var target *GatewayError
	return errors.As(err, &target)
}

func IsInvalidTransition(err error) bool {
	var target *InvalidTransitionError
	return errors.As(err, &target)
}

func IsConcurrency(err error) bool {
	var target *ConcurrencyError
	return errors.As(err, &target)
}
