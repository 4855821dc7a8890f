// Package domain contains business logic types and errors.
// Domain errors represent business-level failures, NOT HTTP errors.
// They are infrastructure-agnostic and can be mapped to HTTP/gRPC/etc by adapters.
package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable indicates the remote quote source is unreachable
	// or returned a failure.
	ErrUnavailable = errors.New("unavailable")

	// ErrNoCachedData indicates an offline fallback found no locally
	// cached quotes to serve.
	ErrNoCachedData = errors.New("no cached quotes available")

	// ErrStorage indicates a local persistence operation failed.
	ErrStorage = errors.New("storage failure")

	// ErrInvalidNamespace indicates a cache operation was attempted
	// without a user ID. This is a programming error and is never
	// retried or degraded to a shared key.
	ErrInvalidNamespace = errors.New("invalid namespace key")

	// ErrValidation indicates business rule validation failed.
	ErrValidation = errors.New("validation failed")
)

// NotFoundError provides context for not found errors.
type NotFoundError struct {
	Entity string
	ID     string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s with id %q not found", e.Entity, e.ID)
	}

	return e.Entity + " not found"
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NewNotFoundError creates a not found error with context.
func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// UnavailableError provides context for network failures.
type UnavailableError struct {
	Service string
	Reason  string
}

// Error implements the error interface.
func (e *UnavailableError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("service %q unavailable: %s", e.Service, e.Reason)
	}

	return fmt.Sprintf("service %q unavailable", e.Service)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *UnavailableError) Unwrap() error {
	return ErrUnavailable
}

// NewUnavailableError creates an unavailable error with context.
func NewUnavailableError(service, reason string) error {
	return &UnavailableError{Service: service, Reason: reason}
}

// NoCachedDataError provides context for empty-cache offline failures.
type NoCachedDataError struct {
	UserID string
	Reason string
}

// Error implements the error interface.
func (e *NoCachedDataError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}

	return ErrNoCachedData.Error()
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *NoCachedDataError) Unwrap() error {
	return ErrNoCachedData
}

// NewNoCachedDataError creates a no-cached-data error for a user.
func NewNoCachedDataError(userID, reason string) error {
	return &NoCachedDataError{UserID: userID, Reason: reason}
}

// StorageError provides context for persistence failures.
type StorageError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("storage failure in %s: %v", e.Op, e.Err)
	}

	return fmt.Sprintf("storage failure in %s", e.Op)
}

// Unwrap returns the sentinel error for errors.Is() support.
// The wrapped cause is intentionally not exposed through Unwrap; callers
// branch on the storage taxonomy, not on driver internals.
func (e *StorageError) Unwrap() error {
	return ErrStorage
}

// NewStorageError wraps a persistence failure with the failing operation.
func NewStorageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// NamespaceError provides context for invalid namespace keys.
type NamespaceError struct {
	Key    string
	Reason string
}

// Error implements the error interface.
func (e *NamespaceError) Error() string {
	if e.Key == "" {
		return "invalid namespace: " + e.Reason
	}

	return fmt.Sprintf("invalid namespace for key %q: %s", e.Key, e.Reason)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *NamespaceError) Unwrap() error {
	return ErrInvalidNamespace
}

// NewNamespaceError creates an invalid-namespace error.
func NewNamespaceError(key, reason string) error {
	return &NamespaceError{Key: key, Reason: reason}
}

// ValidationError provides context for validation errors.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}

	return "validation failed: " + e.Message
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a validation error with context.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnavailable checks if an error is a network failure.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// IsNoCachedData checks if an error is an empty-cache failure.
func IsNoCachedData(err error) bool {
	return errors.Is(err, ErrNoCachedData)
}

// IsStorage checks if an error is a persistence failure.
func IsStorage(err error) bool {
	return errors.Is(err, ErrStorage)
}

// IsInvalidNamespace checks if an error is an invalid namespace key.
func IsInvalidNamespace(err error) bool {
	return errors.Is(err, ErrInvalidNamespace)
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
