// Package shared holds cross-module primitives: the error taxonomy and
// fiscal period helpers used by every service.
package shared

import (
	"errors"
	"fmt"
)

// ValidationError reports a rejected write together with the violated rule.
type ValidationError struct {
	Rule   string
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("validation failed: %s", e.Rule)
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Rule, e.Detail)
}

// NotFoundError reports a missing entity.
type NotFoundError struct {
	Entity string
	Ref    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.Ref)
}

// ConflictError reports a uniqueness or status conflict.
type ConflictError struct {
	Detail string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: %s", e.Detail)
}

// StateError reports an operation attempted in an illegal lifecycle state.
type StateError struct {
	Entity string
	State  string
	Op     string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s in state %s: cannot %s", e.Entity, e.State, e.Op)
}

// ExternalServiceError wraps a collaborator failure (AI, tax gateway).
// The core never retries; the wrapped cause is preserved for the caller.
type ExternalServiceError struct {
	Service string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("external service %s: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// IsState reports whether err is a StateError.
func IsState(err error) bool {
	var se *StateError
	return errors.As(err, &se)
}

// IsExternal reports whether err is an ExternalServiceError.
func IsExternal(err error) bool {
	var xe *ExternalServiceError
	return errors.As(err, &xe)
}
