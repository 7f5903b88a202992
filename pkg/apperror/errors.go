// Package apperror defines the error kinds crossing component boundaries.
// Callers render each of these as a single human-readable message; no error
// codes are exposed.
package apperror

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNetworkUnavailable means the connectivity probe reports the remote
// store as unreachable. Read paths never surface it; they degrade to the
// local cache instead.
var ErrNetworkUnavailable = errors.New("network unavailable")

// ErrNoSession means no session exists, locally or remotely.
var ErrNoSession = errors.New("no active session")

// RemoteError wraps a backend rejection of a well-formed request.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote store rejected %s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

func Remote(op string, err error) *RemoteError {
	return &RemoteError{Op: op, Err: err}
}

// ValidationError reports malformed input, e.g. a negative price.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func Validation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// Shortfall is a requested quantity exceeding the available stock at check
// time.
type Shortfall struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// InsufficientStockError carries every shortfall found by an availability
// check. It is always surfaced before any persistence occurs.
type InsufficientStockError struct {
	Shortfalls []Shortfall
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Shortfalls))
	for _, s := range e.Shortfalls {
		name := s.Name
		if name == "" {
			name = s.ProductID
		}
		parts = append(parts, fmt.Sprintf("%s: requested %d, available %d", name, s.Requested, s.Available))
	}
	return "insufficient stock: " + strings.Join(parts, "; ")
}

// PartialPersistError records a later step of a multi-step write failing
// after an earlier step already committed remotely. It is logged and the
// caller sees a generic failure; no automatic compensating rollback runs.
type PartialPersistError struct {
	Step string
	Err  error
}

func (e *PartialPersistError) Error() string {
	return fmt.Sprintf("sale partially persisted, %s failed: %v", e.Step, e.Err)
}

func (e *PartialPersistError) Unwrap() error { return e.Err }
