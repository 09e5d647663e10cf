/*
Package shared holds the building blocks every subdomain relies on:
value objects, the domain error taxonomy, event contracts and the
unit-of-work boundary.

Error taxonomy:
  - ErrValidation    malformed construction input, nothing is built
  - ErrNotFound      a referenced aggregate or entity id does not exist
  - ErrStateConflict illegal transition, insufficient stock, broken invariant

A DomainError unwraps to both its kind and an optional, more specific
reason sentinel declared by the owning subdomain, so callers can match
either level with errors.Is. The stack is captured when the error is
built and formatted only when someone asks for it.
*/
package shared

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// ============================================================================
// Kind sentinels
// ============================================================================

var (
	// ErrValidation malformed input, raised at construction time
	ErrValidation = errors.New("validation failed")

	// ErrNotFound referenced entity does not exist
	ErrNotFound = errors.New("not found")

	// ErrStateConflict illegal state transition or invariant violation
	ErrStateConflict = errors.New("state conflict")
)

// ============================================================================
// DomainError
// ============================================================================

// DomainError carries the error kind, an optional subdomain reason and the
// stack of the point where it was raised.
type DomainError struct {
	// Kind is one of ErrValidation, ErrNotFound, ErrStateConflict
	Kind error

	// Reason is the subdomain sentinel (order.ErrLastItem, ...), may be nil
	Reason error

	Entity  string
	Field   string
	Message string

	stack []uintptr
}

func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap exposes both the kind and the reason to errors.Is / errors.As.
func (e *DomainError) Unwrap() []error {
	if e.Reason == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Reason}
}

// Stack formats the captured frames on demand.
func (e *DomainError) Stack() []string {
	return FormatStack(e.stack)
}

// ============================================================================
// Stack helpers
// ============================================================================

// CaptureStack records the current call stack.
// skip counts runtime.Callers and CaptureStack itself, so 3 starts at the
// caller of the function that invoked CaptureStack.
func CaptureStack(skip int) []uintptr {
	var pcs [32]uintptr
	n := runtime.Callers(skip, pcs[:])
	return pcs[:n]
}

// FormatStack renders at most ten non-runtime frames.
func FormatStack(stack []uintptr) []string {
	if len(stack) == 0 {
		return nil
	}

	frames := runtime.CallersFrames(stack)
	var result []string
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			result = append(result, fmt.Sprintf("%s:%d %s", frame.File, frame.Line, frame.Function))
		}
		if !more || len(result) >= 10 {
			break
		}
	}
	return result
}

// ============================================================================
// Constructors
// ============================================================================

// NewDomainError is used by subdomain error constructors. The stack starts
// at the caller of that constructor.
func NewDomainError(kind, reason error, entity, field, message string) *DomainError {
	return &DomainError{
		Kind:    kind,
		Reason:  reason,
		Entity:  entity,
		Field:   field,
		Message: message,
		stack:   CaptureStack(4),
	}
}

func NewValidationError(entity, field, reason string) error {
	return &DomainError{
		Kind:    ErrValidation,
		Entity:  entity,
		Field:   field,
		Message: entity + "." + field + ": " + reason,
		stack:   CaptureStack(3),
	}
}

func NewNotFoundError(entity, id string) error {
	return &DomainError{
		Kind:    ErrNotFound,
		Entity:  entity,
		Message: entity + " not found: " + id,
		stack:   CaptureStack(3),
	}
}

func NewStateConflictError(entity, message string) error {
	return &DomainError{
		Kind:    ErrStateConflict,
		Entity:  entity,
		Message: message,
		stack:   CaptureStack(3),
	}
}

// IsValidation, IsNotFound and IsStateConflict classify any wrapped error.
func IsValidation(err error) bool    { return errors.Is(err, ErrValidation) }
func IsNotFound(err error) bool      { return errors.Is(err, ErrNotFound) }
func IsStateConflict(err error) bool { return errors.Is(err, ErrStateConflict) }

// Stacker is implemented by errors that carry their origin stack.
type Stacker interface {
	Stack() []string
}
