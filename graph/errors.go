package graph

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a graph mutation failure. Cycle-detected and
// Cancelled live in the traversal/execution packages respectively since
// they aren't graph-mutation outcomes.
type ErrorKind int

const (
	ErrInvalidArgument ErrorKind = iota
	ErrNotFound
	ErrDirectionMismatch
	ErrTypeIncompatible
	ErrCapacityExceeded
	ErrWouldCreateCycle
	ErrConcurrentModification
	ErrInvalidState
)

func (k ErrorKind) String() string {
	switch k {
	case ErrInvalidArgument:
		return "invalid argument"
	case ErrNotFound:
		return "not found"
	case ErrDirectionMismatch:
		return "direction mismatch"
	case ErrTypeIncompatible:
		return "type incompatible"
	case ErrCapacityExceeded:
		return "capacity exceeded"
	case ErrWouldCreateCycle:
		return "would create cycle"
	case ErrConcurrentModification:
		return "concurrent modification"
	case ErrInvalidState:
		return "invalid state"
	default:
		return "unknown"
	}
}

// Error is the error type returned by graph mutation failures. Compare
// against a kind with IsKind (which uses errors.As), not string matching.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// newErr builds a *Error with a formatted message.
func newErr(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err is a *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var ge *Error
	if !errors.As(err, &ge) {
		return false
	}
	return ge.Kind == kind
}
