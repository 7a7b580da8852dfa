package store

import (
	"errors"
	"fmt"
)

// Kind classifies a failure reported by a data backend.
type Kind string

const (
	KindNotFound    Kind = "not_found"
	KindConflict    Kind = "conflict"
	KindInvalid     Kind = "invalid"
	KindUnavailable Kind = "unavailable"
)

// Error is returned by every Client operation that fails.
type Error struct {
	Kind  Kind
	Table string
	Op    string
	Err   error
}

// Sentinels for errors.Is. Only the Kind is compared.
var (
	ErrNotFound    = &Error{Kind: KindNotFound}
	ErrConflict    = &Error{Kind: KindConflict}
	ErrInvalid     = &Error{Kind: KindInvalid}
	ErrUnavailable = &Error{Kind: KindUnavailable}
)

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Table != "" {
		msg = fmt.Sprintf("%s %s: %s", e.Op, e.Table, e.Kind)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return "store: " + msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func newError(kind Kind, op, table string, err error) *Error {
	return &Error{Kind: kind, Table: table, Op: op, Err: err}
}

// IsNotFound reports whether err is a not-found store error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
