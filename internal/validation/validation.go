// Package validation carries field-level input errors from the domain
// packages up to the handlers, which flash them back to the form.
package validation

import (
	"errors"
	"sort"
	"strings"
)

// Errors maps a form field to its message.
type Errors map[string]string

func (e Errors) Add(field, msg string) {
	if _, exists := e[field]; !exists {
		e[field] = msg
	}
}

// Err returns nil when no field failed.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return &Error{Fields: e}
}

type Error struct {
	Fields Errors
}

func (e *Error) Error() string {
	return "validation failed: " + strings.Join(e.Messages(), "; ")
}

// Messages returns the field messages ordered by field name.
func (e *Error) Messages() []string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	msgs := make([]string, len(fields))
	for i, f := range fields {
		msgs[i] = e.Fields[f]
	}
	return msgs
}

// Field builds a single-field error.
func Field(field, msg string) error {
	return Errors{field: msg}.Err()
}

func As(err error) (*Error, bool) {
	var v *Error
	ok := errors.As(err, &v)
	return v, ok
}
