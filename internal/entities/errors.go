// Package entities maps extracted intent and entity bags onto student profiles, factor lists and program filters.
package entities

import "fmt"

// ParseError records an entity value that could not be coerced into a profile
// field. It is never fatal: the field is left unset and ranking proceeds.
type ParseError struct {
	Entity  string
	Value   string
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s=%q: %s: %v", e.Entity, e.Value, e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s=%q: %s", e.Entity, e.Value, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
