// Package programs builds and serves the cleaned, immutable set of program records that ranking runs against.
package programs

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotLoaded is returned when a catalog is read before its first load.
var ErrNotLoaded = errors.New("program catalog has not been loaded")

// DataError represents an empty or malformed program row set. It is fatal to a load.
type DataError struct {
	Message string
	Row     int // index of the offending row, -1 when not row-specific
	Cause   error
}

func (e *DataError) Error() string {
	msg := e.Message
	if e.Row >= 0 {
		msg = fmt.Sprintf("row %d: %s", e.Row, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("data error: %s: %v", msg, e.Cause)
	}
	return fmt.Sprintf("data error: %s", msg)
}

func (e *DataError) Unwrap() error {
	return e.Cause
}

// FieldError indicates a field ranking was requested for an unknown or non-numeric field.
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q not found in program data", e.Field)
}

// GroupError indicates statistics were requested for an unknown grouping.
type GroupError struct {
	Group string
	Known []string
}

func (e *GroupError) Error() string {
	return fmt.Sprintf("unknown statistics group %q (known: %s)", e.Group, strings.Join(e.Known, ", "))
}
