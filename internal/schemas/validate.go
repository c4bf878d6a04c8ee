// Package schemas provides JSON Schema validation for program fixtures, profiles and recommendation output.
package schemas

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	embedded "github.com/jonathan/college-recommender/schemas"
)

// MaxReported caps how many violations an error message lists. A rows file
// with a systematic mistake fails on every row.
const MaxReported = 10

// Violation is one schema failure at a document path such as "3.fee".
type Violation struct {
	Path    string
	Message string
}

// ValidationError lists the violations found in a document.
type ValidationError struct {
	Schema     string
	Violations []Violation
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "document does not match %s (%d problems)", e.Schema, len(e.Violations))
	for i, v := range e.Violations {
		if i == MaxReported {
			fmt.Fprintf(&sb, "; ... and %d more", len(e.Violations)-MaxReported)
			break
		}
		fmt.Fprintf(&sb, "; %s: %s", v.Path, v.Message)
	}
	return sb.String()
}

// SchemaLoadError means the schema itself, or a document that is not JSON,
// could not be processed.
type SchemaLoadError struct {
	Name  string
	Cause error
}

func (e *SchemaLoadError) Error() string {
	return fmt.Sprintf("cannot validate against %s: %v", e.Name, e.Cause)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// ValidateDocument checks document against one of the embedded schemas
// (embedded.ProgramRows, embedded.StudentProfile, embedded.Recommendations).
func ValidateDocument(schemaName string, document []byte) error {
	schemaContent, err := embedded.Read(schemaName)
	if err != nil {
		return &SchemaLoadError{Name: schemaName, Cause: err}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schemaContent),
		gojsonschema.NewBytesLoader(document),
	)
	if err != nil {
		return &SchemaLoadError{Name: schemaName, Cause: err}
	}
	if result.Valid() {
		return nil
	}

	violations := make([]Violation, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		path := desc.Field()
		if path == "" || path == "(root)" {
			path = "document"
		}
		violations = append(violations, Violation{Path: path, Message: desc.Description()})
	}
	return &ValidationError{Schema: schemaName, Violations: violations}
}
