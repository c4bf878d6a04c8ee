// Package schemas embeds the JSON Schemas for program rows, student profiles and recommendation output.
package schemas

import (
	"embed"
	"fmt"
)

// Schema file names.
const (
	ProgramRows     = "program_rows.schema.json"
	StudentProfile  = "student_profile.schema.json"
	Recommendations = "recommendations.schema.json"
)

//go:embed *.schema.json
var files embed.FS

// Read returns the content of an embedded schema.
func Read(name string) (string, error) {
	data, err := files.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("schema %s not embedded: %w", name, err)
	}
	return string(data), nil
}

// Names lists every embedded schema.
func Names() []string {
	return []string{ProgramRows, StudentProfile, Recommendations}
}
