package programs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/college-recommender/internal/schemas"
	"github.com/jonathan/college-recommender/internal/types"
	embedded "github.com/jonathan/college-recommender/schemas"
)

// FileSource reads program rows from a JSON fixture file (an array of rows).
type FileSource struct {
	Path string
}

// Name implements Source.
func (s *FileSource) Name() string { return "file" }

// LoadRows implements Source.
func (s *FileSource) LoadRows(_ context.Context) ([]types.RawProgram, error) {
	return LoadRowsFile(s.Path)
}

// LoadRowsFile reads and schema-validates a JSON array of program rows.
func LoadRowsFile(path string) ([]types.RawProgram, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read program rows file %s: %w", path, err)
	}
	return ParseRows(content)
}

// ParseRows schema-validates and decodes a JSON array of program rows.
func ParseRows(content []byte) ([]types.RawProgram, error) {
	if err := schemas.ValidateDocument(embedded.ProgramRows, content); err != nil {
		return nil, &DataError{Message: "program rows failed schema validation", Row: -1, Cause: err}
	}

	var rows []types.RawProgram
	if err := json.Unmarshal(content, &rows); err != nil {
		return nil, &DataError{Message: "failed to unmarshal program rows", Row: -1, Cause: err}
	}
	return rows, nil
}
