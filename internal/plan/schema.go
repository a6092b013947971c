package plan

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/kaptinlin/jsonschema"
)

// schemaJSON describes the parts of a plan the generator depends on.
// Free-text fields may be a string or a list (see Text).
const schemaJSON = `{
  "type": "object",
  "required": ["project_structure"],
  "properties": {
    "project_overview": {"type": ["object", "string", "null"]},
    "technical_requirements": {"type": ["object", "string", "null"]},
    "implementation_strategy": {"type": ["object", "string", "array", "null"]},
    "file_breakdown": {"type": ["string", "array", "object", "null"]},
    "project_structure": {
      "type": "object",
      "required": ["root_directory"],
      "properties": {
        "root_directory": {"type": "string", "minLength": 1},
        "description": {"type": ["string", "array", "null"]},
        "folders": {"type": ["string", "array", "null"]}
      }
    }
  }
}`

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.NewCompiler().Compile([]byte(schemaJSON))
	})
	return schema, schemaErr
}

// Validate checks raw plan JSON against the plan schema. Every violation is
// listed in the returned error, which wraps ErrInvalid.
func Validate(data []byte) error {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("plan: compile schema: %w", err)
	}
	result := s.Validate(doc)
	if result.IsValid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors))
	for keyword, e := range result.Errors {
		msgs = append(msgs, fmt.Sprintf("%s: %v", keyword, e))
	}
	if len(msgs) == 0 {
		msgs = append(msgs, "document does not match plan schema")
	}
	sort.Strings(msgs)
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}
