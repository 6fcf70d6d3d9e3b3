// internal/dataset/schema.go
package dataset

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// benchmarkSchema describes a completed puzzle file as written by the
// extraction pipeline.
const benchmarkSchema = `{
  "type": "object",
  "required": ["across", "down"],
  "properties": {
    "metadata": {
      "type": "object",
      "properties": {
        "puzzle_name": {"type": ["string", "null"]},
        "date": {"type": ["string", "null"]}
      }
    },
    "across": {"$ref": "#/definitions/entries"},
    "down": {"$ref": "#/definitions/entries"}
  },
  "definitions": {
    "entries": {
      "type": "object",
      "patternProperties": {
        "^[0-9]+$": {
          "type": "object",
          "required": ["clue", "answer_length"],
          "properties": {
            "clue": {"type": "string", "minLength": 1},
            "answer_length": {
              "type": "array",
              "items": {"type": "integer", "minimum": 1}
            },
            "answer": {"type": ["string", "null"]}
          }
        }
      },
      "additionalProperties": false
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(benchmarkSchema)

// Validate checks raw benchmark JSON against the benchmark file schema.
func Validate(data []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}
	var details []string
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}
	return fmt.Errorf("benchmark file failed validation: %s", strings.Join(details, "; "))
}
