// internal/vision/answers.go
package vision

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/mwiater/cryptic/internal/clues"
)

// ErrEmptyResponse is returned when the model sends back no text.
var ErrEmptyResponse = errors.New("empty model response")

const answersSchema = `{
  "type": "object",
  "properties": {
    "across": {"$ref": "#/definitions/answers"},
    "down": {"$ref": "#/definitions/answers"}
  },
  "definitions": {
    "answers": {
      "type": "object",
      "patternProperties": {
        "^[0-9]+$": {"type": ["string", "null"]}
      },
      "additionalProperties": false
    }
  }
}`

var answersLoader = gojsonschema.NewStringLoader(answersSchema)

// stripFences returns the body of the first ```json or ``` block, or the
// whole text when there is none.
func stripFences(text string) string {
	if _, after, ok := strings.Cut(text, "```json"); ok {
		body, _, _ := strings.Cut(after, "```")
		return strings.TrimSpace(body)
	}
	if _, after, ok := strings.Cut(text, "```"); ok {
		body, _, _ := strings.Cut(after, "```")
		return strings.TrimSpace(body)
	}
	return strings.TrimSpace(text)
}

// ParseAnswers decodes a model reply of the form
// {"across":{"1":"ANSWER"},"down":{...}}. Null and blank answers are dropped.
func ParseAnswers(text string) (clues.Answers, error) {
	body := stripFences(text)
	if body == "" {
		return nil, ErrEmptyResponse
	}

	result, err := gojsonschema.Validate(answersLoader, gojsonschema.NewStringLoader(body))
	if err != nil {
		return nil, fmt.Errorf("parse answers JSON: %w", err)
	}
	if !result.Valid() {
		var details []string
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return nil, fmt.Errorf("answers failed validation: %s", strings.Join(details, "; "))
	}

	var raw struct {
		Across map[string]*string `json:"across"`
		Down   map[string]*string `json:"down"`
	}
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil, fmt.Errorf("parse answers JSON: %w", err)
	}
	byDirection := map[clues.Direction]map[string]*string{
		clues.Across: raw.Across,
		clues.Down:   raw.Down,
	}

	answers := clues.Answers{}
	for _, d := range clues.Directions {
		found := make(map[int]string)
		for key, value := range byDirection[d] {
			if value == nil || strings.TrimSpace(*value) == "" {
				continue
			}
			n, err := strconv.Atoi(key)
			if err != nil {
				return nil, fmt.Errorf("%s answer key %q is not a number", d, key)
			}
			found[n] = strings.TrimSpace(*value)
		}
		answers[d] = found
	}
	return answers, nil
}
