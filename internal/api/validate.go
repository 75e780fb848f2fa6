package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const questionsSchemaURL = "schema://questions.json"

// questionsSchema describes GET /api/tests/{id}/questions. The backend
// encodes an empty list as null.
const questionsSchema = `{
  "type": ["array", "null"],
  "items": {
    "type": "object",
    "required": ["id", "question_text", "question_type"],
    "properties": {
      "id": {"type": ["integer", "string"]},
      "test_id": {"type": ["integer", "string", "null"]},
      "question_text": {"type": "string"},
      "question_type": {"enum": ["open", "closed"]},
      "multiple_choice": {"type": ["boolean", "null"]},
      "difficulty": {"type": ["string", "null"]},
      "correct_answer_text": {"type": ["string", "null"]},
      "options": {
        "type": ["array", "null"],
        "items": {
          "type": "object",
          "required": ["id"],
          "properties": {
            "id": {"type": ["integer", "string"]},
            "option_text": {"type": ["string", "null"]},
            "is_correct": {"type": ["boolean", "null"]}
          }
        }
      }
    }
  }
}`

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func questionsValidator() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(questionsSchema))
		if err != nil {
			compileErr = fmt.Errorf("parse questions schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(questionsSchemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(questionsSchemaURL)
	})
	return compiledSchema, compileErr
}

// validateQuestions checks a raw questions payload against the schema.
func validateQuestions(raw json.RawMessage) error {
	schema, err := questionsValidator()
	if err != nil {
		return err
	}
	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
