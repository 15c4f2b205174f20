package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// SkillRequestSchema describes the subset of the chat platform's skill
// payload the webhook reads. Unknown fields are allowed.
const SkillRequestSchema = `{
  "type": "object",
  "properties": {
    "utterance": {"type": ["string", "null"]},
    "action": {
      "type": ["object", "null"],
      "properties": {
        "params": {
          "type": ["object", "null"],
          "properties": {
            "user_input": {"type": ["string", "number", "null"]}
          }
        }
      }
    }
  }
}`

var skillRequestLoader = gojsonschema.NewStringLoader(SkillRequestSchema)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ValidateSkillRequest validates a raw JSON request body against SkillRequestSchema.
// A body that is not JSON at all is reported as an error, not an invalid result.
func ValidateSkillRequest(body []byte) (*ValidationResult, error) {
	return ValidateJSON(skillRequestLoader, body)
}

// ValidateJSON validates body against schema.
func ValidateJSON(schema gojsonschema.JSONLoader, body []byte) (*ValidationResult, error) {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, re := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   re.Field(),
			Message: re.Description(),
			Code:    strings.ToUpper(re.Type()),
		})
	}
	return out, nil
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}
