package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSkillRequest(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		valid bool
		field string
	}{
		{"user_input string", `{"action":{"params":{"user_input":"홍길동10999999"}}}`, true, ""},
		{"user_input number", `{"action":{"params":{"user_input":10999999}}}`, true, ""},
		{"top-level utterance", `{"utterance":"김철수10888888"}`, true, ""},
		{"empty object", `{}`, true, ""},
		{"null action", `{"action":null,"utterance":"홍길동10999999"}`, true, ""},
		{"null params", `{"action":{"params":null},"utterance":"홍길동10999999"}`, true, ""},
		{"extra fields allowed", `{"bot":{"id":"x"},"utterance":"a1"}`, true, ""},
		{"array body", `[1,2]`, false, "(root)"},
		{"utterance wrong type", `{"utterance":{"text":"x"}}`, false, "utterance"},
		{"params wrong type", `{"action":{"params":"x"}}`, false, "action.params"},
		{"user_input bool", `{"action":{"params":{"user_input":true}}}`, false, "action.params.user_input"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ValidateSkillRequest([]byte(tc.body))
			require.NoError(t, err)
			assert.Equal(t, tc.valid, result.Valid, result.GetErrorMessages())
			if tc.field != "" {
				assert.True(t, hasFieldError(result, tc.field), result.GetErrorMessages())
			}
		})
	}
}

func TestValidateSkillRequest_NotJSON(t *testing.T) {
	_, err := ValidateSkillRequest([]byte(`{"utterance":`))
	assert.Error(t, err)
}

func hasFieldError(result *ValidationResult, field string) bool {
	for _, e := range result.Errors {
		if e.Field == field {
			return true
		}
	}
	return false
}
