package models

import (
	"encoding/json"
	"strings"
)

// SkillVersion is the chat platform's response envelope version.
const SkillVersion = "2.0"

// SkillRequest holds the fields of a skill payload the webhook reads.
type SkillRequest struct {
	Utterance string      `json:"utterance"`
	Action    SkillAction `json:"action"`
}

type SkillAction struct {
	Params map[string]interface{} `json:"params"`
}

// UserInput returns action.params.user_input as trimmed text. Numbers are
// rendered as-is when the body was decoded with UseNumber.
func (r *SkillRequest) UserInput() string {
	switch v := r.Action.Params["user_input"].(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

// Input returns the first non-empty of user_input and utterance.
func (r *SkillRequest) Input() string {
	if in := r.UserInput(); in != "" {
		return in
	}
	return strings.TrimSpace(r.Utterance)
}

type SkillResponse struct {
	Version  string        `json:"version"`
	Template SkillTemplate `json:"template"`
}

type SkillTemplate struct {
	Outputs []SkillOutput `json:"outputs"`
}

type SkillOutput struct {
	SimpleText SimpleText `json:"simpleText"`
}

type SimpleText struct {
	Text string `json:"text"`
}

// NewSimpleTextResponse wraps text in the template envelope.
func NewSimpleTextResponse(text string) SkillResponse {
	return SkillResponse{
		Version: SkillVersion,
		Template: SkillTemplate{
			Outputs: []SkillOutput{{SimpleText: SimpleText{Text: text}}},
		},
	}
}
