package models

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePensionType(t *testing.T) {
	tests := []struct {
		in      string
		want    EnrollmentStatus
		wantErr bool
	}{
		{"가입", StatusEnrolled, false},
		{" 가입 ", StatusEnrolled, false},
		{"미가입", StatusNotEnrolled, false},
		{"ENROLLED", StatusEnrolled, false},
		{"not_enrolled", StatusNotEnrolled, false},
		{"", "", true},
		{"탈퇴", "", true},
	}

	for _, tc := range tests {
		got, err := ParsePensionType(tc.in)
		if tc.wantErr {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func decodeSkill(t *testing.T, body string) SkillRequest {
	t.Helper()
	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	dec.UseNumber()
	var req SkillRequest
	require.NoError(t, dec.Decode(&req))
	return req
}

func TestSkillRequest_Input(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"user_input wins", `{"utterance":"김철수10888888","action":{"params":{"user_input":" 홍길동10999999 "}}}`, "홍길동10999999"},
		{"falls back to utterance", `{"utterance":" 김철수10888888 ","action":{"params":{"user_input":"  "}}}`, "김철수10888888"},
		{"no params", `{"utterance":"김철수10888888"}`, "김철수10888888"},
		{"numeric user_input", `{"action":{"params":{"user_input":10999999}}}`, "10999999"},
		{"neither", `{}`, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := decodeSkill(t, tc.body)
			assert.Equal(t, tc.want, req.Input())
		})
	}
}

func TestNewSimpleTextResponse_Envelope(t *testing.T) {
	data, err := json.Marshal(NewSimpleTextResponse("안녕하세요"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"2.0","template":{"outputs":[{"simpleText":{"text":"안녕하세요"}}]}}`, string(data))
}
