package models

import (
	"fmt"
	"strings"
)

type EnrollmentStatus string

const (
	StatusEnrolled    EnrollmentStatus = "enrolled"
	StatusNotEnrolled EnrollmentStatus = "not_enrolled"
)

// pension_type values accepted from dataset rows
const (
	PensionTypeEnrolled    = "가입"
	PensionTypeNotEnrolled = "미가입"
)

// EnrollmentRecord is one employee row. Brokerage is set iff Status is StatusEnrolled.
type EnrollmentRecord struct {
	Name       string           `json:"name"`
	EmployeeID string           `json:"id"`
	Status     EnrollmentStatus `json:"status"`
	Brokerage  string           `json:"brokerage,omitempty"`
}

// Key returns the lookup key for the record.
func (r EnrollmentRecord) Key() RecordKey {
	return RecordKey{Name: r.Name, EmployeeID: r.EmployeeID}
}

// RecordKey identifies a record by the exact (name, employee id) pair.
type RecordKey struct {
	Name       string
	EmployeeID string
}

// ParsePensionType maps a source pension_type value to a status.
func ParsePensionType(value string) (EnrollmentStatus, error) {
	v := strings.TrimSpace(value)
	switch {
	case v == PensionTypeEnrolled, strings.EqualFold(v, string(StatusEnrolled)):
		return StatusEnrolled, nil
	case v == PensionTypeNotEnrolled, strings.EqualFold(v, string(StatusNotEnrolled)):
		return StatusNotEnrolled, nil
	}
	return "", fmt.Errorf("unknown pension_type %q", value)
}

// RawEnrollmentRow is the source-agnostic row shape shared by CSV, SQL,
// Redis and Elasticsearch sources.
type RawEnrollmentRow struct {
	Name           string `json:"name"`
	ID             string `json:"id"`
	PensionType    string `json:"pension_type"`
	SecuritiesFirm string `json:"securities_firm"`
}
