package dataset

import (
	"strings"

	apperrors "pension-webhook/internal/common/errors"
	"pension-webhook/internal/models"
)

// ToRecord trims and validates one source row. row is the 1-based data row
// number used in error details.
func ToRecord(row int, raw models.RawEnrollmentRow) (models.EnrollmentRecord, error) {
	name := strings.TrimSpace(raw.Name)
	id := strings.TrimSpace(raw.ID)
	firm := strings.TrimSpace(raw.SecuritiesFirm)

	if name == "" {
		return models.EnrollmentRecord{}, apperrors.NewInvalidRecordError(row, "name is empty")
	}
	if id == "" {
		return models.EnrollmentRecord{}, apperrors.NewInvalidRecordError(row, "id is empty")
	}
	if !isDigits(id) {
		return models.EnrollmentRecord{}, apperrors.NewInvalidRecordError(row, "id must contain digits only: "+id)
	}

	status, err := models.ParsePensionType(raw.PensionType)
	if err != nil {
		return models.EnrollmentRecord{}, apperrors.NewInvalidRecordError(row, err.Error())
	}

	rec := models.EnrollmentRecord{Name: name, EmployeeID: id, Status: status}
	if status == models.StatusEnrolled {
		if firm == "" {
			return models.EnrollmentRecord{}, apperrors.NewInvalidRecordError(row, "securities_firm is required for enrolled rows")
		}
		rec.Brokerage = firm
	}
	return rec, nil
}

// ToRecords validates rows in order and stops at the first invalid one.
func ToRecords(rows []models.RawEnrollmentRow) ([]models.EnrollmentRecord, error) {
	records := make([]models.EnrollmentRecord, 0, len(rows))
	for i, raw := range rows {
		rec, err := ToRecord(i+1, raw)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
