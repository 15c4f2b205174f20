// Package dataset loads the enrollment table from a configured source and
// serves read-only lookups against it.
package dataset

import (
	"context"
	"errors"
	"sort"

	apperrors "pension-webhook/internal/common/errors"
	"pension-webhook/internal/models"
)

var ErrDatasetNotLoaded = errors.New("DATASET_NOT_LOADED")

// Table is an immutable (name, employee id) -> record map. It is safe for
// concurrent use once built.
type Table struct {
	records map[models.RecordKey]models.EnrollmentRecord
	source  string
}

// NewTable builds a table from already-validated records. A duplicate
// (name, employee id) pair or a record whose brokerage does not agree with
// its status fails the build.
func NewTable(records []models.EnrollmentRecord) (*Table, error) {
	t := &Table{records: make(map[models.RecordKey]models.EnrollmentRecord, len(records))}
	for i, rec := range records {
		switch rec.Status {
		case models.StatusEnrolled:
			if rec.Brokerage == "" {
				return nil, apperrors.NewInvalidRecordError(i+1, "enrolled record without brokerage")
			}
		case models.StatusNotEnrolled:
			if rec.Brokerage != "" {
				return nil, apperrors.NewInvalidRecordError(i+1, "not-enrolled record with brokerage")
			}
		default:
			return nil, apperrors.NewInvalidRecordError(i+1, "unknown status "+string(rec.Status))
		}

		key := rec.Key()
		if _, exists := t.records[key]; exists {
			return nil, apperrors.NewDuplicateRecordError(rec.Name, rec.EmployeeID)
		}
		t.records[key] = rec
	}
	return t, nil
}

// Lookup returns the record for the exact pair. A nil table reports
// ErrDatasetNotLoaded.
func (t *Table) Lookup(_ context.Context, name, employeeID string) (models.EnrollmentRecord, bool, error) {
	if t == nil || t.records == nil {
		return models.EnrollmentRecord{}, false, ErrDatasetNotLoaded
	}
	rec, ok := t.records[models.RecordKey{Name: name, EmployeeID: employeeID}]
	return rec, ok, nil
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

// Source names the source type the table was loaded from, if any.
func (t *Table) Source() string {
	if t == nil {
		return ""
	}
	return t.source
}

// Records returns a copy of all records ordered by employee id, then name.
func (t *Table) Records() []models.EnrollmentRecord {
	if t == nil {
		return nil
	}
	out := make([]models.EnrollmentRecord, 0, len(t.records))
	for _, rec := range t.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EmployeeID != out[j].EmployeeID {
			return out[i].EmployeeID < out[j].EmployeeID
		}
		return out[i].Name < out[j].Name
	})
	return out
}
