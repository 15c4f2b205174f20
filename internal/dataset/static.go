package dataset

import (
	"context"

	"pension-webhook/internal/common/config"
	"pension-webhook/internal/models"
)

// SampleRows is the built-in table served by the static source.
var SampleRows = []models.RawEnrollmentRow{
	{Name: "홍길동", ID: "10999999", PensionType: models.PensionTypeEnrolled, SecuritiesFirm: "신한투자증권"},
	{Name: "김철수", ID: "10888888", PensionType: models.PensionTypeNotEnrolled},
}

type StaticSource struct {
	rows []models.RawEnrollmentRow
}

// NewStaticSource serves rows, or SampleRows when none are given.
func NewStaticSource(rows ...models.RawEnrollmentRow) *StaticSource {
	if len(rows) == 0 {
		rows = SampleRows
	}
	return &StaticSource{rows: rows}
}

func (s *StaticSource) Name() string { return config.SourceStatic }

func (s *StaticSource) Fetch(context.Context) ([]models.RawEnrollmentRow, error) {
	out := make([]models.RawEnrollmentRow, len(s.rows))
	copy(out, s.rows)
	return out, nil
}
