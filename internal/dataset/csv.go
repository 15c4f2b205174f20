package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"pension-webhook/internal/common/config"
	"pension-webhook/internal/models"
)

var ErrMissingColumn = errors.New("MISSING_COLUMN")

// CSV header names. employee_id is accepted as an alias for id.
const (
	ColumnName           = "name"
	ColumnID             = "id"
	ColumnPensionType    = "pension_type"
	ColumnSecuritiesFirm = "securities_firm"
)

var columnAliases = map[string]string{
	"employee_id": ColumnID,
}

// ParseCSV reads a header row followed by data rows. securities_firm may be
// omitted from the header; every other column is required. Extra columns are
// ignored.
func ParseCSV(r io.Reader) ([]models.RawEnrollmentRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty csv", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		col = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))
		if alias, ok := columnAliases[col]; ok {
			col = alias
		}
		index[col] = i
	}
	for _, required := range []string{ColumnName, ColumnID, ColumnPensionType} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}

	field := func(record []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	var rows []models.RawEnrollmentRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", len(rows)+1, err)
		}
		if isBlank(record) {
			continue
		}
		rows = append(rows, models.RawEnrollmentRow{
			Name:           field(record, ColumnName),
			ID:             field(record, ColumnID),
			PensionType:    field(record, ColumnPensionType),
			SecuritiesFirm: field(record, ColumnSecuritiesFirm),
		})
	}
	return rows, nil
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// FileCSVSource reads the table from a local CSV file.
type FileCSVSource struct {
	path string
}

func NewFileCSVSource(path string) *FileCSVSource {
	return &FileCSVSource{path: path}
}

func (s *FileCSVSource) Name() string { return config.SourceCSVFile }

func (s *FileCSVSource) Fetch(context.Context) ([]models.RawEnrollmentRow, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open dataset file: %w", err)
	}
	defer f.Close()
	return ParseCSV(f)
}
