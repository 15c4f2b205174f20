package dataset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	"pension-webhook/internal/common/config"
	"pension-webhook/internal/models"
)

var ErrInvalidTableName = errors.New("INVALID_TABLE_NAME")

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// PostgresSource reads every row of an enrollment table with columns
// name, employee_id, pension_type, securities_firm.
type PostgresSource struct {
	db    *sql.DB
	query string
}

// NewPostgresSource rejects table names that are not plain (schema-qualified)
// identifiers since the name is interpolated into the query.
func NewPostgresSource(db *sql.DB, table string) (*PostgresSource, error) {
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTableName, table)
	}
	query := fmt.Sprintf(
		`SELECT name, employee_id, pension_type, COALESCE(securities_firm, '') FROM %s ORDER BY employee_id`,
		table,
	)
	return &PostgresSource{db: db, query: query}, nil
}

func (s *PostgresSource) Name() string { return config.SourcePostgres }

func (s *PostgresSource) Fetch(ctx context.Context) ([]models.RawEnrollmentRow, error) {
	rows, err := s.db.QueryContext(ctx, s.query)
	if err != nil {
		return nil, fmt.Errorf("query enrollments: %w", err)
	}
	defer rows.Close()

	var out []models.RawEnrollmentRow
	for rows.Next() {
		var r models.RawEnrollmentRow
		if err := rows.Scan(&r.Name, &r.ID, &r.PensionType, &r.SecuritiesFirm); err != nil {
			return nil, fmt.Errorf("scan enrollment row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate enrollment rows: %w", err)
	}
	return out, nil
}
