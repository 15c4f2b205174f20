package lookup

import (
	"context"
	"errors"
	"fmt"

	"pension-webhook/internal/models"
)

var ErrDatasetUnavailable = errors.New("DATASET_UNAVAILABLE")

// Dataset is the read-only view the resolver needs. *dataset.Table satisfies it.
type Dataset interface {
	Lookup(ctx context.Context, name, employeeID string) (models.EnrollmentRecord, bool, error)
}

type Classification string

const (
	Enrolled    Classification = "enrolled"
	NotEnrolled Classification = "not_enrolled"
	NotEligible Classification = "not_eligible"
)

// Result is a successful classification. Brokerage is set only for Enrolled.
type Result struct {
	Classification Classification
	Brokerage      string
}

type Resolver struct {
	ds Dataset
}

func NewResolver(ds Dataset) *Resolver {
	return &Resolver{ds: ds}
}

// Resolve classifies q against the dataset. A missing dataset or a failed
// lookup is reported as ErrDatasetUnavailable.
func (r *Resolver) Resolve(ctx context.Context, q ParsedQuery) (Result, error) {
	if r == nil || r.ds == nil {
		return Result{}, fmt.Errorf("%w: no dataset", ErrDatasetUnavailable)
	}

	rec, ok, err := r.ds.Lookup(ctx, q.Name, q.EmployeeID)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrDatasetUnavailable, err)
	}
	if !ok {
		return Result{Classification: NotEligible}, nil
	}

	switch rec.Status {
	case models.StatusEnrolled:
		return Result{Classification: Enrolled, Brokerage: rec.Brokerage}, nil
	case models.StatusNotEnrolled:
		return Result{Classification: NotEnrolled}, nil
	default:
		return Result{}, fmt.Errorf("record %s/%s has unknown status %q", rec.Name, rec.EmployeeID, rec.Status)
	}
}
