package visit

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no visit has the requested record id.
var ErrNotFound = errors.New("visit not found")

type Repository interface {
	Create(ctx context.Context, v *Visit) error
	GetByID(ctx context.Context, id int64) (*Visit, error)
	// List returns every visit. When columns is non-empty only those columns
	// are fetched and the other fields stay zero.
	List(ctx context.Context, columns ...string) ([]*Visit, error)
	ListByPaymentMethod(ctx context.Context, method string, columns ...string) ([]*Visit, error)
	// UpdateClinicalNotes overwrites the clinical fields of one visit and
	// reports how many rows matched.
	UpdateClinicalNotes(ctx context.Context, id int64, notes ClinicalNotes) (int64, error)
	// ReassignDoctor repoints every visit of doctor from to doctor to.
	ReassignDoctor(ctx context.Context, from, to int64) (int64, error)
}
