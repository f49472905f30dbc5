package patient

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no patient has the requested identifier.
var ErrNotFound = errors.New("patient not found")

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id int64) (*Patient, error)
	List(ctx context.Context) ([]*Patient, error)
	// Search matches term as a case-insensitive substring of the first or
	// last name.
	Search(ctx context.Context, term string) ([]*Patient, error)
	SearchSummaries(ctx context.Context, term string) ([]*Summary, error)
	Delete(ctx context.Context, id int64) error
}
