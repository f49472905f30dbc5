package doctor

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no doctor has the requested identifier.
var ErrNotFound = errors.New("doctor not found")

type Repository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id int64) (*Doctor, error)
	List(ctx context.Context) ([]*Doctor, error)
	// ListByName returns every doctor whose name equals name exactly.
	ListByName(ctx context.Context, name string) ([]*Doctor, error)
	ListByDepartment(ctx context.Context, department string) ([]*Doctor, error)
	// Departments returns the distinct non-empty departments in ascending
	// order.
	Departments(ctx context.Context) ([]string, error)
	SearchByName(ctx context.Context, term string) ([]*Doctor, error)
	Delete(ctx context.Context, id int64) error
}
