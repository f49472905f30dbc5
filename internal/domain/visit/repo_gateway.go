package visit

import (
	"context"
	"fmt"

	"github.com/ehr/hospital/internal/platform/gateway"
)

type repoGateway struct {
	gw gateway.Gateway
}

// NewRepo returns a Repository backed by gw.
func NewRepo(gw gateway.Gateway) Repository {
	return &repoGateway{gw: gw}
}

func (r *repoGateway) Create(ctx context.Context, v *Visit) error {
	stored, err := r.gw.Insert(ctx, Table, v.row())
	if err != nil {
		return err
	}
	var created Visit
	if err := gateway.Decode(stored, &created); err != nil {
		return fmt.Errorf("decode created visit: %w", err)
	}
	v.ID = created.ID
	return nil
}

func (r *repoGateway) GetByID(ctx context.Context, id int64) (*Visit, error) {
	rows, err := r.gw.Select(ctx, gateway.Query{
		Table:   Table,
		Filters: []gateway.Filter{gateway.Eq(ColID, id)},
		Limit:   1,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	var v Visit
	if err := gateway.Decode(rows[0], &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *repoGateway) List(ctx context.Context, columns ...string) ([]*Visit, error) {
	rows, err := r.gw.Select(ctx, gateway.Query{
		Table:      Table,
		Columns:    columns,
		OrderBy:    ColVisitDate,
		Descending: true,
	})
	if err != nil {
		return nil, err
	}
	return gateway.DecodeAll[Visit](rows)
}

func (r *repoGateway) ListByPaymentMethod(ctx context.Context, method string, columns ...string) ([]*Visit, error) {
	rows, err := r.gw.Select(ctx, gateway.Query{
		Table:      Table,
		Columns:    columns,
		Filters:    []gateway.Filter{gateway.Eq(ColPaymentMethod, method)},
		OrderBy:    ColVisitDate,
		Descending: true,
	})
	if err != nil {
		return nil, err
	}
	return gateway.DecodeAll[Visit](rows)
}

func (r *repoGateway) UpdateClinicalNotes(ctx context.Context, id int64, notes ClinicalNotes) (int64, error) {
	return r.gw.Update(ctx, Table, notes.row(), gateway.Eq(ColID, id))
}

func (r *repoGateway) ReassignDoctor(ctx context.Context, from, to int64) (int64, error) {
	return r.gw.Update(ctx, Table, gateway.Row{ColDoctorID: to}, gateway.Eq(ColDoctorID, from))
}
