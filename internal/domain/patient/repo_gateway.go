package patient

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

func (r *repoGateway) Create(ctx context.Context, p *Patient) error {
	stored, err := r.gw.Insert(ctx, Table, p.row())
	if err != nil {
		return err
	}
	var created Patient
	if err := gateway.Decode(stored, &created); err != nil {
		return fmt.Errorf("decode created patient: %w", err)
	}
	p.ID = created.ID
	return nil
}

func (r *repoGateway) GetByID(ctx context.Context, id int64) (*Patient, error) {
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
	var p Patient
	if err := gateway.Decode(rows[0], &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repoGateway) List(ctx context.Context) ([]*Patient, error) {
	rows, err := r.gw.Select(ctx, gateway.Query{Table: Table, OrderBy: ColID})
	if err != nil {
		return nil, err
	}
	return gateway.DecodeAll[Patient](rows)
}

func nameFilters(term string) []gateway.Filter {
	return []gateway.Filter{
		gateway.Contains(ColFirstName, term),
		gateway.Contains(ColLastName, term),
	}
}

func (r *repoGateway) Search(ctx context.Context, term string) ([]*Patient, error) {
	rows, err := r.gw.Select(ctx, gateway.Query{Table: Table, Any: nameFilters(term), OrderBy: ColID})
	if err != nil {
		return nil, err
	}
	return gateway.DecodeAll[Patient](rows)
}

func (r *repoGateway) SearchSummaries(ctx context.Context, term string) ([]*Summary, error) {
	rows, err := r.gw.Select(ctx, gateway.Query{
		Table:   Table,
		Columns: []string{ColID, ColFirstName, ColLastName},
		Any:     nameFilters(term),
		OrderBy: ColID,
	})
	if err != nil {
		return nil, err
	}
	return gateway.DecodeAll[Summary](rows)
}

func (r *repoGateway) Delete(ctx context.Context, id int64) error {
	_, err := r.gw.Delete(ctx, Table, gateway.Eq(ColID, id))
	return err
}
