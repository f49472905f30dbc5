package doctor

import (
	"context"
	"fmt"
	"sort"

	"github.com/ehr/hospital/internal/platform/gateway"
)

type repoGateway struct {
	gw gateway.Gateway
}

// NewRepo returns a Repository backed by gw.
func NewRepo(gw gateway.Gateway) Repository {
	return &repoGateway{gw: gw}
}

func (r *repoGateway) selectDoctors(ctx context.Context, q gateway.Query) ([]*Doctor, error) {
	q.Table = Table
	rows, err := r.gw.Select(ctx, q)
	if err != nil {
		return nil, err
	}
	return gateway.DecodeAll[Doctor](rows)
}

func (r *repoGateway) Create(ctx context.Context, d *Doctor) error {
	stored, err := r.gw.Insert(ctx, Table, d.row())
	if err != nil {
		return err
	}
	var created Doctor
	if err := gateway.Decode(stored, &created); err != nil {
		return fmt.Errorf("decode created doctor: %w", err)
	}
	d.ID = created.ID
	return nil
}

func (r *repoGateway) GetByID(ctx context.Context, id int64) (*Doctor, error) {
	found, err := r.selectDoctors(ctx, gateway.Query{
		Filters: []gateway.Filter{gateway.Eq(ColID, id)},
		Limit:   1,
	})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, ErrNotFound
	}
	return found[0], nil
}

func (r *repoGateway) List(ctx context.Context) ([]*Doctor, error) {
	return r.selectDoctors(ctx, gateway.Query{OrderBy: ColID})
}

func (r *repoGateway) ListByName(ctx context.Context, name string) ([]*Doctor, error) {
	return r.selectDoctors(ctx, gateway.Query{
		Filters: []gateway.Filter{gateway.Eq(ColName, name)},
	})
}

func (r *repoGateway) ListByDepartment(ctx context.Context, department string) ([]*Doctor, error) {
	return r.selectDoctors(ctx, gateway.Query{
		Filters: []gateway.Filter{gateway.Eq(ColDepartment, department)},
	})
}

func (r *repoGateway) Departments(ctx context.Context) ([]string, error) {
	found, err := r.selectDoctors(ctx, gateway.Query{Columns: []string{ColDepartment}})
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	departments := []string{}
	for _, d := range found {
		if d.Department == "" || seen[d.Department] {
			continue
		}
		seen[d.Department] = true
		departments = append(departments, d.Department)
	}
	sort.Strings(departments)
	return departments, nil
}

func (r *repoGateway) SearchByName(ctx context.Context, term string) ([]*Doctor, error) {
	return r.selectDoctors(ctx, gateway.Query{
		Filters: []gateway.Filter{gateway.Contains(ColName, term)},
		OrderBy: ColName,
	})
}

func (r *repoGateway) Delete(ctx context.Context, id int64) error {
	_, err := r.gw.Delete(ctx, Table, gateway.Eq(ColID, id))
	return err
}
