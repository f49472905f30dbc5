package patient

import (
	"context"
	"fmt"
	"strings"

	"github.com/ehr/hospital/internal/platform/validation"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Genders accepted at intake.
var Genders = []string{"M", "F"}

func validate(p *Patient) error {
	return validation.First(
		validation.Required(ColFirstName, p.FirstName),
		validation.Required(ColLastName, p.LastName),
		validation.NonNegative(ColAge, p.Age),
		validation.OneOf(ColGender, p.Gender, Genders...),
		validation.NonNegative(ColHeight, p.Height),
		validation.NonNegative(ColWeight, p.Weight),
	)
}

func (s *Service) CreatePatient(ctx context.Context, p *Patient) error {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	if p.InsuranceProvider != nil && strings.TrimSpace(*p.InsuranceProvider) == "" {
		p.InsuranceProvider = nil
	}
	if err := validate(p); err != nil {
		return err
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) GetPatient(ctx context.Context, id int64) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListPatients(ctx context.Context) ([]*Patient, error) {
	return s.repo.List(ctx)
}

func (s *Service) SearchPatients(ctx context.Context, term string) ([]*Patient, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, validation.New("q", "enter a name to search")
	}
	return s.repo.Search(ctx, term)
}

// LookupPatients returns id and name matches for the visit intake picker.
func (s *Service) LookupPatients(ctx context.Context, name string) ([]*Summary, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validation.New("name", "enter a name to search")
	}
	return s.repo.SearchSummaries(ctx, name)
}

func (s *Service) DeletePatient(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// DeletePatients deletes ids in order and stops at the first failure. The
// ids deleted before the failure are returned alongside the error.
func (s *Service) DeletePatients(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, validation.New("ids", "select at least one patient")
	}
	deleted := make([]int64, 0, len(ids))
	for _, id := range ids {
		if err := s.repo.Delete(ctx, id); err != nil {
			return deleted, fmt.Errorf("delete patient %d: %w", id, err)
		}
		deleted = append(deleted, id)
	}
	return deleted, nil
}
