package doctor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ehr/hospital/internal/platform/validation"
)

// VisitReassigner repoints every visit of one doctor to another and reports
// how many visits moved.
type VisitReassigner interface {
	ReassignDoctor(ctx context.Context, from, to int64) (int64, error)
}

type Service struct {
	repo       Repository
	visits     VisitReassigner
	sentinelID int64
	log        zerolog.Logger
}

func NewService(repo Repository, visits VisitReassigner, sentinelID int64, log zerolog.Logger) *Service {
	return &Service{repo: repo, visits: visits, sentinelID: sentinelID, log: log}
}

// SentinelID is the placeholder doctor resolved at startup.
func (s *Service) SentinelID() int64 {
	return s.sentinelID
}

func (s *Service) CreateDoctor(ctx context.Context, d *Doctor) error {
	d.Name = strings.TrimSpace(d.Name)
	d.Specialty = strings.TrimSpace(d.Specialty)
	d.Department = strings.TrimSpace(d.Department)
	if err := validation.First(
		validation.Required(ColName, d.Name),
		validation.Required(ColSpecialty, d.Specialty),
		validation.Required(ColDepartment, d.Department),
	); err != nil {
		return err
	}
	return s.repo.Create(ctx, d)
}

func (s *Service) GetDoctor(ctx context.Context, id int64) (*Doctor, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListDoctors(ctx context.Context) ([]*Doctor, error) {
	return s.repo.List(ctx)
}

func (s *Service) SearchByName(ctx context.Context, term string) ([]*Doctor, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, validation.New("name", "enter a name to search")
	}
	return s.repo.SearchByName(ctx, term)
}

func (s *Service) ListByDepartment(ctx context.Context, department string) ([]*Doctor, error) {
	department = strings.TrimSpace(department)
	if department == "" {
		return nil, validation.New("department", "choose a department")
	}
	return s.repo.ListByDepartment(ctx, department)
}

func (s *Service) Departments(ctx context.Context) ([]string, error) {
	return s.repo.Departments(ctx)
}

// DeleteWithReassignment removes the selected doctors one by one. Each
// doctor's visits are repointed to the sentinel before the doctor row is
// deleted, so an interruption never leaves a visit referencing a missing
// doctor. The first error stops the batch; the report says which doctors
// were removed and which remain.
func (s *Service) DeleteWithReassignment(ctx context.Context, ids []int64) (*DeletionReport, error) {
	selected, err := s.checkSelection(ids)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByID(ctx, s.sentinelID); err != nil {
		if errors.Is(err, ErrNotFound) {
			s.log.Error().Int64("sentinel_id", s.sentinelID).Msg("sentinel doctor missing, nothing deleted")
			return nil, fmt.Errorf("%w: no doctor with id %d", ErrSentinelMissing, s.sentinelID)
		}
		return nil, fmt.Errorf("look up sentinel doctor: %w", err)
	}

	report := &DeletionReport{SentinelID: s.sentinelID, Deleted: []int64{}}
	for i, id := range selected {
		moved, err := s.visits.ReassignDoctor(ctx, id, s.sentinelID)
		if err == nil {
			report.ReassignedVisits += moved
			err = s.repo.Delete(ctx, id)
		}
		if err != nil {
			failed := id
			report.FailedID = &failed
			report.Remaining = append([]int64(nil), selected[i:]...)
			s.log.Error().Err(err).
				Int64("doctor_id", id).
				Ints64("deleted", report.Deleted).
				Msg("doctor removal stopped")
			return report, fmt.Errorf("remove doctor %d: %w", id, err)
		}
		report.Deleted = append(report.Deleted, id)
		s.log.Info().
			Int64("doctor_id", id).
			Int64("visits_reassigned", moved).
			Int64("sentinel_id", s.sentinelID).
			Msg("doctor removed")
	}
	return report, nil
}

// checkSelection rejects an empty selection or one naming the sentinel, and
// collapses duplicate ids keeping first-seen order.
func (s *Service) checkSelection(ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, validation.New("ids", "select at least one doctor")
	}
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id == s.sentinelID {
			return nil, validation.New("ids", "doctor %d is the placeholder for reassigned visits and cannot be removed", id)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out, nil
}
