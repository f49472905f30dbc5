package visit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ehr/hospital/internal/domain/doctor"
	"github.com/ehr/hospital/internal/domain/patient"
	"github.com/ehr/hospital/internal/platform/gateway"
	"github.com/ehr/hospital/internal/platform/validation"
)

type PatientGetter interface {
	GetByID(ctx context.Context, id int64) (*patient.Patient, error)
}

type DoctorGetter interface {
	GetByID(ctx context.Context, id int64) (*doctor.Doctor, error)
}

type Service struct {
	repo     Repository
	patients PatientGetter
	doctors  DoctorGetter
	log      zerolog.Logger
	now      func() time.Time
}

func NewService(repo Repository, patients PatientGetter, doctors DoctorGetter, log zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		patients: patients,
		doctors:  doctors,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) validateIntake(in *Intake) (time.Time, error) {
	if len(in.PatientIDs) == 0 {
		return time.Time{}, validation.New("patient_ids", "select at least one patient")
	}
	if in.DoctorID <= 0 {
		return time.Time{}, validation.New(ColDoctorID, "is required")
	}
	if err := validation.First(
		validation.OneOf(ColAdmissionType, in.AdmissionType, AdmissionTypes...),
		validation.OneOf(ColPaymentMethod, in.PaymentMethod, PaymentMethods...),
		validation.NonNegative(ColPaymentAmount, in.PaymentAmount),
	); err != nil {
		return time.Time{}, err
	}

	date := strings.TrimSpace(in.VisitDate)
	if date == "" {
		now := s.now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	d, err := time.Parse(gateway.DateLayout, date)
	if err != nil {
		return time.Time{}, validation.New(ColVisitDate, "must be a date like 2024-01-31")
	}
	return d, nil
}

// checkReferences confirms the doctor and every selected patient exist.
func (s *Service) checkReferences(ctx context.Context, in Intake) error {
	if _, err := s.doctors.GetByID(ctx, in.DoctorID); err != nil {
		if errors.Is(err, doctor.ErrNotFound) {
			return validation.New(ColDoctorID, "doctor %d does not exist", in.DoctorID)
		}
		return fmt.Errorf("look up doctor %d: %w", in.DoctorID, err)
	}
	for _, pid := range in.PatientIDs {
		if _, err := s.patients.GetByID(ctx, pid); err != nil {
			if errors.Is(err, patient.ErrNotFound) {
				return validation.New("patient_ids", "patient %d does not exist", pid)
			}
			return fmt.Errorf("look up patient %d: %w", pid, err)
		}
	}
	return nil
}

// CreateVisits records one visit per selected patient with the same form
// values. Unknown doctor or patient ids are rejected before anything is
// written. It stops at the first failed insert and returns the visits created
// so far along with the error.
func (s *Service) CreateVisits(ctx context.Context, in Intake) ([]*Visit, error) {
	date, err := s.validateIntake(&in)
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, in); err != nil {
		return nil, err
	}

	created := make([]*Visit, 0, len(in.PatientIDs))
	for _, pid := range in.PatientIDs {
		v := &Visit{
			PatientID:            pid,
			DoctorID:             in.DoctorID,
			AdmissionType:        in.AdmissionType,
			VisitDate:            date,
			RoomNumber:           in.RoomNumber,
			Symptoms:             in.Symptoms,
			Tests:                in.Tests,
			DiagnosisNotes:       in.DiagnosisNotes,
			Prescription:         in.Prescription,
			PaymentAmount:        in.PaymentAmount,
			PaymentMethod:        in.PaymentMethod,
			PaymentInvoiceNumber: in.PaymentInvoiceNumber,
		}
		if err := s.repo.Create(ctx, v); err != nil {
			return created, fmt.Errorf("create visit for patient %d: %w", pid, err)
		}
		created = append(created, v)
	}
	return created, nil
}

// GetDetail returns the visit's clinical fields with patient and doctor names.
// A missing or unreadable patient or doctor leaves the name empty.
func (s *Service) GetDetail(ctx context.Context, id int64) (*Detail, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	d := &Detail{
		RecordID:       v.ID,
		Symptoms:       v.Symptoms,
		Tests:          v.Tests,
		DiagnosisNotes: v.DiagnosisNotes,
		Prescription:   v.Prescription,
	}

	p, err := s.patients.GetByID(ctx, v.PatientID)
	switch {
	case err == nil:
		d.PatientFirstName = p.FirstName
		d.PatientLastName = p.LastName
	case !errors.Is(err, patient.ErrNotFound):
		s.log.Warn().Err(err).Int64("record_id", id).Int64("patient_id", v.PatientID).Msg("patient lookup failed")
	}

	doc, err := s.doctors.GetByID(ctx, v.DoctorID)
	switch {
	case err == nil:
		d.DoctorName = doc.Name
	case !errors.Is(err, doctor.ErrNotFound):
		s.log.Warn().Err(err).Int64("record_id", id).Int64("doctor_id", v.DoctorID).Msg("doctor lookup failed")
	}
	return d, nil
}

func (s *Service) UpdateClinicalNotes(ctx context.Context, id int64, notes ClinicalNotes) error {
	n, err := s.repo.UpdateClinicalNotes(ctx, id, notes)
	if err != nil {
		return err
	}
	if n == 0 {
		s.log.Warn().Int64("record_id", id).Msg("clinical notes update matched no visit")
		return ErrNotFound
	}
	return nil
}
