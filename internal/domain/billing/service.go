package billing

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ehr/hospital/internal/domain/doctor"
	"github.com/ehr/hospital/internal/domain/patient"
	"github.com/ehr/hospital/internal/domain/visit"
	"github.com/ehr/hospital/internal/platform/gateway"
	"github.com/ehr/hospital/internal/platform/validation"
)

type VisitSource interface {
	List(ctx context.Context, columns ...string) ([]*visit.Visit, error)
	ListByPaymentMethod(ctx context.Context, method string, columns ...string) ([]*visit.Visit, error)
}

type DoctorSource interface {
	List(ctx context.Context) ([]*doctor.Doctor, error)
}

type PatientSource interface {
	List(ctx context.Context) ([]*patient.Patient, error)
}

// Service computes billing views from freshly fetched rows. Nothing is
// cached between calls.
type Service struct {
	visits   VisitSource
	doctors  DoctorSource
	patients PatientSource
	topN     int
	log      zerolog.Logger
}

func NewService(visits VisitSource, doctors DoctorSource, patients PatientSource, topN int, log zerolog.Logger) *Service {
	if topN <= 0 {
		topN = 5
	}
	return &Service{visits: visits, doctors: doctors, patients: patients, topN: topN, log: log}
}

// Invoices lists billed visits, optionally only those paid with method.
func (s *Service) Invoices(ctx context.Context, method string) ([]Invoice, error) {
	var (
		visits []*visit.Visit
		err    error
	)
	if method == "" {
		visits, err = s.visits.List(ctx, InvoiceColumns...)
	} else {
		if err := validation.OneOf(visit.ColPaymentMethod, method, visit.PaymentMethods...); err != nil {
			return nil, err
		}
		visits, err = s.visits.ListByPaymentMethod(ctx, method, InvoiceColumns...)
	}
	if err != nil {
		return nil, err
	}

	out := make([]Invoice, len(visits))
	for i, v := range visits {
		out[i] = Invoice{
			RecordID:      v.ID,
			PatientID:     v.PatientID,
			VisitDate:     v.VisitDate.Format(gateway.DateLayout),
			RoomNumber:    v.RoomNumber,
			Tests:         v.Tests,
			PaymentAmount: v.PaymentAmount,
			PaymentMethod: v.PaymentMethod,
		}
	}
	return out, nil
}

func (s *Service) TotalRevenue(ctx context.Context) (float64, error) {
	visits, err := s.visits.List(ctx, visit.ColPaymentAmount)
	if err != nil {
		return 0, err
	}
	return totalRevenue(visits), nil
}

func (s *Service) RevenueOverTime(ctx context.Context) ([]DatePoint, error) {
	visits, err := s.visits.List(ctx, visit.ColVisitDate, visit.ColPaymentAmount)
	if err != nil {
		return nil, err
	}
	return revenueOverTime(visits), nil
}

// TopDepartments ranks departments by billed amount and keeps the first n.
// A non-positive n uses the configured default.
func (s *Service) TopDepartments(ctx context.Context, n int) (*DepartmentRanking, error) {
	if n <= 0 {
		n = s.topN
	}
	visits, err := s.visits.List(ctx, visit.ColDoctorID, visit.ColPaymentAmount)
	if err != nil {
		return nil, err
	}
	doctors, err := s.doctors.List(ctx)
	if err != nil {
		return nil, err
	}
	r := rankDepartments(visits, doctors, n)
	s.logUnmatched(r)
	return &r, nil
}

func (s *Service) logUnmatched(r DepartmentRanking) {
	if r.UnmatchedVisits > 0 {
		s.log.Warn().Int("unmatched_visits", r.UnmatchedVisits).Msg("visits reference doctors that no longer exist")
	}
}

func (s *Service) PaymentMethodCounts(ctx context.Context) ([]Count, error) {
	visits, err := s.visits.List(ctx, visit.ColPaymentMethod)
	if err != nil {
		return nil, err
	}
	return paymentMethods(visits), nil
}

func (s *Service) AdmissionTypeCounts(ctx context.Context) ([]Count, error) {
	visits, err := s.visits.List(ctx, visit.ColAdmissionType)
	if err != nil {
		return nil, err
	}
	return admissionTypes(visits), nil
}

func (s *Service) InsuranceProviderCounts(ctx context.Context) ([]Count, error) {
	patients, err := s.patients.List(ctx)
	if err != nil {
		return nil, err
	}
	return insuranceProviders(patients), nil
}

func (s *Service) AgeDistribution(ctx context.Context) (*AgeDistribution, error) {
	patients, err := s.patients.List(ctx)
	if err != nil {
		return nil, err
	}
	d := ageDistribution(patients)
	return &d, nil
}

// Dashboard fetches each table once and builds every view from it.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	visits, err := s.visits.List(ctx,
		visit.ColDoctorID, visit.ColVisitDate, visit.ColPaymentAmount,
		visit.ColPaymentMethod, visit.ColAdmissionType)
	if err != nil {
		return nil, err
	}
	doctors, err := s.doctors.List(ctx)
	if err != nil {
		return nil, err
	}
	patients, err := s.patients.List(ctx)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		TotalRevenue:       totalRevenue(visits),
		TopDepartments:     rankDepartments(visits, doctors, s.topN),
		RevenueOverTime:    revenueOverTime(visits),
		PaymentMethods:     paymentMethods(visits),
		AdmissionTypes:     admissionTypes(visits),
		InsuranceProviders: insuranceProviders(patients),
		Ages:               ageDistribution(patients),
	}
	s.logUnmatched(d.TopDepartments)
	d.Charts = []Chart{
		departmentChart(d.TopDepartments),
		revenueChart(d.RevenueOverTime),
		countChart("Distribution of Invoices by Payment Method", "Payment Method", "Number of Invoices", d.PaymentMethods),
		countChart("Most Common Admission Types", "Admission Type", "Count", d.AdmissionTypes),
		countChart("Most Used Insurance Providers", "Insurance Provider", "Count", d.InsuranceProviders),
		ageChart(d.Ages.Histogram),
	}
	return d, nil
}
