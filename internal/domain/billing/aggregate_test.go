package billing

import (
	"math"
	"testing"
	"time"

	"github.com/ehr/hospital/internal/domain/doctor"
	"github.com/ehr/hospital/internal/domain/patient"
	"github.com/ehr/hospital/internal/domain/visit"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRankDepartments(t *testing.T) {
	visits := []*visit.Visit{
		{DoctorID: 1, PaymentAmount: 100},
		{DoctorID: 1, PaymentAmount: 50},
		{DoctorID: 2, PaymentAmount: 200},
	}
	doctors := []*doctor.Doctor{
		{ID: 1, Department: "Cardiology"},
		{ID: 2, Department: "Neurology"},
	}

	r := rankDepartments(visits, doctors, 5)
	want := []DepartmentTotal{{"Neurology", 200}, {"Cardiology", 150}}
	if len(r.Departments) != len(want) {
		t.Fatalf("expected %v, got %v", want, r.Departments)
	}
	for i := range want {
		if r.Departments[i] != want[i] {
			t.Errorf("position %d: expected %v, got %v", i, want[i], r.Departments[i])
		}
	}
	if r.UnmatchedVisits != 0 {
		t.Errorf("expected no unmatched visits, got %d", r.UnmatchedVisits)
	}
}

func TestRankDepartments_TiesAlphabeticalAndTopN(t *testing.T) {
	visits := []*visit.Visit{
		{DoctorID: 1, PaymentAmount: 10},
		{DoctorID: 2, PaymentAmount: 10},
		{DoctorID: 3, PaymentAmount: 10},
		{DoctorID: 4, PaymentAmount: 30},
		{DoctorID: 9, PaymentAmount: 1000},
	}
	doctors := []*doctor.Doctor{
		{ID: 1, Department: "Radiology"},
		{ID: 2, Department: "Cardiology"},
		{ID: 3, Department: "Oncology"},
		{ID: 4, Department: "Surgery"},
	}

	r := rankDepartments(visits, doctors, 3)
	got := []string{}
	for _, d := range r.Departments {
		got = append(got, d.Department)
	}
	want := []string{"Surgery", "Cardiology", "Oncology"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if r.UnmatchedVisits != 1 {
		t.Errorf("expected 1 unmatched visit, got %d", r.UnmatchedVisits)
	}
}

func TestRankDepartments_Empty(t *testing.T) {
	r := rankDepartments(nil, []*doctor.Doctor{{ID: 1, Department: "A"}}, 5)
	if len(r.Departments) != 0 {
		t.Errorf("expected empty ranking, got %v", r.Departments)
	}
	r = rankDepartments([]*visit.Visit{{DoctorID: 1, PaymentAmount: 5}}, nil, 5)
	if len(r.Departments) != 0 || r.UnmatchedVisits != 1 {
		t.Errorf("expected empty ranking with 1 unmatched, got %+v", r)
	}
}

func TestRevenueOverTime(t *testing.T) {
	d := func(day int) time.Time { return time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC) }
	visits := []*visit.Visit{
		{VisitDate: d(3), PaymentAmount: 5},
		{VisitDate: d(1), PaymentAmount: 10},
		{VisitDate: d(3), PaymentAmount: 7},
	}
	points := revenueOverTime(visits)
	if len(points) != 2 {
		t.Fatalf("expected 2 dates, got %d", len(points))
	}
	if points[0].Date != "2024-01-01" || points[0].Total != 10 {
		t.Errorf("unexpected first point: %+v", points[0])
	}
	if points[1].Date != "2024-01-03" || points[1].Total != 12 {
		t.Errorf("unexpected second point: %+v", points[1])
	}
	if totalRevenue(visits) != 22 {
		t.Errorf("expected total 22, got %v", totalRevenue(visits))
	}
	if totalRevenue(nil) != 0 {
		t.Error("expected zero revenue for no visits")
	}
}

func TestCountLabels(t *testing.T) {
	counts := countLabels([]string{"Cash", "Medicare", "Cash", "", "Insurance", "Medicare", "Debit Card"})
	want := []Count{{"Cash", 2}, {"Medicare", 2}, {"Debit Card", 1}, {"Insurance", 1}}
	if len(counts) != len(want) {
		t.Fatalf("expected %v, got %v", want, counts)
	}
	for i := range want {
		if counts[i] != want[i] {
			t.Errorf("position %d: expected %v, got %v", i, want[i], counts[i])
		}
	}
}

func TestInsuranceProviders_SkipsNull(t *testing.T) {
	aetna, blank := "Aetna", ""
	patients := []*patient.Patient{
		{InsuranceProvider: &aetna},
		{InsuranceProvider: nil},
		{InsuranceProvider: &blank},
		{InsuranceProvider: &aetna},
	}
	counts := insuranceProviders(patients)
	if len(counts) != 1 || counts[0] != (Count{"Aetna", 2}) {
		t.Errorf("unexpected counts: %v", counts)
	}
}

func TestDescribe(t *testing.T) {
	s := describe([]float64{40, 10, 30, 20})
	if s.Count != 4 || s.Min != 10 || s.Max != 40 {
		t.Errorf("unexpected bounds: %+v", s)
	}
	if !near(s.Mean, 25) {
		t.Errorf("expected mean 25, got %v", s.Mean)
	}
	if !near(s.Std, math.Sqrt(500.0/3.0)) {
		t.Errorf("expected sample std %v, got %v", math.Sqrt(500.0/3.0), s.Std)
	}
	if !near(s.P25, 17.5) || !near(s.P50, 25) || !near(s.P75, 32.5) {
		t.Errorf("unexpected quartiles: %v %v %v", s.P25, s.P50, s.P75)
	}
}

func TestDescribe_EdgeCases(t *testing.T) {
	if s := describe(nil); s.Count != 0 {
		t.Errorf("expected empty stats, got %+v", s)
	}
	s := describe([]float64{7})
	if s.Count != 1 || s.Std != 0 || s.P25 != 7 || s.P75 != 7 {
		t.Errorf("unexpected single value stats: %+v", s)
	}
}

func TestHistogram(t *testing.T) {
	values := []float64{0, 5, 10, 95, 100}
	bins := histogram(values, 10)
	if len(bins) != 10 {
		t.Fatalf("expected 10 bins, got %d", len(bins))
	}
	if bins[0].Lower != 0 || bins[9].Upper != 100 {
		t.Errorf("unexpected range: %v..%v", bins[0].Lower, bins[9].Upper)
	}
	if bins[0].Count != 2 || bins[1].Count != 1 || bins[9].Count != 2 {
		t.Errorf("unexpected counts: %+v", bins)
	}
	total := 0
	for _, b := range bins {
		total += b.Count
	}
	if total != len(values) {
		t.Errorf("expected %d values binned, got %d", len(values), total)
	}
}

func TestHistogram_SingleValue(t *testing.T) {
	bins := histogram([]float64{42, 42}, 10)
	if bins[0].Lower != 41.5 || bins[9].Upper != 42.5 {
		t.Errorf("unexpected range: %v..%v", bins[0].Lower, bins[9].Upper)
	}
	total := 0
	for _, b := range bins {
		total += b.Count
	}
	if total != 2 {
		t.Errorf("expected 2 values binned, got %d", total)
	}
	if len(histogram(nil, 10)) != 0 {
		t.Error("expected no bins for no values")
	}
}
