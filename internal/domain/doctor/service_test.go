package doctor

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ehr/hospital/internal/platform/validation"
)

// -- Mock Repository --

type mockRepo struct {
	doctors   map[int64]*Doctor
	nextID    int64
	deleteErr map[int64]error
	getErr    error
}

func newMockRepo() *mockRepo {
	return &mockRepo{doctors: make(map[int64]*Doctor), deleteErr: make(map[int64]error)}
}

func (m *mockRepo) Create(_ context.Context, d *Doctor) error {
	m.nextID++
	d.ID = m.nextID
	m.doctors[d.ID] = d
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id int64) (*Doctor, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	d, ok := m.doctors[id]
	if !ok {
		return nil, ErrNotFound
	}
	return d, nil
}

func (m *mockRepo) List(_ context.Context) ([]*Doctor, error) {
	var result []*Doctor
	for _, d := range m.doctors {
		result = append(result, d)
	}
	return result, nil
}

func (m *mockRepo) ListByName(_ context.Context, name string) ([]*Doctor, error) {
	var result []*Doctor
	for _, d := range m.doctors {
		if d.Name == name {
			result = append(result, d)
		}
	}
	return result, nil
}

func (m *mockRepo) ListByDepartment(_ context.Context, department string) ([]*Doctor, error) {
	var result []*Doctor
	for _, d := range m.doctors {
		if d.Department == department {
			result = append(result, d)
		}
	}
	return result, nil
}

func (m *mockRepo) Departments(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	var result []string
	for _, d := range m.doctors {
		if d.Department != "" && !seen[d.Department] {
			seen[d.Department] = true
			result = append(result, d.Department)
		}
	}
	sort.Strings(result)
	return result, nil
}

func (m *mockRepo) SearchByName(_ context.Context, term string) ([]*Doctor, error) {
	var result []*Doctor
	for _, d := range m.doctors {
		if strings.Contains(strings.ToLower(d.Name), strings.ToLower(term)) {
			result = append(result, d)
		}
	}
	return result, nil
}

func (m *mockRepo) Delete(_ context.Context, id int64) error {
	if err := m.deleteErr[id]; err != nil {
		return err
	}
	delete(m.doctors, id)
	return nil
}

// -- Fake visit store --

type fakeVisits struct {
	doctorOf    map[int64]int64
	reassignErr map[int64]error
	calls       int
}

func newFakeVisits() *fakeVisits {
	return &fakeVisits{doctorOf: make(map[int64]int64), reassignErr: make(map[int64]error)}
}

func (f *fakeVisits) ReassignDoctor(_ context.Context, from, to int64) (int64, error) {
	f.calls++
	if err := f.reassignErr[from]; err != nil {
		return 0, err
	}
	var n int64
	for rec, doc := range f.doctorOf {
		if doc == from {
			f.doctorOf[rec] = to
			n++
		}
	}
	return n, nil
}

// fixture: sentinel 1, doctors 2..4, visits 10..15 spread over doctors 2..4.
func newFixture() (*Service, *mockRepo, *fakeVisits) {
	repo := newMockRepo()
	ctx := context.Background()
	repo.Create(ctx, &Doctor{Name: DefaultSentinelName, Specialty: "General", Department: "General"})
	repo.Create(ctx, &Doctor{Name: "Dr. Adams", Specialty: "Heart", Department: "Cardiology"})
	repo.Create(ctx, &Doctor{Name: "Dr. Baker", Specialty: "Brain", Department: "Neurology"})
	repo.Create(ctx, &Doctor{Name: "Dr. Clark", Specialty: "Bones", Department: "Orthopedics"})

	visits := newFakeVisits()
	visits.doctorOf = map[int64]int64{10: 2, 11: 2, 12: 3, 13: 4, 14: 4, 15: 4}
	return NewService(repo, visits, 1, zerolog.Nop()), repo, visits
}

func assertNoDanglingVisits(t *testing.T, repo *mockRepo, visits *fakeVisits) {
	t.Helper()
	for rec, doc := range visits.doctorOf {
		if _, ok := repo.doctors[doc]; !ok {
			t.Errorf("visit %d references missing doctor %d", rec, doc)
		}
	}
}

func TestCreateDoctor_Validation(t *testing.T) {
	svc, _, _ := newFixture()
	ctx := context.Background()
	tests := []Doctor{
		{Specialty: "x", Department: "y"},
		{Name: "x", Department: "y"},
		{Name: "x", Specialty: "y", Department: " "},
	}
	for _, d := range tests {
		d := d
		if err := svc.CreateDoctor(ctx, &d); !validation.Is(err) {
			t.Errorf("expected validation error for %+v, got %v", d, err)
		}
	}

	ok := &Doctor{Name: "Dr. Diaz", Specialty: "Skin", Department: "Dermatology"}
	if err := svc.CreateDoctor(ctx, ok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok.ID == 0 {
		t.Error("expected ID to be set")
	}
}

func TestDeleteWithReassignment(t *testing.T) {
	svc, repo, visits := newFixture()

	report, err := svc.DeleteWithReassignment(context.Background(), []int64{2, 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Deleted) != 2 || report.Deleted[0] != 2 || report.Deleted[1] != 4 {
		t.Errorf("expected [2 4] deleted, got %v", report.Deleted)
	}
	if report.ReassignedVisits != 5 {
		t.Errorf("expected 5 reassigned visits, got %d", report.ReassignedVisits)
	}
	if report.FailedID != nil || len(report.Remaining) != 0 {
		t.Errorf("expected clean report, got %+v", report)
	}
	if _, ok := repo.doctors[3]; !ok {
		t.Error("expected unselected doctor to remain")
	}
	for _, rec := range []int64{10, 11, 13, 14, 15} {
		if visits.doctorOf[rec] != 1 {
			t.Errorf("expected visit %d on sentinel, got %d", rec, visits.doctorOf[rec])
		}
	}
	if visits.doctorOf[12] != 3 {
		t.Errorf("expected visit 12 untouched, got %d", visits.doctorOf[12])
	}
	assertNoDanglingVisits(t, repo, visits)
}

func TestDeleteWithReassignment_CollapsesDuplicates(t *testing.T) {
	svc, _, visits := newFixture()

	report, err := svc.DeleteWithReassignment(context.Background(), []int64{3, 3, 2, 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Deleted) != 2 || report.Deleted[0] != 3 || report.Deleted[1] != 2 {
		t.Errorf("expected [3 2], got %v", report.Deleted)
	}
	if visits.calls != 2 {
		t.Errorf("expected 2 reassignments, got %d", visits.calls)
	}
}

func TestDeleteWithReassignment_EmptySelection(t *testing.T) {
	svc, _, visits := newFixture()
	report, err := svc.DeleteWithReassignment(context.Background(), nil)
	if !validation.Is(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if report != nil || visits.calls != 0 {
		t.Error("expected no work for an empty selection")
	}
}

func TestDeleteWithReassignment_RejectsSentinel(t *testing.T) {
	svc, repo, visits := newFixture()
	_, err := svc.DeleteWithReassignment(context.Background(), []int64{2, 1})
	if !validation.Is(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(repo.doctors) != 4 || visits.calls != 0 {
		t.Error("expected nothing touched when the sentinel is selected")
	}
}

func TestDeleteWithReassignment_SentinelMissing(t *testing.T) {
	svc, repo, visits := newFixture()
	delete(repo.doctors, 1)
	before := map[int64]int64{}
	for k, v := range visits.doctorOf {
		before[k] = v
	}

	report, err := svc.DeleteWithReassignment(context.Background(), []int64{2, 3})
	if !errors.Is(err, ErrSentinelMissing) {
		t.Fatalf("expected ErrSentinelMissing, got %v", err)
	}
	if report != nil {
		t.Errorf("expected no report, got %+v", report)
	}
	if len(repo.doctors) != 3 {
		t.Errorf("expected doctors unchanged, got %d", len(repo.doctors))
	}
	for k, v := range before {
		if visits.doctorOf[k] != v {
			t.Errorf("visit %d changed from %d to %d", k, v, visits.doctorOf[k])
		}
	}
}

func TestDeleteWithReassignment_DeleteFailureKeepsProgress(t *testing.T) {
	svc, repo, visits := newFixture()
	repo.deleteErr[3] = errors.New("gateway: delete doctors: timeout")

	report, err := svc.DeleteWithReassignment(context.Background(), []int64{2, 3, 4})
	if err == nil {
		t.Fatal("expected error")
	}
	if report == nil {
		t.Fatal("expected a report with the error")
	}
	if len(report.Deleted) != 1 || report.Deleted[0] != 2 {
		t.Errorf("expected [2] deleted, got %v", report.Deleted)
	}
	if report.FailedID == nil || *report.FailedID != 3 {
		t.Errorf("expected failed id 3, got %v", report.FailedID)
	}
	if len(report.Remaining) != 2 || report.Remaining[0] != 3 || report.Remaining[1] != 4 {
		t.Errorf("expected remaining [3 4], got %v", report.Remaining)
	}
	// Doctor 3's visits were moved before its delete failed.
	if visits.doctorOf[12] != 1 {
		t.Errorf("expected visit 12 on sentinel, got %d", visits.doctorOf[12])
	}
	if _, ok := repo.doctors[4]; !ok {
		t.Error("expected doctor 4 untouched")
	}
	if visits.doctorOf[13] != 4 {
		t.Errorf("expected visit 13 untouched, got %d", visits.doctorOf[13])
	}
	assertNoDanglingVisits(t, repo, visits)
}

func TestDeleteWithReassignment_ReassignFailureDeletesNothingMore(t *testing.T) {
	svc, repo, visits := newFixture()
	visits.reassignErr[2] = errors.New("gateway: update visits: status 500")

	report, err := svc.DeleteWithReassignment(context.Background(), []int64{2, 3})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(report.Deleted) != 0 {
		t.Errorf("expected nothing deleted, got %v", report.Deleted)
	}
	if _, ok := repo.doctors[2]; !ok {
		t.Error("expected doctor 2 to remain")
	}
	assertNoDanglingVisits(t, repo, visits)
}

func TestResolveSentinel_ByID(t *testing.T) {
	_, repo, _ := newFixture()
	d, err := ResolveSentinel(context.Background(), repo, 1, "", zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.ID != 1 {
		t.Errorf("expected id 1, got %d", d.ID)
	}

	_, err = ResolveSentinel(context.Background(), repo, 99, "", zerolog.Nop())
	if !errors.Is(err, ErrSentinelMissing) {
		t.Errorf("expected ErrSentinelMissing, got %v", err)
	}
}

func TestResolveSentinel_ByName(t *testing.T) {
	_, repo, _ := newFixture()
	repo.Create(context.Background(), &Doctor{Name: DefaultSentinelName})

	d, err := ResolveSentinel(context.Background(), repo, 0, DefaultSentinelName, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.ID != 1 {
		t.Errorf("expected lowest id 1, got %d", d.ID)
	}

	_, err = ResolveSentinel(context.Background(), repo, 0, "Dr. Nobody", zerolog.Nop())
	if !errors.Is(err, ErrSentinelMissing) {
		t.Errorf("expected ErrSentinelMissing, got %v", err)
	}
}

func TestResolveSentinel_GatewayError(t *testing.T) {
	repo := newMockRepo()
	repo.getErr = errors.New("gateway: select doctors: connection refused")
	_, err := ResolveSentinel(context.Background(), repo, 5, "", zerolog.Nop())
	if err == nil || errors.Is(err, ErrSentinelMissing) {
		t.Errorf("expected a plain gateway error, got %v", err)
	}
}
