package visit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ehr/hospital/internal/platform/gateway"
)

func newMemoryRepo() (Repository, *gateway.Memory) {
	mem := gateway.NewMemory(map[string]string{Table: ColID})
	return NewRepo(mem), mem
}

func TestRepo_CreateAndGet(t *testing.T) {
	repo, _ := newMemoryRepo()
	ctx := context.Background()
	in := &Visit{
		PatientID:            3,
		DoctorID:             4,
		AdmissionType:        "Inpatient",
		VisitDate:            time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		RoomNumber:           "12B",
		PaymentAmount:        99.5,
		PaymentMethod:        "Insurance",
		PaymentInvoiceNumber: "INV-1",
	}
	if err := repo.Create(ctx, in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.GetByID(ctx, in.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.PatientID != 3 || got.DoctorID != 4 || got.RoomNumber != "12B" || got.PaymentAmount != 99.5 {
		t.Errorf("fields not preserved: %+v", got)
	}
	if !got.VisitDate.Equal(in.VisitDate) {
		t.Errorf("expected %v, got %v", in.VisitDate, got.VisitDate)
	}
}

func TestRepo_GetByID_NotFound(t *testing.T) {
	repo, _ := newMemoryRepo()
	if _, err := repo.GetByID(context.Background(), 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRepo_ListProjectionAndPaymentFilter(t *testing.T) {
	repo, _ := newMemoryRepo()
	ctx := context.Background()
	repo.Create(ctx, &Visit{PatientID: 1, PaymentMethod: "Cash", PaymentAmount: 10, Symptoms: "a"})
	repo.Create(ctx, &Visit{PatientID: 2, PaymentMethod: "Medicare", PaymentAmount: 20})

	all, err := repo.List(ctx, ColID, ColPaymentAmount)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 visits, got %d", len(all))
	}
	for _, v := range all {
		if v.Symptoms != "" || v.PatientID != 0 {
			t.Errorf("expected projection to drop other columns, got %+v", v)
		}
	}

	cash, err := repo.ListByPaymentMethod(ctx, "Cash")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cash) != 1 || cash[0].PaymentAmount != 10 {
		t.Errorf("unexpected cash visits: %+v", cash)
	}
}

func TestRepo_ListNewestFirst(t *testing.T) {
	repo, _ := newMemoryRepo()
	ctx := context.Background()
	day := func(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }
	repo.Create(ctx, &Visit{VisitDate: day(2), PaymentMethod: "Cash"})
	repo.Create(ctx, &Visit{VisitDate: day(9), PaymentMethod: "Cash"})
	repo.Create(ctx, &Visit{VisitDate: day(5), PaymentMethod: "Medicare"})

	all, err := repo.List(ctx, ColID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int64{2, 3, 1}
	if len(all) != len(want) {
		t.Fatalf("expected %d visits, got %d", len(want), len(all))
	}
	for i, id := range want {
		if all[i].ID != id {
			t.Errorf("position %d: expected visit %d, got %d", i, id, all[i].ID)
		}
	}

	cash, _ := repo.ListByPaymentMethod(ctx, "Cash", ColID)
	if len(cash) != 2 || cash[0].ID != 2 || cash[1].ID != 1 {
		t.Errorf("expected cash visits 2 then 1, got %+v", cash)
	}
}

func TestRepo_UpdateClinicalNotesOnlyTouchesNotes(t *testing.T) {
	repo, _ := newMemoryRepo()
	ctx := context.Background()
	v := &Visit{PatientID: 1, DoctorID: 2, PaymentAmount: 50, Symptoms: "old"}
	repo.Create(ctx, v)

	n, err := repo.UpdateClinicalNotes(ctx, v.ID, ClinicalNotes{Symptoms: "new", Prescription: "rx"})
	if err != nil || n != 1 {
		t.Fatalf("expected 1 row, got %d (%v)", n, err)
	}
	got, _ := repo.GetByID(ctx, v.ID)
	if got.Symptoms != "new" || got.Prescription != "rx" || got.PaymentAmount != 50 || got.DoctorID != 2 {
		t.Errorf("unexpected visit after update: %+v", got)
	}

	n, _ = repo.UpdateClinicalNotes(ctx, 999, ClinicalNotes{})
	if n != 0 {
		t.Errorf("expected 0 rows for missing visit, got %d", n)
	}
}

func TestRepo_ReassignDoctor(t *testing.T) {
	repo, _ := newMemoryRepo()
	ctx := context.Background()
	repo.Create(ctx, &Visit{DoctorID: 5})
	repo.Create(ctx, &Visit{DoctorID: 5})
	repo.Create(ctx, &Visit{DoctorID: 6})

	n, err := repo.ReassignDoctor(ctx, 5, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 visits moved, got %d", n)
	}
	all, _ := repo.List(ctx)
	for _, v := range all {
		if v.DoctorID == 5 {
			t.Errorf("visit %d still on doctor 5", v.ID)
		}
	}
}
