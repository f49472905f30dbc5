package patient

import (
	"context"
	"errors"
	"testing"

	"github.com/ehr/hospital/internal/platform/gateway"
)

func newMemoryRepo() Repository {
	return NewRepo(gateway.NewMemory(map[string]string{Table: ColID}))
}

func TestRepo_CreateThenList(t *testing.T) {
	repo := newMemoryRepo()
	ctx := context.Background()
	insurer := "Medicare"
	in := &Patient{
		FirstName:         "Anna",
		LastName:          "Smith",
		Age:               34,
		Gender:            "F",
		Height:            165,
		Weight:            60.5,
		Allergies:         "Penicillin",
		Address:           "1 Main St",
		InsuranceProvider: &insurer,
	}
	if err := repo.Create(ctx, in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.ID == 0 {
		t.Fatal("expected generated id")
	}

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 patient, got %d", len(all))
	}
	got := all[0]
	if got.ID != in.ID || got.FirstName != "Anna" || got.LastName != "Smith" || got.Age != 34 ||
		got.Gender != "F" || got.Height != 165 || got.Weight != 60.5 ||
		got.Allergies != "Penicillin" || got.Address != "1 Main St" {
		t.Errorf("fields not preserved: %+v", got)
	}
	if got.InsuranceProvider == nil || *got.InsuranceProvider != "Medicare" {
		t.Errorf("expected insurance provider Medicare, got %v", got.InsuranceProvider)
	}
}

func TestRepo_NullInsuranceProvider(t *testing.T) {
	repo := newMemoryRepo()
	ctx := context.Background()
	p := &Patient{FirstName: "Bob", LastName: "Jones", Gender: "M"}
	repo.Create(ctx, p)

	got, err := repo.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.InsuranceProvider != nil {
		t.Errorf("expected nil insurance provider, got %q", *got.InsuranceProvider)
	}
}

func TestRepo_GetByID_NotFound(t *testing.T) {
	repo := newMemoryRepo()
	if _, err := repo.GetByID(context.Background(), 7); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRepo_Search(t *testing.T) {
	repo := newMemoryRepo()
	ctx := context.Background()
	repo.Create(ctx, &Patient{FirstName: "Anna", LastName: "Smith"})
	repo.Create(ctx, &Patient{FirstName: "Smitha", LastName: "Rao"})
	repo.Create(ctx, &Patient{FirstName: "Carl", LastName: "Brown"})

	found, err := repo.Search(ctx, "sm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(found) != 2 {
		t.Errorf("expected 2 matches, got %d", len(found))
	}

	found, err = repo.Search(ctx, "%")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(found) != 0 {
		t.Errorf("expected literal %% to match nothing, got %d", len(found))
	}
}

func TestRepo_SearchSummaries(t *testing.T) {
	repo := newMemoryRepo()
	ctx := context.Background()
	repo.Create(ctx, &Patient{FirstName: "Anna", LastName: "Smith", Address: "1 Main St"})

	found, err := repo.SearchSummaries(ctx, "SMITH")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(found) != 1 || found[0].FirstName != "Anna" || found[0].ID == 0 {
		t.Errorf("unexpected summaries: %+v", found)
	}
}

func TestRepo_DeleteMissingIsNoop(t *testing.T) {
	repo := newMemoryRepo()
	ctx := context.Background()
	p := &Patient{FirstName: "Anna", LastName: "Smith"}
	repo.Create(ctx, p)

	if err := repo.Delete(ctx, p.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.Delete(ctx, p.ID); err != nil {
		t.Errorf("expected deleting a missing patient to succeed, got %v", err)
	}
	all, _ := repo.List(ctx)
	if len(all) != 0 {
		t.Errorf("expected no patients, got %d", len(all))
	}
}
