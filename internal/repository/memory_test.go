package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/attendly/rollcall-backend/internal/model"
)

func TestMemoryStoreRollUniqueness(t *testing.T) {
	store := NewMemoryStudentStore()
	ctx := context.Background()

	if err := store.Create(ctx, &model.Student{Roll: "A1", Name: "Asha", Status: model.StatusAbsent}); err != nil {
		t.Fatalf("create: %v", err)
	}
	err := store.Create(ctx, &model.Student{Roll: "A1", Name: "Bilal", Status: model.StatusAbsent})
	if !errors.Is(err, ErrDuplicateRoll) {
		t.Fatalf("err = %v, want ErrDuplicateRoll", err)
	}

	// Renaming onto a taken roll is also rejected.
	second := &model.Student{Roll: "A2", Name: "Bilal", Status: model.StatusAbsent}
	if err := store.Create(ctx, second); err != nil {
		t.Fatalf("create second: %v", err)
	}
	taken := "A1"
	if _, err := store.Update(ctx, second.ID, model.StudentPatch{Roll: &taken}); !errors.Is(err, ErrDuplicateRoll) {
		t.Fatalf("update err = %v, want ErrDuplicateRoll", err)
	}
}

func TestMemoryStoreListOrderedByRoll(t *testing.T) {
	store := NewMemoryStudentStore()
	ctx := context.Background()

	for _, roll := range []string{"B2", "A1", "C3"} {
		if err := store.Create(ctx, &model.Student{Roll: roll, Name: roll, Status: model.StatusAbsent}); err != nil {
			t.Fatalf("create %s: %v", roll, err)
		}
	}

	students, err := store.List(ctx, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"A1", "B2", "C3"}
	for i, s := range students {
		if s.Roll != want[i] {
			t.Fatalf("list order = %v at %d, want %v", s.Roll, i, want)
		}
	}
}

func TestMemoryStoreUpdateNotFound(t *testing.T) {
	store := NewMemoryStudentStore()

	name := "Asha"
	if _, err := store.Update(context.Background(), 7, model.StudentPatch{Name: &name}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
