package repository

import (
	"errors"
	"testing"

	"tradeup/internal/models"
)

func TestLocalProgressLifecycle(t *testing.T) {
	repo := NewLocalProgressRepository(t.TempDir())

	// Missing rows come back nil without error
	got, err := repo.Get("anon-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != nil {
		t.Fatalf("Get() = %+v, want nil for missing row", got)
	}

	progress := models.DefaultProgress("anon-1")
	if err := repo.Create(progress); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if progress.Version != 1 {
		t.Errorf("Create() set version %d, want 1", progress.Version)
	}

	got, err = repo.Get("anon-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got == nil {
		t.Fatal("Get() = nil after Create")
	}
	if got.Hearts != 5 || got.Level != 1 || got.XPToNextLevel != 2000 {
		t.Errorf("Get() = hearts %d level %d threshold %d, want 5/1/2000",
			got.Hearts, got.Level, got.XPToNextLevel)
	}

	got.XP = 150
	got.Coins = 40
	if err := repo.Save(got); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if got.Version != 2 {
		t.Errorf("Save() set version %d, want 2", got.Version)
	}

	reloaded, err := repo.Get("anon-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if reloaded.XP != 150 || reloaded.Coins != 40 || reloaded.Version != 2 {
		t.Errorf("reloaded = xp %d coins %d version %d, want 150/40/2", reloaded.XP, reloaded.Coins, reloaded.Version)
	}

	if err := repo.Delete("anon-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	got, err = repo.Get("anon-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != nil {
		t.Errorf("Get() after Delete = %+v, want nil", got)
	}

	// Deleting a missing row is not an error
	if err := repo.Delete("anon-1"); err != nil {
		t.Errorf("Delete() of missing row error = %v", err)
	}
}

func TestLocalProgressVersionConflict(t *testing.T) {
	repo := NewLocalProgressRepository(t.TempDir())

	progress := models.DefaultProgress("anon-2")
	if err := repo.Create(progress); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Two readers load the same version
	a, _ := repo.Get("anon-2")
	b, _ := repo.Get("anon-2")

	a.XP = 10
	if err := repo.Save(a); err != nil {
		t.Fatalf("first Save() error = %v", err)
	}

	b.XP = 20
	err := repo.Save(b)
	if !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("second Save() error = %v, want ErrVersionConflict", err)
	}

	// The winning write is intact
	got, _ := repo.Get("anon-2")
	if got.XP != 10 {
		t.Errorf("XP = %d after conflict, want 10", got.XP)
	}
}

func TestLocalProgressCreateTwice(t *testing.T) {
	repo := NewLocalProgressRepository(t.TempDir())

	if err := repo.Create(models.DefaultProgress("anon-3")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := repo.Create(models.DefaultProgress("anon-3")); err == nil {
		t.Error("second Create() succeeded, want error")
	}
}
