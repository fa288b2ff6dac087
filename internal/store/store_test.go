package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	// Verify the database file doesn't exist yet
	if _, err := os.Stat(dbPath); !os.IsNotExist(err) {
		t.Fatal("database file should not exist before creating store")
	}

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Fatal("database file should exist after creating store")
	}
}

func TestNewStore_RunsMigrations(t *testing.T) {
	s := newTestStore(t)

	tables := []string{"profiles", "hooks", "settings"}
	for _, table := range tables {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q should exist after migrations: %v", table, err)
		}
	}
}

func TestStore_Close(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	if err := s.Close(); err != nil {
		t.Errorf("close should not return error: %v", err)
	}

	if _, err := s.DB().Exec("SELECT 1"); err == nil {
		t.Error("DB operations should fail after close")
	}
}

func TestProfileRepository_CRUD(t *testing.T) {
	s := newTestStore(t)
	repo := s.Profiles()

	p := &Profile{
		ID:      uuid.New().String(),
		Name:    "lab-bench",
		Options: json.RawMessage(`{"mirror":true}`),
	}

	t.Run("create and get", func(t *testing.T) {
		if err := repo.Create(p); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		got, err := repo.GetByID(p.ID)
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if got.Name != "lab-bench" {
			t.Errorf("name = %q, want %q", got.Name, "lab-bench")
		}
		if string(got.Options) != `{"mirror":true}` {
			t.Errorf("options = %s", got.Options)
		}
	})

	t.Run("get by name", func(t *testing.T) {
		got, err := repo.GetByName("lab-bench")
		if err != nil {
			t.Fatalf("GetByName() error = %v", err)
		}
		if got.ID != p.ID {
			t.Errorf("id = %q, want %q", got.ID, p.ID)
		}
	})

	t.Run("duplicate name rejected", func(t *testing.T) {
		dup := &Profile{ID: uuid.New().String(), Name: "lab-bench"}
		if err := repo.Create(dup); err == nil {
			t.Error("expected unique constraint error")
		}
	})

	t.Run("update", func(t *testing.T) {
		p.Name = "kiosk"
		p.Options = json.RawMessage(`{"mirror":false}`)
		if err := repo.Update(p); err != nil {
			t.Fatalf("Update() error = %v", err)
		}

		got, err := repo.GetByID(p.ID)
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if got.Name != "kiosk" {
			t.Errorf("name = %q, want %q", got.Name, "kiosk")
		}
	})

	t.Run("list", func(t *testing.T) {
		profiles, err := repo.List()
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(profiles) != 1 {
			t.Errorf("got %d profiles, want 1", len(profiles))
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := repo.Delete(p.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, err := repo.GetByID(p.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
	})

	t.Run("missing id", func(t *testing.T) {
		if _, err := repo.GetByID("nope"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		if err := repo.Update(&Profile{ID: "nope"}); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		if err := repo.Delete("nope"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestHookRepository_CRUD(t *testing.T) {
	s := newTestStore(t)
	repo := s.Hooks()

	h := &Hook{
		ID:      uuid.New().String(),
		Zone:    "good_distance",
		Command: "/usr/local/bin/trigger-scan",
		Config:  json.RawMessage(`{"args":["--fast"]}`),
		Enabled: true,
	}

	if err := repo.Create(h); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	t.Run("get", func(t *testing.T) {
		got, err := repo.GetByID(h.ID)
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if got.Zone != "good_distance" || !got.Enabled {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("list enabled by zone", func(t *testing.T) {
		disabled := &Hook{
			ID:      uuid.New().String(),
			Zone:    "good_distance",
			Command: "/bin/true",
			Enabled: false,
		}
		if err := repo.Create(disabled); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		hooks, err := repo.ListEnabledByZone("good_distance")
		if err != nil {
			t.Fatalf("ListEnabledByZone() error = %v", err)
		}
		if len(hooks) != 1 || hooks[0].ID != h.ID {
			t.Errorf("got %d hooks, want the single enabled one", len(hooks))
		}

		hooks, err = repo.ListEnabledByZone("too_close")
		if err != nil {
			t.Fatalf("ListEnabledByZone() error = %v", err)
		}
		if len(hooks) != 0 {
			t.Errorf("got %d hooks for unbound zone, want 0", len(hooks))
		}
	})

	t.Run("update toggles enabled", func(t *testing.T) {
		h.Enabled = false
		if err := repo.Update(h); err != nil {
			t.Fatalf("Update() error = %v", err)
		}

		got, err := repo.GetByID(h.ID)
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if got.Enabled {
			t.Error("hook should be disabled after update")
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := repo.Delete(h.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, err := repo.GetByID(h.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestSettingRepository(t *testing.T) {
	s := newTestStore(t)
	repo := s.Settings()

	t.Run("missing key", func(t *testing.T) {
		if _, err := repo.Get(ActiveProfileKey); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("set and get", func(t *testing.T) {
		if err := repo.Set(ActiveProfileKey, "lab-bench"); err != nil {
			t.Fatalf("Set() error = %v", err)
		}

		v, err := repo.Get(ActiveProfileKey)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if v != "lab-bench" {
			t.Errorf("value = %q, want %q", v, "lab-bench")
		}
	})

	t.Run("set replaces", func(t *testing.T) {
		if err := repo.Set(ActiveProfileKey, "kiosk"); err != nil {
			t.Fatalf("Set() error = %v", err)
		}

		v, _ := repo.Get(ActiveProfileKey)
		if v != "kiosk" {
			t.Errorf("value = %q, want %q", v, "kiosk")
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := repo.Delete(ActiveProfileKey); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, err := repo.Get(ActiveProfileKey); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}
