package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// Hook represents a zone-to-command binding stored in the database. The
// command runs whenever a session transitions into the bound zone.
type Hook struct {
	ID        string
	Zone      string
	Command   string
	Config    json.RawMessage
	Enabled   bool
	CreatedAt time.Time
}

// HookRepository provides CRUD operations for hooks.
type HookRepository struct {
	db *sql.DB
}

// Hooks returns the hook repository for this store.
func (s *Store) Hooks() *HookRepository {
	return &HookRepository{db: s.db}
}

// Create inserts a new hook into the database.
func (r *HookRepository) Create(h *Hook) error {
	h.CreatedAt = time.Now()

	config := h.Config
	if config == nil {
		config = json.RawMessage("{}")
	}

	_, err := r.db.Exec(
		`INSERT INTO hooks (id, zone, command, config, enabled, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		h.ID, h.Zone, h.Command, string(config), h.Enabled, h.CreatedAt,
	)
	return err
}

// GetByID retrieves a hook by its ID.
func (r *HookRepository) GetByID(id string) (*Hook, error) {
	h := &Hook{}
	var config string
	var enabled int

	err := r.db.QueryRow(
		`SELECT id, zone, command, config, enabled, created_at FROM hooks WHERE id = ?`,
		id,
	).Scan(&h.ID, &h.Zone, &h.Command, &config, &enabled, &h.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	h.Config = json.RawMessage(config)
	h.Enabled = enabled != 0
	return h, nil
}

// List retrieves all hooks from the database.
func (r *HookRepository) List() ([]*Hook, error) {
	return r.query(
		`SELECT id, zone, command, config, enabled, created_at
		 FROM hooks ORDER BY created_at DESC`)
}

// ListEnabledByZone retrieves the enabled hooks bound to a zone.
func (r *HookRepository) ListEnabledByZone(zone string) ([]*Hook, error) {
	return r.query(
		`SELECT id, zone, command, config, enabled, created_at
		 FROM hooks WHERE zone = ? AND enabled = 1 ORDER BY created_at`, zone)
}

func (r *HookRepository) query(q string, args ...any) ([]*Hook, error) {
	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hooks []*Hook
	for rows.Next() {
		h := &Hook{}
		var config string
		var enabled int

		if err := rows.Scan(&h.ID, &h.Zone, &h.Command, &config, &enabled, &h.CreatedAt); err != nil {
			return nil, err
		}

		h.Config = json.RawMessage(config)
		h.Enabled = enabled != 0
		hooks = append(hooks, h)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return hooks, nil
}

// Update updates an existing hook in the database.
func (r *HookRepository) Update(h *Hook) error {
	config := h.Config
	if config == nil {
		config = json.RawMessage("{}")
	}

	enabled := 0
	if h.Enabled {
		enabled = 1
	}

	result, err := r.db.Exec(
		`UPDATE hooks SET zone = ?, command = ?, config = ?, enabled = ? WHERE id = ?`,
		h.Zone, h.Command, string(config), enabled, h.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a hook from the database by its ID.
func (r *HookRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM hooks WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
