package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// ActiveProfileKey is the settings key naming the active profile.
const ActiveProfileKey = "active_profile"

// Profile represents a named calibration profile: a complete pipeline
// options document saved by a deployment after tuning.
type Profile struct {
	ID        string
	Name      string
	Options   json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProfileRepository provides CRUD operations for profiles.
type ProfileRepository struct {
	db *sql.DB
}

// Profiles returns the profile repository for this store.
func (s *Store) Profiles() *ProfileRepository {
	return &ProfileRepository{db: s.db}
}

// Create inserts a new profile into the database.
func (r *ProfileRepository) Create(p *Profile) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	options := p.Options
	if options == nil {
		options = json.RawMessage("{}")
	}

	_, err := r.db.Exec(
		`INSERT INTO profiles (id, name, options, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Name, string(options), p.CreatedAt, p.UpdatedAt,
	)
	return err
}

// GetByID retrieves a profile by its ID.
func (r *ProfileRepository) GetByID(id string) (*Profile, error) {
	return r.scanOne(r.db.QueryRow(
		`SELECT id, name, options, created_at, updated_at FROM profiles WHERE id = ?`, id))
}

// GetByName retrieves a profile by its unique name.
func (r *ProfileRepository) GetByName(name string) (*Profile, error) {
	return r.scanOne(r.db.QueryRow(
		`SELECT id, name, options, created_at, updated_at FROM profiles WHERE name = ?`, name))
}

func (r *ProfileRepository) scanOne(row *sql.Row) (*Profile, error) {
	p := &Profile{}
	var options string

	err := row.Scan(&p.ID, &p.Name, &options, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	p.Options = json.RawMessage(options)
	return p, nil
}

// List retrieves all profiles ordered by name.
func (r *ProfileRepository) List() ([]*Profile, error) {
	rows, err := r.db.Query(
		`SELECT id, name, options, created_at, updated_at FROM profiles ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*Profile
	for rows.Next() {
		p := &Profile{}
		var options string

		if err := rows.Scan(&p.ID, &p.Name, &options, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}

		p.Options = json.RawMessage(options)
		profiles = append(profiles, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return profiles, nil
}

// Update updates an existing profile in the database.
func (r *ProfileRepository) Update(p *Profile) error {
	p.UpdatedAt = time.Now()

	options := p.Options
	if options == nil {
		options = json.RawMessage("{}")
	}

	result, err := r.db.Exec(
		`UPDATE profiles SET name = ?, options = ?, updated_at = ? WHERE id = ?`,
		p.Name, string(options), p.UpdatedAt, p.ID,
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

// Delete removes a profile from the database by its ID.
func (r *ProfileRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM profiles WHERE id = ?`, id)
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
