package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a named row does not exist.
var ErrNotFound = errors.New("store: not found")

// UpsertMap creates or replaces the map with the given name and returns the
// stored row.
func (s *Store) UpsertMap(name string, data MapData) (*Map, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal map data: %w", err)
	}

	id := uuid.New().String()
	now := time.Now().UTC().Unix()
	_, err = s.db.Exec(`
		INSERT INTO maps (id, name, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at
	`, id, name, string(payload), now, now)
	if err != nil {
		return nil, fmt.Errorf("upsert map: %w", err)
	}

	return s.GetMap(name)
}

// GetMap retrieves a map by name.
func (s *Store) GetMap(name string) (*Map, error) {
	row := s.db.QueryRow(`
		SELECT id, name, data, created_at, updated_at
		FROM maps
		WHERE name = ?
	`, name)
	return scanMap(row)
}

// ListMaps retrieves all maps ordered by name.
func (s *Store) ListMaps() ([]*Map, error) {
	rows, err := s.db.Query(`
		SELECT id, name, data, created_at, updated_at
		FROM maps
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query maps: %w", err)
	}
	defer rows.Close()

	var maps []*Map
	for rows.Next() {
		m, err := scanMap(rows)
		if err != nil {
			return nil, err
		}
		maps = append(maps, m)
	}
	return maps, rows.Err()
}

// DeleteMap removes a map by name.
func (s *Store) DeleteMap(name string) error {
	res, err := s.db.Exec(`DELETE FROM maps WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete map: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMap(row rowScanner) (*Map, error) {
	var m Map
	var payload string
	var createdAt, updatedAt int64

	err := row.Scan(&m.ID, &m.Name, &payload, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan map: %w", err)
	}

	if err := json.Unmarshal([]byte(payload), &m.Data); err != nil {
		return nil, fmt.Errorf("unmarshal map data: %w", err)
	}
	m.CreatedAt = time.Unix(createdAt, 0)
	m.UpdatedAt = time.Unix(updatedAt, 0)
	return &m, nil
}
