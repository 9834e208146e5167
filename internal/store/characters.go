package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// UpsertCharacter creates or replaces the character with the given name and
// returns the stored row.
func (s *Store) UpsertCharacter(name string, data CharacterData) (*Character, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal character data: %w", err)
	}

	id := uuid.New().String()
	now := time.Now().UTC().Unix()
	_, err = s.db.Exec(`
		INSERT INTO characters (id, name, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at
	`, id, name, string(payload), now, now)
	if err != nil {
		return nil, fmt.Errorf("upsert character: %w", err)
	}

	return s.GetCharacter(name)
}

// GetCharacter retrieves a character by name.
func (s *Store) GetCharacter(name string) (*Character, error) {
	row := s.db.QueryRow(`
		SELECT id, name, data, created_at, updated_at
		FROM characters
		WHERE name = ?
	`, name)
	return scanCharacter(row)
}

// ListCharacters retrieves all characters ordered by name.
func (s *Store) ListCharacters() ([]*Character, error) {
	rows, err := s.db.Query(`
		SELECT id, name, data, created_at, updated_at
		FROM characters
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query characters: %w", err)
	}
	defer rows.Close()

	var characters []*Character
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, err
		}
		characters = append(characters, c)
	}
	return characters, rows.Err()
}

// DeleteCharacter removes a character by name.
func (s *Store) DeleteCharacter(name string) error {
	res, err := s.db.Exec(`DELETE FROM characters WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete character: %w", err)
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

func scanCharacter(row rowScanner) (*Character, error) {
	var c Character
	var payload string
	var createdAt, updatedAt int64

	err := row.Scan(&c.ID, &c.Name, &payload, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan character: %w", err)
	}

	if err := json.Unmarshal([]byte(payload), &c.Data); err != nil {
		return nil, fmt.Errorf("unmarshal character data: %w", err)
	}
	c.CreatedAt = time.Unix(createdAt, 0)
	c.UpdatedAt = time.Unix(updatedAt, 0)
	return &c, nil
}
