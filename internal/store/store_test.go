package store

import (
	"path/filepath"
	"testing"
)

func setupStoreTest(t *testing.T) (*Store, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")
	s, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	return s, func() { s.Close() }
}

func TestOpenMemory(t *testing.T) {
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer s.Close()

	// Verify tables exist by querying them
	_, err = s.db.Exec("SELECT 1 FROM maps LIMIT 1")
	if err != nil {
		t.Errorf("maps table not created: %v", err)
	}

	_, err = s.db.Exec("SELECT 1 FROM characters LIMIT 1")
	if err != nil {
		t.Errorf("characters table not created: %v", err)
	}
}

func TestMapCRUD(t *testing.T) {
	s, cleanup := setupStoreTest(t)
	defer cleanup()

	data := MapData{
		RotationMode: RotationStartToEndThenReverse,
		Actions: []ActionRecord{
			{Kind: ActionKindMove, X: 50, Y: 50, HasPosition: true, Condition: ConditionAny},
			{Kind: ActionKindKey, Key: "a", Count: 2, Condition: ConditionEveryMillis, ConditionMillis: 1000},
		},
		Platforms: []PlatformRecord{
			{XStart: 0, XEnd: 120, Y: 50},
		},
		AutoMobBound: BoundRecord{X: 10, Y: 10, W: 100, H: 40},
	}

	// Create
	m, err := s.UpsertMap("henesys-hunting-ground", data)
	if err != nil {
		t.Fatalf("UpsertMap() error: %v", err)
	}
	if m.ID == "" {
		t.Error("expected non-empty map ID")
	}
	if m.Name != "henesys-hunting-ground" {
		t.Errorf("expected name=henesys-hunting-ground, got %s", m.Name)
	}
	if len(m.Data.Actions) != 2 {
		t.Fatalf("expected 2 actions, got %d", len(m.Data.Actions))
	}
	if m.Data.Actions[1].ConditionMillis != 1000 {
		t.Errorf("expected condition_millis=1000, got %d", m.Data.Actions[1].ConditionMillis)
	}

	// Get
	fetched, err := s.GetMap("henesys-hunting-ground")
	if err != nil {
		t.Fatalf("GetMap() error: %v", err)
	}
	if fetched.ID != m.ID {
		t.Errorf("expected ID=%s, got %s", m.ID, fetched.ID)
	}
	if fetched.Data.RotationMode != RotationStartToEndThenReverse {
		t.Errorf("expected rotation mode round trip, got %s", fetched.Data.RotationMode)
	}

	// Upsert keeps the name unique and replaces the payload
	data.RotationMode = RotationAutoMobbing
	updated, err := s.UpsertMap("henesys-hunting-ground", data)
	if err != nil {
		t.Fatalf("UpsertMap() update error: %v", err)
	}
	if updated.Data.RotationMode != RotationAutoMobbing {
		t.Errorf("expected rotation mode=auto_mobbing after update, got %s", updated.Data.RotationMode)
	}

	// List
	maps, err := s.ListMaps()
	if err != nil {
		t.Fatalf("ListMaps() error: %v", err)
	}
	if len(maps) != 1 {
		t.Errorf("expected 1 map after upsert, got %d", len(maps))
	}

	// Delete
	if err := s.DeleteMap("henesys-hunting-ground"); err != nil {
		t.Fatalf("DeleteMap() error: %v", err)
	}
	if _, err := s.GetMap("henesys-hunting-ground"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestCharacterCRUD(t *testing.T) {
	s, cleanup := setupStoreTest(t)
	defer cleanup()

	data := CharacterData{
		InteractKey: "y",
		JumpKey:     "space",
		RopeLiftKey: "c",
		PotionKey:   "delete",
		BuffKeys: map[string]string{
			"sayram_elixir": "9",
		},
	}

	c, err := s.UpsertCharacter("main", data)
	if err != nil {
		t.Fatalf("UpsertCharacter() error: %v", err)
	}
	if c.ID == "" {
		t.Error("expected non-empty character ID")
	}
	if c.Data.JumpKey != "space" {
		t.Errorf("expected jump_key=space, got %s", c.Data.JumpKey)
	}
	if c.Data.BuffKeys["sayram_elixir"] != "9" {
		t.Errorf("expected buff key round trip, got %v", c.Data.BuffKeys)
	}

	fetched, err := s.GetCharacter("main")
	if err != nil {
		t.Fatalf("GetCharacter() error: %v", err)
	}
	if fetched.ID != c.ID {
		t.Errorf("expected ID=%s, got %s", c.ID, fetched.ID)
	}

	characters, err := s.ListCharacters()
	if err != nil {
		t.Fatalf("ListCharacters() error: %v", err)
	}
	if len(characters) != 1 {
		t.Errorf("expected 1 character, got %d", len(characters))
	}

	if err := s.DeleteCharacter("main"); err != nil {
		t.Fatalf("DeleteCharacter() error: %v", err)
	}
	if err := s.DeleteCharacter("main"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestGetNonExistent(t *testing.T) {
	s, cleanup := setupStoreTest(t)
	defer cleanup()

	if _, err := s.GetMap("missing"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound for missing map, got %v", err)
	}
	if _, err := s.GetCharacter("missing"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound for missing character, got %v", err)
	}
}
