package store

import (
	"errors"
	"testing"

	"github.com/pontosapp/pontos/internal/database"
)

func setupSettingsTestDB(t *testing.T) *SettingsStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSettingsStore(db)
}

func TestSettingsGetSet(t *testing.T) {
	ss := setupSettingsTestDB(t)

	// Seeded default
	v, err := ss.Get(SettingHistoryLimit)
	if err != nil {
		t.Fatalf("get history_limit: %v", err)
	}
	if v != "100" {
		t.Errorf("history_limit = %q, want %q", v, "100")
	}

	// Set a new key
	if err := ss.Set(SettingAdminPINHash, "hash-value"); err != nil {
		t.Fatalf("set pin hash: %v", err)
	}
	v, err = ss.Get(SettingAdminPINHash)
	if err != nil {
		t.Fatalf("get pin hash: %v", err)
	}
	if v != "hash-value" {
		t.Errorf("pin hash = %q, want %q", v, "hash-value")
	}

	// Overwrite
	if err := ss.Set(SettingAdminPINHash, "new-hash"); err != nil {
		t.Fatalf("overwrite pin hash: %v", err)
	}
	v, _ = ss.Get(SettingAdminPINHash)
	if v != "new-hash" {
		t.Errorf("pin hash = %q, want %q", v, "new-hash")
	}
}

func TestSettingsGetMissing(t *testing.T) {
	ss := setupSettingsTestDB(t)

	_, err := ss.Get("nonexistent")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSettingsGetAll(t *testing.T) {
	ss := setupSettingsTestDB(t)

	ss.Set("theme", "dark")

	all, err := ss.GetAll()
	if err != nil {
		t.Fatalf("get all settings: %v", err)
	}
	if all[SettingHistoryLimit] != "100" {
		t.Errorf("history_limit = %q, want %q", all[SettingHistoryLimit], "100")
	}
	if all["theme"] != "dark" {
		t.Errorf("theme = %q, want %q", all["theme"], "dark")
	}
}
