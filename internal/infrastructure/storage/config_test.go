package storage

import (
	"context"
	"testing"
	"time"

	"github.com/certtrack/certification-system/internal/core/domain"
)

func TestConfigStore_DefaultsWhenUnset(t *testing.T) {
	store := NewConfigStore(newMemKV())

	cfg, err := store.GetConfig(context.Background())
	if err != nil {
		t.Fatalf("GetConfig failed: %v", err)
	}
	if cfg != domain.DefaultSystemConfig() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}

	prefs, err := store.GetPreferences(context.Background())
	if err != nil {
		t.Fatalf("GetPreferences failed: %v", err)
	}
	if !prefs.Expired || !prefs.ExpiringSoon {
		t.Fatalf("expected default preferences enabled, got %+v", prefs)
	}
}

func TestConfigStore_SaveRoundtrip(t *testing.T) {
	store := NewConfigStore(newMemKV())

	cfg := domain.DefaultSystemConfig()
	cfg.ExpiryWarningDays = 14
	cfg.BackupFrequency = "daily"
	if err := store.SaveConfig(context.Background(), cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	got, _ := store.GetConfig(context.Background())
	if got != cfg {
		t.Fatalf("config roundtrip mismatch: %+v", got)
	}

	prefs := domain.NotificationPreferences{Expired: false, ExpiringSoon: true}
	if err := store.SavePreferences(context.Background(), prefs); err != nil {
		t.Fatalf("SavePreferences failed: %v", err)
	}
	gotPrefs, _ := store.GetPreferences(context.Background())
	if gotPrefs != prefs {
		t.Fatalf("preferences roundtrip mismatch: %+v", gotPrefs)
	}
}

func TestConfigStore_LastBackupTime(t *testing.T) {
	store := NewConfigStore(newMemKV())

	ts, err := store.LastBackupTime(context.Background())
	if err != nil {
		t.Fatalf("LastBackupTime failed: %v", err)
	}
	if !ts.IsZero() {
		t.Fatalf("expected zero time before first backup, got %v", ts)
	}

	want := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	if err := store.SetLastBackupTime(context.Background(), want); err != nil {
		t.Fatalf("SetLastBackupTime failed: %v", err)
	}

	got, _ := store.LastBackupTime(context.Background())
	if !got.Equal(want) {
		t.Fatalf("backup time roundtrip mismatch: %v", got)
	}
}
