package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/certtrack/certification-system/internal/core/domain"
	"github.com/certtrack/certification-system/internal/core/ports"
)

// ConfigStore persists the system configuration, notification preferences,
// and the last-backup marker. Missing keys yield defaults, never errors.
type ConfigStore struct {
	kv ports.KVStore
}

func NewConfigStore(kv ports.KVStore) *ConfigStore {
	return &ConfigStore{kv: kv}
}

func (s *ConfigStore) GetConfig(ctx context.Context) (domain.SystemConfig, error) {
	raw, err := s.kv.Get(ctx, keySystemConfig)
	if errors.Is(err, ports.ErrKeyNotFound) {
		return domain.DefaultSystemConfig(), nil
	}
	if err != nil {
		return domain.SystemConfig{}, fmt.Errorf("load system config: %w", err)
	}

	var cfg domain.SystemConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return domain.SystemConfig{}, fmt.Errorf("decode system config: %w", err)
	}
	return cfg, nil
}

func (s *ConfigStore) SaveConfig(ctx context.Context, cfg domain.SystemConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode system config: %w", err)
	}
	return s.kv.Set(ctx, keySystemConfig, raw)
}

func (s *ConfigStore) GetPreferences(ctx context.Context) (domain.NotificationPreferences, error) {
	raw, err := s.kv.Get(ctx, keyNotificationPreferences)
	if errors.Is(err, ports.ErrKeyNotFound) {
		return domain.DefaultNotificationPreferences(), nil
	}
	if err != nil {
		return domain.NotificationPreferences{}, fmt.Errorf("load notification preferences: %w", err)
	}

	var prefs domain.NotificationPreferences
	if err := json.Unmarshal(raw, &prefs); err != nil {
		return domain.NotificationPreferences{}, fmt.Errorf("decode notification preferences: %w", err)
	}
	return prefs, nil
}

func (s *ConfigStore) SavePreferences(ctx context.Context, prefs domain.NotificationPreferences) error {
	raw, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("encode notification preferences: %w", err)
	}
	return s.kv.Set(ctx, keyNotificationPreferences, raw)
}

// LastBackupTime returns the zero time when no backup has run yet.
func (s *ConfigStore) LastBackupTime(ctx context.Context) (time.Time, error) {
	raw, err := s.kv.Get(ctx, keyLastBackupTime)
	if errors.Is(err, ports.ErrKeyNotFound) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("load last backup time: %w", err)
	}

	t, err := time.Parse(time.RFC3339, string(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("decode last backup time: %w", err)
	}
	return t, nil
}

func (s *ConfigStore) SetLastBackupTime(ctx context.Context, t time.Time) error {
	return s.kv.Set(ctx, keyLastBackupTime, []byte(t.UTC().Format(time.RFC3339)))
}
