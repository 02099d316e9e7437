package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/certtrack/certification-system/internal/core/domain"
	"github.com/certtrack/certification-system/internal/core/ports"
)

// NotificationStore persists per-user notification lists and the broadcast
// history, one document per key. Like the user store, every mutation is a
// full read-modify-write of its document and the mutex makes that cycle a
// critical section within this process; dispatcher workers and request
// handlers write the same lists concurrently.
type NotificationStore struct {
	kv ports.KVStore
	mu sync.Mutex
}

func NewNotificationStore(kv ports.KVStore) *NotificationStore {
	return &NotificationStore{kv: kv}
}

func (s *NotificationStore) ListForUser(ctx context.Context, username string) ([]domain.Notification, error) {
	raw, err := s.kv.Get(ctx, notificationsKey(username))
	if errors.Is(err, ports.ErrKeyNotFound) {
		return []domain.Notification{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load notifications: %w", err)
	}

	var notifs []domain.Notification
	if err := json.Unmarshal(raw, &notifs); err != nil {
		return nil, fmt.Errorf("decode notifications: %w", err)
	}
	return notifs, nil
}

// Update loads the user's list, applies fn, and persists the result. An
// error from fn aborts the cycle without writing.
func (s *NotificationStore) Update(ctx context.Context, username string, fn func(*[]domain.Notification) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	notifs, err := s.ListForUser(ctx, username)
	if err != nil {
		return err
	}
	if err := fn(&notifs); err != nil {
		return err
	}
	return s.save(ctx, username, notifs)
}

// ClearForUser removes the whole list key. Clearing a user with no
// notifications is a no-op, not an error.
func (s *NotificationStore) ClearForUser(ctx context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.kv.Delete(ctx, notificationsKey(username))
	if errors.Is(err, ports.ErrKeyNotFound) {
		return nil
	}
	return err
}

func (s *NotificationStore) ListBroadcasts(ctx context.Context) ([]domain.BroadcastRecord, error) {
	raw, err := s.kv.Get(ctx, keyAdminNotifications)
	if errors.Is(err, ports.ErrKeyNotFound) {
		return []domain.BroadcastRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load broadcasts: %w", err)
	}

	var records []domain.BroadcastRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode broadcasts: %w", err)
	}
	return records, nil
}

// UpdateBroadcasts is the broadcast-history counterpart of Update.
func (s *NotificationStore) UpdateBroadcasts(ctx context.Context, fn func(*[]domain.BroadcastRecord) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.ListBroadcasts(ctx)
	if err != nil {
		return err
	}
	if err := fn(&records); err != nil {
		return err
	}

	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode broadcasts: %w", err)
	}
	return s.kv.Set(ctx, keyAdminNotifications, raw)
}

func (s *NotificationStore) save(ctx context.Context, username string, notifs []domain.Notification) error {
	raw, err := json.Marshal(notifs)
	if err != nil {
		return fmt.Errorf("encode notifications: %w", err)
	}
	return s.kv.Set(ctx, notificationsKey(username), raw)
}
