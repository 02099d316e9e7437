package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/certtrack/certification-system/internal/api/metrics"
	"github.com/certtrack/certification-system/internal/core/domain"
	"github.com/certtrack/certification-system/internal/core/ports"
)

// AuditStore persists the global activity log as one document, appending at
// the tail and evicting from the head once the cap is exceeded.
type AuditStore struct {
	kv ports.KVStore
	mu sync.Mutex
}

func NewAuditStore(kv ports.KVStore) *AuditStore {
	return &AuditStore{kv: kv}
}

func (s *AuditStore) Append(ctx context.Context, activity domain.AuditActivity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	activities, err := s.load(ctx)
	if err != nil {
		return err
	}

	activities = append(activities, activity)
	for len(activities) > domain.MaxAuditEntries {
		activities = activities[1:]
		metrics.AuditEntriesEvictedTotal.Inc()
	}

	raw, err := json.Marshal(activities)
	if err != nil {
		return fmt.Errorf("encode activity log: %w", err)
	}
	return s.kv.Set(ctx, keyActivityLog, raw)
}

func (s *AuditStore) List(ctx context.Context) ([]domain.AuditActivity, error) {
	return s.load(ctx)
}

func (s *AuditStore) load(ctx context.Context) ([]domain.AuditActivity, error) {
	raw, err := s.kv.Get(ctx, keyActivityLog)
	if errors.Is(err, ports.ErrKeyNotFound) {
		return []domain.AuditActivity{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load activity log: %w", err)
	}

	var activities []domain.AuditActivity
	if err := json.Unmarshal(raw, &activities); err != nil {
		return nil, fmt.Errorf("decode activity log: %w", err)
	}
	return activities, nil
}
