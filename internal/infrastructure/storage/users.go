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

// UserStore persists the shared user collection under a single key. Every
// mutation is a full read-modify-write of that document; the mutex makes the
// cycle a critical section within this process. Across processes the write
// stays unconditional: last writer wins, no version check.
type UserStore struct {
	kv ports.KVStore
	mu sync.Mutex
}

func NewUserStore(kv ports.KVStore) *UserStore {
	return &UserStore{kv: kv}
}

func (s *UserStore) List(ctx context.Context) ([]domain.User, error) {
	return s.load(ctx)
}

func (s *UserStore) Get(ctx context.Context, username string) (*domain.User, error) {
	users, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Username == username {
			return &users[i], nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *UserStore) Upsert(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load(ctx)
	if err != nil {
		return err
	}

	replaced := false
	for i := range users {
		if users[i].Username == user.Username {
			users[i] = *user
			replaced = true
			break
		}
	}
	if !replaced {
		users = append(users, *user)
	}
	return s.save(ctx, users)
}

func (s *UserStore) Delete(ctx context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load(ctx)
	if err != nil {
		return err
	}

	kept := users[:0]
	for _, u := range users {
		if u.Username != username {
			kept = append(kept, u)
		}
	}
	if len(kept) == len(users) {
		return domain.ErrUserNotFound
	}
	return s.save(ctx, kept)
}

func (s *UserStore) Update(ctx context.Context, username string, fn func(*domain.User) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load(ctx)
	if err != nil {
		return err
	}

	for i := range users {
		if users[i].Username == username {
			if err := fn(&users[i]); err != nil {
				return err
			}
			return s.save(ctx, users)
		}
	}
	return domain.ErrUserNotFound
}

func (s *UserStore) load(ctx context.Context) ([]domain.User, error) {
	raw, err := s.kv.Get(ctx, keyUsers)
	if errors.Is(err, ports.ErrKeyNotFound) {
		return []domain.User{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}

	var users []domain.User
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

func (s *UserStore) save(ctx context.Context, users []domain.User) error {
	raw, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}
	if err := s.kv.Set(ctx, keyUsers, raw); err != nil {
		return fmt.Errorf("save users: %w", err)
	}
	return nil
}
