package ports

import (
	"context"

	"github.com/certtrack/certification-system/internal/core/domain"
)

// UserRepository persists the shared user collection. Implementations read
// the entire collection, apply the change, and write the collection back;
// in-process mutations are serialized so two handlers cannot interleave
// their read-modify-write cycles.
type UserRepository interface {
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, username string) (*domain.User, error)
	// Upsert inserts the user or replaces the record with the same username.
	Upsert(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, username string) error
	// Update applies fn to the named user inside a single critical section.
	// fn mutates the user in place; any error aborts the write.
	Update(ctx context.Context, username string, fn func(*domain.User) error) error
}
