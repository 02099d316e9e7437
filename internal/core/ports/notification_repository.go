package ports

import (
	"context"

	"github.com/certtrack/certification-system/internal/core/domain"
)

// NotificationRepository persists per-user notification lists and the
// admin-side broadcast history. Mutations run through Update and
// UpdateBroadcasts: fn receives the current document and edits it in place
// inside the repository's read-modify-write critical section, and an error
// from fn aborts the write.
type NotificationRepository interface {
	ListForUser(ctx context.Context, username string) ([]domain.Notification, error)
	Update(ctx context.Context, username string, fn func(*[]domain.Notification) error) error
	ClearForUser(ctx context.Context, username string) error
	ListBroadcasts(ctx context.Context) ([]domain.BroadcastRecord, error)
	UpdateBroadcasts(ctx context.Context, fn func(*[]domain.BroadcastRecord) error) error
}
