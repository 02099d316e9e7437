package ports

import (
	"context"

	"github.com/certtrack/certification-system/internal/core/domain"
)

// BroadcastInput carries an admin broadcast message.
type BroadcastInput struct {
	Title      string
	Message    string
	SendBy     string
	Recipients []string
	SendToAll  bool
}

// NotificationService manages per-user notification lists. Expiry notices
// are recomputed from certification state on every ListForUser call and
// merged into the persisted list by (id, type).
type NotificationService interface {
	ListForUser(ctx context.Context, username, filter string) ([]domain.Notification, error)
	MarkRead(ctx context.Context, username, id string) error
	Delete(ctx context.Context, username, id string) error
	ClearAll(ctx context.Context, username string) error

	Preferences(ctx context.Context) (domain.NotificationPreferences, error)
	SavePreferences(ctx context.Context, prefs domain.NotificationPreferences) error

	// Broadcast records the message in the admin history and resolves the
	// recipient set; per-recipient delivery happens through Deliver.
	Broadcast(ctx context.Context, input BroadcastInput) (*domain.BroadcastRecord, error)
	ListBroadcasts(ctx context.Context) ([]domain.BroadcastRecord, error)
	DeleteBroadcast(ctx context.Context, id string) error

	// Deliver appends a single notice to one user's persisted list.
	Deliver(ctx context.Context, username string, notice domain.Notification) error
}
