package ports

import (
	"context"

	"github.com/certtrack/certification-system/internal/core/domain"
)

// AuditRepository persists the bounded global activity log.
type AuditRepository interface {
	// Append adds the activity, evicting the oldest entry once the cap of
	// domain.MaxAuditEntries is exceeded.
	Append(ctx context.Context, activity domain.AuditActivity) error
	List(ctx context.Context) ([]domain.AuditActivity, error)
}
