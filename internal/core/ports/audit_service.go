package ports

import (
	"context"

	"github.com/certtrack/certification-system/internal/core/domain"
)

// AuditService records and reads activity log entries. Record is non-fatal:
// a failed append never fails the operation that triggered it.
type AuditService interface {
	Record(ctx context.Context, username, action, details string)
	ListAll(ctx context.Context) ([]domain.AuditActivity, error)
	ListForUser(ctx context.Context, username string) ([]domain.AuditActivity, error)
}
