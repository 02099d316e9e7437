package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/certtrack/certification-system/internal/core/domain"
	"github.com/certtrack/certification-system/internal/core/ports"
)

// AuditLog records activity entries into the bounded global log. Recording
// never fails the caller: a write error is logged and dropped, matching the
// trail's best-effort durability.
type AuditLog struct {
	repo ports.AuditRepository
	log  zerolog.Logger
	now  func() time.Time
}

func NewAuditLog(repo ports.AuditRepository, log zerolog.Logger) *AuditLog {
	return &AuditLog{repo: repo, log: log, now: time.Now}
}

func (s *AuditLog) Record(ctx context.Context, username, action, details string) {
	activity := domain.AuditActivity{
		ID:        uuid.NewString(),
		Username:  username,
		Action:    action,
		Details:   details,
		Timestamp: s.now().UTC(),
	}
	if err := s.repo.Append(ctx, activity); err != nil {
		s.log.Warn().Err(err).Str("action", action).Msg("failed to append audit activity")
	}
}

func (s *AuditLog) ListAll(ctx context.Context) ([]domain.AuditActivity, error) {
	return s.repo.List(ctx)
}

// ListForUser is a linear filter over the global log; the log carries no
// per-user index.
func (s *AuditLog) ListForUser(ctx context.Context, username string) ([]domain.AuditActivity, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []domain.AuditActivity
	for _, a := range all {
		if a.Username == username {
			out = append(out, a)
		}
	}
	return out, nil
}
