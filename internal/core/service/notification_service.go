package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/certtrack/certification-system/internal/api/metrics"
	"github.com/certtrack/certification-system/internal/core/domain"
	"github.com/certtrack/certification-system/internal/core/ports"
)

// NotificationService derives expiry notices from certification state and
// maintains the persisted per-user notification lists plus the admin
// broadcast history.
type NotificationService struct {
	users  ports.UserRepository
	notifs ports.NotificationRepository
	config ports.ConfigRepository
	audit  ports.AuditService
	log    zerolog.Logger
	now    func() time.Time
}

func NewNotificationService(users ports.UserRepository, notifs ports.NotificationRepository, config ports.ConfigRepository, audit ports.AuditService, log zerolog.Logger) *NotificationService {
	return &NotificationService{users: users, notifs: notifs, config: config, audit: audit, log: log, now: time.Now}
}

// ListForUser recomputes transient expiry notices from the user's current
// certifications, merges them into the persisted list by (id, type), persists
// the merged list, and returns it filtered. Notices are only generated on
// load, never by a background timer.
func (s *NotificationService) ListForUser(ctx context.Context, username, filter string) ([]domain.Notification, error) {
	user, err := s.users.Get(ctx, username)
	if err != nil {
		return nil, err
	}

	fresh := s.generate(ctx, user)

	// Merge inside the repository's critical section so a broadcast
	// delivered between the load and the save is not overwritten.
	var merged []domain.Notification
	err = s.notifs.Update(ctx, username, func(list *[]domain.Notification) error {
		merged = domain.MergeNotifications(*list, fresh)
		*list = merged
		return nil
	})
	if err != nil {
		return nil, err
	}

	return filterNotifications(merged, filter), nil
}

func (s *NotificationService) MarkRead(ctx context.Context, username, id string) error {
	return s.notifs.Update(ctx, username, func(list *[]domain.Notification) error {
		notifs := *list
		found := false
		for i := range notifs {
			if notifs[i].ID == id {
				notifs[i].Read = true
				found = true
			}
		}
		if !found {
			return domain.ErrNotificationNotFound
		}
		return nil
	})
}

func (s *NotificationService) Delete(ctx context.Context, username, id string) error {
	return s.notifs.Update(ctx, username, func(list *[]domain.Notification) error {
		notifs := *list
		kept := notifs[:0]
		for _, n := range notifs {
			if n.ID != id {
				kept = append(kept, n)
			}
		}
		if len(kept) == len(notifs) {
			return domain.ErrNotificationNotFound
		}
		*list = kept
		return nil
	})
}

func (s *NotificationService) ClearAll(ctx context.Context, username string) error {
	return s.notifs.ClearForUser(ctx, username)
}

func (s *NotificationService) Preferences(ctx context.Context) (domain.NotificationPreferences, error) {
	return s.config.GetPreferences(ctx)
}

func (s *NotificationService) SavePreferences(ctx context.Context, prefs domain.NotificationPreferences) error {
	return s.config.SavePreferences(ctx, prefs)
}

func (s *NotificationService) Broadcast(ctx context.Context, input ports.BroadcastInput) (*domain.BroadcastRecord, error) {
	if input.Title == "" || input.Message == "" {
		return nil, domain.ErrMissingFields
	}

	recipients := input.Recipients
	if input.SendToAll {
		users, err := s.users.List(ctx)
		if err != nil {
			return nil, err
		}
		recipients = recipients[:0]
		for _, u := range users {
			recipients = append(recipients, u.Username)
		}
	}
	if len(recipients) == 0 {
		return nil, domain.ErrMissingFields
	}

	record := &domain.BroadcastRecord{
		ID:         uuid.NewString(),
		Title:      input.Title,
		Message:    input.Message,
		SendBy:     input.SendBy,
		Recipients: recipients,
		SentAt:     s.now().UTC(),
		Read:       map[string]bool{},
	}

	err := s.notifs.UpdateBroadcasts(ctx, func(history *[]domain.BroadcastRecord) error {
		*history = append(*history, *record)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, input.SendBy, "send_bulk_notification",
		fmt.Sprintf("Sent %q to %d users", input.Title, len(recipients)))
	s.log.Info().Str("broadcast_id", record.ID).Int("recipients", len(recipients)).Msg("broadcast recorded")
	return record, nil
}

func (s *NotificationService) ListBroadcasts(ctx context.Context) ([]domain.BroadcastRecord, error) {
	return s.notifs.ListBroadcasts(ctx)
}

func (s *NotificationService) DeleteBroadcast(ctx context.Context, id string) error {
	return s.notifs.UpdateBroadcasts(ctx, func(history *[]domain.BroadcastRecord) error {
		records := *history
		kept := records[:0]
		for _, r := range records {
			if r.ID != id {
				kept = append(kept, r)
			}
		}
		if len(kept) == len(records) {
			return domain.ErrNotificationNotFound
		}
		*history = kept
		return nil
	})
}

// Deliver appends one notice to a user's persisted list. Called by the
// broadcast dispatcher workers; per-user ordering is guaranteed by the
// dispatcher's sharding, and the repository's critical section keeps the
// append atomic against concurrent list rewrites.
func (s *NotificationService) Deliver(ctx context.Context, username string, notice domain.Notification) error {
	err := s.notifs.Update(ctx, username, func(list *[]domain.Notification) error {
		*list = append(*list, notice)
		return nil
	})
	if err != nil {
		return fmt.Errorf("deliver notification: %w", err)
	}
	metrics.NotificationsGeneratedTotal.WithLabelValues(notice.Type).Inc()
	return nil
}

// generate derives the transient expiry notices for one user. The notice id
// is the certification id, so a certification yields at most one persisted
// notice per type across repeated loads.
func (s *NotificationService) generate(ctx context.Context, user *domain.User) []domain.Notification {
	prefs, err := s.config.GetPreferences(ctx)
	if err != nil {
		prefs = domain.DefaultNotificationPreferences()
	}
	cfg, err := s.config.GetConfig(ctx)
	if err != nil {
		cfg = domain.DefaultSystemConfig()
	}
	if !cfg.ExpiryAlertEnabled {
		return nil
	}

	now := s.now()
	var notices []domain.Notification
	for _, cert := range user.Certifications {
		expiry, err := domain.ParseDate(cert.ExpiryDate)
		if err != nil {
			continue
		}

		switch domain.Classify(expiry, now, cfg.ExpiryWarningDays) {
		case domain.ExpiryExpired:
			if !prefs.Expired {
				continue
			}
			notices = append(notices, domain.Notification{
				ID:        cert.ID,
				Type:      domain.NotificationExpired,
				Title:     "Certificate Expired",
				Message:   fmt.Sprintf("Your %q certificate expired on %s", cert.Name, cert.ExpiryDate),
				Date:      cert.ExpiryDate,
				CertName:  cert.Name,
				Timestamp: now.UTC(),
			})
			metrics.NotificationsGeneratedTotal.WithLabelValues(domain.NotificationExpired).Inc()
		case domain.ExpiryExpiringSoon:
			if !prefs.ExpiringSoon {
				continue
			}
			days := domain.DaysUntil(expiry, now)
			notices = append(notices, domain.Notification{
				ID:        cert.ID,
				Type:      domain.NotificationExpiringSoon,
				Title:     "Certificate Expiring Soon",
				Message:   fmt.Sprintf("Your %q certificate will expire in %d days (%s)", cert.Name, days, cert.ExpiryDate),
				Date:      cert.ExpiryDate,
				CertName:  cert.Name,
				Timestamp: now.UTC(),
			})
			metrics.NotificationsGeneratedTotal.WithLabelValues(domain.NotificationExpiringSoon).Inc()
		}
	}
	return notices
}

func filterNotifications(notifs []domain.Notification, filter string) []domain.Notification {
	switch filter {
	case "", "all":
		return notifs
	case "unread":
		out := make([]domain.Notification, 0, len(notifs))
		for _, n := range notifs {
			if !n.Read {
				out = append(out, n)
			}
		}
		return out
	default:
		out := make([]domain.Notification, 0, len(notifs))
		for _, n := range notifs {
			if n.Type == filter {
				out = append(out, n)
			}
		}
		return out
	}
}
