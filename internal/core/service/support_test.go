package service

import (
	"context"
	"time"

	"github.com/certtrack/certification-system/internal/core/domain"
)

// memUsers is an in-memory UserRepository for service tests. Order of
// insertion is preserved, matching the document-backed store.
type memUsers struct {
	users []domain.User
}

func newMemUsers(users ...domain.User) *memUsers {
	return &memUsers{users: users}
}

func (r *memUsers) List(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, len(r.users))
	copy(out, r.users)
	return out, nil
}

func (r *memUsers) Get(_ context.Context, username string) (*domain.User, error) {
	for i := range r.users {
		if r.users[i].Username == username {
			clone := r.users[i]
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUsers) Upsert(_ context.Context, user *domain.User) error {
	for i := range r.users {
		if r.users[i].Username == user.Username {
			r.users[i] = *user
			return nil
		}
	}
	r.users = append(r.users, *user)
	return nil
}

func (r *memUsers) Delete(_ context.Context, username string) error {
	for i := range r.users {
		if r.users[i].Username == username {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func (r *memUsers) Update(_ context.Context, username string, fn func(*domain.User) error) error {
	for i := range r.users {
		if r.users[i].Username == username {
			return fn(&r.users[i])
		}
	}
	return domain.ErrUserNotFound
}

// memNotifs is an in-memory NotificationRepository.
type memNotifs struct {
	perUser    map[string][]domain.Notification
	broadcasts []domain.BroadcastRecord
}

func newMemNotifs() *memNotifs {
	return &memNotifs{perUser: map[string][]domain.Notification{}}
}

func (r *memNotifs) ListForUser(_ context.Context, username string) ([]domain.Notification, error) {
	out := make([]domain.Notification, len(r.perUser[username]))
	copy(out, r.perUser[username])
	return out, nil
}

// SaveForUser seeds a user's list directly; the service mutates through
// Update only.
func (r *memNotifs) SaveForUser(_ context.Context, username string, notifs []domain.Notification) error {
	r.perUser[username] = notifs
	return nil
}

func (r *memNotifs) Update(_ context.Context, username string, fn func(*[]domain.Notification) error) error {
	notifs := make([]domain.Notification, len(r.perUser[username]))
	copy(notifs, r.perUser[username])
	if err := fn(&notifs); err != nil {
		return err
	}
	r.perUser[username] = notifs
	return nil
}

func (r *memNotifs) ClearForUser(_ context.Context, username string) error {
	delete(r.perUser, username)
	return nil
}

func (r *memNotifs) ListBroadcasts(_ context.Context) ([]domain.BroadcastRecord, error) {
	out := make([]domain.BroadcastRecord, len(r.broadcasts))
	copy(out, r.broadcasts)
	return out, nil
}

func (r *memNotifs) UpdateBroadcasts(_ context.Context, fn func(*[]domain.BroadcastRecord) error) error {
	records := make([]domain.BroadcastRecord, len(r.broadcasts))
	copy(records, r.broadcasts)
	if err := fn(&records); err != nil {
		return err
	}
	r.broadcasts = records
	return nil
}

// memConfig is an in-memory ConfigRepository returning defaults until saved.
type memConfig struct {
	cfg        *domain.SystemConfig
	prefs      *domain.NotificationPreferences
	lastBackup time.Time
}

func newMemConfig() *memConfig {
	return &memConfig{}
}

func (r *memConfig) GetConfig(_ context.Context) (domain.SystemConfig, error) {
	if r.cfg == nil {
		return domain.DefaultSystemConfig(), nil
	}
	return *r.cfg, nil
}

func (r *memConfig) SaveConfig(_ context.Context, cfg domain.SystemConfig) error {
	r.cfg = &cfg
	return nil
}

func (r *memConfig) GetPreferences(_ context.Context) (domain.NotificationPreferences, error) {
	if r.prefs == nil {
		return domain.DefaultNotificationPreferences(), nil
	}
	return *r.prefs, nil
}

func (r *memConfig) SavePreferences(_ context.Context, prefs domain.NotificationPreferences) error {
	r.prefs = &prefs
	return nil
}

func (r *memConfig) LastBackupTime(_ context.Context) (time.Time, error) {
	return r.lastBackup, nil
}

func (r *memConfig) SetLastBackupTime(_ context.Context, t time.Time) error {
	r.lastBackup = t
	return nil
}

// recordingAudit captures audit activity so tests can assert on actions.
type recordingAudit struct {
	entries []domain.AuditActivity
}

func (a *recordingAudit) Record(_ context.Context, username, action, details string) {
	a.entries = append(a.entries, domain.AuditActivity{
		Username:  username,
		Action:    action,
		Details:   details,
		Timestamp: time.Now().UTC(),
	})
}

func (a *recordingAudit) ListAll(_ context.Context) ([]domain.AuditActivity, error) {
	out := make([]domain.AuditActivity, len(a.entries))
	copy(out, a.entries)
	return out, nil
}

func (a *recordingAudit) ListForUser(_ context.Context, username string) ([]domain.AuditActivity, error) {
	var out []domain.AuditActivity
	for _, e := range a.entries {
		if e.Username == username {
			out = append(out, e)
		}
	}
	return out, nil
}

func (a *recordingAudit) lastAction() string {
	if len(a.entries) == 0 {
		return ""
	}
	return a.entries[len(a.entries)-1].Action
}
