package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/certtrack/certification-system/internal/core/domain"
	"github.com/certtrack/certification-system/internal/core/ports"
)

// AdminService covers user management, system configuration, analytics, and
// backup/import/export.
type AdminService struct {
	users  ports.UserRepository
	notifs ports.NotificationRepository
	config ports.ConfigRepository
	audit  ports.AuditService
	log    zerolog.Logger
	now    func() time.Time
}

func NewAdminService(users ports.UserRepository, notifs ports.NotificationRepository, config ports.ConfigRepository, audit ports.AuditService, log zerolog.Logger) *AdminService {
	return &AdminService{users: users, notifs: notifs, config: config, audit: audit, log: log, now: time.Now}
}

func (s *AdminService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// DeleteUser removes the user record and, with it, every certification it
// owns; nothing referencing them survives in any listing.
func (s *AdminService) DeleteUser(ctx context.Context, adminUsername, username string) error {
	if err := s.users.Delete(ctx, username); err != nil {
		return err
	}
	if err := s.notifs.ClearForUser(ctx, username); err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("failed to clear notifications of deleted user")
	}
	s.audit.Record(ctx, adminUsername, "delete_user", "Deleted user "+username)
	return nil
}

func (s *AdminService) ToggleRole(ctx context.Context, adminUsername, username string) (string, error) {
	var newRole string
	err := s.users.Update(ctx, username, func(u *domain.User) error {
		if u.Role == domain.RoleAdmin {
			u.Role = domain.RoleUser
		} else {
			u.Role = domain.RoleAdmin
		}
		newRole = u.Role
		return nil
	})
	if err != nil {
		return "", err
	}
	s.audit.Record(ctx, adminUsername, "change_role", fmt.Sprintf("Changed role of %s to %s", username, newRole))
	return newRole, nil
}

func (s *AdminService) ExportUsers(ctx context.Context) ([]byte, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]ports.UserSummary, 0, len(users))
	for _, u := range users {
		created := u.CreatedDate
		if created == "" {
			created = "N/A"
		}
		summaries = append(summaries, ports.UserSummary{
			Username:       u.Username,
			Role:           u.Role,
			Certifications: len(u.Certifications),
			CreatedDate:    created,
		})
	}
	return json.MarshalIndent(summaries, "", "  ")
}

// ImportUsers shallow-merges an uploaded user list. The merge works at the
// JSON field level: for an existing username, fields present in the import
// overwrite the stored ones and everything else is kept; unknown usernames
// are appended as new records. Malformed JSON aborts the whole import.
func (s *AdminService) ImportUsers(ctx context.Context, adminUsername string, data []byte) (int, error) {
	var imported []map[string]json.RawMessage
	if err := json.Unmarshal(data, &imported); err != nil {
		return 0, domain.ErrInvalidImport
	}

	count := 0
	for _, fields := range imported {
		var username string
		if raw, ok := fields["username"]; ok {
			if json.Unmarshal(raw, &username) != nil || username == "" {
				continue
			}
		} else {
			continue
		}

		merged, err := s.mergeUser(ctx, username, fields)
		if err != nil {
			return count, err
		}
		if err := s.users.Upsert(ctx, merged); err != nil {
			return count, err
		}
		count++
	}

	s.audit.Record(ctx, adminUsername, "import_users", fmt.Sprintf("Imported %d users", count))
	return count, nil
}

func (s *AdminService) mergeUser(ctx context.Context, username string, fields map[string]json.RawMessage) (*domain.User, error) {
	base := map[string]json.RawMessage{}
	if existing, err := s.users.Get(ctx, username); err == nil {
		raw, err := json.Marshal(existing)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &base); err != nil {
			return nil, err
		}
	}

	for k, v := range fields {
		base[k] = v
	}

	raw, err := json.Marshal(base)
	if err != nil {
		return nil, err
	}
	var user domain.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, domain.ErrInvalidImport
	}
	if user.Role == "" {
		user.Role = domain.RoleUser
	}
	if user.Certifications == nil {
		user.Certifications = []domain.Certification{}
	}
	return &user, nil
}

func (s *AdminService) Stats(ctx context.Context) (*ports.SystemStats, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	logs, err := s.audit.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	certCount := 0
	for _, u := range users {
		certCount += len(u.Certifications)
	}

	lastBackup := "Never"
	if t, err := s.config.LastBackupTime(ctx); err == nil && !t.IsZero() {
		lastBackup = t.Format(time.RFC3339)
	}

	return &ports.SystemStats{
		TotalUsers:          len(users),
		TotalCertifications: certCount,
		LogsCount:           len(logs),
		LastBackup:          lastBackup,
	}, nil
}

func (s *AdminService) GetConfig(ctx context.Context) (domain.SystemConfig, error) {
	return s.config.GetConfig(ctx)
}

func (s *AdminService) SaveConfig(ctx context.Context, adminUsername string, cfg domain.SystemConfig) error {
	if err := s.config.SaveConfig(ctx, cfg); err != nil {
		return err
	}
	s.audit.Record(ctx, adminUsername, "update_system_config", "Updated system configuration")
	return nil
}

func (s *AdminService) ResetConfig(ctx context.Context, adminUsername string) (domain.SystemConfig, error) {
	cfg := domain.DefaultSystemConfig()
	if err := s.config.SaveConfig(ctx, cfg); err != nil {
		return domain.SystemConfig{}, err
	}
	s.audit.Record(ctx, adminUsername, "reset_system_config", "Reset system configuration to defaults")
	return cfg, nil
}

func (s *AdminService) Analytics(ctx context.Context) (*ports.AnalyticsReport, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	logs, err := s.audit.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	cfg, err := s.config.GetConfig(ctx)
	if err != nil {
		cfg = domain.DefaultSystemConfig()
	}

	now := s.now()
	report := &ports.AnalyticsReport{GeneratedAt: now.UTC()}

	// Status distribution and compliance share one classification pass.
	var active, expiring, expired int
	categories := map[string]int{}
	for _, u := range users {
		for _, c := range u.Certifications {
			switch domain.ClassifyDate(c.ExpiryDate, now, cfg.ExpiryWarningDays) {
			case domain.ExpiryExpired:
				expired++
			case domain.ExpiryExpiringSoon:
				expiring++
			default:
				active++
			}

			category := c.Category
			if category == "" {
				category = "Uncategorized"
			}
			categories[category]++
		}
	}

	report.StatusDistribution = []ports.NameValue{
		{Name: "Active", Value: active},
		{Name: "Expiring Soon", Value: expiring},
		{Name: "Expired", Value: expired},
	}

	for name, value := range categories {
		report.CategoryBreakdown = append(report.CategoryBreakdown, ports.NameValue{Name: name, Value: value})
	}
	sort.Slice(report.CategoryBreakdown, func(i, j int) bool {
		return report.CategoryBreakdown[i].Name < report.CategoryBreakdown[j].Name
	})

	activityCounts := map[string]int{}
	for _, l := range logs {
		activityCounts[l.Username]++
	}
	for _, u := range users {
		report.UserEngagement = append(report.UserEngagement, ports.EngagementEntry{
			Name:           u.Username,
			Activities:     activityCounts[u.Username],
			Certifications: len(u.Certifications),
		})
	}
	sort.Slice(report.UserEngagement, func(i, j int) bool {
		return report.UserEngagement[i].Activities > report.UserEngagement[j].Activities
	})
	if len(report.UserEngagement) > 8 {
		report.UserEngagement = report.UserEngagement[:8]
	}

	total := active + expiring + expired
	notExpired := active + expiring
	report.Compliance = ports.ComplianceMetrics{
		TotalCerts:   total,
		ActiveCerts:  notExpired,
		NonCompliant: total - active,
	}
	if total > 0 {
		report.Compliance.ComplianceRate = roundRate(float64(active) / float64(total) * 100)
		report.Compliance.CompliancePercentage = roundRate(float64(notExpired) / float64(total) * 100)
	}

	return report, nil
}

// Backup bundles the whole key space into one JSON document and stamps the
// last backup marker.
func (s *AdminService) Backup(ctx context.Context, adminUsername string) ([]byte, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	broadcasts, err := s.notifs.ListBroadcasts(ctx)
	if err != nil {
		return nil, err
	}
	logs, err := s.audit.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	cfg, err := s.config.GetConfig(ctx)
	if err != nil {
		cfg = domain.DefaultSystemConfig()
	}

	certs := make(map[string][]domain.Certification, len(users))
	for _, u := range users {
		certs[u.Username] = u.Certifications
	}

	doc := ports.BackupDocument{
		Timestamp:      s.now().UTC(),
		Users:          users,
		Certifications: certs,
		Notifications:  broadcasts,
		AuditLogs:      logs,
		Config:         cfg,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}

	if err := s.config.SetLastBackupTime(ctx, doc.Timestamp); err != nil {
		s.log.Warn().Err(err).Msg("failed to record last backup time")
	}
	s.audit.Record(ctx, adminUsername, "system_backup", "Performed system backup")
	return data, nil
}

func roundRate(v float64) float64 {
	return math.Round(v*10) / 10
}
