package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/certtrack/certification-system/internal/core/domain"
	"github.com/certtrack/certification-system/internal/core/ports"
)

func newAdminService(users *memUsers, notifs *memNotifs, config *memConfig, audit *recordingAudit) *AdminService {
	svc := NewAdminService(users, notifs, config, audit, zerolog.Nop())
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestAdminService_DeleteUser(t *testing.T) {
	users := newMemUsers(domain.User{Username: "alice"}, domain.User{Username: "bob"})
	notifs := newMemNotifs()
	_ = notifs.SaveForUser(context.Background(), "alice", []domain.Notification{{ID: "n1"}})
	audit := &recordingAudit{}
	svc := newAdminService(users, notifs, newMemConfig(), audit)

	if err := svc.DeleteUser(context.Background(), "admin", "alice"); err != nil {
		t.Fatalf("DeleteUser returned error: %v", err)
	}
	if _, err := users.Get(context.Background(), "alice"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("user still present after delete")
	}
	left, _ := notifs.ListForUser(context.Background(), "alice")
	if len(left) != 0 {
		t.Fatalf("notifications survive user deletion: %+v", left)
	}
	if audit.lastAction() != "delete_user" {
		t.Fatalf("expected delete_user audit entry, got %q", audit.lastAction())
	}

	if err := svc.DeleteUser(context.Background(), "admin", "alice"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound on repeat delete, got %v", err)
	}
}

func TestAdminService_ToggleRole(t *testing.T) {
	users := newMemUsers(domain.User{Username: "alice", Role: domain.RoleUser})
	svc := newAdminService(users, newMemNotifs(), newMemConfig(), &recordingAudit{})

	role, err := svc.ToggleRole(context.Background(), "admin", "alice")
	if err != nil {
		t.Fatalf("ToggleRole returned error: %v", err)
	}
	if role != domain.RoleAdmin {
		t.Fatalf("expected admin after first toggle, got %s", role)
	}

	role, _ = svc.ToggleRole(context.Background(), "admin", "alice")
	if role != domain.RoleUser {
		t.Fatalf("expected user after second toggle, got %s", role)
	}
}

func TestAdminService_ExportUsers(t *testing.T) {
	users := newMemUsers(
		domain.User{Username: "alice", Role: domain.RoleUser, CreatedDate: "2026-01-01",
			Certifications: []domain.Certification{{ID: "c1"}}},
		domain.User{Username: "bob", Role: domain.RoleAdmin},
	)
	svc := newAdminService(users, newMemNotifs(), newMemConfig(), &recordingAudit{})

	data, err := svc.ExportUsers(context.Background())
	if err != nil {
		t.Fatalf("ExportUsers returned error: %v", err)
	}

	var summaries []ports.UserSummary
	if err := json.Unmarshal(data, &summaries); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].Certifications != 1 || summaries[0].CreatedDate != "2026-01-01" {
		t.Fatalf("unexpected first summary: %+v", summaries[0])
	}
	if summaries[1].CreatedDate != "N/A" {
		t.Fatalf("missing creation date should export as N/A, got %q", summaries[1].CreatedDate)
	}
}

func TestAdminService_ImportUsers_MergeExisting(t *testing.T) {
	users := newMemUsers(domain.User{
		Username:     "alice",
		PasswordHash: "hash",
		Role:         domain.RoleUser,
		Nickname:     "Ally",
		Certifications: []domain.Certification{
			{ID: "c1", Name: "Old"},
		},
	})
	svc := newAdminService(users, newMemNotifs(), newMemConfig(), &recordingAudit{})

	payload := []byte(`[{"username": "alice", "nickname": "Imported", "role": "admin"}]`)
	count, err := svc.ImportUsers(context.Background(), "admin", payload)
	if err != nil {
		t.Fatalf("ImportUsers returned error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 imported, got %d", count)
	}

	merged, _ := users.Get(context.Background(), "alice")
	// Imported fields win.
	if merged.Nickname != "Imported" || merged.Role != domain.RoleAdmin {
		t.Fatalf("imported fields did not overwrite: %+v", merged)
	}
	// Fields absent from the import survive.
	if merged.PasswordHash != "hash" {
		t.Fatalf("password hash lost in merge: %q", merged.PasswordHash)
	}
	if len(merged.Certifications) != 1 || merged.Certifications[0].Name != "Old" {
		t.Fatalf("certifications lost in merge: %+v", merged.Certifications)
	}
}

func TestAdminService_ImportUsers_NewAndSkipped(t *testing.T) {
	users := newMemUsers()
	svc := newAdminService(users, newMemNotifs(), newMemConfig(), &recordingAudit{})

	payload := []byte(`[
		{"username": "carol", "password": "h"},
		{"nickname": "no-username"},
		{"username": ""}
	]`)
	count, err := svc.ImportUsers(context.Background(), "admin", payload)
	if err != nil {
		t.Fatalf("ImportUsers returned error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 imported, got %d", count)
	}

	carol, err := users.Get(context.Background(), "carol")
	if err != nil {
		t.Fatalf("imported user missing: %v", err)
	}
	if carol.Role != domain.RoleUser {
		t.Fatalf("expected defaulted role user, got %q", carol.Role)
	}
	if carol.Certifications == nil {
		t.Fatalf("expected defaulted empty certification list")
	}
}

func TestAdminService_ImportUsers_InvalidJSON(t *testing.T) {
	svc := newAdminService(newMemUsers(), newMemNotifs(), newMemConfig(), &recordingAudit{})

	if _, err := svc.ImportUsers(context.Background(), "admin", []byte("not json")); !errors.Is(err, domain.ErrInvalidImport) {
		t.Fatalf("expected ErrInvalidImport, got %v", err)
	}
}

func TestAdminService_Stats(t *testing.T) {
	users := newMemUsers(
		domain.User{Username: "alice", Certifications: []domain.Certification{{ID: "1"}, {ID: "2"}}},
		domain.User{Username: "bob", Certifications: []domain.Certification{{ID: "3"}}},
	)
	audit := &recordingAudit{}
	audit.Record(context.Background(), "alice", "login", "")
	config := newMemConfig()
	svc := newAdminService(users, newMemNotifs(), config, audit)

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if stats.TotalUsers != 2 || stats.TotalCertifications != 3 || stats.LogsCount != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.LastBackup != "Never" {
		t.Fatalf("expected Never before first backup, got %q", stats.LastBackup)
	}

	_ = config.SetLastBackupTime(context.Background(), testNow)
	stats, _ = svc.Stats(context.Background())
	if stats.LastBackup != testNow.Format(time.RFC3339) {
		t.Fatalf("expected backup timestamp, got %q", stats.LastBackup)
	}
}

func TestAdminService_ResetConfig(t *testing.T) {
	config := newMemConfig()
	custom := domain.DefaultSystemConfig()
	custom.ExpiryWarningDays = 7
	_ = config.SaveConfig(context.Background(), custom)

	svc := newAdminService(newMemUsers(), newMemNotifs(), config, &recordingAudit{})

	cfg, err := svc.ResetConfig(context.Background(), "admin")
	if err != nil {
		t.Fatalf("ResetConfig returned error: %v", err)
	}
	if cfg != domain.DefaultSystemConfig() {
		t.Fatalf("reset did not restore defaults: %+v", cfg)
	}

	stored, _ := config.GetConfig(context.Background())
	if stored.ExpiryWarningDays != domain.DefaultWarningDays {
		t.Fatalf("defaults not persisted: %+v", stored)
	}
}

func TestAdminService_Analytics(t *testing.T) {
	users := newMemUsers(
		domain.User{Username: "alice", Certifications: []domain.Certification{
			{ID: "1", ExpiryDate: "2027-06-15", Category: "Cloud"},
			{ID: "2", ExpiryDate: "2026-06-25", Category: "Cloud"},
			{ID: "3", ExpiryDate: "2026-06-01"},
		}},
		domain.User{Username: "bob", Certifications: []domain.Certification{
			{ID: "4", ExpiryDate: "2027-06-15", Category: "Safety"},
		}},
	)
	audit := &recordingAudit{}
	audit.Record(context.Background(), "bob", "login", "")
	audit.Record(context.Background(), "bob", "add_certificate", "")
	audit.Record(context.Background(), "alice", "login", "")
	svc := newAdminService(users, newMemNotifs(), newMemConfig(), audit)

	report, err := svc.Analytics(context.Background())
	if err != nil {
		t.Fatalf("Analytics returned error: %v", err)
	}

	dist := map[string]int{}
	for _, nv := range report.StatusDistribution {
		dist[nv.Name] = nv.Value
	}
	if dist["Active"] != 2 || dist["Expiring Soon"] != 1 || dist["Expired"] != 1 {
		t.Fatalf("unexpected status distribution: %+v", report.StatusDistribution)
	}

	categories := map[string]int{}
	for _, nv := range report.CategoryBreakdown {
		categories[nv.Name] = nv.Value
	}
	if categories["Cloud"] != 2 || categories["Safety"] != 1 || categories["Uncategorized"] != 1 {
		t.Fatalf("unexpected category breakdown: %+v", report.CategoryBreakdown)
	}

	if len(report.UserEngagement) != 2 || report.UserEngagement[0].Name != "bob" {
		t.Fatalf("engagement should rank bob first: %+v", report.UserEngagement)
	}

	// 4 certifications: 2 active, 1 expiring soon, 1 expired.
	c := report.Compliance
	if c.TotalCerts != 4 || c.ActiveCerts != 3 || c.NonCompliant != 2 {
		t.Fatalf("unexpected compliance counts: %+v", c)
	}
	if c.ComplianceRate != 50.0 || c.CompliancePercentage != 75.0 {
		t.Fatalf("unexpected compliance rates: %+v", c)
	}
}

func TestAdminService_Backup(t *testing.T) {
	users := newMemUsers(domain.User{Username: "alice", Certifications: []domain.Certification{{ID: "c1"}}})
	config := newMemConfig()
	audit := &recordingAudit{}
	svc := newAdminService(users, newMemNotifs(), config, audit)

	data, err := svc.Backup(context.Background(), "admin")
	if err != nil {
		t.Fatalf("Backup returned error: %v", err)
	}

	var doc ports.BackupDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("backup is not valid JSON: %v", err)
	}
	if len(doc.Users) != 1 || len(doc.Certifications["alice"]) != 1 {
		t.Fatalf("backup missing data: %+v", doc)
	}
	if !doc.Timestamp.Equal(testNow) {
		t.Fatalf("unexpected backup timestamp: %v", doc.Timestamp)
	}

	stamped, _ := config.LastBackupTime(context.Background())
	if !stamped.Equal(testNow) {
		t.Fatalf("last backup marker not set: %v", stamped)
	}
	if audit.lastAction() != "system_backup" {
		t.Fatalf("expected system_backup audit entry, got %q", audit.lastAction())
	}
}
