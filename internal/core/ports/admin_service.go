package ports

import (
	"context"
	"time"

	"github.com/certtrack/certification-system/internal/core/domain"
)

// UserSummary is the export shape for the admin user list.
type UserSummary struct {
	Username       string `json:"username"`
	Role           string `json:"role"`
	Certifications int    `json:"certifications"`
	CreatedDate    string `json:"createdDate"`
}

// SystemStats is the admin configuration page overview.
type SystemStats struct {
	TotalUsers          int    `json:"totalUsers"`
	TotalCertifications int    `json:"totalCertifications"`
	LogsCount           int    `json:"logsCount"`
	LastBackup          string `json:"lastBackup"` // RFC3339 or "Never"
}

// NameValue is a single bucket of a distribution.
type NameValue struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// EngagementEntry ranks a user by recorded activity.
type EngagementEntry struct {
	Name           string `json:"name"`
	Activities     int    `json:"activities"`
	Certifications int    `json:"certifications"`
}

// ComplianceMetrics summarise organisation-wide certification health.
// A certification is compliant while more than the warning window remains.
type ComplianceMetrics struct {
	TotalCerts           int     `json:"totalCerts"`
	ActiveCerts          int     `json:"activeCerts"`
	NonCompliant         int     `json:"nonCompliance"`
	ComplianceRate       float64 `json:"complianceRate"`
	CompliancePercentage float64 `json:"compliancePercentage"`
}

// AnalyticsReport is the full analytics payload and JSON export shape.
type AnalyticsReport struct {
	GeneratedAt        time.Time         `json:"generatedAt"`
	StatusDistribution []NameValue       `json:"statusDistribution"`
	CategoryBreakdown  []NameValue       `json:"categoryBreakdown"`
	UserEngagement     []EngagementEntry `json:"userEngagement"`
	Compliance         ComplianceMetrics `json:"complianceMetrics"`
}

// BackupDocument is the single-file backup bundle.
type BackupDocument struct {
	Timestamp      time.Time                         `json:"timestamp"`
	Users          []domain.User                     `json:"users"`
	Certifications map[string][]domain.Certification `json:"certifications"`
	Notifications  []domain.BroadcastRecord          `json:"notifications"`
	AuditLogs      []domain.AuditActivity            `json:"auditLogs"`
	Config         domain.SystemConfig               `json:"config"`
}

// AdminService covers user management, system configuration, analytics, and
// backup/import/export.
type AdminService interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	DeleteUser(ctx context.Context, adminUsername, username string) error
	// ToggleRole flips user <-> admin and returns the new role.
	ToggleRole(ctx context.Context, adminUsername, username string) (string, error)
	ExportUsers(ctx context.Context) ([]byte, error)
	// ImportUsers shallow-merges the uploaded user list into the store:
	// records matching an existing username are field-merged with imported
	// values winning, new records are appended. Returns the import count.
	ImportUsers(ctx context.Context, adminUsername string, data []byte) (int, error)

	Stats(ctx context.Context) (*SystemStats, error)
	GetConfig(ctx context.Context) (domain.SystemConfig, error)
	SaveConfig(ctx context.Context, adminUsername string, cfg domain.SystemConfig) error
	ResetConfig(ctx context.Context, adminUsername string) (domain.SystemConfig, error)

	Analytics(ctx context.Context) (*AnalyticsReport, error)
	Backup(ctx context.Context, adminUsername string) ([]byte, error)
}
