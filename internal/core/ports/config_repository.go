package ports

import (
	"context"
	"time"

	"github.com/certtrack/certification-system/internal/core/domain"
)

// ConfigRepository persists the system configuration, installation-wide
// notification preferences, and the last backup marker.
type ConfigRepository interface {
	GetConfig(ctx context.Context) (domain.SystemConfig, error)
	SaveConfig(ctx context.Context, cfg domain.SystemConfig) error
	GetPreferences(ctx context.Context) (domain.NotificationPreferences, error)
	SavePreferences(ctx context.Context, prefs domain.NotificationPreferences) error
	LastBackupTime(ctx context.Context) (time.Time, error)
	SetLastBackupTime(ctx context.Context, t time.Time) error
}
