package domain

// SystemConfig is the flat set of admin-tunable knobs. Values are trusted as
// entered; there is no validation layer beyond the request schema.
type SystemConfig struct {
	ExpiryWarningDays         int    `json:"expiryWarningDays"`
	ExpiryAlertEnabled        bool   `json:"expiryAlertEnabled"`
	EmailNotificationsEnabled bool   `json:"emailNotificationsEnabled"`
	AutoRenewReminders        bool   `json:"autoRenewReminders"`
	MaxLoginAttempts          int    `json:"maxLoginAttempts"`
	SessionTimeoutMinutes     int    `json:"sessionTimeoutMinutes"`
	BackupFrequency           string `json:"backupFrequency"`
}

// DefaultSystemConfig returns the configuration used when nothing has been
// saved yet, and the target of an admin reset.
func DefaultSystemConfig() SystemConfig {
	return SystemConfig{
		ExpiryWarningDays:         DefaultWarningDays,
		ExpiryAlertEnabled:        true,
		EmailNotificationsEnabled: false,
		AutoRenewReminders:        true,
		MaxLoginAttempts:          5,
		SessionTimeoutMinutes:     30,
		BackupFrequency:           "weekly",
	}
}
