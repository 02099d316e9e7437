// Package storage implements the typed repositories on top of the KV store
// port. Every repository follows the store's one-document-per-key layout:
// reads load the whole document, writes replace it. The key names below are
// the persisted contract and must not change.
package storage

const (
	keyUsers                   = "users"
	keyActivityLog             = "activityLog"
	keyAdminNotifications      = "adminNotifications"
	keySystemConfig            = "systemConfig"
	keyNotificationPreferences = "notificationPreferences"
	keyLastBackupTime          = "lastBackupTime"
)

// notificationsKey is the per-user notification list key.
func notificationsKey(username string) string {
	return "notifications_" + username
}
