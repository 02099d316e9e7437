package domain

import (
	"errors"
	"sort"
	"time"
)

const (
	NotificationExpired      = "expired"
	NotificationExpiringSoon = "expiring-soon"
	NotificationAdminMessage = "admin-message"
)

var ErrNotificationNotFound = errors.New("notification not found")

// Notification is one entry in a user's persisted notification list. Expiry
// notices are regenerated from certification state on every load and merged
// into the list; identity for merge purposes is the (ID, Type) pair.
type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Date      string    `json:"date,omitempty"`
	CertName  string    `json:"certName,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
	SendBy    string    `json:"sendBy,omitempty"`
}

// BroadcastRecord is the admin-side history entry for a broadcast message.
// Read tracks acknowledgement per recipient username.
type BroadcastRecord struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Message    string          `json:"message"`
	SendBy     string          `json:"sendBy"`
	Recipients []string        `json:"recipients"`
	SentAt     time.Time       `json:"sentAt"`
	Read       map[string]bool `json:"read"`
}

// NotificationPreferences controls which system-generated notice types are
// produced for a user.
type NotificationPreferences struct {
	Expired      bool `json:"expired"`
	ExpiringSoon bool `json:"expiringSoon"`
}

// DefaultNotificationPreferences enables every notice type.
func DefaultNotificationPreferences() NotificationPreferences {
	return NotificationPreferences{Expired: true, ExpiringSoon: true}
}

// MergeNotifications appends each fresh notice to persisted unless a
// persisted entry already shares its (ID, Type) pair, then sorts the result
// newest-first. Persisted entries, including their read state, are never
// dropped; the merge is monotonically additive and idempotent.
func MergeNotifications(persisted, fresh []Notification) []Notification {
	merged := make([]Notification, len(persisted))
	copy(merged, persisted)

	for _, n := range fresh {
		exists := false
		for _, p := range merged {
			if p.ID == n.ID && p.Type == n.Type {
				exists = true
				break
			}
		}
		if !exists {
			merged = append(merged, n)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp.After(merged[j].Timestamp)
	})
	return merged
}
