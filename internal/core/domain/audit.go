package domain

import "time"

// MaxAuditEntries bounds the global activity log. When the cap is exceeded
// the oldest entry is dropped first; there is no compaction.
const MaxAuditEntries = 500

// AuditActivity records a single user- or admin-initiated action.
type AuditActivity struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}
