package domain

import (
	"errors"
	"time"
)

// ExpiryStatus is the derived lifecycle classification of a certification.
type ExpiryStatus string

const (
	ExpiryActive       ExpiryStatus = "active"
	ExpiryExpiringSoon ExpiryStatus = "expiring_soon"
	ExpiryExpired      ExpiryStatus = "expired"
)

// DefaultWarningDays is the look-ahead window for "expiring soon" when the
// system configuration does not override it.
const DefaultWarningDays = 30

// DateLayout is the calendar-date format certifications are stored with.
const DateLayout = "2006-01-02"

const (
	VerificationApproved = "approved"
	VerificationRejected = "rejected"
)

var ErrCertificationNotFound = errors.New("certification not found")
var ErrNoPendingRenewal = errors.New("no pending renewal request")
var ErrMissingFields = errors.New("missing required fields")

// CertFile is a document attached to a certification, embedded inline.
type CertFile struct {
	Name string `json:"name"`
	Data string `json:"data"`
}

// Certification is one credential owned by a user. Renewal fields hold the
// proposed replacement values while a request is pending; the original
// expiryDate and file stay untouched until an admin approves.
type Certification struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Organization   string    `json:"organization"`
	IssueDate      string    `json:"issueDate,omitempty"`
	ExpiryDate     string    `json:"expiryDate"`
	File           *CertFile `json:"file,omitempty"`
	Status         string    `json:"status,omitempty"`
	Category       string    `json:"category,omitempty"`
	RenewalRequest bool      `json:"renewalRequest,omitempty"`
	NewExpiryDate  string    `json:"newExpiryDate,omitempty"`
	NewFile        *CertFile `json:"newFile,omitempty"`
	RenewalNotes   string    `json:"renewalNotes,omitempty"`
	Verification   string    `json:"verification,omitempty"`
}

// ParseDate parses a stored calendar date string.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// DaysUntil returns the number of whole days from now until expiry, rounding
// partial days up. Zero or negative means the expiry moment has passed.
func DaysUntil(expiry, now time.Time) int {
	diff := expiry.Sub(now)
	days := diff / (24 * time.Hour)
	if diff%(24*time.Hour) > 0 {
		days++
	}
	return int(days)
}

// Classify derives the expiry status of a certification. The boundary rule:
// expired strictly when expiry <= now; expiring-soon covers 1..warningDays
// days remaining inclusive. The result is total and only moves forward
// (active -> expiring_soon -> expired) as now advances.
func Classify(expiry, now time.Time, warningDays int) ExpiryStatus {
	if warningDays <= 0 {
		warningDays = DefaultWarningDays
	}
	if !expiry.After(now) {
		return ExpiryExpired
	}
	if d := DaysUntil(expiry, now); d <= warningDays {
		return ExpiryExpiringSoon
	}
	return ExpiryActive
}

// ClassifyDate is Classify for a stored date string. Unparseable dates
// classify as expired rather than erroring; a record that cannot state its
// expiry cannot be relied on.
func ClassifyDate(expiryDate string, now time.Time, warningDays int) ExpiryStatus {
	expiry, err := ParseDate(expiryDate)
	if err != nil {
		return ExpiryExpired
	}
	return Classify(expiry, now, warningDays)
}
