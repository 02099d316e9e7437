package ports

import (
	"context"

	"github.com/certtrack/certification-system/internal/core/domain"
)

// RenewalRequestInput carries a user's proposed renewal. The original expiry
// date and file stay in place until an admin approves.
type RenewalRequestInput struct {
	Username        string
	CertificationID string
	NewExpiryDate   string
	Notes           string
	NewFile         *FileInput
}

// PendingRenewal joins a pending request with its owner for the admin view.
type PendingRenewal struct {
	Username      string               `json:"username"`
	Certification domain.Certification `json:"certification"`
}

// RenewalService implements the renewal state machine:
// normal -> renewal_requested -> {approved, rejected} -> normal.
// Requests stay pending until an admin acts; there is no timeout.
type RenewalService interface {
	Request(ctx context.Context, input RenewalRequestInput) error
	Approve(ctx context.Context, adminUsername, username, certID string) error
	Reject(ctx context.Context, adminUsername, username, certID string) error
	ListPending(ctx context.Context) ([]PendingRenewal, error)
}
