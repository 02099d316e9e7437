package ports

import (
	"context"

	"github.com/certtrack/certification-system/internal/core/domain"
)

// FileInput is an inline-encoded document attached to a request.
type FileInput struct {
	Name string
	Data string
}

// AddCertificationInput carries all data needed to add a certification.
type AddCertificationInput struct {
	Username     string
	Name         string
	Organization string
	IssueDate    string
	ExpiryDate   string
	Category     string
	File         FileInput
}

// UpdateCertificationInput carries the editable fields of a certification.
// Empty fields are left unchanged.
type UpdateCertificationInput struct {
	Name         string
	Organization string
	IssueDate    string
	ExpiryDate   string
	Category     string
}

// CertificationView is a certification together with its derived expiry
// classification.
type CertificationView struct {
	domain.Certification
	Classification  domain.ExpiryStatus `json:"classification"`
	DaysUntilExpiry int                 `json:"daysUntilExpiry"`
}

// AdminCertificationView is the admin-wide view, joined with the owner.
type AdminCertificationView struct {
	CertificationView
	Username string `json:"username"`
	UserRole string `json:"userRole"`
}

// DashboardStats summarises one user's certifications by classification.
type DashboardStats struct {
	Total        int `json:"total"`
	Active       int `json:"active"`
	ExpiringSoon int `json:"expiringSoon"`
	Expired      int `json:"expired"`
}

// ListAllFilter narrows the admin-wide certification listing.
type ListAllFilter struct {
	Status   string // "", "active", "expiring_soon", "expired"
	Username string // "" = all users
	Search   string // substring match on name, organization, or username
}

// CertificationService defines use-case operations on certifications.
type CertificationService interface {
	Add(ctx context.Context, input AddCertificationInput) (*domain.Certification, error)
	ListMine(ctx context.Context, username string) ([]CertificationView, error)
	Get(ctx context.Context, username, id string) (*CertificationView, error)
	Update(ctx context.Context, username, id string, input UpdateCertificationInput) error
	UpdateCategory(ctx context.Context, username, id, category string) error
	Delete(ctx context.Context, username, id string) error
	BulkDelete(ctx context.Context, username string, ids []string) (int, error)
	Stats(ctx context.Context, username string) (*DashboardStats, error)

	// Admin-wide operations.
	ListAll(ctx context.Context, filter ListAllFilter) ([]AdminCertificationView, error)
	DeleteForUser(ctx context.Context, adminUsername, username, id string) error
	ExportCSV(ctx context.Context, filter ListAllFilter) ([]byte, error)
}
