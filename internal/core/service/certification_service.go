package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/certtrack/certification-system/internal/api/metrics"
	"github.com/certtrack/certification-system/internal/core/domain"
	"github.com/certtrack/certification-system/internal/core/ports"
)

// csvHeader is the fixed export header; the column order and unconditional
// double-quoting are part of the export contract.
const csvHeader = "Name,Organization,Issue Date,Expiry Date,Status\n"

// CertificationService implements certification CRUD for users and the
// admin-wide listing/export operations.
type CertificationService struct {
	users  ports.UserRepository
	config ports.ConfigRepository
	audit  ports.AuditService
	log    zerolog.Logger
	now    func() time.Time
}

func NewCertificationService(users ports.UserRepository, config ports.ConfigRepository, audit ports.AuditService, log zerolog.Logger) *CertificationService {
	return &CertificationService{users: users, config: config, audit: audit, log: log, now: time.Now}
}

func (s *CertificationService) Add(ctx context.Context, input ports.AddCertificationInput) (*domain.Certification, error) {
	if input.Name == "" || input.Organization == "" || input.ExpiryDate == "" || input.File.Data == "" {
		return nil, domain.ErrMissingFields
	}
	if _, err := domain.ParseDate(input.ExpiryDate); err != nil {
		return nil, fmt.Errorf("%w: bad expiry date", domain.ErrMissingFields)
	}

	cert := domain.Certification{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Organization: input.Organization,
		IssueDate:    input.IssueDate,
		ExpiryDate:   input.ExpiryDate,
		Category:     input.Category,
		File:         &domain.CertFile{Name: input.File.Name, Data: input.File.Data},
		Status:       "Pending",
	}

	err := s.users.Update(ctx, input.Username, func(u *domain.User) error {
		u.Certifications = append(u.Certifications, cert)
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.CertificationsCreatedTotal.Inc()
	s.audit.Record(ctx, input.Username, "add_certificate", "Added "+cert.Name)
	s.log.Info().Str("username", input.Username).Str("cert_id", cert.ID).Msg("certification added")
	return &cert, nil
}

func (s *CertificationService) ListMine(ctx context.Context, username string) ([]ports.CertificationView, error) {
	user, err := s.users.Get(ctx, username)
	if err != nil {
		return nil, err
	}

	now := s.now()
	warn := s.warningDays(ctx)
	views := make([]ports.CertificationView, 0, len(user.Certifications))
	for _, c := range user.Certifications {
		views = append(views, s.view(c, now, warn))
	}
	return views, nil
}

func (s *CertificationService) Get(ctx context.Context, username, id string) (*ports.CertificationView, error) {
	user, err := s.users.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	cert := user.Certification(id)
	if cert == nil {
		return nil, domain.ErrCertificationNotFound
	}
	v := s.view(*cert, s.now(), s.warningDays(ctx))
	return &v, nil
}

func (s *CertificationService) Update(ctx context.Context, username, id string, input ports.UpdateCertificationInput) error {
	err := s.users.Update(ctx, username, func(u *domain.User) error {
		cert := u.Certification(id)
		if cert == nil {
			return domain.ErrCertificationNotFound
		}
		if input.Name != "" {
			cert.Name = input.Name
		}
		if input.Organization != "" {
			cert.Organization = input.Organization
		}
		if input.IssueDate != "" {
			cert.IssueDate = input.IssueDate
		}
		if input.ExpiryDate != "" {
			if _, err := domain.ParseDate(input.ExpiryDate); err != nil {
				return fmt.Errorf("%w: bad expiry date", domain.ErrMissingFields)
			}
			cert.ExpiryDate = input.ExpiryDate
		}
		if input.Category != "" {
			cert.Category = input.Category
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.audit.Record(ctx, username, "edit_certificate", "Edited certification "+id)
	return nil
}

func (s *CertificationService) UpdateCategory(ctx context.Context, username, id, category string) error {
	if category == "" {
		category = "Other"
	}
	err := s.users.Update(ctx, username, func(u *domain.User) error {
		cert := u.Certification(id)
		if cert == nil {
			return domain.ErrCertificationNotFound
		}
		cert.Category = category
		return nil
	})
	if err != nil {
		return err
	}
	s.audit.Record(ctx, username, "categorize_certificate", "Categorized cert as "+category)
	return nil
}

func (s *CertificationService) Delete(ctx context.Context, username, id string) error {
	var name string
	err := s.users.Update(ctx, username, func(u *domain.User) error {
		cert := u.Certification(id)
		if cert == nil {
			return domain.ErrCertificationNotFound
		}
		name = cert.Name
		u.Certifications = removeCertification(u.Certifications, id)
		return nil
	})
	if err != nil {
		return err
	}
	s.audit.Record(ctx, username, "delete_certificate", "Deleted "+name)
	return nil
}

func (s *CertificationService) BulkDelete(ctx context.Context, username string, ids []string) (int, error) {
	idSet := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		idSet[id] = struct{}{}
	}

	deleted := 0
	err := s.users.Update(ctx, username, func(u *domain.User) error {
		kept := u.Certifications[:0]
		for _, c := range u.Certifications {
			if _, drop := idSet[c.ID]; drop {
				deleted++
				continue
			}
			kept = append(kept, c)
		}
		u.Certifications = kept
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.audit.Record(ctx, username, "bulk_delete_certificates", fmt.Sprintf("Deleted %d certifications", deleted))
	return deleted, nil
}

func (s *CertificationService) Stats(ctx context.Context, username string) (*ports.DashboardStats, error) {
	user, err := s.users.Get(ctx, username)
	if err != nil {
		return nil, err
	}

	now := s.now()
	warn := s.warningDays(ctx)
	stats := &ports.DashboardStats{Total: len(user.Certifications)}
	for _, c := range user.Certifications {
		switch domain.ClassifyDate(c.ExpiryDate, now, warn) {
		case domain.ExpiryExpired:
			stats.Expired++
		case domain.ExpiryExpiringSoon:
			stats.ExpiringSoon++
		default:
			stats.Active++
		}
	}
	return stats, nil
}

func (s *CertificationService) ListAll(ctx context.Context, filter ports.ListAllFilter) ([]ports.AdminCertificationView, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	warn := s.warningDays(ctx)
	var out []ports.AdminCertificationView
	for _, u := range users {
		if filter.Username != "" && u.Username != filter.Username {
			continue
		}
		for _, c := range u.Certifications {
			v := s.view(c, now, warn)
			if filter.Status != "" && string(v.Classification) != filter.Status {
				continue
			}
			if filter.Search != "" && !matchesSearch(c, u.Username, filter.Search) {
				continue
			}
			out = append(out, ports.AdminCertificationView{
				CertificationView: v,
				Username:          u.Username,
				UserRole:          u.Role,
			})
		}
	}
	return out, nil
}

func (s *CertificationService) DeleteForUser(ctx context.Context, adminUsername, username, id string) error {
	err := s.users.Update(ctx, username, func(u *domain.User) error {
		if u.Certification(id) == nil {
			return domain.ErrCertificationNotFound
		}
		u.Certifications = removeCertification(u.Certifications, id)
		return nil
	})
	if err != nil {
		return err
	}
	s.audit.Record(ctx, adminUsername, "admin_delete_certificate", fmt.Sprintf("Deleted certification %s of %s", id, username))
	return nil
}

// ExportCSV renders the filtered admin listing. Every value is written
// double-quoted; the status column collapses to Active/Expired.
func (s *CertificationService) ExportCSV(ctx context.Context, filter ports.ListAllFilter) ([]byte, error) {
	certs, err := s.ListAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(csvHeader)
	for _, c := range certs {
		status := "Active"
		if c.Classification == domain.ExpiryExpired {
			status = "Expired"
		}
		fmt.Fprintf(&buf, "\"%s\",\"%s\",\"%s\",\"%s\",\"%s\"\n", c.Name, c.Organization, c.IssueDate, c.ExpiryDate, status)
	}
	return buf.Bytes(), nil
}

func (s *CertificationService) view(c domain.Certification, now time.Time, warningDays int) ports.CertificationView {
	days := 0
	if expiry, err := domain.ParseDate(c.ExpiryDate); err == nil {
		days = domain.DaysUntil(expiry, now)
	}
	return ports.CertificationView{
		Certification:   c,
		Classification:  domain.ClassifyDate(c.ExpiryDate, now, warningDays),
		DaysUntilExpiry: days,
	}
}

func (s *CertificationService) warningDays(ctx context.Context) int {
	cfg, err := s.config.GetConfig(ctx)
	if err != nil {
		return domain.DefaultWarningDays
	}
	return cfg.ExpiryWarningDays
}

func removeCertification(certs []domain.Certification, id string) []domain.Certification {
	kept := certs[:0]
	for _, c := range certs {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	return kept
}

func matchesSearch(c domain.Certification, username, term string) bool {
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(c.Name), term) ||
		strings.Contains(strings.ToLower(c.Organization), term) ||
		strings.Contains(strings.ToLower(username), term)
}
