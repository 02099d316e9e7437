package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/certtrack/certification-system/internal/api/metrics"
	"github.com/certtrack/certification-system/internal/core/domain"
	"github.com/certtrack/certification-system/internal/core/ports"
)

// RenewalService implements the renewal state machine. A request parks the
// proposed expiry date and replacement file next to the original values;
// only an admin approval copies them over.
type RenewalService struct {
	users ports.UserRepository
	audit ports.AuditService
	log   zerolog.Logger
}

func NewRenewalService(users ports.UserRepository, audit ports.AuditService, log zerolog.Logger) *RenewalService {
	return &RenewalService{users: users, audit: audit, log: log}
}

func (s *RenewalService) Request(ctx context.Context, input ports.RenewalRequestInput) error {
	if input.NewExpiryDate == "" {
		return domain.ErrMissingFields
	}
	if _, err := domain.ParseDate(input.NewExpiryDate); err != nil {
		return fmt.Errorf("%w: bad expiry date", domain.ErrMissingFields)
	}

	var certName string
	err := s.users.Update(ctx, input.Username, func(u *domain.User) error {
		cert := u.Certification(input.CertificationID)
		if cert == nil {
			return domain.ErrCertificationNotFound
		}
		certName = cert.Name
		cert.RenewalRequest = true
		cert.NewExpiryDate = input.NewExpiryDate
		cert.RenewalNotes = input.Notes
		cert.NewFile = nil
		if input.NewFile != nil {
			cert.NewFile = &domain.CertFile{Name: input.NewFile.Name, Data: input.NewFile.Data}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, input.Username, "request_renewal", "Requested renewal of "+certName)
	s.log.Info().
		Str("username", input.Username).
		Str("cert_id", input.CertificationID).
		Str("new_expiry", input.NewExpiryDate).
		Msg("renewal requested")
	return nil
}

// Approve applies the proposed values and clears the request. Approving a
// certification with no pending request fails with ErrNoPendingRenewal, so
// a repeated approval is rejected rather than silently re-applied.
func (s *RenewalService) Approve(ctx context.Context, adminUsername, username, certID string) error {
	var certName string
	err := s.users.Update(ctx, username, func(u *domain.User) error {
		cert := u.Certification(certID)
		if cert == nil {
			return domain.ErrCertificationNotFound
		}
		if !cert.RenewalRequest {
			return domain.ErrNoPendingRenewal
		}
		certName = cert.Name
		cert.ExpiryDate = cert.NewExpiryDate
		if cert.NewFile != nil {
			cert.File = cert.NewFile
		}
		clearRenewalRequest(cert)
		cert.Verification = domain.VerificationApproved
		return nil
	})
	if err != nil {
		return err
	}

	metrics.RenewalDecisionsTotal.WithLabelValues("approved").Inc()
	s.audit.Record(ctx, adminUsername, "approve_renewal", fmt.Sprintf("Approved renewal of %q for %s", certName, username))
	s.log.Info().Str("admin", adminUsername).Str("username", username).Str("cert_id", certID).Msg("renewal approved")
	return nil
}

// Reject clears the request and leaves the original expiry date and file
// untouched.
func (s *RenewalService) Reject(ctx context.Context, adminUsername, username, certID string) error {
	var certName string
	err := s.users.Update(ctx, username, func(u *domain.User) error {
		cert := u.Certification(certID)
		if cert == nil {
			return domain.ErrCertificationNotFound
		}
		if !cert.RenewalRequest {
			return domain.ErrNoPendingRenewal
		}
		certName = cert.Name
		clearRenewalRequest(cert)
		cert.Verification = domain.VerificationRejected
		return nil
	})
	if err != nil {
		return err
	}

	metrics.RenewalDecisionsTotal.WithLabelValues("rejected").Inc()
	s.audit.Record(ctx, adminUsername, "reject_renewal", fmt.Sprintf("Rejected renewal of %q for %s", certName, username))
	s.log.Info().Str("admin", adminUsername).Str("username", username).Str("cert_id", certID).Msg("renewal rejected")
	return nil
}

func (s *RenewalService) ListPending(ctx context.Context) ([]ports.PendingRenewal, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	var pending []ports.PendingRenewal
	for _, u := range users {
		for _, c := range u.Certifications {
			if c.RenewalRequest {
				pending = append(pending, ports.PendingRenewal{Username: u.Username, Certification: c})
			}
		}
	}
	return pending, nil
}

func clearRenewalRequest(cert *domain.Certification) {
	cert.RenewalRequest = false
	cert.NewExpiryDate = ""
	cert.NewFile = nil
	cert.RenewalNotes = ""
}
