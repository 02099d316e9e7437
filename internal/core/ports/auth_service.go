package ports

import (
	"context"

	"github.com/certtrack/certification-system/internal/core/domain"
)

// AuthService handles registration, login, and profile self-service.
type AuthService interface {
	Register(ctx context.Context, username, password string) (*domain.User, error)
	// Login returns a signed token and the authenticated user.
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	// BootstrapAdmin provisions the default admin account when no user with
	// the admin role exists yet.
	BootstrapAdmin(ctx context.Context) error
	Profile(ctx context.Context, username string) (*domain.User, error)
	UpdateNickname(ctx context.Context, username, nickname string) error
	UpdateImage(ctx context.Context, username, image string) error
	ChangePassword(ctx context.Context, username, newPassword string) error
}
