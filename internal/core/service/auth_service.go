package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/certtrack/certification-system/internal/core/domain"
	"github.com/certtrack/certification-system/internal/core/ports"
)

const minPasswordLength = 6
const minUsernameLength = 3

// AuthService implements registration, login, admin bootstrap, and profile
// self-service.
type AuthService struct {
	users     ports.UserRepository
	audit     ports.AuditService
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(users ports.UserRepository, audit ports.AuditService, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{users: users, audit: audit, jwtSecret: jwtSecret, tokenTTL: tokenTTL, log: log}
}

func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	if len(username) < minUsernameLength || len(password) < minPasswordLength {
		return nil, domain.ErrInvalidCredentials
	}

	if _, err := s.users.Get(ctx, username); err == nil {
		return nil, domain.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:       username,
		PasswordHash:   string(hash),
		Role:           domain.RoleUser,
		Certifications: []domain.Certification{},
		CreatedDate:    time.Now().UTC().Format(domain.DateLayout),
	}

	if err := s.users.Upsert(ctx, user); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, username, "register", "Created account")
	s.log.Info().Str("username", username).Msg("user registered")
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.Get(ctx, username)
	if err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	s.audit.Record(ctx, username, "login", "Signed in")
	return token, user, nil
}

// BootstrapAdmin provisions the default admin account when no admin exists.
// Runs once at startup; a no-op on every later start.
func (s *AuthService) BootstrapAdmin(ctx context.Context) error {
	users, err := s.users.List(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.Role == domain.RoleAdmin {
			return nil
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &domain.User{
		Username:       "admin",
		PasswordHash:   string(hash),
		Role:           domain.RoleAdmin,
		Certifications: []domain.Certification{},
		CreatedDate:    time.Now().UTC().Format(domain.DateLayout),
	}
	if err := s.users.Upsert(ctx, admin); err != nil {
		return err
	}

	s.log.Info().Str("username", admin.Username).Msg("default admin provisioned")
	return nil
}

func (s *AuthService) Profile(ctx context.Context, username string) (*domain.User, error) {
	return s.users.Get(ctx, username)
}

func (s *AuthService) UpdateNickname(ctx context.Context, username, nickname string) error {
	if nickname == "" {
		return domain.ErrInvalidCredentials
	}
	err := s.users.Update(ctx, username, func(u *domain.User) error {
		u.Nickname = nickname
		return nil
	})
	if err != nil {
		return err
	}
	s.audit.Record(ctx, username, "update_nickname", "Changed nickname to \""+nickname+"\"")
	return nil
}

func (s *AuthService) UpdateImage(ctx context.Context, username, image string) error {
	err := s.users.Update(ctx, username, func(u *domain.User) error {
		u.Image = image
		return nil
	})
	if err != nil {
		return err
	}
	s.audit.Record(ctx, username, "update_profile_photo", "Changed profile picture")
	return nil
}

func (s *AuthService) ChangePassword(ctx context.Context, username, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	err = s.users.Update(ctx, username, func(u *domain.User) error {
		u.PasswordHash = string(hash)
		return nil
	})
	if err != nil {
		return err
	}
	s.audit.Record(ctx, username, "change_password", "Changed account password")
	return nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
