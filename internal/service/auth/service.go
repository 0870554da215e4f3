package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"log/slog"

	"github.com/crow-lk/dream-builders-hub/internal/config"
	"github.com/crow-lk/dream-builders-hub/internal/crypto"
	"github.com/crow-lk/dream-builders-hub/internal/domain"
	"github.com/crow-lk/dream-builders-hub/internal/repository"
	"github.com/crow-lk/dream-builders-hub/internal/token"
)

// ErrInvalidCredentials covers unknown accounts and wrong passwords alike.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

// ErrRoleDenied means the account authenticated but lacks the admin role,
// or the role could not be proven. Absence of proof is denial.
var ErrRoleDenied = errors.New("auth: admin role required")

// Service handles the admin sign-in gate: credential check, server-side role
// lookup, session issue and revocation.
type Service struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	logger   *slog.Logger
	cfg      config.APIConfig
}

// New constructs a Service.
func New(users repository.UserRepository, sessions repository.SessionRepository, logger *slog.Logger, cfg config.APIConfig) Service {
	return Service{users: users, sessions: sessions, logger: logger, cfg: cfg}
}

// Session describes an issued sign-in.
type Session struct {
	Token     string
	UserID    string
	Email     string
	ExpiresIn time.Duration
}

// Login authenticates credentials and confirms the admin role before any
// session is issued. A failed or erroring role lookup denies access; no
// session exists to tear down because none was created yet.
func (s Service) Login(ctx context.Context, email, password string) (*domain.User, Session, error) {
	user, err := s.users.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, Session{}, ErrInvalidCredentials
		}
		return nil, Session{}, err
	}
	if err := crypto.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, Session{}, ErrInvalidCredentials
	}
	isAdmin, err := s.users.HasRole(ctx, user.ID, domain.RoleAdmin)
	if err != nil {
		s.logger.Warn("role lookup failed, denying", "user_id", user.ID, "error", err)
		return nil, Session{}, ErrRoleDenied
	}
	if !isAdmin {
		s.logger.Warn("login without admin role", "user_id", user.ID)
		return nil, Session{}, ErrRoleDenied
	}
	signed, err := token.Generate(user.ID, user.Email, s.cfg.JWTSecret, s.cfg.SessionTokenTTL)
	if err != nil {
		return nil, Session{}, err
	}
	s.logger.Info("admin logged in", "user_id", user.ID)
	return user, Session{Token: signed, UserID: user.ID, Email: user.Email, ExpiresIn: s.cfg.SessionTokenTTL}, nil
}

// Authorize validates a bearer token, rejects revoked sessions and returns
// the associated user.
func (s Service) Authorize(ctx context.Context, bearer string) (*domain.User, *token.Claims, error) {
	trimmed := strings.TrimSpace(bearer)
	if trimmed == "" {
		return nil, nil, errors.New("token required")
	}
	claims, err := token.Parse(trimmed, s.cfg.JWTSecret)
	if err != nil {
		return nil, nil, err
	}
	revoked, err := s.sessions.IsTokenRevoked(ctx, claims.ID)
	if err != nil {
		s.logger.Warn("revocation lookup failed, denying", "error", err)
		return nil, nil, errors.New("session state unavailable")
	}
	if revoked {
		return nil, nil, errors.New("session revoked")
	}
	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, nil, err
	}
	return user, claims, nil
}

// RequireAdmin re-checks the role grant in the store. The token is never
// trusted to carry role claims; this is the authoritative check.
func (s Service) RequireAdmin(ctx context.Context, userID string) error {
	isAdmin, err := s.users.HasRole(ctx, userID, domain.RoleAdmin)
	if err != nil {
		s.logger.Warn("role lookup failed, denying", "user_id", userID, "error", err)
		return ErrRoleDenied
	}
	if !isAdmin {
		return ErrRoleDenied
	}
	return nil
}

// SignOut revokes the session token until its natural expiry.
func (s Service) SignOut(ctx context.Context, bearer string) error {
	claims, err := token.Parse(strings.TrimSpace(bearer), s.cfg.JWTSecret)
	if err != nil {
		// Already invalid tokens have nothing to revoke.
		return nil
	}
	until := time.Now().Add(s.cfg.SessionTokenTTL)
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	if err := s.sessions.RevokeToken(ctx, claims.ID, until); err != nil {
		return err
	}
	s.logger.Info("admin signed out", "user_id", claims.UserID)
	return nil
}
