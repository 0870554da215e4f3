package repository

import (
	"context"
	"time"

	"github.com/crow-lk/dream-builders-hub/internal/domain"
)

// UserRepository persists operator accounts and role grants.
type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	// HasRole checks a role grant server-side. Callers must treat any error
	// as absence of the role.
	HasRole(ctx context.Context, userID, role string) (bool, error)
	GrantRole(ctx context.Context, userID, role string) error
}

// ListingRepository reads and updates the two rated-listing collections.
// Reads return full snapshots; writes touch one field on one row and the
// store resolves concurrent edits last-write-wins.
type ListingRepository interface {
	ListConsultants(ctx context.Context) ([]domain.Consultant, error)
	ListHardwareItems(ctx context.Context) ([]domain.HardwareItem, error)
	UpdateConsultantField(ctx context.Context, id, field string, value any) error
	UpdateHardwareField(ctx context.Context, id, field string, value any) error
}

// SessionRepository tracks revoked session tokens until they expire.
type SessionRepository interface {
	RevokeToken(ctx context.Context, jti string, until time.Time) error
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}
