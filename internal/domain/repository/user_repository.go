// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"
	"time"

	"prolits/internal/domain/entity"
)

var (
	// ErrUserNotFound is returned when no user matches a lookup.
	ErrUserNotFound = errors.New("user not found")

	// ErrResetTokenNotConsumed is returned when a conditional reset found no live token to consume.
	ErrResetTokenNotConsumed = errors.New("reset token not consumed")
)

// UserRepository is the credential store: the single users table shared by every provider.
type UserRepository interface {
	// FindByID retrieves a single user by primary key.
	FindByID(ctx context.Context, id string) (*entity.User, error)

	// FindByEmail retrieves a user by email, ignoring case.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// Create inserts a new user. An email already taken by any provider yields domainerrors.ErrUserAlreadyExists.
	Create(ctx context.Context, user *entity.User) error

	// UpsertOAuth inserts or refreshes an OAuth account keyed by user.ID and returns the stored row.
	// Role, password and reset fields of an existing row are left untouched.
	UpsertOAuth(ctx context.Context, user *entity.User) (*entity.User, error)

	// SetResetToken stores token and expiry on the user, replacing any previous token.
	SetResetToken(ctx context.Context, userID, token string, expiry time.Time) error

	// FindByResetToken retrieves the user holding token, expired or not.
	FindByResetToken(ctx context.Context, token string) (*entity.User, error)

	// ClearResetToken nulls the reset token fields of the user, only while token is
	// still the one stored. A token issued in the meantime is left alone.
	ClearResetToken(ctx context.Context, userID, token string) error

	// ConsumeResetToken atomically sets the new password hash and clears the token,
	// only if token is still stored and unexpired at now. It returns the affected user id,
	// or ErrResetTokenNotConsumed when nothing matched.
	ConsumeResetToken(ctx context.Context, token, passwordHash string, now time.Time) (string, error)
}
