// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"prolits/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to create a manual account.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// OAuthLoginInput carries the authorization code returned to a provider callback.
type OAuthLoginInput struct {
	Provider string
	Code     string
}

// --- Output DTOs ---

// AuthOutput is returned by every operation that starts a session.
type AuthOutput struct {
	User  *entity.User
	Token string
}

// AuthUsecase defines the interface for sign-in related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AuthUsecase interface {
	Register(ctx context.Context, input *RegisterInput) (*AuthOutput, error)
	Login(ctx context.Context, input *LoginInput) (*AuthOutput, error)
	CurrentUser(ctx context.Context, userID string) (*entity.User, error)

	// OAuthAuthorizeURL returns the consent page URL of a configured provider.
	OAuthAuthorizeURL(provider, state string) (string, error)
	OAuthLogin(ctx context.Context, input *OAuthLoginInput) (*AuthOutput, error)
}
