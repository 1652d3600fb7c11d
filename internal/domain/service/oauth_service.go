package service

import (
	"context"

	"prolits/internal/domain/entity"
)

// OAuthProvider runs the authorization-code flow against one external identity provider.
type OAuthProvider interface {
	// Provider returns which provider this is.
	Provider() entity.AuthProvider

	// AuthCodeURL builds the consent page URL carrying state.
	AuthCodeURL(state string) string

	// Exchange trades an authorization code for the signed-in person's profile.
	// A profile without an email is rejected with domainerrors.ErrMissingEmailClaim.
	Exchange(ctx context.Context, code string) (*entity.OAuthProfile, error)
}

// OAuthProviders is the set of configured providers keyed by provider name.
type OAuthProviders map[entity.AuthProvider]OAuthProvider

// NewOAuthProviders indexes the given providers, skipping nil entries of disabled providers.
func NewOAuthProviders(providers ...OAuthProvider) OAuthProviders {
	registry := make(OAuthProviders, len(providers))
	for _, p := range providers {
		if p == nil {
			continue
		}
		registry[p.Provider()] = p
	}

	return registry
}

// Get returns the provider registered under name.
func (p OAuthProviders) Get(name string) (OAuthProvider, bool) {
	provider, ok := p[entity.AuthProvider(name)]

	return provider, ok
}
