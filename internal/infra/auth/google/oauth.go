// Package google implements the Google sign-in provider on top of golang.org/x/oauth2.
package google

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"prolits/config"
	"prolits/internal/domain/entity"
	domainerrors "prolits/internal/domain/errors"
	"prolits/internal/domain/service"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

var defaultScopes = []string{"openid", "email", "profile"}

// Provider runs the Google authorization-code flow.
type Provider struct {
	oauthCfg    *oauth2.Config
	validate    idTokenValidator
	userInfoURL string
	logger      *slog.Logger
}

// NewProvider returns the Google provider, or nil when oauth.google has no client registration.
func NewProvider(cfg *config.Config, logger *slog.Logger) service.OAuthProvider {
	providerCfg := cfg.OAuth.Google
	if !providerCfg.Enabled() {
		logger.Warn("Google OAuth is not configured, /api/auth/google is disabled")

		return nil
	}

	scopes := providerCfg.Scopes
	if len(scopes) == 0 {
		scopes = defaultScopes
	}

	return &Provider{
		oauthCfg: &oauth2.Config{
			ClientID:     providerCfg.ClientID,
			ClientSecret: providerCfg.ClientSecret,
			RedirectURL:  providerCfg.RedirectURI,
			Scopes:       scopes,
			Endpoint:     googleoauth.Endpoint,
		},
		validate:    idtoken.Validate,
		userInfoURL: googleUserInfoURL,
		logger:      logger,
	}
}

// Provider returns the OAuth provider type
func (p *Provider) Provider() entity.AuthProvider {
	return entity.AuthProviderGoogle
}

// AuthCodeURL builds the Google consent URL.
func (p *Provider) AuthCodeURL(state string) string {
	return p.oauthCfg.AuthCodeURL(state, oauth2.AccessTypeOnline, oauth2.SetAuthURLParam("prompt", "select_account"))
}

// Exchange trades code for tokens and reads the profile from the ID token,
// falling back to the userinfo endpoint when the ID token is absent or unusable.
func (p *Provider) Exchange(ctx context.Context, code string) (*entity.OAuthProfile, error) {
	token, err := p.oauthCfg.Exchange(ctx, code)
	if err != nil {
		return nil, domainerrors.ErrOAuthFailed.WithDetails("google code exchange: " + err.Error())
	}

	var profile *entity.OAuthProfile
	if rawIDToken, ok := token.Extra("id_token").(string); ok && rawIDToken != "" {
		profile, err = profileFromIDToken(ctx, p.validate, rawIDToken, p.oauthCfg.ClientID)
		if err != nil {
			p.logger.Warn("Google ID token rejected, falling back to userinfo", slog.Any("error", err))
		}
	}

	if profile == nil {
		profile, err = p.fetchUserInfo(ctx, token)
		if err != nil {
			return nil, domainerrors.ErrOAuthFailed.WithDetails(err.Error())
		}
	}

	if profile.Subject == "" {
		return nil, domainerrors.ErrOAuthFailed.WithDetails("google profile has no subject")
	}
	if profile.Email == "" {
		return nil, errors.WithStack(domainerrors.ErrMissingEmailClaim)
	}

	return profile, nil
}

func (p *Provider) fetchUserInfo(ctx context.Context, token *oauth2.Token) (*entity.OAuthProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create user info request")
	}

	resp, err := p.oauthCfg.Client(ctx, token).Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user info")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))

		return nil, errors.Errorf("user info request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var googleUser struct {
		ID         string `json:"id"`
		Email      string `json:"email"`
		GivenName  string `json:"given_name"`
		FamilyName string `json:"family_name"`
		Picture    string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&googleUser); err != nil {
		return nil, errors.Wrap(err, "failed to decode user info response")
	}

	return &entity.OAuthProfile{
		Provider:        entity.AuthProviderGoogle,
		Subject:         googleUser.ID,
		Email:           googleUser.Email,
		FirstName:       googleUser.GivenName,
		LastName:        googleUser.FamilyName,
		ProfileImageURL: googleUser.Picture,
	}, nil
}
