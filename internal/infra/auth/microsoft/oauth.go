// Package microsoft implements the Microsoft identity platform sign-in provider.
package microsoft

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"prolits/config"
	"prolits/internal/domain/entity"
	domainerrors "prolits/internal/domain/errors"
	"prolits/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"
)

const (
	defaultTenant = "common"
	graphMeURL    = "https://graph.microsoft.com/v1.0/me"
)

var defaultScopes = []string{"openid", "email", "profile", "User.Read"}

// idTokenClaims are the Microsoft identity platform v2 ID token claims we read.
type idTokenClaims struct {
	Email             string `json:"email"`
	PreferredUsername string `json:"preferred_username"`
	UPN               string `json:"upn"`
	GivenName         string `json:"given_name"`
	FamilyName        string `json:"family_name"`
	jwt.RegisteredClaims
}

// Provider runs the Microsoft authorization-code flow.
type Provider struct {
	oauthCfg *oauth2.Config
	meURL    string
	logger   *slog.Logger
}

// NewProvider returns the Microsoft provider, or nil when oauth.microsoft has no client registration.
func NewProvider(cfg *config.Config, logger *slog.Logger) service.OAuthProvider {
	providerCfg := cfg.OAuth.Microsoft
	if !providerCfg.Enabled() {
		logger.Warn("Microsoft OAuth is not configured, /api/auth/microsoft is disabled")

		return nil
	}

	tenant := providerCfg.Tenant
	if tenant == "" {
		tenant = defaultTenant
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
			Endpoint:     microsoft.AzureADEndpoint(tenant),
		},
		meURL:  graphMeURL,
		logger: logger,
	}
}

func (p *Provider) Provider() entity.AuthProvider {
	return entity.AuthProviderMicrosoft
}

func (p *Provider) AuthCodeURL(state string) string {
	return p.oauthCfg.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
}

// Exchange trades code for tokens. The ID token came straight from the token endpoint over TLS,
// so its claims are read without re-verifying the signature. Microsoft Graph /me fills the gaps.
func (p *Provider) Exchange(ctx context.Context, code string) (*entity.OAuthProfile, error) {
	token, err := p.oauthCfg.Exchange(ctx, code)
	if err != nil {
		return nil, domainerrors.ErrOAuthFailed.WithDetails("microsoft code exchange: " + err.Error())
	}

	profile := &entity.OAuthProfile{Provider: entity.AuthProviderMicrosoft}
	if rawIDToken, ok := token.Extra("id_token").(string); ok && rawIDToken != "" {
		if err := applyIDToken(profile, rawIDToken); err != nil {
			p.logger.Warn("Microsoft ID token unreadable, using Graph profile", slog.Any("error", err))
		}
	}

	if profile.Subject == "" || profile.Email == "" {
		if err := p.applyGraphProfile(ctx, token, profile); err != nil {
			return nil, domainerrors.ErrOAuthFailed.WithDetails(err.Error())
		}
	}

	if profile.Subject == "" {
		return nil, domainerrors.ErrOAuthFailed.WithDetails("microsoft profile has no subject")
	}
	if profile.Email == "" {
		return nil, errors.WithStack(domainerrors.ErrMissingEmailClaim)
	}

	return profile, nil
}

func applyIDToken(profile *entity.OAuthProfile, rawIDToken string) error {
	claims := &idTokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(rawIDToken, claims); err != nil {
		return errors.Wrap(err, "parse id token")
	}

	profile.Subject = claims.Subject
	profile.Email = firstNonEmpty(claims.Email, claims.UPN, emailOrEmpty(claims.PreferredUsername))
	profile.FirstName = claims.GivenName
	profile.LastName = claims.FamilyName

	return nil
}

func (p *Provider) applyGraphProfile(ctx context.Context, token *oauth2.Token, profile *entity.OAuthProfile) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.meURL, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create graph request")
	}

	resp, err := p.oauthCfg.Client(ctx, token).Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to call graph /me")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))

		return errors.Errorf("graph /me failed with status %d: %s", resp.StatusCode, string(body))
	}

	var me struct {
		ID                string `json:"id"`
		Mail              string `json:"mail"`
		UserPrincipalName string `json:"userPrincipalName"`
		GivenName         string `json:"givenName"`
		Surname           string `json:"surname"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&me); err != nil {
		return errors.Wrap(err, "failed to decode graph /me response")
	}

	if profile.Subject == "" {
		profile.Subject = me.ID
	}
	if profile.Email == "" {
		profile.Email = firstNonEmpty(me.Mail, me.UserPrincipalName)
	}
	if profile.FirstName == "" {
		profile.FirstName = me.GivenName
	}
	if profile.LastName == "" {
		profile.LastName = me.Surname
	}

	return nil
}

// emailOrEmpty drops sign-in names that are not addresses, such as phone numbers.
func emailOrEmpty(name string) string {
	if !strings.Contains(name, "@") {
		return ""
	}

	return name
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}

	return ""
}
