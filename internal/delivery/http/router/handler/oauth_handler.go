package handler

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"log/slog"
	"net/http"
	"time"

	"prolits/config"
	deliverycontext "prolits/internal/delivery/context"
	domainerrors "prolits/internal/domain/errors"
	"prolits/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const (
	stateCookiePrefix = "prolits_oauth_state_"
	stateCookiePath   = "/api/auth"
	stateBytes        = 32
)

// OAuthHandler runs the browser side of the authorization-code flow.
// The state travels in a short-lived HttpOnly cookie, so no handshake data lives in process memory.
type OAuthHandler struct {
	authUC      usecase.AuthUsecase
	frontendURL string
	stateTTL    time.Duration
	secure      bool
	logger      *slog.Logger
}

// NewOAuthHandler is the constructor for OAuthHandler, injected by Fx.
func NewOAuthHandler(authUC usecase.AuthUsecase, cfg *config.Config, logger *slog.Logger) *OAuthHandler {
	return &OAuthHandler{
		authUC:      authUC,
		frontendURL: cfg.Frontend.BaseURL,
		stateTTL:    cfg.OAuth.StateCookieTTL,
		secure:      cfg.IsProduction(),
		logger:      logger,
	}
}

// Start handles GET /api/auth/:provider and redirects to the provider's consent page.
func (h *OAuthHandler) Start(c echo.Context) error {
	provider := c.Param("provider")

	state, err := newState()
	if err != nil {
		return errors.Wrap(err, "failed to generate oauth state")
	}

	authURL, err := h.authUC.OAuthAuthorizeURL(provider, state)
	if err != nil {
		return errors.WithStack(err)
	}

	c.SetCookie(h.stateCookie(provider, state, int(h.stateTTL.Seconds())))

	return c.Redirect(http.StatusFound, authURL)
}

// Callback handles GET|POST /api/auth/:provider/callback.
// Every failure lands on the frontend with an error marker instead of an error body.
func (h *OAuthHandler) Callback(c echo.Context) error {
	provider := c.Param("provider")
	ctx := c.Request().Context()
	logger := deliverycontext.GetLoggerOrDefault(ctx, h.logger).With(slog.String("provider", provider))

	expected := ""
	if cookie, err := c.Cookie(stateCookiePrefix + provider); err == nil {
		expected = cookie.Value
	}
	c.SetCookie(h.stateCookie(provider, "", -1))

	if providerErr := c.FormValue("error"); providerErr != "" {
		logger.Warn("Provider returned an error", slog.String("error", providerErr))

		return h.fail(c, provider)
	}

	state := c.FormValue("state")
	if expected == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(state)) != 1 {
		logger.Warn("OAuth callback rejected", slog.Any("error", domainerrors.ErrOAuthStateInvalid))

		return h.fail(c, provider)
	}

	out, err := h.authUC.OAuthLogin(ctx, &usecase.OAuthLoginInput{
		Provider: provider,
		Code:     c.FormValue("code"),
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrOAuthProviderNotFound) {
			return errors.WithStack(err)
		}
		logger.Warn("OAuth login failed", slog.Any("error", err))

		return h.fail(c, provider)
	}

	return c.Redirect(http.StatusFound, h.frontendURL+"/#token="+out.Token)
}

func (h *OAuthHandler) fail(c echo.Context, provider string) error {
	return c.Redirect(http.StatusFound, h.frontendURL+"/?error="+provider+"_auth_failed")
}

func (h *OAuthHandler) stateCookie(provider, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     stateCookiePrefix + provider,
		Value:    value,
		Path:     stateCookiePath,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func newState() (string, error) {
	buf := make([]byte, stateBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.WithStack(err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}
