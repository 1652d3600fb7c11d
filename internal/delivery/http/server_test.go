package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"prolits/config"
	httpmiddleware "prolits/internal/delivery/http/middleware"
	"prolits/internal/delivery/http/router"
	"prolits/internal/delivery/http/router/handler"
	"prolits/internal/domain/entity"
	"prolits/internal/domain/service"
	"prolits/internal/infra/auth"
	"prolits/internal/infra/metrics"
	"prolits/internal/usecase"
	"prolits/internal/usecase/impl"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const frontendURL = "http://localhost:5173"

type testApp struct {
	e        *echo.Echo
	repo     *memUserRepo
	notifier *captureNotifier
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	cfg := &config.Config{}
	cfg.Env.ServiceName = "prolits"
	cfg.SecretKey = config.SecretKeyConfig{Access: "e2e-secret", Issuer: "prolits", AccessTTL: time.Hour}
	cfg.Auth = &config.AuthConfig{BcryptCost: bcrypt.MinCost, MinPasswordLength: 8, ResetTokenTTL: 24 * time.Hour}
	cfg.Frontend.BaseURL = frontendURL
	cfg.OAuth.StateCookieTTL = 10 * time.Minute
	cfg.Metrics = &config.MetricsConfig{Enabled: true}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	m, err := metrics.New(cfg)
	require.NoError(t, err)
	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	hasher := auth.NewBcryptHasher(cfg)
	repo := newMemUserRepo()
	notifier := &captureNotifier{}
	providers := service.NewOAuthProviders(&fakeProvider{
		name:    entity.AuthProviderGoogle,
		subject: "1234",
		email:   "grace@example.com",
	})

	authUC := impl.NewAuthService(impl.AuthServiceParams{
		UserRepo:     repo,
		Hasher:       hasher,
		TokenService: tokens,
		Providers:    providers,
		Events:       m,
		Config:       cfg,
		Logger:       logger,
	})
	resetUC := impl.NewPasswordResetService(impl.PasswordResetServiceParams{
		UserRepo: repo,
		Hasher:   hasher,
		Tokens:   auth.NewResetTokenGenerator(),
		Notifier: notifier,
		Events:   m,
		Config:   cfg,
		Logger:   logger,
	})

	e := newEcho(cfg, logger, router.RouterParams{
		AuthHandler:    handler.NewAuthHandler(authUC, resetUC),
		OAuthHandler:   handler.NewOAuthHandler(authUC, cfg, logger),
		HealthHandler:  handler.NewHealthHandler(cfg),
		AuthMiddleware: httpmiddleware.NewAuthMiddleware(tokens, m),
		Metrics:        m,
	})

	return &testApp{e: e, repo: repo, notifier: notifier}
}

func (a *testApp) do(method, target, body string, headers map[string]string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)

	return rec
}

func bearer(token string) map[string]string {
	return map[string]string{echo.HeaderAuthorization: "Bearer " + token}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())

	return body
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	info, ok := decode(t, rec)["error"].(map[string]any)
	require.True(t, ok, rec.Body.String())

	return info["code"].(string)
}

func (a *testApp) register(t *testing.T, email, password string) string {
	t.Helper()

	rec := a.do(http.MethodPost, "/api/auth/register",
		`{"email":"`+email+`","password":"`+password+`","firstName":"Alice","lastName":"Liddell"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.Equal(t, "User registered successfully", body["message"])

	return body["token"].(string)
}

func TestRegisterThenCurrentUser(t *testing.T) {
	app := newTestApp(t)

	token := app.register(t, "alice@example.com", "password123")
	require.NotEmpty(t, token)

	rec := app.do(http.MethodGet, "/api/auth/user", "", bearer(token))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "alice@example.com", body["email"])
	assert.Equal(t, "manual", body["authProvider"])
	assert.Equal(t, "tenant", body["role"])
	assert.NotContains(t, rec.Body.String(), "password")

	rec = app.do(http.MethodGet, "/api/auth/user", "", bearer("garbage"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, map[string]any{"error": "Unauthorized", "message": "Invalid or expired token"}, decode(t, rec))
}

func TestCurrentUser_FilterRejections(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name    string
		headers map[string]string
		message string
	}{
		{name: "no header", message: "No authorization header provided"},
		{
			name:    "wrong scheme",
			headers: map[string]string{echo.HeaderAuthorization: "Basic YWxpY2U6cHc="},
			message: "Invalid token format, must be Bearer token",
		},
		{
			name:    "empty bearer",
			headers: map[string]string{echo.HeaderAuthorization: "Bearer "},
			message: "Invalid token format, must be Bearer token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(http.MethodGet, "/api/auth/user", "", tt.headers)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, tt.message, decode(t, rec)["message"])
		})
	}
}

func TestRegister_Rejections(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "alice@example.com", "password123")

	tests := []struct {
		name string
		body string
		code string
	}{
		{name: "duplicate email ignoring case", body: `{"email":"ALICE@example.com","password":"password123"}`, code: "USER_ALREADY_EXISTS"},
		{name: "invalid email", body: `{"email":"not-an-email","password":"password123"}`, code: "VALIDATION_FAILED"},
		{name: "short password", body: `{"email":"bob@example.com","password":"short"}`, code: "VALIDATION_FAILED"},
		{
			name: "password over bcrypt limit",
			body: `{"email":"bob@example.com","password":"` + strings.Repeat("a", 80) + `"}`,
			code: "VALIDATION_FAILED",
		},
		{name: "malformed json", body: `{"email":`, code: "VALIDATION_FAILED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(http.MethodPost, "/api/auth/register", tt.body, nil)

			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Equal(t, tt.code, errorCode(t, rec))
		})
	}
}

func TestLoginAndLogout(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "alice@example.com", "password123")

	rec := app.do(http.MethodPost, "/api/auth/login", `{"email":"alice@example.com","password":"password123"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "Login successful", body["message"])
	assert.NotEmpty(t, body["token"])

	wrong := app.do(http.MethodPost, "/api/auth/login", `{"email":"alice@example.com","password":"nope-nope"}`, nil)
	unknown := app.do(http.MethodPost, "/api/auth/login", `{"email":"nobody@example.com","password":"password123"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, wrong.Body.String(), unknown.Body.String())

	rec = app.do(http.MethodPost, "/api/auth/logout", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Logged out successfully", decode(t, rec)["message"])
}

func TestPasswordResetFlow(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "alice@example.com", "password123")

	rec := app.do(http.MethodPost, "/api/auth/forgot-password", `{"email":"alice@example.com"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, usecase.ForgotPasswordMessage, decode(t, rec)["message"])

	unknown := app.do(http.MethodPost, "/api/auth/forgot-password", `{"email":"nobody@example.com"}`, nil)
	assert.Equal(t, rec.Body.String(), unknown.Body.String())

	sent := app.notifier.sent()
	require.Len(t, sent, 1)
	resetURL, err := url.Parse(sent[0].ResetURL)
	require.NoError(t, err)
	assert.Equal(t, "/reset-password", resetURL.Path)
	token := resetURL.Query().Get("token")
	require.Len(t, token, 64)

	rec = app.do(http.MethodGet, "/api/auth/verify-reset-token/"+token, "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, map[string]any{"valid": true, "email": "alice@example.com"}, decode(t, rec))

	resetBody := `{"token":"` + token + `","password":"new-password-1"}`
	rec = app.do(http.MethodPost, "/api/auth/reset-password", resetBody, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Password reset successful", decode(t, rec)["message"])

	rec = app.do(http.MethodPost, "/api/auth/reset-password", resetBody, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_RESET_TOKEN", errorCode(t, rec))

	rec = app.do(http.MethodGet, "/api/auth/verify-reset-token/"+token, "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	old := app.do(http.MethodPost, "/api/auth/login", `{"email":"alice@example.com","password":"password123"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, old.Code)
	fresh := app.do(http.MethodPost, "/api/auth/login", `{"email":"alice@example.com","password":"new-password-1"}`, nil)
	assert.Equal(t, http.StatusOK, fresh.Code)
}

func (a *testApp) requestResetToken(t *testing.T, email string) string {
	t.Helper()

	before := len(a.notifier.sent())
	rec := a.do(http.MethodPost, "/api/auth/forgot-password", `{"email":"`+email+`"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	sent := a.notifier.sent()
	require.Len(t, sent, before+1)
	resetURL, err := url.Parse(sent[len(sent)-1].ResetURL)
	require.NoError(t, err)

	return resetURL.Query().Get("token")
}

func TestPasswordReset_ExpiredTokenRejected(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "alice@example.com", "password123")
	token := app.requestResetToken(t, "alice@example.com")

	app.repo.expireResetTokens(time.Now())

	rec := app.do(http.MethodPost, "/api/auth/reset-password", `{"token":"`+token+`","password":"new-password-1"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Equal(t, "INVALID_RESET_TOKEN", errorCode(t, rec))

	rec = app.do(http.MethodGet, "/api/auth/verify-reset-token/"+token, "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Equal(t, "INVALID_RESET_TOKEN", errorCode(t, rec))

	// verify cleared the stale token, so a fresh request starts a new lifecycle
	fresh := app.requestResetToken(t, "alice@example.com")
	require.NotEqual(t, token, fresh)
	rec = app.do(http.MethodGet, "/api/auth/verify-reset-token/"+fresh, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	old := app.do(http.MethodPost, "/api/auth/login", `{"email":"alice@example.com","password":"password123"}`, nil)
	assert.Equal(t, http.StatusOK, old.Code)
}

func TestPasswordReset_OverlongPasswordRejected(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "alice@example.com", "password123")
	token := app.requestResetToken(t, "alice@example.com")

	rec := app.do(http.MethodPost, "/api/auth/reset-password",
		`{"token":"`+token+`","password":"`+strings.Repeat("a", 80)+`"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Equal(t, "VALIDATION_FAILED", errorCode(t, rec))

	rec = app.do(http.MethodGet, "/api/auth/verify-reset-token/"+token, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestMemUserRepo_ClearResetTokenKeepsReissuedToken(t *testing.T) {
	repo := newMemUserRepo()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &entity.User{ID: "u-1", Email: "alice@example.com"}))
	require.NoError(t, repo.SetResetToken(ctx, "u-1", "fresh", time.Now().Add(time.Hour)))

	require.NoError(t, repo.ClearResetToken(ctx, "u-1", "stale"))

	u, err := repo.FindByResetToken(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, "u-1", u.ID)
}

func TestOAuthFlow(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodGet, "/api/auth/google", "", nil)
	require.Equal(t, http.StatusFound, rec.Code, rec.Body.String())

	location, err := url.Parse(rec.Header().Get(echo.HeaderLocation))
	require.NoError(t, err)
	state := location.Query().Get("state")
	require.NotEmpty(t, state)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, state, cookies[0].Value)

	t.Run("state mismatch", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/api/auth/google/callback?code=good-code&state=forged", "", nil, cookies[0])

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, frontendURL+"/?error=google_auth_failed", rec.Header().Get(echo.HeaderLocation))
	})

	t.Run("bad code", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/api/auth/google/callback?code=bad&state="+state, "", nil, cookies[0])

		assert.Equal(t, frontendURL+"/?error=google_auth_failed", rec.Header().Get(echo.HeaderLocation))
	})

	t.Run("success", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/api/auth/google/callback?code=good-code&state="+state, "", nil, cookies[0])
		require.Equal(t, http.StatusFound, rec.Code)

		target := rec.Header().Get(echo.HeaderLocation)
		require.True(t, strings.HasPrefix(target, frontendURL+"/#token="), target)
		token := strings.TrimPrefix(target, frontendURL+"/#token=")

		cleared := rec.Result().Cookies()
		require.Len(t, cleared, 1)
		assert.Equal(t, -1, cleared[0].MaxAge)

		me := app.do(http.MethodGet, "/api/auth/user", "", bearer(token))
		require.Equal(t, http.StatusOK, me.Code, me.Body.String())
		body := decode(t, me)
		assert.Equal(t, "google_1234", body["id"])
		assert.Equal(t, "google", body["authProvider"])
	})

	t.Run("oauth account cannot use password login", func(t *testing.T) {
		rec := app.do(http.MethodPost, "/api/auth/login", `{"email":"grace@example.com","password":"whatever1"}`, nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestOAuthStart_UnconfiguredProvider(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodGet, "/api/auth/microsoft", "", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "OAUTH_PROVIDER_NOT_FOUND", errorCode(t, rec))
	assert.Empty(t, rec.Result().Cookies())
}

func TestHealthAndMetrics(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])

	app.register(t, "alice@example.com", "password123")

	rec = app.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `prolits_auth_events_total{event="register",outcome="success"} 1`)
	assert.Contains(t, rec.Body.String(), `prolits_http_requests_total{method="POST",route="/api/auth/register",status="201"} 1`)
}
