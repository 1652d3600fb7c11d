// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"prolits/config"
	deliverycontext "prolits/internal/delivery/context"
	"prolits/internal/domain/entity"
	domainerrors "prolits/internal/domain/errors"
	"prolits/internal/domain/repository"
	"prolits/internal/domain/service"
	"prolits/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const defaultMinPasswordLength = 8

// authService implements the AuthUsecase interface.
type authService struct {
	userRepo          repository.UserRepository
	hasher            service.PasswordHasher
	tokenService      service.TokenService
	providers         service.OAuthProviders
	events            service.AuthEventRecorder
	minPasswordLength int
	logger            *slog.Logger
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Providers    service.OAuthProviders
	Events       service.AuthEventRecorder
	Config       *config.Config
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		userRepo:          params.UserRepo,
		hasher:            params.Hasher,
		tokenService:      params.TokenService,
		providers:         params.Providers,
		events:            params.Events,
		minPasswordLength: minPasswordLength(params.Config),
		logger:            params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *authService) record(event service.AuthEvent, err error) {
	if srv.events != nil {
		srv.events.RecordAuthEvent(event, service.OutcomeOf(err))
	}
}

// Register creates a manual account and starts its first session.
func (srv *authService) Register(ctx context.Context, input *usecase.RegisterInput) (out *usecase.AuthOutput, err error) {
	defer func() { srv.record(service.AuthEventRegister, err) }()

	email := entity.NormalizeEmail(input.Email)
	if email == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("email is required")
	}
	if err := validatePassword(input.Password, srv.minPasswordLength); err != nil {
		return nil, err
	}

	_, err = srv.userRepo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		srv.log(ctx).Warn("Registration rejected, email already in use")

		return nil, errors.WithStack(domainerrors.ErrUserAlreadyExists)
	case !errors.Is(err, repository.ErrUserNotFound):
		return nil, errors.Wrap(err, "failed to check existing user")
	}

	hash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.WithStack(domainerrors.ErrPasswordHashFailed)
	}

	user := &entity.User{
		ID:           uuid.NewString(),
		Email:        email,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		PasswordHash: &hash,
		AuthProvider: entity.AuthProviderManual,
		Role:         entity.DefaultRole,
	}
	if err := srv.userRepo.Create(ctx, user); err != nil {
		return nil, errors.Wrap(err, "failed to create user during registration")
	}

	token, err := srv.tokenService.Issue(user.Identity())
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue token after registration")
	}

	srv.log(ctx).Info("User registered", slog.String("user_id", user.ID))

	return &usecase.AuthOutput{User: user, Token: token}, nil
}

// Login verifies a manual account's password and starts a session.
// Unknown email, OAuth-only account and wrong password are indistinguishable to the caller.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (out *usecase.AuthOutput, err error) {
	defer func() { srv.record(service.AuthEventLogin, err) }()

	email := entity.NormalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("email and password are required")
	}

	user, err := srv.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.WithStack(domainerrors.ErrInvalidCredentials)
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	if !user.CanUsePassword() {
		srv.log(ctx).Warn("Password login attempted on external account",
			slog.String("user_id", user.ID),
			slog.String("provider", user.AuthProvider.String()),
		)

		return nil, errors.WithStack(domainerrors.ErrInvalidCredentials)
	}

	if !srv.hasher.Check(input.Password, *user.PasswordHash) {
		return nil, errors.WithStack(domainerrors.ErrInvalidCredentials)
	}

	token, err := srv.tokenService.Issue(user.Identity())
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue token after login")
	}

	return &usecase.AuthOutput{User: user, Token: token}, nil
}

// CurrentUser loads the account a verified token was issued for.
func (srv *authService) CurrentUser(ctx context.Context, userID string) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.WithStack(domainerrors.ErrUserNotFound)
		}

		return nil, errors.Wrap(err, "failed to load current user")
	}

	return user, nil
}

// OAuthAuthorizeURL returns the consent page of provider with state attached.
func (srv *authService) OAuthAuthorizeURL(provider, state string) (string, error) {
	p, ok := srv.providers.Get(provider)
	if !ok {
		return "", domainerrors.ErrOAuthProviderNotFound.WithDetails(provider)
	}

	return p.AuthCodeURL(state), nil
}

// OAuthLogin exchanges the callback code, upserts the account and starts a session.
func (srv *authService) OAuthLogin(ctx context.Context, input *usecase.OAuthLoginInput) (out *usecase.AuthOutput, err error) {
	defer func() { srv.record(service.AuthEventOAuthLogin, err) }()

	p, ok := srv.providers.Get(input.Provider)
	if !ok {
		return nil, domainerrors.ErrOAuthProviderNotFound.WithDetails(input.Provider)
	}
	if input.Code == "" {
		return nil, domainerrors.ErrOAuthFailed.WithDetails("authorization code is missing")
	}

	profile, err := p.Exchange(ctx, input.Code)
	if err != nil {
		return nil, errors.Wrapf(err, "%s code exchange failed", input.Provider)
	}
	if profile.Email == "" {
		return nil, errors.WithStack(domainerrors.ErrMissingEmailClaim)
	}
	if !profile.Provider.IsExternal() {
		return nil, domainerrors.ErrOAuthFailed.WithDetails("profile does not come from an external provider")
	}
	if profile.Subject == "" {
		return nil, domainerrors.ErrOAuthFailed.WithDetails("provider did not return a subject")
	}

	user, err := srv.userRepo.UpsertOAuth(ctx, &entity.User{
		ID:              profile.UserID(),
		Email:           entity.NormalizeEmail(profile.Email),
		FirstName:       profile.FirstName,
		LastName:        profile.LastName,
		ProfileImageURL: profile.ProfileImageURL,
		AuthProvider:    profile.Provider,
		Role:            entity.DefaultRole,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to store oauth user")
	}

	token, err := srv.tokenService.Issue(user.Identity())
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue token after oauth login")
	}

	srv.log(ctx).Info("OAuth login succeeded",
		slog.String("user_id", user.ID),
		slog.String("provider", profile.Provider.String()),
	)

	return &usecase.AuthOutput{User: user, Token: token}, nil
}

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

func validatePassword(password string, minLength int) error {
	if utf8.RuneCountInString(password) < minLength {
		return domainerrors.ErrValidationFailed.WithDetails(
			fmt.Sprintf("password must be at least %d characters", minLength),
		)
	}
	if len(password) > maxPasswordBytes {
		return domainerrors.ErrValidationFailed.WithDetails(
			fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes),
		)
	}

	return nil
}

func minPasswordLength(cfg *config.Config) int {
	if cfg != nil && cfg.Auth != nil && cfg.Auth.MinPasswordLength > 0 {
		return cfg.Auth.MinPasswordLength
	}

	return defaultMinPasswordLength
}
