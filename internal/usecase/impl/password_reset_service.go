package impl

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"prolits/config"
	deliverycontext "prolits/internal/delivery/context"
	"prolits/internal/domain/entity"
	domainerrors "prolits/internal/domain/errors"
	"prolits/internal/domain/repository"
	"prolits/internal/domain/service"
	"prolits/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	defaultResetTokenTTL = 24 * time.Hour
	resetPasswordPath    = "/reset-password"
)

// passwordResetService implements the PasswordResetUsecase interface.
type passwordResetService struct {
	userRepo          repository.UserRepository
	hasher            service.PasswordHasher
	tokens            service.ResetTokenGenerator
	notifier          service.ResetNotifier
	events            service.AuthEventRecorder
	frontendURL       string
	tokenTTL          time.Duration
	minPasswordLength int
	now               func() time.Time
	logger            *slog.Logger
}

// PasswordResetServiceParams holds dependencies for PasswordResetService, injected by Fx.
type PasswordResetServiceParams struct {
	fx.In

	UserRepo repository.UserRepository
	Hasher   service.PasswordHasher
	Tokens   service.ResetTokenGenerator
	Notifier service.ResetNotifier
	Events   service.AuthEventRecorder
	Config   *config.Config
	Logger   *slog.Logger
}

// NewPasswordResetService is the constructor for passwordResetService.
func NewPasswordResetService(params PasswordResetServiceParams) usecase.PasswordResetUsecase {
	ttl := defaultResetTokenTTL
	if params.Config.Auth != nil && params.Config.Auth.ResetTokenTTL > 0 {
		ttl = params.Config.Auth.ResetTokenTTL
	}

	return &passwordResetService{
		userRepo:          params.UserRepo,
		hasher:            params.Hasher,
		tokens:            params.Tokens,
		notifier:          params.Notifier,
		events:            params.Events,
		frontendURL:       params.Config.Frontend.BaseURL,
		tokenTTL:          ttl,
		minPasswordLength: minPasswordLength(params.Config),
		now:               time.Now,
		logger:            params.Logger,
	}
}

func (srv *passwordResetService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *passwordResetService) record(event service.AuthEvent, err error) {
	if srv.events != nil {
		srv.events.RecordAuthEvent(event, service.OutcomeOf(err))
	}
}

// RequestReset issues a token for manual accounts. Every other outcome is only logged,
// so the caller always sees the same answer.
func (srv *passwordResetService) RequestReset(ctx context.Context, email string) error {
	email = entity.NormalizeEmail(email)
	if email == "" {
		return domainerrors.ErrValidationFailed.WithDetails("email is required")
	}

	err := srv.issueToken(ctx, email)
	srv.record(service.AuthEventResetRequest, err)
	if err != nil {
		srv.log(ctx).Error("Password reset request failed", slog.Any("error", err))
	}

	return nil
}

func (srv *passwordResetService) issueToken(ctx context.Context, email string) error {
	user, err := srv.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Info("Password reset requested for unknown email")

			return nil
		}

		return errors.Wrap(err, "failed to find user for reset")
	}

	if user.AuthProvider != entity.AuthProviderManual {
		srv.log(ctx).Info("Password reset requested for external account",
			slog.String("user_id", user.ID),
			slog.String("provider", user.AuthProvider.String()),
		)

		return nil
	}

	token, err := srv.tokens.Generate()
	if err != nil {
		return errors.Wrap(err, "failed to generate reset token")
	}

	expiresAt := srv.now().Add(srv.tokenTTL)
	if err := srv.userRepo.SetResetToken(ctx, user.ID, token, expiresAt); err != nil {
		return errors.Wrap(err, "failed to store reset token")
	}

	msg := &service.PasswordResetMessage{
		RequestID: deliverycontext.GetRequestIDFromContext(ctx),
		UserID:    user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		ResetURL:  srv.resetURL(token),
		ExpiresAt: expiresAt,
	}
	if err := srv.notifier.SendPasswordReset(ctx, msg); err != nil {
		return errors.Wrap(err, "failed to deliver reset link")
	}

	srv.log(ctx).Info("Password reset token issued", slog.String("user_id", user.ID))

	return nil
}

func (srv *passwordResetService) resetURL(token string) string {
	return srv.frontendURL + resetPasswordPath + "?token=" + url.QueryEscape(token)
}

// VerifyResetToken reports the owner of a live token. A token found expired is cleared.
func (srv *passwordResetService) VerifyResetToken(ctx context.Context, token string) (out *usecase.VerifyResetOutput, err error) {
	defer func() { srv.record(service.AuthEventResetVerify, err) }()

	if token == "" {
		return nil, errors.WithStack(domainerrors.ErrInvalidOrExpiredResetToken)
	}

	user, err := srv.userRepo.FindByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.WithStack(domainerrors.ErrInvalidOrExpiredResetToken)
		}

		return nil, errors.Wrap(err, "failed to find reset token")
	}

	if !user.HasLiveResetToken(srv.now()) {
		if clearErr := srv.userRepo.ClearResetToken(ctx, user.ID, token); clearErr != nil {
			srv.log(ctx).Warn("Failed to clear expired reset token",
				slog.String("user_id", user.ID),
				slog.Any("error", clearErr),
			)
		}

		return nil, errors.WithStack(domainerrors.ErrInvalidOrExpiredResetToken)
	}

	return &usecase.VerifyResetOutput{Email: user.Email}, nil
}

// ResetPassword validates and hashes the new password, then consumes the token in one conditional write.
func (srv *passwordResetService) ResetPassword(ctx context.Context, input *usecase.ResetPasswordInput) (err error) {
	defer func() { srv.record(service.AuthEventResetConsume, err) }()

	if input.Token == "" {
		return domainerrors.ErrValidationFailed.WithDetails("token is required")
	}
	if err := validatePassword(input.Password, srv.minPasswordLength); err != nil {
		return err
	}

	hash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during reset", slog.Any("error", err))

		return errors.WithStack(domainerrors.ErrPasswordHashFailed)
	}

	userID, err := srv.userRepo.ConsumeResetToken(ctx, input.Token, hash, srv.now())
	if err != nil {
		if errors.Is(err, repository.ErrResetTokenNotConsumed) {
			return errors.WithStack(domainerrors.ErrInvalidOrExpiredResetToken)
		}

		return errors.Wrap(err, "failed to reset password")
	}

	srv.log(ctx).Info("Password reset completed", slog.String("user_id", userID))

	return nil
}
