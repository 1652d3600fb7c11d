package usecase

import "context"

// ForgotPasswordMessage is returned for every reset request, whether or not the account exists.
const ForgotPasswordMessage = "If an account exists with that email, a reset link has been sent."

// ResetPasswordInput defines the data required to consume a reset token.
type ResetPasswordInput struct {
	Token    string
	Password string
}

// VerifyResetOutput describes a live reset token.
type VerifyResetOutput struct {
	Email string
}

// PasswordResetUsecase drives the reset token lifecycle of manual accounts.
type PasswordResetUsecase interface {
	// RequestReset issues and delivers a token when email belongs to a manual account.
	// It fails only on malformed input so callers cannot probe which accounts exist.
	RequestReset(ctx context.Context, email string) error

	VerifyResetToken(ctx context.Context, token string) (*VerifyResetOutput, error)

	// ResetPassword sets a new password and burns the token. A token succeeds at most once.
	ResetPassword(ctx context.Context, input *ResetPasswordInput) error
}
