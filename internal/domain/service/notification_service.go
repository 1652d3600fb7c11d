package service

import (
	"context"
	"time"
)

// PasswordResetMessage is everything a delivery channel needs to reach the account owner.
type PasswordResetMessage struct {
	RequestID string    `json:"request_id,omitempty"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name,omitempty"`
	ResetURL  string    `json:"reset_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ResetNotifier delivers password reset links out of band.
type ResetNotifier interface {
	// SendPasswordReset delivers msg to the account owner.
	SendPasswordReset(ctx context.Context, msg *PasswordResetMessage) error

	// Close releases any resources held by the notifier.
	Close() error
}

// ResetTokenGenerator produces unguessable password reset tokens.
type ResetTokenGenerator interface {
	Generate() (string, error)
}
