package notification

import (
	"context"
	"log/slog"

	"prolits/internal/domain/service"
)

// logNotifier writes the reset link to the log instead of delivering it. Development only.
type logNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns the console fallback used when no mail transport is configured.
func NewLogNotifier(logger *slog.Logger) service.ResetNotifier {
	logger.Warn("Password reset links are written to the log; configure mail.provider for real delivery")

	return &logNotifier{logger: logger}
}

func (n *logNotifier) SendPasswordReset(ctx context.Context, msg *service.PasswordResetMessage) error {
	n.logger.InfoContext(ctx, "PASSWORD RESET EMAIL (development mode)",
		slog.String("to", msg.Email),
		slog.String("subject", resetEmailSubject),
		slog.String("reset_url", msg.ResetURL),
		slog.Time("expires_at", msg.ExpiresAt),
	)

	return nil
}

func (n *logNotifier) Close() error {
	return nil
}
