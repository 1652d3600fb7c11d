package notification

import (
	"context"
	"log/slog"
	"time"

	"prolits/config"
	"prolits/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/wneessen/go-mail"
)

const (
	smtpImplicitTLSPort = 465
	smtpTimeout         = 15 * time.Second
)

// smtpNotifier sends the reset email over SMTP.
type smtpNotifier struct {
	host    string
	from    string
	options []mail.Option
	logger  *slog.Logger
	now     func() time.Time
}

// NewSMTPNotifier validates the SMTP settings and returns a notifier. Port 465 uses implicit TLS,
// every other port upgrades with STARTTLS when the server offers it.
func NewSMTPNotifier(cfg *config.MailConfig, logger *slog.Logger) (service.ResetNotifier, error) {
	if cfg.SMTP.Host == "" {
		return nil, errors.New("mail.smtp.host is required for the smtp provider")
	}

	from := cfg.From
	if from == "" {
		from = cfg.SMTP.User
	}
	if from == "" {
		return nil, errors.New("mail.from is required for the smtp provider")
	}

	port := cfg.SMTP.Port
	if port == 0 {
		port = mail.DefaultPort
	}

	options := []mail.Option{
		mail.WithPort(port),
		mail.WithTimeout(smtpTimeout),
	}
	if port == smtpImplicitTLSPort {
		options = append(options, mail.WithSSL())
	} else {
		options = append(options, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}
	if cfg.SMTP.User != "" {
		options = append(options,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.SMTP.User),
			mail.WithPassword(cfg.SMTP.Password),
		)
	}

	// Fail fast on option errors instead of on the first reset request.
	if _, err := mail.NewClient(cfg.SMTP.Host, options...); err != nil {
		return nil, errors.Wrap(err, "invalid smtp configuration")
	}

	logger.Info("Password reset emails are sent over SMTP",
		slog.String("host", cfg.SMTP.Host),
		slog.Int("port", port),
	)

	return &smtpNotifier{
		host:    cfg.SMTP.Host,
		from:    from,
		options: options,
		logger:  logger,
		now:     time.Now,
	}, nil
}

// SendPasswordReset renders and sends the reset email.
func (n *smtpNotifier) SendPasswordReset(ctx context.Context, msg *service.PasswordResetMessage) error {
	m, err := n.buildMessage(msg)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(n.host, n.options...)
	if err != nil {
		return errors.Wrap(err, "create smtp client")
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return errors.Wrap(err, "send reset email")
	}

	n.logger.Info("Password reset email sent", slog.String("user_id", msg.UserID))

	return nil
}

func (n *smtpNotifier) buildMessage(msg *service.PasswordResetMessage) (*mail.Msg, error) {
	text, html, err := renderResetEmail(msg, n.now())
	if err != nil {
		return nil, err
	}

	m := mail.NewMsg()
	if err := m.From(n.from); err != nil {
		return nil, errors.Wrap(err, "set from address")
	}
	if err := m.To(msg.Email); err != nil {
		return nil, errors.Wrap(err, "set recipient address")
	}
	m.Subject(resetEmailSubject)
	m.SetDate()
	m.SetMessageID()
	m.SetBodyString(mail.TypeTextPlain, text)
	m.AddAlternativeString(mail.TypeTextHTML, html)

	return m, nil
}

func (n *smtpNotifier) Close() error {
	return nil
}
