package notification

import (
	"context"
	"log/slog"

	"prolits/config"
	"prolits/internal/domain/service"
	"prolits/internal/infra/pubsub"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// NotifierParams holds dependencies for ResetNotifier, injected by Fx
type NotifierParams struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewResetNotifier selects the password reset delivery channel from mail.provider.
func NewResetNotifier(params NotifierParams) (service.ResetNotifier, error) {
	cfg := params.Config.Mail
	logger := params.Logger

	if cfg == nil || cfg.Provider == "" || cfg.Provider == config.MailProviderLog {
		return NewLogNotifier(logger), nil
	}

	var notifier service.ResetNotifier
	var err error

	switch cfg.Provider {
	case config.MailProviderSMTP:
		notifier, err = NewSMTPNotifier(cfg, logger)
		if err != nil {
			return nil, err
		}

	case config.MailProviderWebhook:
		if cfg.Webhook.Endpoint == "" {
			return nil, errors.New("mail.webhook.endpoint is required for the webhook provider")
		}
		logger.Info("Password reset events are posted to a webhook",
			slog.String("endpoint", cfg.Webhook.Endpoint),
		)

		notifier = pubsub.NewLocalHTTPPublisher(cfg.Webhook.Endpoint, logger)

	case config.MailProviderPubSub:
		if cfg.PubSub.ProjectID == "" {
			return nil, errors.New("mail.pubsub.projectId is required for the pubsub provider")
		}
		if cfg.PubSub.TopicID == "" {
			return nil, errors.New("mail.pubsub.topicId is required for the pubsub provider")
		}

		notifier, err = pubsub.NewGooglePubSubPublisher(params.Ctx, cfg.PubSub.ProjectID, cfg.PubSub.TopicID, logger)
		if err != nil {
			return nil, err
		}

	default:
		return nil, errors.Errorf("unknown mail provider: %s", cfg.Provider)
	}

	params.Lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info("Closing ResetNotifier")

			return notifier.Close()
		},
	})

	return notifier, nil
}
