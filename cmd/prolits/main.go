package main

import (
	"context"
	"log/slog"
	"os"

	"prolits/config"
	"prolits/internal/delivery"
	"prolits/internal/delivery/http"
	"prolits/internal/delivery/http/middleware"
	"prolits/internal/delivery/http/router/handler"
	"prolits/internal/domain/service"
	"prolits/internal/infra/auth"
	"prolits/internal/infra/auth/google"
	"prolits/internal/infra/auth/microsoft"
	logs "prolits/internal/infra/log"
	"prolits/internal/infra/metrics"
	"prolits/internal/infra/notification"
	"prolits/internal/infra/persistence/postgres"
	"prolits/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

type oauthProvidersParams struct {
	fx.In

	Providers []service.OAuthProvider `group:"oauthProviders"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
		metrics.New,
		func(m *metrics.Metrics) service.AuthEventRecorder { return m },
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewUserRepository,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			auth.NewResetTokenGenerator,
			notification.NewResetNotifier,
			fx.Annotate(
				google.NewProvider,
				fx.ResultTags(`group:"oauthProviders"`),
			),
			fx.Annotate(
				microsoft.NewProvider,
				fx.ResultTags(`group:"oauthProviders"`),
			),
			newOAuthProviders,
		),
	)
}

// newOAuthProviders indexes the configured providers; disabled ones arrive as nil and are skipped.
func newOAuthProviders(params oauthProvidersParams) service.OAuthProviders {
	return service.NewOAuthProviders(params.Providers...)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAuthService,
			impl.NewPasswordResetService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAuthHandler,
			handler.NewOAuthHandler,
			handler.NewHealthHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
