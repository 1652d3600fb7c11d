package impl

import (
	"io"
	"log/slog"
	"time"

	"prolits/config"
	"prolits/internal/domain/entity"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	cfg := &config.Config{
		Auth: &config.AuthConfig{
			BcryptCost:        4,
			MinPasswordLength: 8,
			ResetTokenTTL:     24 * time.Hour,
		},
	}
	cfg.Frontend.BaseURL = "http://localhost:5173"

	return cfg
}

func newManualUser(id, email, hash string) *entity.User {
	return &entity.User{
		ID:           id,
		Email:        email,
		FirstName:    "Alice",
		LastName:     "Smith",
		PasswordHash: &hash,
		AuthProvider: entity.AuthProviderManual,
		Role:         entity.RoleTenant,
	}
}
