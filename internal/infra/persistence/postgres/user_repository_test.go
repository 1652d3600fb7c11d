package postgres

import (
	"context"
	"testing"
	"time"

	"prolits/internal/domain/entity"
	domainerrors "prolits/internal/domain/errors"
	"prolits/internal/domain/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var userColumns = []string{
	"id", "email", "first_name", "last_name", "profile_image_url", "password",
	"auth_provider", "role", "reset_token", "reset_token_expiry", "created_at", "updated_at",
}

func newTestUserRepo(t *testing.T) (repository.UserRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(gormpg.New(gormpg.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Discard,
	})
	require.NoError(t, err)

	return NewUserRepository(db), mock
}

func TestUserRepository_FindByEmail(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	now := time.Now()
	hash := "$2a$12$hash"

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE LOWER\(email\) = LOWER\(\$1\)`).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow("u-1", "Jane@Example.com", "Jane", "Doe", nil, hash, "manual", "tenant", nil, nil, now, now))

	user, err := repo.FindByEmail(context.Background(), "jane@example.com")
	require.NoError(t, err)

	assert.Equal(t, "u-1", user.ID)
	assert.Equal(t, "Jane@Example.com", user.Email)
	assert.Equal(t, entity.AuthProviderManual, user.AuthProvider)
	assert.Equal(t, entity.RoleTenant, user.Role)
	require.NotNil(t, user.PasswordHash)
	assert.Equal(t, hash, *user.PasswordHash)
	assert.Nil(t, user.ResetToken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByIDNotFound(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestUserRepository_CreateDuplicateEmail(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	hash := "hash"

	mock.ExpectExec(`INSERT INTO "users"`).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

	err := repo.Create(context.Background(), &entity.User{
		ID:           "u-1",
		Email:        "jane@example.com",
		PasswordHash: &hash,
		AuthProvider: entity.AuthProviderManual,
		Role:         entity.RoleTenant,
	})

	assert.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)
}

func TestUserRepository_CreateDatabaseError(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectExec(`INSERT INTO "users"`).WillReturnError(errors.New("connection reset"))

	err := repo.Create(context.Background(), &entity.User{ID: "u-1", Email: "jane@example.com"})

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "DATABASE_EXECUTE_FAILED", appErr.ErrorCode())
}

func TestUserRepository_UpsertOAuthKeepsStoredRole(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO "users" .+ ON CONFLICT \("id"\) DO UPDATE SET .+ RETURNING \*`).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow("google_123", "jane@example.com", "Jane", "Doe", "https://img/jane.png", nil, "google", "owner", nil, nil, now, now))

	user, err := repo.UpsertOAuth(context.Background(), &entity.User{
		ID:              "google_123",
		Email:           "jane@example.com",
		FirstName:       "Jane",
		LastName:        "Doe",
		ProfileImageURL: "https://img/jane.png",
		AuthProvider:    entity.AuthProviderGoogle,
		Role:            entity.DefaultRole,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.RoleOwner, user.Role)
	assert.Equal(t, "https://img/jane.png", user.ProfileImageURL)
	assert.Nil(t, user.PasswordHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_SetResetToken(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectExec(`UPDATE "users" SET .*"reset_token"=`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "users" SET .*"reset_token"=`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetResetToken(context.Background(), "u-1", "token", time.Now().Add(time.Hour))
	require.NoError(t, err)

	err = repo.SetResetToken(context.Background(), "missing", "token", time.Now().Add(time.Hour))
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestUserRepository_ConsumeResetToken(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	now := time.Now()

	mock.ExpectQuery(`UPDATE "users" SET .+ WHERE reset_token = \$\d+ AND reset_token_expiry > \$\d+ RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("u-1"))

	id, err := repo.ConsumeResetToken(context.Background(), "token", "new-hash", now)
	require.NoError(t, err)
	assert.Equal(t, "u-1", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ConsumeResetTokenNoMatch(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery(`UPDATE "users" SET`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.ConsumeResetToken(context.Background(), "stale", "new-hash", time.Now())
	assert.ErrorIs(t, err, repository.ErrResetTokenNotConsumed)
}

func TestUserRepository_ClearResetToken(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectExec(`UPDATE "users" SET .*"reset_token"=\$.* WHERE id = \$\d+ AND reset_token = \$\d+`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "u-1", "stale").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.ClearResetToken(context.Background(), "u-1", "stale"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ClearResetToken_ReissuedTokenUntouched(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectExec(`UPDATE "users" SET .* WHERE id = \$\d+ AND reset_token = \$\d+`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "u-1", "stale").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.ClearResetToken(context.Background(), "u-1", "stale"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConstraintHelpers(t *testing.T) {
	wrapped := errors.Wrap(&pgconn.PgError{Code: pgerrcode.UniqueViolation}, "insert")

	assert.True(t, isUniqueConstraintViolation(wrapped))
	assert.True(t, isUniqueConstraintViolation(gorm.ErrDuplicatedKey))
	assert.False(t, isUniqueConstraintViolation(errors.New("boom")))
	assert.True(t, isNotNullConstraintViolation(&pgconn.PgError{Code: pgerrcode.NotNullViolation}))
	assert.True(t, isCheckConstraintViolation(&pgconn.PgError{Code: pgerrcode.CheckViolation}))
}
