// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"time"

	"prolits/internal/domain/entity"
	domainerrors "prolits/internal/domain/errors"
	"prolits/internal/domain/repository"
	"prolits/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// oauthRefreshColumns are overwritten when a returning OAuth user signs in again.
// Role, password and reset columns are owned by the application and never touched.
var oauthRefreshColumns = []string{"email", "first_name", "last_name", "profile_image_url", "updated_at"}

// userRepository implements the domain.UserRepository interface using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// FindByID retrieves a single user by primary key.
func (repo *userRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	var userM model.UserModel
	err := repo.db.WithContext(ctx).Where("id = ?", id).First(&userM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by id")
	}

	return userM.ToDomain(), nil
}

// FindByEmail retrieves a single user by email, ignoring case.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var userM model.UserModel
	err := repo.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&userM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	return userM.ToDomain(), nil
}

// Create inserts a new user row.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	userM := model.FromUserDomain(user)

	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		return repo.mapWriteError(err, "failed to create user")
	}

	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt

	return nil
}

// UpsertOAuth inserts the OAuth account or refreshes its profile columns, returning the stored row.
func (repo *userRepository) UpsertOAuth(ctx context.Context, user *entity.User) (*entity.User, error) {
	userM := model.FromUserDomain(user)

	err := repo.db.WithContext(ctx).
		Clauses(
			clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns(oauthRefreshColumns),
			},
			clause.Returning{},
		).
		Create(userM).Error
	if err != nil {
		return nil, repo.mapWriteError(err, "failed to upsert oauth user")
	}

	return userM.ToDomain(), nil
}

// SetResetToken stores a fresh token and expiry on the user.
func (repo *userRepository) SetResetToken(ctx context.Context, userID, token string, expiry time.Time) error {
	result := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"reset_token":        token,
			"reset_token_expiry": expiry,
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to set reset token")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// FindByResetToken retrieves the user that holds token, regardless of expiry.
func (repo *userRepository) FindByResetToken(ctx context.Context, token string) (*entity.User, error) {
	var userM model.UserModel
	err := repo.db.WithContext(ctx).Where("reset_token = ?", token).First(&userM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by reset token")
	}

	return userM.ToDomain(), nil
}

// ClearResetToken nulls both reset columns if token is still the stored one.
func (repo *userRepository) ClearResetToken(ctx context.Context, userID, token string) error {
	err := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ? AND reset_token = ?", userID, token).
		Updates(map[string]any{
			"reset_token":        nil,
			"reset_token_expiry": nil,
		}).Error
	if err != nil {
		return errors.Wrap(err, "failed to clear reset token")
	}

	return nil
}

// ConsumeResetToken swaps the password and clears the token in one conditional UPDATE,
// so two concurrent resets with the same token cannot both succeed.
func (repo *userRepository) ConsumeResetToken(ctx context.Context, token, passwordHash string, now time.Time) (string, error) {
	var userM model.UserModel
	result := repo.db.WithContext(ctx).
		Model(&userM).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "id"}}}).
		Where("reset_token = ? AND reset_token_expiry > ?", token, now).
		Updates(map[string]any{
			"password":           passwordHash,
			"reset_token":        nil,
			"reset_token_expiry": nil,
		})
	if result.Error != nil {
		return "", errors.Wrap(result.Error, "failed to consume reset token")
	}
	if result.RowsAffected == 0 || userM.ID == "" {
		return "", repository.ErrResetTokenNotConsumed
	}

	return userM.ID, nil
}

func (repo *userRepository) mapWriteError(err error, msg string) error {
	switch {
	case isUniqueConstraintViolation(err):
		return errors.WithStack(domainerrors.ErrUserAlreadyExists)
	case isNotNullConstraintViolation(err), isCheckConstraintViolation(err):
		return domainerrors.ErrValidationFailed.WithDetails(msg)
	default:
		return domainerrors.NewDatabaseExecuteError(err, msg)
	}
}
