package model

import (
	"time"

	"prolits/internal/domain/entity"
)

// UserModel mirrors the 'users' table. IDs are assigned by the application:
// a UUID for manual accounts and "<provider>_<subject>" for OAuth accounts.
type UserModel struct {
	ID               string  `gorm:"type:varchar(255);primaryKey"`
	Email            string  `gorm:"type:varchar(255);not null"`
	FirstName        string  `gorm:"type:varchar(100);not null"`
	LastName         string  `gorm:"type:varchar(100);not null"`
	ProfileImageURL  *string `gorm:"column:profile_image_url;type:text"`
	Password         *string `gorm:"type:varchar(255)"`
	AuthProvider     string  `gorm:"type:varchar(20);not null"`
	Role             string  `gorm:"type:varchar(20);not null"`
	ResetToken       *string `gorm:"type:varchar(255);index"`
	ResetTokenExpiry *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// ToDomain maps the row to a domain entity.
func (m *UserModel) ToDomain() *entity.User {
	if m == nil {
		return nil
	}

	user := &entity.User{
		ID:               m.ID,
		Email:            m.Email,
		FirstName:        m.FirstName,
		LastName:         m.LastName,
		PasswordHash:     m.Password,
		AuthProvider:     entity.AuthProvider(m.AuthProvider),
		Role:             entity.Role(m.Role),
		ResetToken:       m.ResetToken,
		ResetTokenExpiry: m.ResetTokenExpiry,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
	if m.ProfileImageURL != nil {
		user.ProfileImageURL = *m.ProfileImageURL
	}

	return user
}

// FromUserDomain maps a domain entity to a row.
func FromUserDomain(user *entity.User) *UserModel {
	if user == nil {
		return nil
	}

	m := &UserModel{
		ID:               user.ID,
		Email:            user.Email,
		FirstName:        user.FirstName,
		LastName:         user.LastName,
		Password:         user.PasswordHash,
		AuthProvider:     user.AuthProvider.String(),
		Role:             user.Role.String(),
		ResetToken:       user.ResetToken,
		ResetTokenExpiry: user.ResetTokenExpiry,
		CreatedAt:        user.CreatedAt,
		UpdatedAt:        user.UpdatedAt,
	}
	if user.ProfileImageURL != "" {
		url := user.ProfileImageURL
		m.ProfileImageURL = &url
	}

	return m
}
