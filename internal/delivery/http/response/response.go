// Package response defines the JSON bodies of the auth API.
package response

import (
	"net/http"
	"time"

	"prolits/internal/domain/entity"

	"github.com/labstack/echo/v4"
)

// User is the public view of an account. The password hash and reset token never leave the server.
type User struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	ProfileImageURL string    `json:"profileImageUrl,omitempty"`
	AuthProvider    string    `json:"authProvider"`
	Role            string    `json:"role"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// FromUser maps a domain user to its public view.
func FromUser(u *entity.User) *User {
	if u == nil {
		return nil
	}

	return &User{
		ID:              u.ID,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		ProfileImageURL: u.ProfileImageURL,
		AuthProvider:    u.AuthProvider.String(),
		Role:            u.Role.String(),
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

// Auth is returned by register and login.
type Auth struct {
	Message string `json:"message"`
	User    *User  `json:"user"`
	Token   string `json:"token"`
}

// Message carries a single human readable message.
type Message struct {
	Message string `json:"message"`
}

// VerifyReset is returned for a live reset token.
type VerifyReset struct {
	Valid bool   `json:"valid"`
	Email string `json:"email"`
}

// Health is the liveness probe body.
type Health struct {
	Status  string `json:"status"`
	Service string `json:"service,omitempty"`
}

// Created writes 201 with an auth body.
func Created(c echo.Context, message string, user *entity.User, token string) error {
	return c.JSON(http.StatusCreated, Auth{Message: message, User: FromUser(user), Token: token})
}

// Authenticated writes 200 with an auth body.
func Authenticated(c echo.Context, message string, user *entity.User, token string) error {
	return c.JSON(http.StatusOK, Auth{Message: message, User: FromUser(user), Token: token})
}

// OK writes 200 with a message body.
func OK(c echo.Context, message string) error {
	return c.JSON(http.StatusOK, Message{Message: message})
}
