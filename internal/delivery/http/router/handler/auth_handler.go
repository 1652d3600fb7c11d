// Package handler contains the HTTP handlers of the auth API.
package handler

import (
	"net/http"

	deliverycontext "prolits/internal/delivery/context"
	"prolits/internal/delivery/http/response"
	domainerrors "prolits/internal/domain/errors"
	"prolits/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type registerRequest struct {
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthHandler serves the credential endpoints under /api/auth.
type AuthHandler struct {
	authUC  usecase.AuthUsecase
	resetUC usecase.PasswordResetUsecase
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(authUC usecase.AuthUsecase, resetUC usecase.PasswordResetUsecase) *AuthHandler {
	return &AuthHandler{authUC: authUC, resetUC: resetUC}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	out, err := h.authUC.Register(c.Request().Context(), &usecase.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Created(c, "User registered successfully", out.User, out.Token)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	out, err := h.authUC.Login(c.Request().Context(), &usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Authenticated(c, "Login successful", out.User, out.Token)
}

// Logout handles POST /api/auth/logout. Tokens are stateless; the client discards its copy.
func (h *AuthHandler) Logout(c echo.Context) error {
	return response.OK(c, "Logged out successfully")
}

// CurrentUser handles GET /api/auth/user behind the auth middleware.
func (h *AuthHandler) CurrentUser(c echo.Context) error {
	claims := deliverycontext.GetClaims(c)
	if claims == nil {
		return errors.WithStack(domainerrors.ErrInvalidToken)
	}

	user, err := h.authUC.CurrentUser(c.Request().Context(), claims.Subject)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, response.FromUser(user))
}

// ForgotPassword handles POST /api/auth/forgot-password. The answer never reveals whether the account exists.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.resetUC.RequestReset(c.Request().Context(), req.Email); err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, usecase.ForgotPasswordMessage)
}

// VerifyResetToken handles GET /api/auth/verify-reset-token/:token.
func (h *AuthHandler) VerifyResetToken(c echo.Context) error {
	out, err := h.resetUC.VerifyResetToken(c.Request().Context(), c.Param("token"))
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, response.VerifyReset{Valid: true, Email: out.Email})
}

// ResetPassword handles POST /api/auth/reset-password.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	err := h.resetUC.ResetPassword(c.Request().Context(), &usecase.ResetPasswordInput{
		Token:    req.Token,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, "Password reset successful")
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("malformed request body")
	}
	if err := c.Validate(req); err != nil {
		return errors.WithStack(err)
	}

	return nil
}
