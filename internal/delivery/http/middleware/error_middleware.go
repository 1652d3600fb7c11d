// Package middleware contains the echo middleware specific to the HTTP API.
package middleware

import (
	"log/slog"
	"net/http"

	deliverycontext "prolits/internal/delivery/context"
	"prolits/internal/delivery/http/validator"
	domainerrors "prolits/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ErrorMiddleware error handling middleware
type ErrorMiddleware struct {
	logger *slog.Logger
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(logger *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger: logger,
	}
}

// HandleHTTPError handles errors as Echo's HTTPErrorHandler.
// Server-side failures are logged with their cause and reach the client without details.
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	logger := deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger)

	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		info := &domainerrors.ErrorInfo{Code: appErr.ErrorCode()}
		if details := appErr.Details(); details != "" {
			info.Details = details
		}
		if appErr.HTTPCode() >= http.StatusInternalServerError {
			logger.Error("Request failed", slog.Any("error", err), slog.String("path", c.Request().URL.Path))
			info.Details = nil
		}

		m.write(c, appErr.HTTPCode(), appErr.Message(), info)

		return
	}

	var validationErr *validator.ValidationError
	if errors.As(err, &validationErr) {
		m.write(c, http.StatusBadRequest, domainerrors.ErrValidationFailed.Message(), &domainerrors.ErrorInfo{
			Code:    domainerrors.ErrValidationFailed.ErrorCode(),
			Details: validationErr.Fields,
		})

		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := http.StatusText(httpErr.Code)
		if msg, ok := httpErr.Message.(string); ok && msg != "" {
			message = msg
		}
		if httpErr.Code >= http.StatusInternalServerError {
			logger.Error("Request failed", slog.Any("error", err), slog.String("path", c.Request().URL.Path))
		}

		m.write(c, httpErr.Code, message, &domainerrors.ErrorInfo{Code: "HTTP_ERROR"})

		return
	}

	logger.Error("Unhandled error",
		slog.Any("error", err),
		slog.String("path", c.Request().URL.Path),
		slog.String("method", c.Request().Method),
	)

	m.write(c, http.StatusInternalServerError, domainerrors.ErrInternalError.Message(), &domainerrors.ErrorInfo{
		Code: domainerrors.ErrInternalError.ErrorCode(),
	})
}

func (m *ErrorMiddleware) write(c echo.Context, code int, message string, info *domainerrors.ErrorInfo) {
	var err error
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, domainerrors.Response{
			Success: false,
			Code:    code,
			Message: message,
			Error:   info,
		})
	}
	if err != nil {
		m.logger.Error("Failed to write error response", slog.Any("error", err))
	}
}
