package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	deliverycontext "prolits/internal/delivery/context"
	"prolits/internal/domain/entity"
	"prolits/internal/domain/service"

	"github.com/labstack/echo/v4"
)

const bearerScheme = "bearer"

// FilterResponse is the body written when the request filter rejects a request.
type FilterResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// AuthMiddleware provides middleware for bearer token authentication and role checks.
type AuthMiddleware struct {
	tokenSvc service.TokenService
	events   service.AuthEventRecorder
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService, events service.AuthEventRecorder) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc, events: events}
}

// Authenticate verifies the bearer token and exposes its claims to the handler.
// Rejections short-circuit with 401 before the handler runs.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return unauthorized(c, "No authorization header provided")
		}

		scheme, token, found := strings.Cut(authHeader, " ")
		token = strings.TrimSpace(token)
		if !found || !strings.EqualFold(scheme, bearerScheme) || token == "" {
			return unauthorized(c, "Invalid token format, must be Bearer token")
		}

		claims, err := m.tokenSvc.Verify(token)
		m.record(err)
		if err != nil {
			deliverycontext.GetLoggerOrDefault(c.Request().Context(), slog.Default()).
				Debug("Bearer token rejected", slog.Any("error", err))

			return unauthorized(c, "Invalid or expired token")
		}

		deliverycontext.SetClaims(c, claims)

		ctx := c.Request().Context()
		if logger := deliverycontext.GetLogger(ctx); logger != nil {
			ctx = deliverycontext.WithLogger(ctx, logger.With(slog.String("user_id", claims.Subject)))
			c.SetRequest(c.Request().WithContext(ctx))
		}

		return next(c)
	}
}

// RequireRole only lets through tokens whose role is one of roles.
// It must be used AFTER the Authenticate middleware.
func (m *AuthMiddleware) RequireRole(roles ...entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := deliverycontext.GetClaims(c)
			if claims == nil {
				return unauthorized(c, "Authentication required")
			}

			if !entity.Roles(roles).Contains(claims.Role) {
				return c.JSON(http.StatusForbidden, FilterResponse{
					Error:   "Forbidden",
					Message: "Permission denied for role '" + claims.Role.String() + "'",
				})
			}

			return next(c)
		}
	}
}

func (m *AuthMiddleware) record(err error) {
	if m.events != nil {
		m.events.RecordAuthEvent(service.AuthEventTokenVerify, service.OutcomeOf(err))
	}
}

func unauthorized(c echo.Context, message string) error {
	return c.JSON(http.StatusUnauthorized, FilterResponse{
		Error:   "Unauthorized",
		Message: message,
	})
}
