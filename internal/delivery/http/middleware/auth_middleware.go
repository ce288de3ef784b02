package middleware

import (
	"log/slog"
	"strings"

	deliverycontext "userhub/internal/delivery/context"
	domainerrors "userhub/internal/domain/errors"
	"userhub/internal/domain/service"

	"github.com/labstack/echo/v4"
)

const bearerScheme = "Bearer"

// AuthMiddleware provides middleware for JWT authentication.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authenticate validates the bearer token and binds its account to the request.
// Failures are returned as domain errors so the error handler renders them.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
		if authHeader == "" {
			return domainerrors.ErrMissingToken
		}

		scheme, tokenString, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, bearerScheme) {
			return domainerrors.ErrInvalidToken
		}

		accountID, err := m.tokenSvc.Verify(strings.TrimSpace(tokenString))
		if err != nil {
			return domainerrors.ErrInvalidToken
		}

		deliverycontext.SetAccountID(c, accountID)

		// Enrich the request-scoped logger so service logs carry the caller.
		ctx := c.Request().Context()
		logger := deliverycontext.GetLoggerOrDefault(ctx, slog.Default()).
			With(slog.String("account_id", accountID.String()))
		c.SetRequest(c.Request().WithContext(deliverycontext.WithLogger(ctx, logger)))

		return next(c)
	}
}
