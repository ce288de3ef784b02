// Package middleware holds transport-agnostic echo middleware shared by deliveries.
package middleware

import (
	"log/slog"

	deliverycontext "userhub/internal/delivery/context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequestIDMiddleware assigns every request a correlation id and a logger that carries it.
//
// A client-supplied X-Request-Id is honoured only when it is a UUID, and it is
// re-emitted in canonical form; anything else is replaced, so arbitrary header
// content never reaches response headers or log lines.
type RequestIDMiddleware struct {
	logger *slog.Logger
	newID  func() string
}

// NewRequestIDMiddleware creates a new Request ID middleware
func NewRequestIDMiddleware(logger *slog.Logger) *RequestIDMiddleware {
	return &RequestIDMiddleware{
		logger: logger,
		newID:  newRequestID,
	}
}

// Process resolves the request id, echoes it in the response and scopes the logger to it.
func (m *RequestIDMiddleware) Process(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID, accepted := m.resolve(c.Request().Header.Get(deliverycontext.HeaderXRequestID))

		deliverycontext.SetRequestID(c, requestID)
		c.Response().Header().Set(deliverycontext.HeaderXRequestID, requestID)

		reqLogger := m.logger.With(slog.String("request_id", requestID))
		if !accepted {
			reqLogger.Debug("Replaced malformed client request id")
		}

		ctx := c.Request().Context()
		ctx = deliverycontext.WithRequestID(ctx, requestID)
		ctx = deliverycontext.WithLogger(ctx, reqLogger)
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}

// resolve returns the id to use. It reports false when a client value was present but rejected.
func (m *RequestIDMiddleware) resolve(supplied string) (string, bool) {
	if supplied == "" {
		return m.newID(), true
	}

	id, err := uuid.Parse(supplied)
	if err != nil {
		return m.newID(), false
	}

	return id.String(), true
}

func newRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return id.String()
}
