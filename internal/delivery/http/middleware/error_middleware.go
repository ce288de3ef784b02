package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	deliverycontext "userhub/internal/delivery/context"
	"userhub/internal/delivery/http/response"
	domainerrors "userhub/internal/domain/errors"
	"userhub/internal/errors"

	"github.com/labstack/echo/v4"
)

const httpErrorCode = "HTTP_ERROR"

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

// StatusForKind maps an error kind to its HTTP status.
func StatusForKind(kind domainerrors.Kind) int {
	switch kind {
	case domainerrors.KindValidation, domainerrors.KindConflict:
		return http.StatusBadRequest
	case domainerrors.KindAuth:
		return http.StatusUnauthorized
	case domainerrors.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// HandleHTTPError handles errors as Echo's HTTPErrorHandler
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	logger := deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger)

	// Try to parse as AppError
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		status := StatusForKind(appErr.Kind())
		if status >= http.StatusInternalServerError {
			// Store and internal failures never leak their cause to the client.
			logger.Error("Request failed",
				slog.String("kind", appErr.Kind().String()),
				slog.String("code", appErr.ErrorCode()),
				slog.String("details", appErr.Details()),
				slog.Any("error", err),
				slog.String("path", c.Request().URL.Path),
				slog.String("method", c.Request().Method),
			)
		}
		m.write(c, logger, status, appErr.ErrorCode(), appErr.Message())

		return
	}

	// Check if it's Echo's HTTPError
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message, ok := httpErr.Message.(string)
		if !ok {
			message = fmt.Sprint(httpErr.Message)
		}
		m.write(c, logger, httpErr.Code, httpErrorCode, message)

		return
	}

	// Default to internal error, log error and return generic error
	logger.Error("Unhandled error",
		slog.Any("error", err),
		slog.String("path", c.Request().URL.Path),
		slog.String("method", c.Request().Method),
	)
	m.write(c, logger, http.StatusInternalServerError,
		domainerrors.ErrInternalError.ErrorCode(), domainerrors.ErrInternalError.Message())
}

func (m *ErrorMiddleware) write(c echo.Context, logger *slog.Logger, status int, code, message string) {
	var err error
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = response.Error(c, status, code, message)
	}
	if err != nil {
		logger.Error("Failed to write error response", slog.Any("error", err))
	}
}
