// Package response writes the flat JSON bodies returned by every route.
package response

import (
	"net/http"

	deliverycontext "userhub/internal/delivery/context"

	"github.com/labstack/echo/v4"
)

// MessageResponse is the body of operations that only confirm success.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`               // User-safe message
	Code      string `json:"code"`                // Business error code, e.g., "ACCOUNT_NOT_FOUND"
	RequestID string `json:"request_id,omitempty"` // Correlates with server logs
}

// JSON writes data as-is with the given status.
func JSON(c echo.Context, statusCode int, data any) error {
	return c.JSON(statusCode, data)
}

// Message writes a {"message": ...} body.
func Message(c echo.Context, statusCode int, message string) error {
	return c.JSON(statusCode, MessageResponse{Message: message})
}

// Error writes an error body tagged with the request id.
func Error(c echo.Context, statusCode int, errorCode string, message string) error {
	if message == "" {
		message = http.StatusText(statusCode)
	}

	return c.JSON(statusCode, ErrorResponse{
		Error:     message,
		Code:      errorCode,
		RequestID: deliverycontext.GetRequestID(c),
	})
}
