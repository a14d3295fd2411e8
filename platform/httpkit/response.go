// Package httpkit provides HTTP response utilities.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"errors"
	"net/http"
	"time"

	"simulador_solar_backend/platform/apperr"

	"github.com/gin-gonic/gin"
)

// CodeUnknown is reported for errors that carry no domain code.
const CodeUnknown apperr.Code = "UNKNOWN_ERROR"

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error     string      `json:"error"`
	Code      apperr.Code `json:"code,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Details   interface{} `json:"details,omitempty"`
}

// JSON sends a JSON response with the given status code.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// Error sends an error response with the given status code and message.
func Error(c *gin.Context, status int, message string, details interface{}) {
	c.JSON(status, ErrorResponse{Error: message, Timestamp: time.Now().UTC(), Details: details})
}

// OK sends a 200 OK response with the given payload.
func OK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// HandleError maps domain errors to HTTP responses.
// Typed *apperr.Error values anywhere in the chain decide the status, code and message.
// Anything else is reported as a 500 with UNKNOWN_ERROR and the cause is attached to
// the gin context for the request logger.
// Returns true if an error was handled, false otherwise.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var domainErr *apperr.Error
	if errors.As(err, &domainErr) {
		code := domainErr.Code
		if code == "" && domainErr.Kind == apperr.KindInternal {
			code = CodeUnknown
		}
		ts := domainErr.Timestamp
		if ts.IsZero() {
			ts = time.Now()
		}
		if domainErr.HTTPStatus() >= http.StatusInternalServerError {
			_ = c.Error(err)
		}
		c.JSON(domainErr.HTTPStatus(), ErrorResponse{
			Error:     domainErr.Message,
			Code:      code,
			Timestamp: ts.UTC(),
			Details:   domainErr.Details,
		})
		return true
	}

	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:     "Ocorreu um erro inesperado. Tente novamente.",
		Code:      CodeUnknown,
		Timestamp: time.Now().UTC(),
	})
	return true
}
