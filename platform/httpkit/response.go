// Package httpkit provides HTTP response utilities.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"net/http"

	"stayfinder_backend/platform/apperr"

	"github.com/gin-gonic/gin"
)

const msgUnexpected = "unexpected error"

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// FailureResponse is the {success:false, message} envelope used by the listing API.
type FailureResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// JSON sends a JSON response with the given status code.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// Error sends an error response with the given status code and message.
func Error(c *gin.Context, status int, message string, details interface{}) {
	c.JSON(status, ErrorResponse{Error: message, Details: details})
}

// OK sends a 200 OK response with the given payload.
func OK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// Fail sends a failure envelope with the given status.
func Fail(c *gin.Context, status int, message string, details interface{}) {
	c.JSON(status, FailureResponse{Success: false, Message: message, Details: details})
}

// HandleError maps domain errors to HTTP responses.
// Typed *apperr.Error values choose the status; anything else is a 500.
// Returns true if an error was handled, false otherwise.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	if domainErr, ok := apperr.As(err); ok {
		c.JSON(domainErr.HTTPStatus(), ErrorResponse{
			Error:   apperr.PublicMessage(domainErr, msgUnexpected),
			Details: domainErr.Details,
		})
		return true
	}

	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: msgUnexpected})
	return true
}

// HandleEnvelopeError is HandleError for endpoints that answer with the
// {success, message} envelope.
func HandleEnvelopeError(c *gin.Context, err error, fallback string) bool {
	if err == nil {
		return false
	}

	if domainErr, ok := apperr.As(err); ok {
		if domainErr.Kind == apperr.KindUnavailable || domainErr.Kind == apperr.KindInternal {
			_ = c.Error(err)
		}
		Fail(c, domainErr.HTTPStatus(), apperr.PublicMessage(domainErr, fallback), domainErr.Details)
		return true
	}

	_ = c.Error(err)
	Fail(c, http.StatusInternalServerError, fallback, nil)
	return true
}
