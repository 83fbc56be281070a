package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the uniform response shape returned by every endpoint.
type Envelope struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data,omitempty"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
}

// Error is a client-facing failure carrying an HTTP status. The optional
// wrapped cause is kept for logs only and never serialized.
type Error struct {
	StatusCode int
	Message    string
	cause      error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

func NewError(statusCode int, message string) *Error {
	return &Error{StatusCode: statusCode, Message: message}
}

// WrapError attaches an internal cause to a client-facing error.
func WrapError(statusCode int, message string, cause error) *Error {
	return &Error{StatusCode: statusCode, Message: message, cause: cause}
}

func BadRequest(message string) *Error {
	return NewError(http.StatusBadRequest, message)
}

func Unauthorized(message string) *Error {
	return NewError(http.StatusUnauthorized, message)
}

func NotFound(message string) *Error {
	return NewError(http.StatusNotFound, message)
}

func Conflict(message string) *Error {
	return NewError(http.StatusConflict, message)
}

func Internal(message string) *Error {
	return NewError(http.StatusInternalServerError, message)
}

// OK writes a success envelope.
func OK(c *gin.Context, statusCode int, data interface{}, message string) {
	c.JSON(statusCode, Envelope{
		StatusCode: statusCode,
		Data:       data,
		Message:    message,
		Success:    true,
	})
}

// Fail serializes any error into the envelope. Unclassified errors surface
// as a generic 500 so internals never leak to the client.
func Fail(c *gin.Context, err error) {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		apiErr = Internal("something went wrong")
	}
	c.JSON(apiErr.StatusCode, Envelope{
		StatusCode: apiErr.StatusCode,
		Message:    apiErr.Message,
		Success:    false,
	})
}
