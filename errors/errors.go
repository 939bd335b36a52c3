package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error represents an application error with an HTTP-mappable code.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Domain error constructors. Callers branch on Code, never on message text.

func NotFound(format string, args ...interface{}) *Error {
	return New(http.StatusNotFound, fmt.Sprintf(format, args...), nil)
}

func BadRequest(format string, args ...interface{}) *Error {
	return New(http.StatusBadRequest, fmt.Sprintf(format, args...), nil)
}

// OutOfStock covers both an insufficient-stock check and exhausted
// optimistic-concurrency retries on the inventory ledger.
func OutOfStock(format string, args ...interface{}) *Error {
	return New(http.StatusConflict, fmt.Sprintf(format, args...), nil)
}

func Payment(message string, err error) *Error {
	return New(http.StatusInternalServerError, message, err)
}

func Internal(message string, err error) *Error {
	return New(http.StatusInternalServerError, message, err)
}

// Kind predicates

func IsNotFound(err error) bool   { return codeOf(err) == http.StatusNotFound }
func IsBadRequest(err error) bool { return codeOf(err) == http.StatusBadRequest }
func IsOutOfStock(err error) bool { return codeOf(err) == http.StatusConflict }

func codeOf(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return 0
}

// FromError returns err as an *Error, wrapping unknown errors as internal.
func FromError(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return New(http.StatusInternalServerError, "Internal server error", err)
}

// ErrorMiddleware maps errors attached to the gin context to JSON responses.
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			appErr := FromError(c.Errors.Last().Err)
			c.JSON(appErr.Code, appErr)
			c.Abort()
		}
	}
}
