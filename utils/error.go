package utils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AppError carries the HTTP status a failure should be reported with.
type AppError struct {
	Status  int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func BadRequest(message string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: message}
}

func Unauthorized(message string) *AppError {
	return &AppError{Status: http.StatusUnauthorized, Message: message}
}

func Forbidden(message string) *AppError {
	return &AppError{Status: http.StatusForbidden, Message: message}
}

func NotFound(message string) *AppError {
	return &AppError{Status: http.StatusNotFound, Message: message}
}

func Conflict(message string) *AppError {
	return &AppError{Status: http.StatusConflict, Message: message}
}

// Internal wraps an unexpected store or client failure.
func Internal(message string, err error) *AppError {
	return &AppError{Status: http.StatusInternalServerError, Message: message, Err: err}
}

// Classify leaves an AppError as it is and wraps anything else as an internal failure
// reported with message.
func Classify(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}
	return Internal(message, err)
}

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic", zap.Any("error", err), zap.String("path", c.Request.URL.Path))

				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Error:   "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
			}
		}()
		c.Next()
	}
}

// RespondError renders err using the status of the AppError it wraps.
// Unclassified errors become a 500 with the error text attached for operators.
func RespondError(c *gin.Context, fallback string, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Status >= http.StatusInternalServerError {
			GetLogger().Error(appErr.Message, zap.String("path", c.Request.URL.Path), zap.Error(appErr.Err))
			c.JSON(appErr.Status, ErrorResponse{Error: appErr.Message, Details: errString(appErr.Err)})
			return
		}
		GetLogger().Warn(appErr.Message, zap.String("path", c.Request.URL.Path))
		c.JSON(appErr.Status, ErrorResponse{Error: appErr.Message})
		return
	}

	GetLogger().Error(fallback, zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: fallback, Details: errString(err)})
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string) {
	GetLogger().Warn(message, zap.Int("status", status), zap.String("path", c.Request.URL.Path))
	c.JSON(status, ErrorResponse{Error: message})
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
