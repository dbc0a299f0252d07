package errors

import (
	"net/http"
	"strings"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
)

// Error carries a message and the HTTP status that classifies it: 400 for
// validation, 401 for authentication, 403 for authorization, 404 for missing
// resources, 409 for invalid state transitions, 500 for dependency failures.
type Error struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

var (
	ErrNotFound            = New("resource not found", http.StatusNotFound)
	ErrBadRequest          = New("bad request", http.StatusBadRequest)
	ErrUnauthorized        = New("unauthorized", http.StatusUnauthorized)
	ErrForbidden           = New("forbidden", http.StatusForbidden)
	ErrInternalServerError = New("internal server error", http.StatusInternalServerError)
	ErrInvalidPassword     = New("invalid password", http.StatusUnauthorized)
	InActiveUserError      = New("user is inactive", http.StatusUnauthorized)
)

func (e *Error) Error() string {
	return e.Message
}

func New(message string, status int) *Error {
	return &Error{
		Message: message,
		Status:  status,
	}
}

// GetUniqueContraintError translates a postgres unique-violation into a client
// facing error instead of leaking the constraint name.
func GetUniqueContraintError(err error) *Error {
	if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
		return New("user already exists", http.StatusBadRequest)
	}
	return New(err.Error(), http.StatusBadRequest)
}

// ErrorHandler responds to rate limited requests with the time left until the
// next allowed attempt.
func ErrorHandler(c *gin.Context, info ratelimit.Info) {
	c.JSON(http.StatusTooManyRequests, gin.H{
		"error": "too many requests, try again in " + time.Until(info.ResetTime).Round(time.Second).String(),
	})
}
