// Package apierror provides RFC 9457 Problem Details error responses
// for consistent API error handling.
package apierror

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Problem type URIs.
const (
	TypeBadRequest   = "https://tracker.dev/problems/bad-request"
	TypeUnauthorized = "https://tracker.dev/problems/unauthorized"
	TypeNotFound     = "https://tracker.dev/problems/not-found"
	TypeInternal     = "https://tracker.dev/problems/internal-error"
)

// ContentTypeProblemJSON is the MIME type for RFC 9457 Problem Details.
const ContentTypeProblemJSON = "application/problem+json"

// ProblemDetails represents an RFC 9457 Problem Details response.
// See https://www.rfc-editor.org/rfc/rfc9457.html
type ProblemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`

	// Extension fields
	RequestID   string `json:"request_id,omitempty"`
	UserMessage string `json:"user_message,omitempty"`
}

// Error implements the error interface for ProblemDetails.
func (p *ProblemDetails) Error() string {
	if p.Detail != "" {
		return p.Detail
	}
	return p.Title
}

// WriteProblem writes a ProblemDetails response to the gin context with
// the correct Content-Type header.
func WriteProblem(c *gin.Context, problem *ProblemDetails) {
	c.Header("Content-Type", ContentTypeProblemJSON)
	if problem.Instance == "" {
		problem.Instance = c.Request.URL.Path
	}
	c.JSON(problem.Status, problem)
}

// NewBadRequestError creates a 400 Bad Request response.
func NewBadRequestError(requestID, detail string) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypeBadRequest,
		Title:       "Bad Request",
		Status:      http.StatusBadRequest,
		Detail:      detail,
		RequestID:   requestID,
		UserMessage: "Please check your request and try again",
	}
}

// NewUnauthorizedError creates a 401 Unauthorized response.
func NewUnauthorizedError(requestID string) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypeUnauthorized,
		Title:       "Unauthorized",
		Status:      http.StatusUnauthorized,
		Detail:      "Authentication is required to access this resource",
		RequestID:   requestID,
		UserMessage: "Please sign in and try again",
	}
}

// NewNotFoundError creates a 404 Not Found response.
func NewNotFoundError(requestID, resource, id string) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypeNotFound,
		Title:       "Not Found",
		Status:      http.StatusNotFound,
		Detail:      fmt.Sprintf("%s with ID '%s' was not found", resource, id),
		RequestID:   requestID,
		UserMessage: fmt.Sprintf("The requested %s could not be found", resource),
	}
}

// NewInternalError creates a 500 Internal Server Error response. It
// intentionally hides internal error details from the client; the actual
// error is logged server-side.
func NewInternalError(requestID string) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypeInternal,
		Title:       "Internal Server Error",
		Status:      http.StatusInternalServerError,
		Detail:      "An unexpected error occurred",
		RequestID:   requestID,
		UserMessage: "Something went wrong. Please try again later.",
	}
}
