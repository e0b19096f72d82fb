package errors

import (
	stdErrors "errors"
	"fmt"
	"strings"
)

// GitHubAPIError represents a non-success response from the GitHub REST API
type GitHubAPIError struct {
	Message    string
	StatusCode int
	APIMessage string // "message" field of the GitHub error body, if any
}

func (e *GitHubAPIError) Error() string {
	if e.APIMessage != "" {
		return fmt.Sprintf("%s (HTTP %d): %s", e.Message, e.StatusCode, e.APIMessage)
	}
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.StatusCode)
}

// NewGitHubAPIError creates a new API error with a readable summary for the status code
func NewGitHubAPIError(statusCode int, apiMessage string) *GitHubAPIError {
	var message string

	switch statusCode {
	case 401:
		message = "Invalid GitHub token"
	case 403:
		if strings.Contains(strings.ToLower(apiMessage), "rate limit") {
			message = "GitHub rate limit exceeded"
		} else {
			message = "Access forbidden - check token scopes"
		}
	case 404:
		message = "GitHub user not found"
	default:
		message = "GitHub API error"
	}

	return &GitHubAPIError{
		Message:    message,
		StatusCode: statusCode,
		APIMessage: apiMessage,
	}
}

// IsGitHubAPIError checks if error is a GitHubAPIError
func IsGitHubAPIError(err error) bool {
	var apiErr *GitHubAPIError
	return stdErrors.As(err, &apiErr)
}
