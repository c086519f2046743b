package errors

import (
	"errors"
	"net/http"
)

// Auth errors.
var (
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserAlreadyExists is returned when signing up with a registered email.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrInvalidRefreshToken is returned when a refresh token is invalid, expired or revoked.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	// ErrUnauthenticated is returned when no valid session accompanies a request.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden is returned when the caller lacks the admin capability.
	ErrForbidden = errors.New("admin capability required")
)

// Submission errors.
var (
	// ErrInvalidSubmission is returned when a required camp field is missing or malformed.
	ErrInvalidSubmission = errors.New("invalid camp submission")
	// ErrInvalidCapacity is returned when capacity is not a positive integer.
	ErrInvalidCapacity = errors.New("capacity must be a positive integer")
	// ErrInvalidSchedule is returned when the camp date or time cannot be parsed.
	ErrInvalidSchedule = errors.New("invalid camp date or time")
)

// Fetch and update errors.
var (
	// ErrCampNotFound is returned when a camp id does not exist or is not visible to the caller.
	ErrCampNotFound = errors.New("camp not found")
	// ErrInvalidStatus is returned when a status transition target is not allowed.
	ErrInvalidStatus = errors.New("status must be approved or rejected")
	// ErrInvalidFilter is returned for a status filter other than all|pending|approved|rejected.
	ErrInvalidFilter = errors.New("filter must be all, pending, approved or rejected")
	// ErrProfileNotFound is returned when the caller has no profile yet.
	ErrProfileNotFound = errors.New("profile not found")
)

// UnexpectedMessage is shown for any error without a mapping. Internal detail is never sent.
const UnexpectedMessage = "an unexpected error occurred"

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

var mappings = []struct {
	err    error
	status int
	code   string
	detail bool // send the wrapped message, which names the offending field
}{
	{ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS", false},
	{ErrUserAlreadyExists, http.StatusConflict, "USER_ALREADY_EXISTS", false},
	{ErrInvalidRefreshToken, http.StatusUnauthorized, "INVALID_REFRESH_TOKEN", false},
	{ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHENTICATED", false},
	{ErrForbidden, http.StatusForbidden, "FORBIDDEN", false},
	{ErrInvalidSubmission, http.StatusBadRequest, "INVALID_SUBMISSION", true},
	{ErrInvalidCapacity, http.StatusBadRequest, "INVALID_CAPACITY", true},
	{ErrInvalidSchedule, http.StatusBadRequest, "INVALID_SCHEDULE", true},
	{ErrCampNotFound, http.StatusNotFound, "CAMP_NOT_FOUND", false},
	{ErrInvalidStatus, http.StatusBadRequest, "INVALID_STATUS", false},
	{ErrInvalidFilter, http.StatusBadRequest, "INVALID_FILTER", false},
	{ErrProfileNotFound, http.StatusNotFound, "PROFILE_NOT_FOUND", false},
}

// MapErrorToHTTP maps domain errors, including wrapped ones, to HTTP errors.
// Submission errors keep their wrapped message so the form can show it inline;
// every other mapping uses the sentinel's text.
func MapErrorToHTTP(err error) *HTTPError {
	for _, m := range mappings {
		if errors.Is(err, m.err) {
			msg := m.err.Error()
			if m.detail {
				msg = err.Error()
			}
			return NewHTTPError(m.status, msg, m.code)
		}
	}
	return NewHTTPError(http.StatusInternalServerError, UnexpectedMessage, "UNEXPECTED_ERROR")
}
