package xtream

import (
	"errors"
	"fmt"
	"net/http"
)

// Validation errors returned before any network I/O is performed.
var (
	// ErrNoStreamType is returned when a stream listing is requested with
	// no stream type selected.
	ErrNoStreamType = errors.New("at least one stream type must be selected")

	// ErrAmbiguousStreamType is returned when VOD and series are requested
	// in the same listing call. The remote API cannot filter by both
	// domains in one request.
	ErrAmbiguousStreamType = errors.New("vod and series cannot be requested together")

	// ErrInfoTypeRequired is returned when an info lookup is requested for
	// a stream type that has no info endpoint.
	ErrInfoTypeRequired = errors.New("info lookup requires stream type vod or series")

	// ErrStreamIDRequired is returned when a per-stream call is missing its
	// stream id.
	ErrStreamIDRequired = errors.New("stream id is required")
)

// AuthError indicates the server rejected the credentials, the account is
// disabled or banned, or an authenticated call was made before a successful
// Authenticate.
type AuthError struct {
	// Message describes the failure, using the server's own message when
	// one was provided.
	Message string

	// Code is the HTTP status code when the failure came from the
	// transport layer, 0 otherwise.
	Code int
}

func (e *AuthError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("xtream: authentication failed (status %d): %s", e.Code, e.Message)
	}
	return "xtream: authentication failed: " + e.Message
}

// NotFoundError indicates the server returned HTTP 404. Several endpoints
// (notably get.php and panel_api.php) are simply absent on some servers, so
// this is not necessarily a client-side bug.
type NotFoundError struct {
	Message string
	Code    int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("xtream: not found (status %d): %s", e.Code, e.Message)
}

// ServiceUnavailableError indicates the server returned HTTP 503. The
// failure is transient; callers wanting retries beyond the transport
// layer's own policy must retry externally.
type ServiceUnavailableError struct {
	Message string
	Code    int
}

func (e *ServiceUnavailableError) Error() string {
	return fmt.Sprintf("xtream: service unavailable (status %d): %s", e.Code, e.Message)
}

// errNotAuthenticated is the error for calls that require a prior
// successful Authenticate.
func errNotAuthenticated() *AuthError {
	return &AuthError{Message: "not authenticated: call Authenticate first"}
}

// statusBanned is the non-standard status some panels use for banned
// accounts.
const statusBanned = 444

// statusError maps a non-200 HTTP status to the domain error taxonomy.
func statusError(code int, body string) error {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthError{Message: firstNonEmpty(body, "credentials rejected"), Code: code}
	case statusBanned:
		return &AuthError{Message: firstNonEmpty(body, "account banned"), Code: code}
	case http.StatusNotFound:
		return &NotFoundError{Message: firstNonEmpty(body, "endpoint not found"), Code: code}
	case http.StatusServiceUnavailable:
		return &ServiceUnavailableError{Message: firstNonEmpty(body, "server temporarily unavailable"), Code: code}
	default:
		return fmt.Errorf("xtream: unexpected status %d: %s", code, body)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
