package dataverse

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds for the expected Web API error statuses. APIError values
// returned by the client unwrap to exactly one of these, so callers can
// match on them with errors.Is regardless of the remote error message.
// Static errors for err113 compliance.
var (
	// ErrService is the generic kind for 500 responses and any status
	// without a more specific mapping.
	ErrService = errors.New("web API call failed")

	// ErrParse is the kind for 400 responses.
	ErrParse = errors.New("malformed request")

	// ErrAuthenticationFailed is the kind for 401 responses.
	ErrAuthenticationFailed = errors.New("incorrect authentication credentials")

	// ErrPermissionDenied is the kind for 403 responses.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound is the kind for 404 responses.
	ErrNotFound = errors.New("not found")

	// ErrMethodNotAllowed is the kind for 405 responses.
	ErrMethodNotAllowed = errors.New("method not allowed")

	// ErrDuplicateRecord is the kind for 412 responses. A 412 can also be
	// a concurrency mismatch, but a duplicate record is far more common.
	ErrDuplicateRecord = errors.New("trying to save a duplicate record")

	// ErrPayloadTooLarge is the kind for 413 responses.
	ErrPayloadTooLarge = errors.New("request length is too large")

	// ErrAPILimitsExceeded is the kind for 429 responses, raised when the
	// Web API service protection limits are exceeded.
	ErrAPILimitsExceeded = errors.New("web API limits were exceeded")

	// ErrOperationNotImplemented is the kind for 501 responses.
	ErrOperationNotImplemented = errors.New("requested operation isn't implemented")

	// ErrWebAPIUnavailable is the kind for 503 responses.
	ErrWebAPIUnavailable = errors.New("web API service isn't available")
)

// SimplifiedErrorMessage replaces the remote error detail when error
// simplification is requested. Useful for hiding error details from
// frontend users.
const SimplifiedErrorMessage = "There was a problem communicating with the server."

var statusKinds = map[int]error{
	http.StatusBadRequest:            ErrParse,
	http.StatusUnauthorized:          ErrAuthenticationFailed,
	http.StatusForbidden:             ErrPermissionDenied,
	http.StatusNotFound:              ErrNotFound,
	http.StatusMethodNotAllowed:      ErrMethodNotAllowed,
	http.StatusPreconditionFailed:    ErrDuplicateRecord,
	http.StatusRequestEntityTooLarge: ErrPayloadTooLarge,
	http.StatusTooManyRequests:       ErrAPILimitsExceeded,
	http.StatusInternalServerError:   ErrService,
	http.StatusNotImplemented:        ErrOperationNotImplemented,
	http.StatusServiceUnavailable:    ErrWebAPIUnavailable,
}

// APIError represents an error response from the Dataverse Web API.
type APIError struct {
	// StatusCode is the HTTP status code of the response.
	StatusCode int `json:"status_code" yaml:"status_code"`

	// Message is the error message reported by the service, verbatim.
	Message string `json:"message" yaml:"message"`

	// Code is the service error code, e.g. "0x80040217".
	Code string `json:"code,omitempty" yaml:"code,omitempty"`

	kind error
}

// NewAPIError creates an APIError whose kind is derived from the status
// code. Statuses without a specific mapping fall back to ErrService.
func NewAPIError(statusCode int, message, code string) *APIError {
	kind, ok := statusKinds[statusCode]
	if !ok {
		kind = ErrService
	}

	return &APIError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
		kind:       kind,
	}
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("[%d] %s <%s>", e.StatusCode, e.Message, e.Code)
}

// Unwrap returns the error kind for matching with errors.Is.
func (e *APIError) Unwrap() error {
	return e.kind
}

// SimplifyError collapses any error into a generic service error carrying
// SimplifiedErrorMessage. Errors matching one of the raiseSeparately kinds
// are returned unchanged, so they can get separate handling.
func SimplifyError(err error, raiseSeparately ...error) error {
	if err == nil {
		return nil
	}

	for _, target := range raiseSeparately {
		if errors.Is(err, target) {
			return err
		}
	}

	return NewAPIError(http.StatusInternalServerError, SimplifiedErrorMessage, "dynamics_link_failed")
}

// IsNotFound returns true if the error is a 404 error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAuthenticationFailed returns true if the error is a 401 error.
func IsAuthenticationFailed(err error) bool {
	return errors.Is(err, ErrAuthenticationFailed)
}

// IsPermissionDenied returns true if the error is a 403 error.
func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

// IsDuplicateRecord returns true if the error is a 412 error.
func IsDuplicateRecord(err error) bool {
	return errors.Is(err, ErrDuplicateRecord)
}

// IsAPILimitsExceeded returns true if the error is a 429 error.
func IsAPILimitsExceeded(err error) bool {
	return errors.Is(err, ErrAPILimitsExceeded)
}

// IsWebAPIUnavailable returns true if the error is a 503 error.
func IsWebAPIUnavailable(err error) bool {
	return errors.Is(err, ErrWebAPIUnavailable)
}
