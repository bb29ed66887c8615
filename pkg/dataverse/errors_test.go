package dataverse_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/dynamics-go/dataverse/pkg/dataverse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAPIError_StatusKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
		kind   error
	}{
		{http.StatusBadRequest, dataverse.ErrParse},
		{http.StatusUnauthorized, dataverse.ErrAuthenticationFailed},
		{http.StatusForbidden, dataverse.ErrPermissionDenied},
		{http.StatusNotFound, dataverse.ErrNotFound},
		{http.StatusMethodNotAllowed, dataverse.ErrMethodNotAllowed},
		{http.StatusPreconditionFailed, dataverse.ErrDuplicateRecord},
		{http.StatusRequestEntityTooLarge, dataverse.ErrPayloadTooLarge},
		{http.StatusTooManyRequests, dataverse.ErrAPILimitsExceeded},
		{http.StatusInternalServerError, dataverse.ErrService},
		{http.StatusNotImplemented, dataverse.ErrOperationNotImplemented},
		{http.StatusServiceUnavailable, dataverse.ErrWebAPIUnavailable},
		// Statuses without a specific mapping fall back to the generic kind.
		{http.StatusTeapot, dataverse.ErrService},
		{http.StatusBadGateway, dataverse.ErrService},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(fmt.Sprintf("status %d", tt.status), func(t *testing.T) {
			t.Parallel()

			err := dataverse.NewAPIError(tt.status, "message", "code")
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestAPIError_Error(t *testing.T) {
	t.Parallel()

	err := dataverse.NewAPIError(404, "The record was not found.", "0x80040217")
	assert.Equal(t, "[404] The record was not found. <0x80040217>", err.Error())
}

func TestAPIError_Unwrap(t *testing.T) {
	t.Parallel()

	err := dataverse.NewAPIError(401, "bad credentials", "")
	require.ErrorIs(t, err, dataverse.ErrAuthenticationFailed)
	assert.NotErrorIs(t, err, dataverse.ErrNotFound)

	var apiErr *dataverse.APIError
	require.ErrorAs(t, fmt.Errorf("request failed: %w", err), &apiErr)
	assert.Equal(t, 401, apiErr.StatusCode)
}

func TestSimplifyError(t *testing.T) {
	t.Parallel()

	t.Run("nil passes through", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, dataverse.SimplifyError(nil))
	})

	t.Run("errors are collapsed", func(t *testing.T) {
		t.Parallel()

		err := dataverse.SimplifyError(dataverse.NewAPIError(403, "access denied", ""))

		var apiErr *dataverse.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
		assert.Equal(t, dataverse.SimplifiedErrorMessage, apiErr.Message)
		assert.Equal(t, "dynamics_link_failed", apiErr.Code)
		assert.ErrorIs(t, err, dataverse.ErrService)
	})

	t.Run("excluded kinds pass through", func(t *testing.T) {
		t.Parallel()

		original := dataverse.NewAPIError(404, "missing", "not_found")
		err := dataverse.SimplifyError(original, dataverse.ErrNotFound)
		assert.Equal(t, original, err)
	})

	t.Run("non-api errors are collapsed", func(t *testing.T) {
		t.Parallel()

		err := dataverse.SimplifyError(errors.New("dial tcp: connection refused"))

		var apiErr *dataverse.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, dataverse.SimplifiedErrorMessage, apiErr.Message)
	})
}

func TestErrorPredicates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		predicate func(error) bool
		status    int
	}{
		{"IsNotFound", dataverse.IsNotFound, 404},
		{"IsAuthenticationFailed", dataverse.IsAuthenticationFailed, 401},
		{"IsPermissionDenied", dataverse.IsPermissionDenied, 403},
		{"IsDuplicateRecord", dataverse.IsDuplicateRecord, 412},
		{"IsAPILimitsExceeded", dataverse.IsAPILimitsExceeded, 429},
		{"IsWebAPIUnavailable", dataverse.IsWebAPIUnavailable, 503},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.True(t, tt.predicate(dataverse.NewAPIError(tt.status, "message", "")))
			assert.False(t, tt.predicate(dataverse.NewAPIError(500, "message", "")))
			assert.False(t, tt.predicate(nil))
		})
	}
}
