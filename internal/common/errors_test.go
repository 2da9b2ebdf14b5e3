package common

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_WithDetailsCopies(t *testing.T) {
	withDetails := ErrMutationFailed.WithDetails("insert failed")

	assert.Nil(t, ErrMutationFailed.Details, "package-level errors must stay untouched")
	assert.Equal(t, "insert failed", withDetails.Details)
	assert.True(t, errors.Is(withDetails, ErrMutationFailed))
	assert.False(t, errors.Is(withDetails, ErrFetchFailed))
}

func TestIsAPIError_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("resolving profile: %w", ErrBackendUnavailable)

	apiErr, ok := IsAPIError(wrapped)
	require.True(t, ok)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)

	_, ok = IsAPIError(errors.New("plain"))
	assert.False(t, ok)
}

func TestRespondWithError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"api error", ErrUnauthenticated, http.StatusUnauthorized, `"code":"UNAUTHENTICATED"`},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, `"code":"INTERNAL_SERVER_ERROR"`},
		{"validation", NewValidationAPIError(map[string]string{"Name": "required"}), http.StatusUnprocessableEntity, `"code":"VALIDATION_ERROR"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			RespondWithError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantCode)
			assert.True(t, c.IsAborted())
		})
	}
}
