package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"legacyvault/internal/common"
	"legacyvault/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) CurrentIdentity(ctx context.Context, token string) (*shared.Identity, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Identity), args.Error(1)
}

func (m *MockIdentityProvider) SignUp(ctx context.Context, email, password string) (*shared.Identity, error) {
	args := m.Called(ctx, email, password)
	return nil, args.Error(1)
}

func (m *MockIdentityProvider) SignIn(ctx context.Context, email, password string) (*shared.Session, error) {
	args := m.Called(ctx, email, password)
	return nil, args.Error(1)
}

func (m *MockIdentityProvider) SignOut(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

type resolverFunc func(ctx context.Context, identity *shared.Identity) (uuid.UUID, error)

func (f resolverFunc) ResolveProfileID(ctx context.Context, identity *shared.Identity) (uuid.UUID, error) {
	return f(ctx, identity)
}

func newGuardedRouter(provider shared.IdentityProvider, resolver shared.ProfileResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", RequireSession(provider, zap.NewNop()), ResolveProfile(resolver, zap.NewNop()), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"identity":   common.GetIdentityFromContext(c).ID,
			"token":      common.GetSessionTokenFromContext(c),
			"profile_id": common.GetProfileIDFromContext(c),
		})
	})
	return r
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body common.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Code
}

func TestRequireSession(t *testing.T) {
	profileID := uuid.New()
	resolver := resolverFunc(func(_ context.Context, identity *shared.Identity) (uuid.UUID, error) {
		assert.Equal(t, "uid-1", identity.ID)
		return profileID, nil
	})

	t.Run("missing header", func(t *testing.T) {
		provider := new(MockIdentityProvider)
		rec := httptest.NewRecorder()
		newGuardedRouter(provider, resolver).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "UNAUTHENTICATED", errorCode(t, rec))
		provider.AssertNotCalled(t, "CurrentIdentity", mock.Anything, mock.Anything)
	})

	t.Run("malformed header", func(t *testing.T) {
		provider := new(MockIdentityProvider)
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Token abc")
		rec := httptest.NewRecorder()
		newGuardedRouter(provider, resolver).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejected token", func(t *testing.T) {
		provider := new(MockIdentityProvider)
		provider.On("CurrentIdentity", mock.Anything, "stale").Return(nil, common.ErrUnauthenticated).Once()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer stale")
		rec := httptest.NewRecorder()
		newGuardedRouter(provider, resolver).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		provider.AssertNumberOfCalls(t, "CurrentIdentity", 1)
	})

	t.Run("provider down", func(t *testing.T) {
		provider := new(MockIdentityProvider)
		provider.On("CurrentIdentity", mock.Anything, "tok").Return(nil, common.ErrBackendUnavailable).Once()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer tok")
		rec := httptest.NewRecorder()
		newGuardedRouter(provider, resolver).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "BACKEND_UNAVAILABLE", errorCode(t, rec))
	})

	t.Run("valid session resolves profile", func(t *testing.T) {
		provider := new(MockIdentityProvider)
		provider.On("CurrentIdentity", mock.Anything, "good").Return(&shared.Identity{ID: "uid-1"}, nil).Once()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "bearer good")
		rec := httptest.NewRecorder()
		newGuardedRouter(provider, resolver).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "uid-1", body["identity"])
		assert.Equal(t, "good", body["token"])
		assert.Equal(t, profileID.String(), body["profile_id"])
	})
}

func TestResolveProfile_Failure(t *testing.T) {
	provider := new(MockIdentityProvider)
	provider.On("CurrentIdentity", mock.Anything, "good").Return(&shared.Identity{ID: "uid-1"}, nil)
	resolver := resolverFunc(func(context.Context, *shared.Identity) (uuid.UUID, error) {
		return uuid.Nil, common.ErrBackendUnavailable
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	newGuardedRouter(provider, resolver).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "BACKEND_UNAVAILABLE", errorCode(t, rec))
}

func TestBackendTimeout(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(BackendTimeout(50 * time.Millisecond))
	r.GET("/slow", func(c *gin.Context) {
		deadline, ok := c.Request.Context().Deadline()
		assert.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(50*time.Millisecond), deadline, 50*time.Millisecond)

		select {
		case <-c.Request.Context().Done():
			assert.True(t, errors.Is(c.Request.Context().Err(), context.DeadlineExceeded))
			c.Status(http.StatusGatewayTimeout)
		case <-time.After(time.Second):
			c.Status(http.StatusOK)
		}
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/slow", nil))
	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
}

func TestErrorHandler_UnknownRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler(zap.NewNop()))
	r.GET("/known", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/boom", func(c *gin.Context) { _ = c.Error(common.ErrMutationFailed) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, rec))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "MUTATION_FAILED", errorCode(t, rec))
}
