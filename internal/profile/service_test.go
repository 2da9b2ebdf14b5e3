package profile

import (
	"context"
	"errors"
	"testing"

	"legacyvault/internal/common"
	"legacyvault/internal/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockProfileRepository is a mock type for profile.Repository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) FindByUserID(ctx context.Context, userID string) (*Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Profile), args.Error(1)
}

func (m *MockProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Profile), args.Error(1)
}

func (m *MockProfileRepository) Create(ctx context.Context, p *Profile) error {
	args := m.Called(ctx, p)
	if args.Error(0) == nil && p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockProfileRepository) UpdateFullName(ctx context.Context, id uuid.UUID, fullName string) error {
	args := m.Called(ctx, id, fullName)
	return args.Error(0)
}

type ProfileServiceTestSuite struct {
	service  *ServiceImplementation
	mockRepo *MockProfileRepository
}

func setupProfileServiceTestSuite(t *testing.T) *ProfileServiceTestSuite {
	ts := &ProfileServiceTestSuite{}
	ts.mockRepo = new(MockProfileRepository)
	ts.service = NewService(ts.mockRepo, zap.NewNop())
	return ts
}

func existingProfile(userID string) *Profile {
	p := &Profile{UserID: userID}
	p.ID = uuid.New()
	return p
}

func TestProfileService_Resolve_Existing(t *testing.T) {
	ts := setupProfileServiceTestSuite(t)
	ctx := context.Background()
	stored := existingProfile("uid-1")

	ts.mockRepo.On("FindByUserID", ctx, "uid-1").Return(stored, nil).Once()

	got, err := ts.service.Resolve(ctx, &shared.Identity{ID: "uid-1"})
	require.NoError(t, err)
	assert.Equal(t, stored.ID, got.ID)
	ts.mockRepo.AssertExpectations(t)
	ts.mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProfileService_Resolve_CreatesWhenMissing(t *testing.T) {
	ts := setupProfileServiceTestSuite(t)
	ctx := context.Background()

	ts.mockRepo.On("FindByUserID", ctx, "uid-new").Return(nil, common.ErrNotFound).Once()
	ts.mockRepo.On("Create", ctx, mock.AnythingOfType("*profile.Profile")).Run(func(args mock.Arguments) {
		p := args.Get(1).(*Profile)
		assert.Equal(t, "uid-new", p.UserID)
	}).Return(nil).Once()

	got, err := ts.service.Resolve(ctx, &shared.Identity{ID: "uid-new", Name: "  Ada Lovelace "})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, "uid-new", got.UserID)
	assert.Equal(t, "Ada Lovelace", got.FullName)
	ts.mockRepo.AssertExpectations(t)
}

func TestProfileService_Resolve_ConflictRefetches(t *testing.T) {
	ts := setupProfileServiceTestSuite(t)
	ctx := context.Background()
	winner := existingProfile("uid-race")

	ts.mockRepo.On("FindByUserID", ctx, "uid-race").Return(nil, common.ErrNotFound).Once()
	ts.mockRepo.On("Create", ctx, mock.AnythingOfType("*profile.Profile")).Return(ErrProvisioningConflict).Once()
	ts.mockRepo.On("FindByUserID", ctx, "uid-race").Return(winner, nil).Once()

	got, err := ts.service.Resolve(ctx, &shared.Identity{ID: "uid-race"})
	require.NoError(t, err, "a provisioning conflict must never reach the caller")
	assert.Equal(t, winner.ID, got.ID)
	ts.mockRepo.AssertExpectations(t)
}

func TestProfileService_Resolve_BackendErrors(t *testing.T) {
	ctx := context.Background()
	backendDown := errors.New("connection refused")

	t.Run("lookup fails", func(t *testing.T) {
		ts := setupProfileServiceTestSuite(t)
		ts.mockRepo.On("FindByUserID", ctx, "uid").Return(nil, backendDown).Once()

		_, err := ts.service.Resolve(ctx, &shared.Identity{ID: "uid"})
		assert.ErrorIs(t, err, common.ErrBackendUnavailable)
		ts.mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("insert fails", func(t *testing.T) {
		ts := setupProfileServiceTestSuite(t)
		ts.mockRepo.On("FindByUserID", ctx, "uid").Return(nil, common.ErrNotFound).Once()
		ts.mockRepo.On("Create", ctx, mock.AnythingOfType("*profile.Profile")).Return(backendDown).Once()

		_, err := ts.service.Resolve(ctx, &shared.Identity{ID: "uid"})
		assert.ErrorIs(t, err, common.ErrBackendUnavailable)
		ts.mockRepo.AssertExpectations(t)
	})

	t.Run("re-fetch after conflict fails", func(t *testing.T) {
		ts := setupProfileServiceTestSuite(t)
		ts.mockRepo.On("FindByUserID", ctx, "uid").Return(nil, common.ErrNotFound).Once()
		ts.mockRepo.On("Create", ctx, mock.AnythingOfType("*profile.Profile")).Return(ErrProvisioningConflict).Once()
		ts.mockRepo.On("FindByUserID", ctx, "uid").Return(nil, backendDown).Once()

		_, err := ts.service.Resolve(ctx, &shared.Identity{ID: "uid"})
		assert.ErrorIs(t, err, common.ErrBackendUnavailable)
	})
}

func TestProfileService_Resolve_NoIdentity(t *testing.T) {
	ts := setupProfileServiceTestSuite(t)

	_, err := ts.service.Resolve(context.Background(), nil)
	assert.ErrorIs(t, err, common.ErrUnauthenticated)
	_, err = ts.service.Resolve(context.Background(), &shared.Identity{})
	assert.ErrorIs(t, err, common.ErrUnauthenticated)
	ts.mockRepo.AssertExpectations(t)
}

func TestProfileService_UpdateFullName(t *testing.T) {
	ctx := context.Background()

	t.Run("renames and returns fresh row", func(t *testing.T) {
		ts := setupProfileServiceTestSuite(t)
		p := existingProfile("uid")
		p.FullName = "Ada Lovelace"
		ts.mockRepo.On("UpdateFullName", ctx, p.ID, "Ada Lovelace").Return(nil).Once()
		ts.mockRepo.On("FindByID", ctx, p.ID).Return(p, nil).Once()

		got, err := ts.service.UpdateFullName(ctx, p.ID, "  Ada Lovelace ")
		require.NoError(t, err)
		assert.Equal(t, "Ada Lovelace", got.FullName)
		ts.mockRepo.AssertExpectations(t)
	})

	t.Run("blank name is rejected before the backend", func(t *testing.T) {
		ts := setupProfileServiceTestSuite(t)
		_, err := ts.service.UpdateFullName(ctx, uuid.New(), "   ")
		apiErr, ok := common.IsAPIError(err)
		require.True(t, ok)
		assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
		ts.mockRepo.AssertNotCalled(t, "UpdateFullName", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("write failure", func(t *testing.T) {
		ts := setupProfileServiceTestSuite(t)
		id := uuid.New()
		ts.mockRepo.On("UpdateFullName", ctx, id, "Bob").Return(errors.New("disk full")).Once()

		_, err := ts.service.UpdateFullName(ctx, id, "Bob")
		assert.ErrorIs(t, err, common.ErrMutationFailed)
	})
}
