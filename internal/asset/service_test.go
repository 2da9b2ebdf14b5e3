package asset

import (
	"context"
	"errors"
	"strings"
	"testing"

	"legacyvault/internal/common"
	"legacyvault/internal/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockAssetRepository is a mock type for asset.Repository
type MockAssetRepository struct {
	mock.Mock
}

func (m *MockAssetRepository) ListByOwner(ctx context.Context, profileID uuid.UUID) ([]Asset, error) {
	args := m.Called(ctx, profileID)
	var assets []Asset
	if args.Get(0) != nil {
		assets = args.Get(0).([]Asset)
	}
	return assets, args.Error(1)
}

func (m *MockAssetRepository) Create(ctx context.Context, a *Asset) error {
	args := m.Called(ctx, a)
	if args.Error(0) == nil && a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockAssetRepository) CreateBeneficiaries(ctx context.Context, beneficiaries []Beneficiary) error {
	args := m.Called(ctx, beneficiaries)
	return args.Error(0)
}

func (m *MockAssetRepository) AssetOwnedBy(ctx context.Context, assetID, profileID uuid.UUID) (bool, error) {
	args := m.Called(ctx, assetID, profileID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAssetRepository) DeleteBeneficiary(ctx context.Context, id, profileID uuid.UUID) (int64, error) {
	args := m.Called(ctx, id, profileID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAssetRepository) DeleteOrphanBeneficiaries(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// reversingSealer stands in for the AES sealer so tests can see what was stored.
type reversingSealer struct{}

func (reversingSealer) Seal(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	return "sealed:" + reverse(p), nil
}

func (reversingSealer) Open(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	if !strings.HasPrefix(s, "sealed:") {
		return "", errors.New("not sealed")
	}
	return reverse(strings.TrimPrefix(s, "sealed:")), nil
}

func reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}

type AssetServiceTestSuite struct {
	service  *ServiceImplementation
	mockRepo *MockAssetRepository
}

func setupAssetServiceTestSuite(t *testing.T) *AssetServiceTestSuite {
	ts := &AssetServiceTestSuite{}
	ts.mockRepo = new(MockAssetRepository)
	cfg := &config.Config{ReleaseTriggerDays: 90}
	ts.service = NewService(ts.mockRepo, reversingSealer{}, cfg, zap.NewNop())
	return ts
}

func TestAssetService_ListAssets_EmptyIsNotAnError(t *testing.T) {
	ts := setupAssetServiceTestSuite(t)
	ctx := context.Background()
	profileID := uuid.New()
	ts.mockRepo.On("ListByOwner", ctx, profileID).Return([]Asset{}, nil).Once()

	listing, err := ts.service.ListAssets(ctx, profileID)
	require.NoError(t, err)
	assert.Equal(t, ListingEmpty, listing.State)
	assert.NotNil(t, listing.Assets)
	assert.Empty(t, listing.Assets)
}

func TestAssetService_ListAssets_UnsealsAndDerivesStatus(t *testing.T) {
	ts := setupAssetServiceTestSuite(t)
	ctx := context.Background()
	profileID := uuid.New()
	rows := []Asset{
		{Name: "Gmail", AssetType: TypeEmail, Action: ActionTransfer, Password: "sealed:terces",
			Beneficiaries: []Beneficiary{{Email: "s@x.com"}}},
		{Name: "Bank", AssetType: TypeBanking, Action: ActionNotify, Beneficiaries: []Beneficiary{}},
		{Name: "Wallet", AssetType: TypeCrypto, Action: ActionTransfer, Status: StatusLocked, Beneficiaries: []Beneficiary{}},
	}
	ts.mockRepo.On("ListByOwner", ctx, profileID).Return(rows, nil).Once()

	listing, err := ts.service.ListAssets(ctx, profileID)
	require.NoError(t, err)
	require.Equal(t, ListingPopulated, listing.State)
	require.Len(t, listing.Assets, 3)
	assert.Equal(t, "secret", listing.Assets[0].Password)
	assert.Equal(t, StatusSafe, listing.Assets[0].EffectiveStatus)
	assert.Equal(t, StatusWarning, listing.Assets[1].EffectiveStatus)
	assert.Equal(t, StatusLocked, listing.Assets[2].EffectiveStatus)
}

func TestAssetService_ListAssets_BackendErrorIsFetchFailed(t *testing.T) {
	ts := setupAssetServiceTestSuite(t)
	ctx := context.Background()
	profileID := uuid.New()
	ts.mockRepo.On("ListByOwner", ctx, profileID).Return(nil, errors.New("timeout")).Once()

	_, err := ts.service.ListAssets(ctx, profileID)
	assert.ErrorIs(t, err, common.ErrFetchFailed)
}

func TestAssetService_CreateAsset_SealsPasswordAndScopesOwner(t *testing.T) {
	ts := setupAssetServiceTestSuite(t)
	ctx := context.Background()
	profileID := uuid.New()

	ts.mockRepo.On("Create", ctx, mock.AnythingOfType("*asset.Asset")).Run(func(args mock.Arguments) {
		a := args.Get(1).(*Asset)
		assert.Equal(t, profileID, a.OwnerProfileID)
		assert.Equal(t, "Gmail", a.Name)
		assert.Equal(t, "sealed:2retnuh", a.Password)
	}).Return(nil).Once()

	created, err := ts.service.CreateAsset(ctx, profileID, CreateAssetRequest{
		Name: " Gmail ", Password: "hunter2", AssetType: TypeEmail, Action: ActionTransfer,
	})
	require.NoError(t, err)
	assert.Equal(t, "hunter2", created.Password)
	assert.Empty(t, created.Beneficiaries)
	assert.Equal(t, StatusWarning, created.EffectiveStatus)
	ts.mockRepo.AssertExpectations(t)
	ts.mockRepo.AssertNotCalled(t, "CreateBeneficiaries", mock.Anything, mock.Anything)
}

func TestAssetService_CreateAsset_WithInitialBeneficiaries(t *testing.T) {
	ts := setupAssetServiceTestSuite(t)
	ctx := context.Background()
	profileID := uuid.New()

	ts.mockRepo.On("Create", ctx, mock.AnythingOfType("*asset.Asset")).Return(nil).Once()
	ts.mockRepo.On("CreateBeneficiaries", ctx, mock.AnythingOfType("[]asset.Beneficiary")).Run(func(args mock.Arguments) {
		rows := args.Get(1).([]Beneficiary)
		require.Len(t, rows, 1)
		assert.Equal(t, "s@x.com", rows[0].Email)
		assert.Equal(t, profileID, rows[0].OwnerProfileID)
	}).Return(nil).Once()

	created, err := ts.service.CreateAsset(ctx, profileID, CreateAssetRequest{
		Name: "Gmail", AssetType: TypeEmail, Action: ActionTransfer,
		Beneficiaries: []BeneficiaryInput{{Email: " s@x.com ", Relationship: "Spouse"}, {Email: ""}},
	})
	require.NoError(t, err)
	assert.Len(t, created.Beneficiaries, 1)
	assert.Equal(t, StatusSafe, created.EffectiveStatus)
	ts.mockRepo.AssertExpectations(t)
}

func TestAssetService_CreateAsset_Validation(t *testing.T) {
	ts := setupAssetServiceTestSuite(t)

	_, err := ts.service.CreateAsset(context.Background(), uuid.New(), CreateAssetRequest{
		Name: "  ", AssetType: "pager", Action: "burn",
	})
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	details := apiErr.Details.(map[string]string)
	assert.Contains(t, details, "name")
	assert.Contains(t, details, "asset_type")
	assert.Contains(t, details, "action")
	ts.mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAssetService_CreateAsset_WriteFailure(t *testing.T) {
	ts := setupAssetServiceTestSuite(t)
	ctx := context.Background()
	ts.mockRepo.On("Create", ctx, mock.AnythingOfType("*asset.Asset")).Return(errors.New("permission denied")).Once()

	_, err := ts.service.CreateAsset(ctx, uuid.New(), CreateAssetRequest{Name: "Gmail", AssetType: TypeEmail, Action: ActionTransfer})
	require.ErrorIs(t, err, common.ErrMutationFailed)
	apiErr, _ := common.IsAPIError(err)
	assert.Contains(t, apiErr.Details, "permission denied")
}

func TestAssetService_CreateBeneficiaries_NothingToInsert(t *testing.T) {
	cases := map[string][]BeneficiaryInput{
		"nil":          nil,
		"empty":        {},
		"blank emails": {{Email: "", Relationship: "x"}, {Email: "   ", Relationship: "y"}},
	}
	for name, entries := range cases {
		t.Run(name, func(t *testing.T) {
			ts := setupAssetServiceTestSuite(t)

			added, err := ts.service.CreateBeneficiaries(context.Background(), uuid.New(), uuid.New(), entries)
			require.NoError(t, err)
			assert.Empty(t, added)
			assert.Empty(t, ts.mockRepo.Calls, "no backend call may be made")
		})
	}
}

func TestAssetService_CreateBeneficiaries_FiltersAndBatches(t *testing.T) {
	ts := setupAssetServiceTestSuite(t)
	ctx := context.Background()
	assetID, profileID := uuid.New(), uuid.New()

	ts.mockRepo.On("AssetOwnedBy", ctx, assetID, profileID).Return(true, nil).Once()
	ts.mockRepo.On("CreateBeneficiaries", ctx, mock.AnythingOfType("[]asset.Beneficiary")).Run(func(args mock.Arguments) {
		rows := args.Get(1).([]Beneficiary)
		require.Len(t, rows, 2)
		for _, r := range rows {
			assert.Equal(t, assetID, r.AssetID)
			assert.Equal(t, profileID, r.OwnerProfileID)
		}
	}).Return(nil).Once()

	added, err := ts.service.CreateBeneficiaries(ctx, assetID, profileID, []BeneficiaryInput{
		{Email: "a@x.com", Relationship: "Sibling"},
		{Email: ""},
		{Email: "b@x.com"},
	})
	require.NoError(t, err)
	assert.Len(t, added, 2)
	ts.mockRepo.AssertNumberOfCalls(t, "CreateBeneficiaries", 1)
}

func TestAssetService_CreateBeneficiaries_ForeignAsset(t *testing.T) {
	ts := setupAssetServiceTestSuite(t)
	ctx := context.Background()
	assetID, profileID := uuid.New(), uuid.New()
	ts.mockRepo.On("AssetOwnedBy", ctx, assetID, profileID).Return(false, nil).Once()

	_, err := ts.service.CreateBeneficiaries(ctx, assetID, profileID, []BeneficiaryInput{{Email: "a@x.com"}})
	assert.ErrorIs(t, err, common.ErrNotFound)
	ts.mockRepo.AssertNotCalled(t, "CreateBeneficiaries", mock.Anything, mock.Anything)
}

func TestAssetService_CreateBeneficiaries_InvalidEmail(t *testing.T) {
	ts := setupAssetServiceTestSuite(t)

	_, err := ts.service.CreateBeneficiaries(context.Background(), uuid.New(), uuid.New(), []BeneficiaryInput{{Email: "not-an-email"}})
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	assert.Empty(t, ts.mockRepo.Calls)
}

func TestAssetService_DeleteBeneficiary(t *testing.T) {
	ctx := context.Background()

	t.Run("missing id is fine", func(t *testing.T) {
		ts := setupAssetServiceTestSuite(t)
		id, profileID := uuid.New(), uuid.New()
		ts.mockRepo.On("DeleteBeneficiary", ctx, id, profileID).Return(int64(0), nil).Once()
		assert.NoError(t, ts.service.DeleteBeneficiary(ctx, id, profileID))
	})

	t.Run("write failure", func(t *testing.T) {
		ts := setupAssetServiceTestSuite(t)
		id, profileID := uuid.New(), uuid.New()
		ts.mockRepo.On("DeleteBeneficiary", ctx, id, profileID).Return(int64(0), errors.New("locked")).Once()
		assert.ErrorIs(t, ts.service.DeleteBeneficiary(ctx, id, profileID), common.ErrMutationFailed)
	})
}

func TestAssetService_SummarizeAndDirectory(t *testing.T) {
	ts := setupAssetServiceTestSuite(t)
	listing := &Listing{State: ListingPopulated, Assets: []Asset{
		{Name: "Gmail", Beneficiaries: []Beneficiary{{Email: "S@x.com", Relationship: "Spouse"}, {Email: "kid@x.com"}}},
		{Name: "Bank", Beneficiaries: []Beneficiary{{Email: "s@x.com"}}},
		{Name: "Twitter"},
		{Name: "Wallet", Status: StatusLocked},
	}}

	sum := ts.service.Summarize(listing)
	assert.Equal(t, Summary{
		TotalAssets:        4,
		Beneficiaries:      2,
		Protected:          2,
		NeedsAttention:     1,
		Locked:             1,
		ReleaseTriggerDays: 90,
	}, sum)

	dir := ts.service.Directory(listing)
	require.Len(t, dir, 2)
	assert.Equal(t, "kid@x.com", dir[0].Email)
	assert.Equal(t, []string{"Gmail"}, dir[0].AssetNames)
	assert.Equal(t, "s@x.com", dir[1].Email)
	assert.Equal(t, "Spouse", dir[1].Relationship)
	assert.Equal(t, []string{"Gmail", "Bank"}, dir[1].AssetNames)

	assert.Empty(t, ts.service.Directory(&Listing{State: ListingEmpty, Assets: []Asset{}}))
}
