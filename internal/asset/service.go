// File: internal/asset/service.go
package asset

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"legacyvault/internal/common"
	"legacyvault/internal/config"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SecretSealer protects stored account passwords.
type SecretSealer interface {
	Seal(plaintext string) (string, error)
	Open(sealed string) (string, error)
}

// Service defines the vault operations, always scoped to the caller's profile.
type Service interface {
	ListAssets(ctx context.Context, profileID uuid.UUID) (*Listing, error)
	CreateAsset(ctx context.Context, profileID uuid.UUID, req CreateAssetRequest) (*Asset, error)
	CreateBeneficiaries(ctx context.Context, assetID, profileID uuid.UUID, entries []BeneficiaryInput) ([]Beneficiary, error)
	DeleteBeneficiary(ctx context.Context, id, profileID uuid.UUID) error
	Summarize(listing *Listing) Summary
	Directory(listing *Listing) []DirectoryEntry
}

// ServiceImplementation implements Service.
type ServiceImplementation struct {
	repo     Repository
	sealer   SecretSealer
	validate *validator.Validate
	cfg      *config.Config
	logger   *zap.Logger
}

var _ Service = (*ServiceImplementation)(nil)

// NewService creates a new asset service.
func NewService(repo Repository, sealer SecretSealer, cfg *config.Config, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{
		repo:     repo,
		sealer:   sealer,
		validate: validator.New(),
		cfg:      cfg,
		logger:   logger.Named("asset"),
	}
}

// ListAssets returns every asset of the profile with its beneficiaries. An
// empty vault is a normal outcome, not an error.
func (s *ServiceImplementation) ListAssets(ctx context.Context, profileID uuid.UUID) (*Listing, error) {
	assets, err := s.repo.ListByOwner(ctx, profileID)
	if err != nil {
		s.logger.Error("Failed to list assets", zap.String("profileID", profileID.String()), zap.Error(err))
		return nil, common.ErrFetchFailed
	}

	for i := range assets {
		a := &assets[i]
		if !a.AssetType.Valid() || !a.Action.Valid() || !a.Status.Valid() {
			s.logger.Warn("Asset row carries an unknown enum value",
				zap.String("assetID", a.ID.String()),
				zap.String("assetType", string(a.AssetType)),
				zap.String("action", string(a.Action)),
				zap.String("status", string(a.Status)))
		}
		plain, err := s.sealer.Open(a.Password)
		if err != nil {
			s.logger.Warn("Could not unseal asset password", zap.String("assetID", a.ID.String()), zap.Error(err))
			plain = ""
		}
		a.Password = plain
		a.EffectiveStatus = a.DeriveStatus()
	}

	if len(assets) == 0 {
		return &Listing{State: ListingEmpty, Assets: []Asset{}}, nil
	}
	return &Listing{State: ListingPopulated, Assets: assets}, nil
}

// CreateAsset inserts the asset for profileID, then any initial beneficiaries in one batch.
func (s *ServiceImplementation) CreateAsset(ctx context.Context, profileID uuid.UUID, req CreateAssetRequest) (*Asset, error) {
	name := strings.TrimSpace(req.Name)
	details := map[string]string{}
	if name == "" {
		details["name"] = "This field is required."
	}
	if !req.AssetType.Valid() {
		details["asset_type"] = "Must be one of: email banking social cloud crypto subscription other."
	}
	if !req.Action.Valid() {
		details["action"] = "Must be one of: transfer delete memorialize notify."
	}
	if !req.Status.Valid() {
		details["status"] = "Must be one of: safe warning locked."
	}
	entries, err := s.normalizeBeneficiaries(req.Beneficiaries)
	if err != nil {
		return nil, err
	}
	if len(details) > 0 {
		return nil, common.NewValidationAPIError(details)
	}

	sealed, err := s.sealer.Seal(req.Password)
	if err != nil {
		s.logger.Error("Failed to seal asset password", zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not protect the account password.")
	}

	a := &Asset{
		OwnerProfileID: profileID,
		Name:           name,
		Username:       strings.TrimSpace(req.Username),
		Password:       sealed,
		Notes:          req.Notes,
		AssetType:      req.AssetType,
		Action:         req.Action,
		Status:         req.Status,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		s.logger.Error("Failed to create asset", zap.String("profileID", profileID.String()), zap.Error(err))
		return nil, common.ErrMutationFailed.WithDetails(err.Error())
	}
	s.logger.Info("Asset created", zap.String("assetID", a.ID.String()), zap.String("profileID", profileID.String()))

	a.Password = req.Password
	a.Beneficiaries = []Beneficiary{}
	if len(entries) > 0 {
		rows := toBeneficiaries(entries, a.ID, profileID)
		if err := s.repo.CreateBeneficiaries(ctx, rows); err != nil {
			s.logger.Error("Failed to create initial beneficiaries", zap.String("assetID", a.ID.String()), zap.Error(err))
			return nil, common.ErrMutationFailed.WithDetails(err.Error())
		}
		a.Beneficiaries = rows
	}
	a.EffectiveStatus = a.DeriveStatus()
	return a, nil
}

// CreateBeneficiaries attaches entries to an asset the profile owns. Entries
// with a blank email are dropped; if none remain nothing is sent to the backend.
func (s *ServiceImplementation) CreateBeneficiaries(ctx context.Context, assetID, profileID uuid.UUID, entries []BeneficiaryInput) ([]Beneficiary, error) {
	kept, err := s.normalizeBeneficiaries(entries)
	if err != nil {
		return nil, err
	}
	if len(kept) == 0 {
		return []Beneficiary{}, nil
	}

	owned, err := s.repo.AssetOwnedBy(ctx, assetID, profileID)
	if err != nil {
		s.logger.Error("Failed to check asset ownership", zap.String("assetID", assetID.String()), zap.Error(err))
		return nil, common.ErrMutationFailed.WithDetails(err.Error())
	}
	if !owned {
		return nil, common.ErrNotFound.WithDetails("Asset not found.")
	}

	rows := toBeneficiaries(kept, assetID, profileID)
	if err := s.repo.CreateBeneficiaries(ctx, rows); err != nil {
		s.logger.Error("Failed to create beneficiaries", zap.String("assetID", assetID.String()), zap.Error(err))
		return nil, common.ErrMutationFailed.WithDetails(err.Error())
	}
	s.logger.Info("Beneficiaries added", zap.String("assetID", assetID.String()), zap.Int("count", len(rows)))
	return rows, nil
}

// DeleteBeneficiary removes a beneficiary the profile owns. A missing id is not an error.
func (s *ServiceImplementation) DeleteBeneficiary(ctx context.Context, id, profileID uuid.UUID) error {
	n, err := s.repo.DeleteBeneficiary(ctx, id, profileID)
	if err != nil {
		s.logger.Error("Failed to delete beneficiary", zap.String("beneficiaryID", id.String()), zap.Error(err))
		return common.ErrMutationFailed.WithDetails(err.Error())
	}
	if n == 0 {
		s.logger.Debug("Beneficiary delete matched no rows", zap.String("beneficiaryID", id.String()))
	}
	return nil
}

// Summarize computes the dashboard cards from an already fetched listing.
func (s *ServiceImplementation) Summarize(listing *Listing) Summary {
	sum := Summary{ReleaseTriggerDays: s.cfg.ReleaseTriggerDays}
	if listing == nil {
		return sum
	}
	emails := make(map[string]struct{})
	for _, a := range listing.Assets {
		sum.TotalAssets++
		if len(a.Beneficiaries) > 0 {
			sum.Protected++
		}
		switch a.DeriveStatus() {
		case StatusWarning:
			sum.NeedsAttention++
		case StatusLocked:
			sum.Locked++
		}
		for _, b := range a.Beneficiaries {
			emails[strings.ToLower(b.Email)] = struct{}{}
		}
	}
	sum.Beneficiaries = len(emails)
	return sum
}

// Directory groups beneficiaries by email across assets.
func (s *ServiceImplementation) Directory(listing *Listing) []DirectoryEntry {
	entries := []DirectoryEntry{}
	if listing == nil {
		return entries
	}
	index := make(map[string]int)
	for _, a := range listing.Assets {
		for _, b := range a.Beneficiaries {
			key := strings.ToLower(b.Email)
			i, ok := index[key]
			if !ok {
				entries = append(entries, DirectoryEntry{Email: key})
				i = len(entries) - 1
				index[key] = i
			}
			if entries[i].Relationship == "" {
				entries[i].Relationship = b.Relationship
			}
			entries[i].AssetNames = append(entries[i].AssetNames, a.Name)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Email < entries[j].Email })
	return entries
}

func (s *ServiceImplementation) normalizeBeneficiaries(entries []BeneficiaryInput) ([]BeneficiaryInput, error) {
	kept := make([]BeneficiaryInput, 0, len(entries))
	details := map[string]string{}
	for i, e := range entries {
		email := strings.TrimSpace(e.Email)
		if email == "" {
			continue
		}
		if err := s.validate.Var(email, "email"); err != nil {
			details[beneficiaryField(i)] = "Must be a valid email address."
			continue
		}
		kept = append(kept, BeneficiaryInput{Email: email, Relationship: strings.TrimSpace(e.Relationship)})
	}
	if len(details) > 0 {
		return nil, common.NewValidationAPIError(details)
	}
	return kept, nil
}

func toBeneficiaries(entries []BeneficiaryInput, assetID, profileID uuid.UUID) []Beneficiary {
	rows := make([]Beneficiary, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, Beneficiary{
			AssetID:        assetID,
			OwnerProfileID: profileID,
			Email:          e.Email,
			Relationship:   e.Relationship,
		})
	}
	return rows
}

func beneficiaryField(i int) string {
	return fmt.Sprintf("beneficiaries[%d].email", i)
}
