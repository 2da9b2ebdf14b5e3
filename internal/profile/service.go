// File: internal/profile/service.go
package profile

import (
	"context"
	"errors"
	"strings"

	"legacyvault/internal/common"
	"legacyvault/internal/shared"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the profile operations used by handlers and middleware.
type Service interface {
	shared.ProfileResolver
	Resolve(ctx context.Context, identity *shared.Identity) (*Profile, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	UpdateFullName(ctx context.Context, id uuid.UUID, fullName string) (*Profile, error)
}

// ServiceImplementation implements Service.
type ServiceImplementation struct {
	repo   Repository
	logger *zap.Logger
}

var _ Service = (*ServiceImplementation)(nil)

// NewService creates a new profile service.
func NewService(repo Repository, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{
		repo:   repo,
		logger: logger.Named("profile"),
	}
}

// Resolve returns the identity's profile, creating it on first use. Two callers
// racing on the first insert both end up with the single stored row.
func (s *ServiceImplementation) Resolve(ctx context.Context, identity *shared.Identity) (*Profile, error) {
	if identity == nil || identity.ID == "" {
		return nil, common.ErrUnauthenticated
	}

	p, err := s.repo.FindByUserID(ctx, identity.ID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		s.logger.Error("Profile lookup failed", zap.String("userID", identity.ID), zap.Error(err))
		return nil, common.ErrBackendUnavailable
	}

	// The provider's display name seeds full_name; the owner can rename later.
	p = &Profile{UserID: identity.ID, FullName: strings.TrimSpace(identity.Name)}
	err = s.repo.Create(ctx, p)
	if err == nil {
		s.logger.Info("Provisioned profile", zap.String("userID", identity.ID), zap.String("profileID", p.ID.String()))
		return p, nil
	}
	if !errors.Is(err, ErrProvisioningConflict) {
		s.logger.Error("Profile insert failed", zap.String("userID", identity.ID), zap.Error(err))
		return nil, common.ErrBackendUnavailable
	}

	s.logger.Debug("Profile created concurrently, re-fetching", zap.String("userID", identity.ID))
	p, err = s.repo.FindByUserID(ctx, identity.ID)
	if err != nil {
		s.logger.Error("Re-fetch after provisioning conflict failed", zap.String("userID", identity.ID), zap.Error(err))
		return nil, common.ErrBackendUnavailable
	}
	return p, nil
}

func (s *ServiceImplementation) ResolveProfileID(ctx context.Context, identity *shared.Identity) (uuid.UUID, error) {
	p, err := s.Resolve(ctx, identity)
	if err != nil {
		return uuid.Nil, err
	}
	return p.ID, nil
}

func (s *ServiceImplementation) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if _, ok := common.IsAPIError(err); ok {
			return nil, err
		}
		s.logger.Error("Profile fetch failed", zap.String("profileID", id.String()), zap.Error(err))
		return nil, common.ErrFetchFailed
	}
	return p, nil
}

// UpdateFullName is the only mutation a profile supports.
func (s *ServiceImplementation) UpdateFullName(ctx context.Context, id uuid.UUID, fullName string) (*Profile, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, common.NewValidationAPIError(map[string]string{"full_name": "This field is required."})
	}
	if err := s.repo.UpdateFullName(ctx, id, fullName); err != nil {
		if _, ok := common.IsAPIError(err); ok {
			return nil, err
		}
		s.logger.Error("Profile rename failed", zap.String("profileID", id.String()), zap.Error(err))
		return nil, common.ErrMutationFailed.WithDetails(err.Error())
	}
	return s.GetByID(ctx, id)
}
