// File: internal/profile/repository.go
package profile

import (
	"context"
	"errors"
	"fmt"

	"legacyvault/internal/common"
	"legacyvault/internal/platform/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrProvisioningConflict means another caller inserted the profile for the
// same user_id first. The resolver reconciles it and never returns it.
var ErrProvisioningConflict = errors.New("profile already provisioned for user")

// Repository defines the interface for profile data operations.
type Repository interface {
	FindByUserID(ctx context.Context, userID string) (*Profile, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	Create(ctx context.Context, p *Profile) error
	UpdateFullName(ctx context.Context, id uuid.UUID, fullName string) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM profile repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) FindByUserID(ctx context.Context, userID string) (*Profile, error) {
	var p Profile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Take(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Profile not found.")
		}
		return nil, fmt.Errorf("finding profile by user id: %w", err)
	}
	return &p, nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	var p Profile
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Profile not found.")
		}
		return nil, fmt.Errorf("finding profile by id: %w", err)
	}
	return &p, nil
}

// Create inserts p. A unique violation on user_id becomes ErrProvisioningConflict.
func (r *gormRepository) Create(ctx context.Context, p *Profile) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("%w: %v", ErrProvisioningConflict, err)
		}
		return fmt.Errorf("creating profile: %w", err)
	}
	return nil
}

func (r *gormRepository) UpdateFullName(ctx context.Context, id uuid.UUID, fullName string) error {
	res := r.db.WithContext(ctx).Model(&Profile{}).Where("id = ?", id).Update("full_name", fullName)
	if res.Error != nil {
		return fmt.Errorf("updating profile name: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Profile not found.")
	}
	return nil
}
