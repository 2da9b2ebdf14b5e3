// File: internal/auth/repository.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"legacyvault/internal/common"
	"legacyvault/internal/platform/database"

	"gorm.io/gorm"
)

// IdentityRepository stores local credentials.
type IdentityRepository interface {
	Create(ctx context.Context, identity *LocalIdentity) error
	FindByEmail(ctx context.Context, email string) (*LocalIdentity, error)
}

type gormIdentityRepository struct {
	db *gorm.DB
}

// NewGORMIdentityRepository creates a new GORM identity repository.
func NewGORMIdentityRepository(db *gorm.DB) IdentityRepository {
	return &gormIdentityRepository{db: db}
}

func (r *gormIdentityRepository) Create(ctx context.Context, identity *LocalIdentity) error {
	identity.Email = normalizeEmail(identity.Email)
	if err := r.db.WithContext(ctx).Create(identity).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return common.ErrConflict.WithDetails("An account with this email already exists.")
		}
		return fmt.Errorf("creating identity: %w", err)
	}
	return nil
}

func (r *gormIdentityRepository) FindByEmail(ctx context.Context, email string) (*LocalIdentity, error) {
	var identity LocalIdentity
	err := r.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).Take(&identity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Identity not found.")
		}
		return nil, fmt.Errorf("finding identity by email: %w", err)
	}
	return &identity, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
