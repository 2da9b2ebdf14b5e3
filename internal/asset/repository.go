// File: internal/asset/repository.go
package asset

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository defines the interface for asset and beneficiary data operations.
// Every method is scoped to the owning profile.
type Repository interface {
	ListByOwner(ctx context.Context, profileID uuid.UUID) ([]Asset, error)
	Create(ctx context.Context, a *Asset) error
	CreateBeneficiaries(ctx context.Context, beneficiaries []Beneficiary) error
	AssetOwnedBy(ctx context.Context, assetID, profileID uuid.UUID) (bool, error)
	DeleteBeneficiary(ctx context.Context, id, profileID uuid.UUID) (int64, error)
	DeleteOrphanBeneficiaries(ctx context.Context) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM asset repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

const listByOwnerSQL = `
SELECT a.id, a.owner_profile_id, a.name, a.username, a.password, a.notes,
       a.asset_type, a.action, a.status, a.created_at, a.updated_at,
       b.id AS beneficiary_id, b.email AS beneficiary_email,
       b.relationship AS beneficiary_relationship
FROM assets a
LEFT JOIN beneficiaries b ON b.asset_id = a.id
WHERE a.owner_profile_id = ?
ORDER BY a.created_at DESC, a.id, b.created_at, b.id`

type assetRow struct {
	ID                      uuid.UUID     `gorm:"column:id"`
	OwnerProfileID          uuid.UUID     `gorm:"column:owner_profile_id"`
	Name                    string        `gorm:"column:name"`
	Username                string        `gorm:"column:username"`
	Password                string        `gorm:"column:password"`
	Notes                   string        `gorm:"column:notes"`
	AssetType               string        `gorm:"column:asset_type"`
	Action                  string        `gorm:"column:action"`
	Status                  string        `gorm:"column:status"`
	CreatedAt               time.Time     `gorm:"column:created_at"`
	UpdatedAt               time.Time     `gorm:"column:updated_at"`
	BeneficiaryID           uuid.NullUUID `gorm:"column:beneficiary_id"`
	BeneficiaryEmail        *string       `gorm:"column:beneficiary_email"`
	BeneficiaryRelationship *string       `gorm:"column:beneficiary_relationship"`
}

// ListByOwner loads assets and their beneficiaries in one round trip.
func (r *gormRepository) ListByOwner(ctx context.Context, profileID uuid.UUID) ([]Asset, error) {
	var rows []assetRow
	if err := r.db.WithContext(ctx).Raw(listByOwnerSQL, profileID).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing assets: %w", err)
	}

	assets := make([]Asset, 0)
	index := make(map[uuid.UUID]int)
	for _, row := range rows {
		i, seen := index[row.ID]
		if !seen {
			a := Asset{
				OwnerProfileID: row.OwnerProfileID,
				Name:           row.Name,
				Username:       row.Username,
				Password:       row.Password,
				Notes:          row.Notes,
				AssetType:      AssetType(row.AssetType),
				Action:         Action(row.Action),
				Status:         Status(row.Status),
				Beneficiaries:  []Beneficiary{},
			}
			a.ID = row.ID
			a.CreatedAt = row.CreatedAt
			a.UpdatedAt = row.UpdatedAt
			assets = append(assets, a)
			i = len(assets) - 1
			index[row.ID] = i
		}
		if !row.BeneficiaryID.Valid {
			continue
		}
		b := Beneficiary{
			ID:             row.BeneficiaryID.UUID,
			AssetID:        row.ID,
			OwnerProfileID: row.OwnerProfileID,
		}
		if row.BeneficiaryEmail != nil {
			b.Email = *row.BeneficiaryEmail
		}
		if row.BeneficiaryRelationship != nil {
			b.Relationship = *row.BeneficiaryRelationship
		}
		assets[i].Beneficiaries = append(assets[i].Beneficiaries, b)
	}
	return assets, nil
}

// Create inserts the asset row only; beneficiaries go through CreateBeneficiaries.
func (r *gormRepository) Create(ctx context.Context, a *Asset) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(a).Error; err != nil {
		return fmt.Errorf("creating asset: %w", err)
	}
	return nil
}

// CreateBeneficiaries inserts all rows in a single statement.
func (r *gormRepository) CreateBeneficiaries(ctx context.Context, beneficiaries []Beneficiary) error {
	if len(beneficiaries) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&beneficiaries).Error; err != nil {
		return fmt.Errorf("creating beneficiaries: %w", err)
	}
	return nil
}

func (r *gormRepository) AssetOwnedBy(ctx context.Context, assetID, profileID uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Asset{}).
		Where("id = ? AND owner_profile_id = ?", assetID, profileID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("checking asset owner: %w", err)
	}
	return n > 0, nil
}

// DeleteBeneficiary removes the row if profileID owns it and reports how many rows went.
func (r *gormRepository) DeleteBeneficiary(ctx context.Context, id, profileID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND owner_profile_id = ?", id, profileID).
		Delete(&Beneficiary{})
	if res.Error != nil {
		return 0, fmt.Errorf("deleting beneficiary: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// DeleteOrphanBeneficiaries removes beneficiaries whose asset is gone.
func (r *gormRepository) DeleteOrphanBeneficiaries(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("asset_id NOT IN (?)", r.db.Model(&Asset{}).Select("id")).
		Delete(&Beneficiary{})
	if res.Error != nil {
		return 0, fmt.Errorf("sweeping orphan beneficiaries: %w", res.Error)
	}
	return res.RowsAffected, nil
}
