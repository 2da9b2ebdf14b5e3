// File: internal/asset/model.go
package asset

import (
	"time"

	"legacyvault/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AssetType classifies a digital account.
type AssetType string

const (
	TypeEmail        AssetType = "email"
	TypeBanking      AssetType = "banking"
	TypeSocial       AssetType = "social"
	TypeCloud        AssetType = "cloud"
	TypeCrypto       AssetType = "crypto"
	TypeSubscription AssetType = "subscription"
	TypeOther        AssetType = "other"
)

func (t AssetType) Valid() bool {
	switch t {
	case TypeEmail, TypeBanking, TypeSocial, TypeCloud, TypeCrypto, TypeSubscription, TypeOther:
		return true
	}
	return false
}

// Action is what should happen to an asset once the vault is released.
type Action string

const (
	ActionTransfer    Action = "transfer"
	ActionDelete      Action = "delete"
	ActionMemorialize Action = "memorialize"
	ActionNotify      Action = "notify"
)

func (a Action) Valid() bool {
	switch a {
	case ActionTransfer, ActionDelete, ActionMemorialize, ActionNotify:
		return true
	}
	return false
}

type Status string

const (
	StatusSafe    Status = "safe"
	StatusWarning Status = "warning"
	StatusLocked  Status = "locked"
)

// Valid accepts the empty status, which means "derive from beneficiaries".
func (s Status) Valid() bool {
	switch s {
	case "", StatusSafe, StatusWarning, StatusLocked:
		return true
	}
	return false
}

// Asset is a digital account owned by exactly one profile.
type Asset struct {
	common.BaseModel
	OwnerProfileID uuid.UUID     `gorm:"type:uuid;not null;index:idx_assets_owner_profile_id" json:"owner_profile_id"`
	Name           string        `gorm:"type:varchar(255);not null" json:"name"`
	Username       string        `gorm:"type:varchar(255);not null;default:''" json:"username"`
	Password       string        `gorm:"type:text;not null;default:''" json:"password,omitempty"` // sealed at rest
	Notes          string        `gorm:"type:text;not null;default:''" json:"notes"`
	AssetType      AssetType     `gorm:"type:varchar(32);not null" json:"asset_type"`
	Action         Action        `gorm:"type:varchar(32);not null" json:"action"`
	Status         Status        `gorm:"type:varchar(32);not null;default:''" json:"status"`
	Beneficiaries  []Beneficiary `gorm:"foreignKey:AssetID;constraint:OnDelete:CASCADE" json:"beneficiaries"`

	EffectiveStatus Status `gorm:"-" json:"effective_status"`
}

// TableName specifies the table name for the Asset model.
func (Asset) TableName() string {
	return "assets"
}

// DeriveStatus keeps a stored lock; otherwise an asset is safe once someone
// is named to receive it.
func (a *Asset) DeriveStatus() Status {
	if a.Status == StatusLocked {
		return StatusLocked
	}
	if len(a.Beneficiaries) > 0 {
		return StatusSafe
	}
	return StatusWarning
}

// Beneficiary is attached to exactly one asset.
type Beneficiary struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AssetID        uuid.UUID `gorm:"type:uuid;not null;index:idx_beneficiaries_asset_id" json:"asset_id"`
	OwnerProfileID uuid.UUID `gorm:"type:uuid;not null;index:idx_beneficiaries_owner_profile_id" json:"owner_profile_id"`
	Email          string    `gorm:"type:varchar(255);not null" json:"email"`
	Relationship   string    `gorm:"type:varchar(100);not null;default:''" json:"relationship"`
	CreatedAt      time.Time `gorm:"column:created_at;not null;autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the Beneficiary model.
func (Beneficiary) TableName() string {
	return "beneficiaries"
}

func (b *Beneficiary) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// ListingState is what a view shows for a fetched asset set.
type ListingState string

const (
	ListingEmpty     ListingState = "empty"
	ListingPopulated ListingState = "populated"
)

// Listing is a freshly fetched asset set for one profile.
type Listing struct {
	State  ListingState `json:"state"`
	Assets []Asset      `json:"assets"`
}

// Summary backs the dashboard cards.
type Summary struct {
	TotalAssets        int `json:"total_assets"`
	Beneficiaries      int `json:"beneficiaries"`
	Protected          int `json:"protected"`
	NeedsAttention     int `json:"needs_attention"`
	Locked             int `json:"locked"`
	ReleaseTriggerDays int `json:"release_trigger_days"`
}

// DirectoryEntry is one person across every asset they were named on.
type DirectoryEntry struct {
	Email        string   `json:"email"`
	Relationship string   `json:"relationship"`
	AssetNames   []string `json:"asset_names"`
}

// --- DTOs (Data Transfer Objects) for API requests/responses ---

// BeneficiaryInput is one row of the beneficiary form. Rows with a blank
// email are dropped before anything is written.
type BeneficiaryInput struct {
	Email        string `json:"email"`
	Relationship string `json:"relationship" binding:"omitempty,max=100"`
}

// CreateAssetRequest defines the structure for creating an asset.
type CreateAssetRequest struct {
	Name          string             `json:"name" binding:"required,max=255"`
	Username      string             `json:"username" binding:"omitempty,max=255"`
	Password      string             `json:"password"`
	Notes         string             `json:"notes"`
	AssetType     AssetType          `json:"asset_type" binding:"required,oneof=email banking social cloud crypto subscription other"`
	Action        Action             `json:"action" binding:"required,oneof=transfer delete memorialize notify"`
	Status        Status             `json:"status" binding:"omitempty,oneof=safe warning locked"`
	Beneficiaries []BeneficiaryInput `json:"beneficiaries" binding:"omitempty,dive"`
}

// AddBeneficiariesRequest is the body of POST /assets/:asset_id/beneficiaries.
type AddBeneficiariesRequest struct {
	Beneficiaries []BeneficiaryInput `json:"beneficiaries" binding:"dive"`
}
