// File: internal/profile/model.go
package profile

import (
	"time"

	"legacyvault/internal/common"

	"github.com/google/uuid"
)

// Profile is the application's record for an identity. Exactly one exists per user_id.
type Profile struct {
	common.BaseModel
	UserID   string `gorm:"type:varchar(255);not null;uniqueIndex:profiles_user_id_key" json:"user_id"`
	FullName string `gorm:"type:varchar(255)" json:"full_name"`
}

// TableName specifies the table name for the Profile model.
func (Profile) TableName() string {
	return "profiles"
}

// UpdateProfileRequest is the body of PATCH /profile.
type UpdateProfileRequest struct {
	FullName string `json:"full_name" binding:"required,max=200"`
}

type ProfileResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email,omitempty"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
}

func ToProfileResponse(p *Profile, email string) ProfileResponse {
	return ProfileResponse{
		ID:        p.ID,
		UserID:    p.UserID,
		Email:     email,
		FullName:  p.FullName,
		CreatedAt: p.CreatedAt,
	}
}
