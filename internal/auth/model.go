// File: internal/auth/model.go
package auth

import (
	"legacyvault/internal/common"
	"legacyvault/internal/shared"

	"github.com/golang-jwt/jwt/v5"
)

// LocalIdentity is a credential row owned by the built-in identity provider.
type LocalIdentity struct {
	common.BaseModel
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex:identities_email_key"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
}

// TableName specifies the table name for the LocalIdentity model.
func (LocalIdentity) TableName() string {
	return "identities"
}

func (l *LocalIdentity) ToIdentity() *shared.Identity {
	return &shared.Identity{ID: l.ID.String(), Email: l.Email}
}

// Claims are carried by locally issued access tokens. RegisteredClaims.ID is
// the token id used for sign-out.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// CredentialsRequest is the body of sign-up and sign-in.
type CredentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"` // bcrypt max is 72 bytes
}
