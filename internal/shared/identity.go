// File: internal/shared/identity.go
package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Identity is the externally authenticated principal. ID is opaque and owned
// by the identity provider; the application never mutates it. Name is the
// provider's display name, when it has one.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Session is what a successful sign-in hands back to the caller.
type Session struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	Identity    Identity  `json:"identity"`
}

// IdentityProvider is the auth half of the persistence port.
//
// CurrentIdentity returns common.ErrUnauthenticated for a missing, expired or
// revoked token and common.ErrBackendUnavailable when the provider cannot be reached.
type IdentityProvider interface {
	CurrentIdentity(ctx context.Context, token string) (*Identity, error)
	SignUp(ctx context.Context, email, password string) (*Identity, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, token string) error
}

// ProfileResolver maps an identity to its profile, provisioning one on first use.
type ProfileResolver interface {
	ResolveProfileID(ctx context.Context, identity *Identity) (uuid.UUID, error)
}
