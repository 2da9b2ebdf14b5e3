// File: internal/common/context_keys.go
package common

const (
	// AuthorizationHeader is the header name for authorization token
	AuthorizationHeader = "Authorization"
	// AuthorizationTypeBearer is the prefix for Bearer tokens
	AuthorizationTypeBearer = "Bearer"
	// IdentityKey is the context key for the authenticated *shared.Identity
	IdentityKey = "identity"
	// SessionTokenKey is the context key for the raw bearer token of the session
	SessionTokenKey = "sessionToken"
	// ProfileIDKey is the context key for the profile resolved for this request
	ProfileIDKey = "profileID"
)
