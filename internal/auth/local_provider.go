// File: internal/auth/local_provider.go
package auth

import (
	"context"
	"errors"

	"legacyvault/internal/common"
	"legacyvault/internal/shared"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var errInvalidCredentials = common.ErrUnauthenticated.WithDetails("Invalid email or password.")

// LocalProvider is the built-in identity provider: bcrypt credentials in the
// identities table and locally signed access tokens.
type LocalProvider struct {
	repo      IdentityRepository
	tokens    *JWTService
	blocklist TokenBlocklistService
	logger    *zap.Logger
}

var _ shared.IdentityProvider = (*LocalProvider)(nil)

// NewLocalProvider creates a new local identity provider.
func NewLocalProvider(repo IdentityRepository, tokens *JWTService, blocklist TokenBlocklistService, logger *zap.Logger) *LocalProvider {
	return &LocalProvider{
		repo:      repo,
		tokens:    tokens,
		blocklist: blocklist,
		logger:    logger.Named("auth.local"),
	}
}

func (p *LocalProvider) CurrentIdentity(ctx context.Context, token string) (*shared.Identity, error) {
	if token == "" {
		return nil, common.ErrUnauthenticated
	}
	claims, err := p.tokens.ValidateToken(token)
	if err != nil {
		p.logger.Debug("Rejected access token", zap.Error(err))
		return nil, common.ErrUnauthenticated
	}
	revoked, err := p.blocklist.IsBlocklisted(ctx, claims.ID)
	if err != nil {
		p.logger.Error("Blocklist lookup failed", zap.Error(err))
		return nil, common.ErrBackendUnavailable
	}
	if revoked {
		return nil, common.ErrUnauthenticated
	}
	return &shared.Identity{ID: claims.Subject, Email: claims.Email}, nil
}

func (p *LocalProvider) SignUp(ctx context.Context, email, password string) (*shared.Identity, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		p.logger.Error("Failed to hash password during sign-up", zap.Error(err))
		return nil, common.ErrBadRequest.WithDetails("Password could not be accepted.")
	}

	identity := &LocalIdentity{Email: email, PasswordHash: string(hash)}
	if err := p.repo.Create(ctx, identity); err != nil {
		if _, ok := common.IsAPIError(err); ok {
			return nil, err
		}
		p.logger.Error("Failed to create identity", zap.Error(err))
		return nil, common.ErrBackendUnavailable
	}
	p.logger.Info("Identity registered", zap.String("identityID", identity.ID.String()))
	return identity.ToIdentity(), nil
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*shared.Session, error) {
	identity, err := p.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		p.logger.Error("Identity lookup failed during sign-in", zap.Error(err))
		return nil, common.ErrBackendUnavailable
	}
	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)); err != nil {
		return nil, errInvalidCredentials
	}

	token, expiresAt, err := p.tokens.GenerateAccessToken(identity)
	if err != nil {
		return nil, common.ErrInternalServer.WithDetails("Could not issue an access token.")
	}
	return &shared.Session{
		AccessToken: token,
		TokenType:   common.AuthorizationTypeBearer,
		ExpiresAt:   expiresAt,
		Identity:    *identity.ToIdentity(),
	}, nil
}

// SignOut revokes the token until it expires. An already invalid token is not an error.
func (p *LocalProvider) SignOut(ctx context.Context, token string) error {
	claims, err := p.tokens.ValidateToken(token)
	if err != nil {
		return nil
	}
	if err := p.blocklist.AddToBlocklist(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		p.logger.Error("Failed to revoke token", zap.Error(err))
		return common.ErrBackendUnavailable
	}
	return nil
}
