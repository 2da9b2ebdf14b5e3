// File: internal/auth/service.go
package auth

import (
	"fmt"
	"time"

	"legacyvault/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const tokenIssuer = "legacyvault"

// JWTService signs and validates HS256 access tokens for the local provider.
type JWTService struct {
	cfg    *config.Config
	logger *zap.Logger
	now    func() time.Time
}

// NewJWTService creates a new JWT service.
func NewJWTService(cfg *config.Config, logger *zap.Logger) *JWTService {
	return &JWTService{cfg: cfg, logger: logger, now: time.Now}
}

// GenerateAccessToken returns a signed token for the identity and its expiry.
func (s *JWTService) GenerateAccessToken(identity *LocalIdentity) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.cfg.JWTAccessTokenExpiryMinutes)
	claims := &Claims{
		Email: identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   identity.ID.String(),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecretKey))
	if err != nil {
		s.logger.Error("Failed to sign access token", zap.Error(err))
		return "", time.Time{}, fmt.Errorf("could not sign access token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateToken checks signature, algorithm, issuer and expiry.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecretKey), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, fmt.Errorf("invalid token: missing subject or id")
	}
	return claims, nil
}
