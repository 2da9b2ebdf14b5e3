// File: internal/auth/blocklist.go
package auth

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// TokenBlocklistService remembers signed-out token ids until the tokens would expire anyway.
type TokenBlocklistService interface {
	AddToBlocklist(ctx context.Context, jti string, expiresAt time.Time) error
	IsBlocklisted(ctx context.Context, jti string) (bool, error)
}

// InMemoryBlocklistService keeps the blocklist in a go-cache, which expires entries on its own.
// Sign-outs are lost on restart; a shared store would be needed for several replicas.
type InMemoryBlocklistService struct {
	cache *cache.Cache
}

// NewInMemoryBlocklistService creates a new in-memory blocklist service.
func NewInMemoryBlocklistService(cleanupInterval time.Duration) *InMemoryBlocklistService {
	return &InMemoryBlocklistService{
		cache: cache.New(cache.NoExpiration, cleanupInterval),
	}
}

func (s *InMemoryBlocklistService) AddToBlocklist(_ context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if jti == "" || ttl <= 0 {
		return nil
	}
	s.cache.Set(jti, struct{}{}, ttl)
	return nil
}

func (s *InMemoryBlocklistService) IsBlocklisted(_ context.Context, jti string) (bool, error) {
	_, found := s.cache.Get(jti)
	return found, nil
}
