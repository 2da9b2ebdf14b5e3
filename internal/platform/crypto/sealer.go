// File: internal/platform/crypto/sealer.go
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"legacyvault/internal/config"

	"golang.org/x/crypto/argon2"
)

const (
	sealedPrefix = "v1:"
	keySalt      = "legacyvault/asset-secrets"
)

// ErrMalformedSecret is returned by Open for values that were not produced by Seal.
var ErrMalformedSecret = errors.New("malformed sealed secret")

// Sealer encrypts stored account secrets with AES-256-GCM.
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer derives the data key from the configured vault secret with Argon2id.
func NewSealer(cfg *config.Config) (*Sealer, error) {
	return NewSealerFromSecret(cfg.VaultEncryptionSecret)
}

func NewSealerFromSecret(secret string) (*Sealer, error) {
	if len(secret) < 16 {
		return nil, fmt.Errorf("vault encryption secret must be at least 16 characters")
	}
	key := argon2.IDKey([]byte(secret), []byte(keySalt), 1, 64*1024, 4, 32)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating GCM: %w", err)
	}
	return &Sealer{aead: aead}, nil
}

// Seal returns "v1:" + base64(nonce || ciphertext). Empty input stays empty.
func (s *Sealer) Seal(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	nonce, err := RandomBytes(s.aead.NonceSize())
	if err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}
	out := s.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return sealedPrefix + base64.StdEncoding.EncodeToString(out), nil
}

// Open reverses Seal.
func (s *Sealer) Open(sealed string) (string, error) {
	if sealed == "" {
		return "", nil
	}
	if !strings.HasPrefix(sealed, sealedPrefix) {
		return "", ErrMalformedSecret
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(sealed, sealedPrefix))
	if err != nil {
		return "", ErrMalformedSecret
	}
	ns := s.aead.NonceSize()
	if len(raw) < ns {
		return "", ErrMalformedSecret
	}
	plain, err := s.aead.Open(nil, raw[:ns], raw[ns:], nil)
	if err != nil {
		return "", fmt.Errorf("opening sealed secret: %w", err)
	}
	return string(plain), nil
}
