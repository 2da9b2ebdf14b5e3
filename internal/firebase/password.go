// File: internal/firebase/password.go
package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"legacyvault/internal/common"
	"legacyvault/internal/shared"
)

const identityToolkitSignInURL = "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword"

// passwordSignIn exchanges email and password for an ID token. The Admin SDK
// has no password sign-in, so this goes to the Identity Toolkit REST API.
type passwordSignIn struct {
	apiKey   string
	endpoint string
	client   *http.Client
	now      func() time.Time
}

func newPasswordSignIn(apiKey string, client *http.Client) *passwordSignIn {
	return &passwordSignIn{apiKey: apiKey, endpoint: identityToolkitSignInURL, client: client, now: time.Now}
}

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInResponse struct {
	IDToken     string `json:"idToken"`
	Email       string `json:"email"`
	LocalID     string `json:"localId"`
	DisplayName string `json:"displayName"`
	ExpiresIn   string `json:"expiresIn"`
}

type toolkitError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (p *passwordSignIn) signIn(ctx context.Context, email, password string) (*shared.Session, error) {
	body, err := json.Marshal(signInRequest{Email: email, Password: password, ReturnSecureToken: true})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint+"?key="+p.apiKey, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity toolkit request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var te toolkitError
		_ = json.NewDecoder(resp.Body).Decode(&te)
		if resp.StatusCode == http.StatusBadRequest && isCredentialFailure(te.Error.Message) {
			return nil, common.ErrUnauthenticated.WithDetails("Invalid email or password.")
		}
		return nil, fmt.Errorf("identity toolkit returned %d: %s", resp.StatusCode, te.Error.Message)
	}

	var out signInResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding identity toolkit response: %w", err)
	}
	return &shared.Session{
		AccessToken: out.IDToken,
		TokenType:   common.AuthorizationTypeBearer,
		ExpiresAt:   secondsToExpiry(p.now(), out.ExpiresIn),
		Identity:    shared.Identity{ID: out.LocalID, Email: out.Email, Name: out.DisplayName},
	}, nil
}

func isCredentialFailure(message string) bool {
	for _, code := range []string{"INVALID_LOGIN_CREDENTIALS", "INVALID_PASSWORD", "EMAIL_NOT_FOUND", "USER_DISABLED", "INVALID_EMAIL"} {
		if strings.HasPrefix(message, code) {
			return true
		}
	}
	return false
}
