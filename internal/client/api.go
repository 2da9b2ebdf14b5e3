// File: internal/client/api.go
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"legacyvault/internal/asset"
	"legacyvault/internal/common"
	"legacyvault/internal/profile"
	"legacyvault/internal/shared"

	"github.com/google/uuid"
)

// DefaultTimeout bounds every API call made by the client.
const DefaultTimeout = 15 * time.Second

// APIClient talks to the /api/v1 surface. Errors returned by the server come
// back as *common.APIError with StatusCode filled in.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

func NewAPIClient(baseURL, token string, timeout time.Duration) *APIClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &APIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		token:      token,
	}
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// MutationResult is a write's own result plus the listing fetched after it.
// RefetchError is set when the write committed but that listing could not be
// read; the write is not to be repeated.
type MutationResult struct {
	Message       string              `json:"-"`
	Asset         *asset.Asset        `json:"asset,omitempty"`
	Beneficiaries []asset.Beneficiary `json:"beneficiaries,omitempty"`
	Listing       *asset.Listing      `json:"listing,omitempty"`
	RefetchError  *common.APIError    `json:"refetch_error,omitempty"`
}

// Dashboard is the body of GET /dashboard.
type Dashboard struct {
	Summary asset.Summary `json:"summary"`
	Listing asset.Listing `json:"listing"`
}

func (c *APIClient) SignUp(ctx context.Context, email, password string) (*shared.Identity, error) {
	var out shared.Identity
	if _, err := c.do(ctx, http.MethodPost, "/auth/signup", credentials(email, password), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) SignIn(ctx context.Context, email, password string) (*shared.Session, error) {
	var out shared.Session
	if _, err := c.do(ctx, http.MethodPost, "/auth/signin", credentials(email, password), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) SignOut(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/auth/signout", nil, nil)
	return err
}

// Me returns the identity behind the current token.
func (c *APIClient) Me(ctx context.Context) (*shared.Identity, error) {
	if c.token == "" {
		return nil, common.ErrUnauthenticated
	}
	var out shared.Identity
	if _, err := c.do(ctx, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) Profile(ctx context.Context) (*profile.ProfileResponse, error) {
	var out profile.ProfileResponse
	if _, err := c.do(ctx, http.MethodGet, "/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) RenameProfile(ctx context.Context, fullName string) (*profile.ProfileResponse, error) {
	var out profile.ProfileResponse
	body := profile.UpdateProfileRequest{FullName: fullName}
	if _, err := c.do(ctx, http.MethodPatch, "/profile", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) ListAssets(ctx context.Context) (*asset.Listing, error) {
	var out asset.Listing
	if _, err := c.do(ctx, http.MethodGet, "/assets", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) CreateAsset(ctx context.Context, req asset.CreateAssetRequest) (*MutationResult, error) {
	var out MutationResult
	msg, err := c.do(ctx, http.MethodPost, "/assets", req, &out)
	if err != nil {
		return nil, err
	}
	out.Message = msg
	return &out, nil
}

// AddBeneficiaries may return a result without a listing when every row was
// blank and nothing was written.
func (c *APIClient) AddBeneficiaries(ctx context.Context, assetID uuid.UUID, rows []asset.BeneficiaryInput) (*MutationResult, error) {
	var out MutationResult
	body := asset.AddBeneficiariesRequest{Beneficiaries: rows}
	msg, err := c.do(ctx, http.MethodPost, "/assets/"+assetID.String()+"/beneficiaries", body, &out)
	if err != nil {
		return nil, err
	}
	out.Message = msg
	return &out, nil
}

func (c *APIClient) RemoveBeneficiary(ctx context.Context, beneficiaryID uuid.UUID) (*MutationResult, error) {
	var out MutationResult
	msg, err := c.do(ctx, http.MethodDelete, "/beneficiaries/"+beneficiaryID.String(), nil, &out)
	if err != nil {
		return nil, err
	}
	out.Message = msg
	return &out, nil
}

func (c *APIClient) Directory(ctx context.Context) ([]asset.DirectoryEntry, error) {
	var out []asset.DirectoryEntry
	if _, err := c.do(ctx, http.MethodGet, "/beneficiaries", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *APIClient) Dashboard(ctx context.Context) (*Dashboard, error) {
	var out Dashboard
	if _, err := c.do(ctx, http.MethodGet, "/dashboard", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func credentials(email, password string) map[string]string {
	return map[string]string{"email": email, "password": password}
}

// do sends one request and decodes the success envelope's data into out.
// It returns the envelope message.
func (c *APIClient) do(ctx context.Context, method, path string, body, out interface{}) (string, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return "", fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/api/v1"+path, reader)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", common.ErrBackendUnavailable.WithDetails(err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", common.ErrBackendUnavailable.WithDetails(err.Error())
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &common.APIError{}
		if err := json.Unmarshal(raw, apiErr); err != nil || apiErr.Code == "" {
			apiErr = common.NewAPIError(resp.StatusCode, http.StatusText(resp.StatusCode), strings.TrimSpace(string(raw)))
		}
		apiErr.StatusCode = resp.StatusCode
		return "", apiErr
	}

	var env envelope
	if len(raw) == 0 {
		return "", nil
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return env.Message, fmt.Errorf("decode response data: %w", err)
		}
	}
	return env.Message, nil
}
