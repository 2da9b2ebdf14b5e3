// File: internal/firebase/service.go
package firebase

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"legacyvault/internal/common"
	"legacyvault/internal/config"
	"legacyvault/internal/shared"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// authClient is the part of *auth.Client the service uses.
type authClient interface {
	VerifyIDTokenAndCheckRevoked(ctx context.Context, idToken string) (*auth.Token, error)
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
	CreateUser(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error)
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

// FirebaseService is the hosted identity provider backed by Firebase Auth.
type FirebaseService struct {
	authClient authClient
	passwords  *passwordSignIn
	logger     *zap.Logger
}

var _ shared.IdentityProvider = (*FirebaseService)(nil)

// NewFirebaseService initializes the Firebase Admin SDK from the service account key.
func NewFirebaseService(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*FirebaseService, error) {
	if cfg.FirebaseServiceAccountKeyPath == "" {
		return nil, fmt.Errorf("firebase service account key path is required")
	}
	logger = logger.Named("auth.firebase")

	cleanPath := filepath.Clean(cfg.FirebaseServiceAccountKeyPath)
	opt := option.WithCredentialsFile(cleanPath)

	var conf *firebase.Config
	if cfg.FirebaseProjectID != "" {
		conf = &firebase.Config{ProjectID: cfg.FirebaseProjectID}
	}
	app, err := firebase.NewApp(ctx, conf, opt)
	if err != nil {
		logger.Error("Failed to initialize Firebase Admin SDK app", zap.Error(err), zap.String("keyPath", cleanPath))
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		logger.Error("Failed to get Firebase Auth client", zap.Error(err))
		return nil, fmt.Errorf("error getting Firebase Auth client: %w", err)
	}

	if cfg.FirebaseWebAPIKey == "" {
		logger.Warn("FIREBASE_WEB_API_KEY is not set; password sign-in is disabled")
	}

	logger.Info("Firebase Admin SDK initialized successfully.")
	return newFirebaseService(client, newPasswordSignIn(cfg.FirebaseWebAPIKey, &http.Client{Timeout: cfg.BackendTimeout}), logger), nil
}

func newFirebaseService(client authClient, passwords *passwordSignIn, logger *zap.Logger) *FirebaseService {
	return &FirebaseService{authClient: client, passwords: passwords, logger: logger}
}

// CurrentIdentity verifies the ID token and rejects tokens revoked by SignOut.
func (s *FirebaseService) CurrentIdentity(ctx context.Context, idToken string) (*shared.Identity, error) {
	if idToken == "" {
		return nil, common.ErrUnauthenticated
	}
	token, err := s.authClient.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	if err != nil {
		if isSessionError(err) {
			s.logger.Debug("Firebase ID token rejected", zap.Error(err))
			return nil, common.ErrUnauthenticated
		}
		s.logger.Error("Firebase ID token verification failed", zap.Error(err))
		return nil, common.ErrBackendUnavailable
	}

	email, _ := token.Claims["email"].(string)
	name, _ := token.Claims["name"].(string)
	return &shared.Identity{ID: token.UID, Email: email, Name: name}, nil
}

func (s *FirebaseService) SignUp(ctx context.Context, email, password string) (*shared.Identity, error) {
	params := (&auth.UserToCreate{}).Email(email).Password(password)
	record, err := s.authClient.CreateUser(ctx, params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return nil, common.ErrConflict.WithDetails("An account with this email already exists.")
		}
		s.logger.Error("Failed to create Firebase user", zap.Error(err))
		return nil, common.ErrBackendUnavailable
	}
	s.logger.Info("Firebase user created", zap.String("uid", record.UID))
	return &shared.Identity{ID: record.UID, Email: record.Email}, nil
}

func (s *FirebaseService) SignIn(ctx context.Context, email, password string) (*shared.Session, error) {
	if s.passwords == nil || s.passwords.apiKey == "" {
		return nil, common.ErrNotImplemented.WithDetails("Password sign-in needs FIREBASE_WEB_API_KEY.")
	}
	session, err := s.passwords.signIn(ctx, email, password)
	if err != nil {
		if _, ok := common.IsAPIError(err); ok {
			return nil, err
		}
		s.logger.Error("Firebase password sign-in failed", zap.Error(err))
		return nil, common.ErrBackendUnavailable
	}
	return session, nil
}

// SignOut revokes the user's refresh tokens; ID tokens issued before now stop
// passing CurrentIdentity.
func (s *FirebaseService) SignOut(ctx context.Context, idToken string) error {
	token, err := s.authClient.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil
	}
	if err := s.authClient.RevokeRefreshTokens(ctx, token.UID); err != nil {
		s.logger.Error("Failed to revoke refresh tokens", zap.Error(err), zap.String("uid", token.UID))
		return common.ErrBackendUnavailable
	}
	s.logger.Info("Revoked refresh tokens for user", zap.String("uid", token.UID))
	return nil
}

func isSessionError(err error) bool {
	return auth.IsIDTokenInvalid(err) ||
		auth.IsIDTokenExpired(err) ||
		auth.IsIDTokenRevoked(err) ||
		auth.IsUserDisabled(err) ||
		auth.IsUserNotFound(err)
}

func secondsToExpiry(now time.Time, expiresIn string) time.Time {
	var secs int
	if _, err := fmt.Sscanf(expiresIn, "%d", &secs); err != nil || secs <= 0 {
		secs = 3600
	}
	return now.Add(time.Duration(secs) * time.Second)
}
