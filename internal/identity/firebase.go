// File: internal/identity/firebase.go
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"readrocket_backend/internal/common"
	"readrocket_backend/internal/config"
)

// SignInEndpoint is the Identity Toolkit password-verification endpoint.
// It is a variable so tests can point it at a local server.
var SignInEndpoint = "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword"

// adminClient is the subset of the Firebase Admin auth client the
// verifier uses. *auth.Client satisfies it.
type adminClient interface {
	CreateUser(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error)
	GetUser(ctx context.Context, uid string) (*auth.UserRecord, error)
	GetUserByEmail(ctx context.Context, email string) (*auth.UserRecord, error)
	Users(ctx context.Context, nextPageToken string) *auth.UserIterator
}

// FirebaseVerifier implements Verifier against Firebase Authentication.
// Admin operations (create, lookup, list) go through the Admin SDK;
// password verification goes through the Identity Toolkit REST API,
// which the Admin SDK does not expose.
type FirebaseVerifier struct {
	authClient adminClient
	httpClient *http.Client
	apiKey     string
	logger     *zap.Logger
}

var _ Verifier = (*FirebaseVerifier)(nil)

// NewFirebaseVerifier initializes the Firebase Admin SDK and creates a
// new FirebaseVerifier.
func NewFirebaseVerifier(cfg *config.Config, logger *zap.Logger) (*FirebaseVerifier, error) {
	if cfg.FirebaseServiceAccountKeyPath == "" {
		logger.Error("Firebase service account key path is not configured.")
		return nil, fmt.Errorf("firebase service account key path is required")
	}

	cleanPath := filepath.Clean(cfg.FirebaseServiceAccountKeyPath)
	opt := option.WithCredentialsFile(cleanPath)

	var app *firebase.App
	var err error
	if cfg.FirebaseProjectID != "" {
		conf := &firebase.Config{ProjectID: cfg.FirebaseProjectID}
		app, err = firebase.NewApp(context.Background(), conf, opt)
	} else {
		// Let the SDK infer the project from credentials.
		app, err = firebase.NewApp(context.Background(), nil, opt)
	}
	if err != nil {
		logger.Error("Failed to initialize Firebase Admin SDK app", zap.Error(err), zap.String("keyPath", cleanPath))
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	authClient, err := app.Auth(context.Background())
	if err != nil {
		logger.Error("Failed to get Firebase Auth client", zap.Error(err))
		return nil, fmt.Errorf("error getting Firebase Auth client: %w", err)
	}

	if cfg.FirebaseWebAPIKey == "" {
		logger.Warn("FIREBASE_WEB_API_KEY not set; password verification will degrade to existence-only checks")
	}

	logger.Info("Firebase Admin SDK initialized successfully.")
	return &FirebaseVerifier{
		authClient: authClient,
		httpClient: &http.Client{Timeout: cfg.IdentityRequestTimeout},
		apiKey:     cfg.FirebaseWebAPIKey,
		logger:     logger,
	}, nil
}

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInResponse struct {
	LocalID string `json:"localId"`
	Email   string `json:"email"`
	Error   struct {
		Message string `json:"message"`
	} `json:"error"`
}

// VerifyPassword validates the pair against the Identity Toolkit REST
// API. Without an API key it falls back to verifyUserExistsOnly.
func (v *FirebaseVerifier) VerifyPassword(ctx context.Context, email, password string) (*Identity, error) {
	if v.apiKey == "" {
		return v.verifyUserExistsOnly(ctx, email)
	}

	body, err := json.Marshal(signInRequest{Email: email, Password: password, ReturnSecureToken: true})
	if err != nil {
		return nil, fmt.Errorf("failed to encode sign-in request: %w", err)
	}

	url := fmt.Sprintf("%s?key=%s", SignInEndpoint, v.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build sign-in request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		v.logger.Error("Network error during password verification", zap.Error(err))
		return nil, common.ErrServiceUnavailable.WithDetails("Authentication service unavailable.")
	}
	defer resp.Body.Close()

	var result signInResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		v.logger.Error("Failed to decode sign-in response", zap.Error(err))
		return nil, common.ErrServiceUnavailable.WithDetails("Authentication service returned an unreadable response.")
	}

	if resp.StatusCode != http.StatusOK {
		// Provider messages (EMAIL_NOT_FOUND, INVALID_PASSWORD, ...) are
		// logged but not surfaced to the caller.
		v.logger.Warn("Password verification rejected",
			zap.String("email", email),
			zap.String("providerMessage", result.Error.Message),
		)
		return nil, common.ErrInvalidCredentials
	}

	v.logger.Debug("Password verification successful", zap.String("uid", result.LocalID))
	return &Identity{UID: result.LocalID, Email: result.Email, Verified: true}, nil
}

// verifyUserExistsOnly is the fallback when no web API key is available.
// It only confirms the email is registered; the password is NOT checked.
func (v *FirebaseVerifier) verifyUserExistsOnly(ctx context.Context, email string) (*Identity, error) {
	v.logger.Warn("Using fallback authentication (no password validation)", zap.String("email", email))

	record, err := v.authClient.GetUserByEmail(ctx, email)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return nil, common.ErrInvalidCredentials
		}
		v.logger.Error("Fallback user lookup failed", zap.Error(err), zap.String("email", email))
		return nil, common.ErrServiceUnavailable.WithDetails("User verification failed.")
	}
	return &Identity{UID: record.UID, Email: record.Email, Verified: false}, nil
}

// CreateIdentity registers a new email/password credential with Firebase.
func (v *FirebaseVerifier) CreateIdentity(ctx context.Context, email, password string) (*Identity, error) {
	params := (&auth.UserToCreate{}).Email(email).Password(password)
	record, err := v.authClient.CreateUser(ctx, params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return nil, common.ErrEmailExists
		}
		v.logger.Error("Failed to create Firebase user", zap.Error(err), zap.String("email", email))
		return nil, common.ErrWeakCredentials.WithDetails("The identity provider rejected the credentials.")
	}
	v.logger.Info("Firebase user created", zap.String("uid", record.UID))
	return &Identity{UID: record.UID, Email: record.Email, Verified: true}, nil
}

// LookupByID fetches an identity by UID.
func (v *FirebaseVerifier) LookupByID(ctx context.Context, uid string) (*Identity, error) {
	record, err := v.authClient.GetUser(ctx, uid)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return nil, common.ErrNotFound.WithDetails("User not found with this ID.")
		}
		return nil, fmt.Errorf("failed to look up user %s: %w", uid, err)
	}
	return &Identity{UID: record.UID, Email: record.Email, Verified: true}, nil
}

// LookupByEmail fetches an identity by email.
func (v *FirebaseVerifier) LookupByEmail(ctx context.Context, email string) (*Identity, error) {
	record, err := v.authClient.GetUserByEmail(ctx, email)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return nil, common.ErrNotFound.WithDetails("User not found with this email.")
		}
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}
	return &Identity{UID: record.UID, Email: record.Email, Verified: true}, nil
}

// ListIdentities pages through provider identities, up to max entries.
func (v *FirebaseVerifier) ListIdentities(ctx context.Context, max int) ([]Identity, error) {
	var identities []Identity
	iter := v.authClient.Users(ctx, "")
	for len(identities) < max {
		record, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate provider users: %w", err)
		}
		identities = append(identities, Identity{
			UID:      record.UID,
			Email:    record.Email,
			Verified: true,
		})
	}
	return identities, nil
}
