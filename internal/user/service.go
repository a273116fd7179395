// File: internal/user/service.go
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"readrocket_backend/internal/common"
	"readrocket_backend/internal/config"
	"readrocket_backend/internal/identity"
	"readrocket_backend/internal/profile"
	"readrocket_backend/internal/tenant"
	"readrocket_backend/internal/token"

	"go.uber.org/zap"
)

const (
	defaultCredits            = 3
	defaultSubscriptionStatus = "free"
	defaultLastName           = "User"
	defaultAvatarURL          = "https://firebasestorage.googleapis.com/v0/b/readrocket-a9268.firebasestorage.app/o/icons%2FAnimation%20-%201743735839589.gif?alt=media&token=910f04a5-4154-403a-bbe5-a96263f9fb50"
	defaultListLimit          = 100
)

// Service defines the user lifecycle operations.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*profile.Profile, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	GetProfile(ctx context.Context, userID, appID string) (*profile.Profile, error)
	UpdateProfile(ctx context.Context, userID, appID string, preferences map[string]interface{}) error
	ListByApp(ctx context.Context, appID string, limit int) ([]profile.Profile, error)
}

// ServiceImplementation implements the Service interface. All state is
// injected; requests share nothing mutable beyond the read-only registry.
type ServiceImplementation struct {
	profiles   profile.Repository
	identities identity.Verifier
	registry   *tenant.Registry
	tokens     *token.Issuer
	cfg        *config.Config
	logger     *zap.Logger
}

var _ Service = (*ServiceImplementation)(nil)

// NewService creates a new user service.
func NewService(
	profiles profile.Repository,
	identities identity.Verifier,
	registry *tenant.Registry,
	tokens *token.Issuer,
	cfg *config.Config,
	logger *zap.Logger,
) *ServiceImplementation {
	return &ServiceImplementation{
		profiles:   profiles,
		identities: identities,
		registry:   registry,
		tokens:     tokens,
		cfg:        cfg,
		logger:     logger,
	}
}

// localPart returns everything before the '@' of an email address.
func localPart(email string) string {
	if idx := strings.Index(email, "@"); idx > 0 {
		return email[:idx]
	}
	return email
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// Register creates the provider credential, then the profile document.
// The two writes hit independent stores with no cross-store transaction:
// when the profile write fails after the credential was created, the
// identity is left orphaned and a PROFILE_CREATION_FAILED error is
// surfaced so operators can reconcile. A retried Register for the same
// email then fails with EMAIL_ALREADY_EXISTS.
func (s *ServiceImplementation) Register(ctx context.Context, req RegisterRequest) (*profile.Profile, error) {
	if err := s.registry.Validate(req.AppID); err != nil {
		return nil, err
	}

	ident, err := s.identities.CreateIdentity(ctx, req.Email, req.Password)
	if err != nil {
		s.logger.Warn("Identity creation failed during registration",
			zap.String("email", req.Email), zap.String("appID", req.AppID), zap.Error(err))
		return nil, err
	}

	now := time.Now().UTC()
	prefix := localPart(req.Email)

	p := &profile.Profile{
		UserID:             ident.UID,
		Email:              req.Email,
		AppID:              req.AppID,
		UserName:           req.UserName,
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		AvatarURL:          req.Avatar,
		Provider:           "email",
		IsAdmin:            false,
		Credits:            defaultCredits,
		SubscriptionStatus: defaultSubscriptionStatus,
		Preferences:        profile.JSONMap{"modification_mode": "suggestion"},
		CreatedAt:          now,
		UpdatedAt:          now,
		LastActiveAt:       now,
	}
	if p.UserName == "" {
		p.UserName = prefix
	}
	if p.FirstName == "" {
		p.FirstName = capitalize(prefix)
	}
	if p.LastName == "" {
		p.LastName = defaultLastName
	}
	if p.AvatarURL == "" {
		p.AvatarURL = defaultAvatarURL
	}

	if err := s.profiles.Create(ctx, p); err != nil {
		// The credential already exists at the provider; no compensating
		// delete is performed. The identity stays orphaned until an
		// operator reconciles it (see the orphan scan job).
		s.logger.Error("Profile creation failed after identity was created; identity is orphaned",
			zap.String("userID", ident.UID),
			zap.String("email", req.Email),
			zap.String("appID", req.AppID),
			zap.Error(err),
		)
		return nil, common.ErrProfileCreationFailed
	}

	s.logger.Info("User registered successfully",
		zap.String("userID", ident.UID), zap.String("appID", req.AppID))
	return p, nil
}

// Login authenticates an email/password pair for an app and issues a
// session token.
func (s *ServiceImplementation) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := s.registry.Validate(req.AppID); err != nil {
		return nil, err
	}

	ident, err := s.identities.VerifyPassword(ctx, req.Email, req.Password)
	if err != nil {
		s.logger.Info("Credential verification failed during login",
			zap.String("email", req.Email), zap.Error(err))
		return nil, err
	}
	if !ident.Verified {
		s.logger.Warn("Login proceeding with unverified identity (password was not validated)",
			zap.String("userID", ident.UID))
	}

	p, err := s.profiles.Get(ctx, ident.UID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// Registered-identity-without-profile case: the orphan state
			// left by a partial registration failure surfaces here.
			s.logger.Error("Identity exists but profile is missing",
				zap.String("userID", ident.UID))
			return nil, common.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to fetch profile during login: %w", err)
	}

	if err := profile.CheckAppAccess(p, req.AppID); err != nil {
		s.logger.Warn("Login rejected: user not authorized for requested app",
			zap.String("userID", ident.UID), zap.String("requestedAppID", req.AppID))
		return nil, err
	}

	// Best-effort touch; a failed write must not fail the login.
	if err := s.profiles.Update(ctx, ident.UID, map[string]interface{}{
		"last_active_at": time.Now().UTC(),
	}); err != nil {
		s.logger.Error("Failed to update last active timestamp",
			zap.String("userID", ident.UID), zap.Error(err))
	}

	tok := s.tokens.Issue(ident.UID, req.AppID)
	s.logger.Info("User logged in successfully",
		zap.String("userID", ident.UID), zap.String("appID", req.AppID))
	return &LoginResponse{UserID: ident.UID, Token: tok, AppID: req.AppID}, nil
}

// GetProfile returns the full profile document after the app check.
func (s *ServiceImplementation) GetProfile(ctx context.Context, userID, appID string) (*profile.Profile, error) {
	if err := s.registry.Validate(appID); err != nil {
		return nil, err
	}

	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}

	if err := profile.CheckAppAccess(p, appID); err != nil {
		s.logger.Warn("Profile read rejected: app mismatch",
			zap.String("userID", userID), zap.String("requestedAppID", appID))
		return nil, err
	}
	return p, nil
}

// UpdateProfile merge-updates the preferences map. All other fields are
// immutable through this path, which keeps identity-binding fields like
// the app ID out of reach of callers.
func (s *ServiceImplementation) UpdateProfile(ctx context.Context, userID, appID string, preferences map[string]interface{}) error {
	if err := s.registry.Validate(appID); err != nil {
		return err
	}

	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrProfileNotFound
		}
		return fmt.Errorf("failed to fetch profile for update: %w", err)
	}

	if err := profile.CheckAppAccess(p, appID); err != nil {
		s.logger.Warn("Profile update rejected: app mismatch",
			zap.String("userID", userID), zap.String("requestedAppID", appID))
		return err
	}

	if err := s.profiles.Update(ctx, userID, map[string]interface{}{
		"preferences": profile.JSONMap(preferences),
		"updated_at":  time.Now().UTC(),
	}); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrProfileNotFound
		}
		return fmt.Errorf("failed to update preferences: %w", err)
	}

	s.logger.Info("Profile preferences updated",
		zap.String("userID", userID), zap.String("appID", appID))
	return nil
}

// ListByApp returns at most limit profiles for an app. Results are
// unordered.
func (s *ServiceImplementation) ListByApp(ctx context.Context, appID string, limit int) ([]profile.Profile, error) {
	if err := s.registry.Validate(appID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultListLimit
	}

	profiles, err := s.profiles.ListByApp(ctx, appID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles for app %s: %w", appID, err)
	}
	s.logger.Debug("Listed profiles for app",
		zap.String("appID", appID), zap.Int("count", len(profiles)))
	return profiles, nil
}
