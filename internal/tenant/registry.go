// File: internal/tenant/registry.go
package tenant

import (
	"readrocket_backend/internal/common"
	"readrocket_backend/internal/config"

	"go.uber.org/zap"
)

// Registry holds the allow-list of app IDs this deployment serves.
// The list is loaded once at startup and never mutated, so concurrent
// reads are safe without locking.
type Registry struct {
	allowed map[string]struct{}
	names   []string
	logger  *zap.Logger
}

// NewRegistry builds the registry from the configured comma-separated
// allow-list. Entries are trimmed; matching is case-sensitive.
func NewRegistry(cfg *config.Config, logger *zap.Logger) *Registry {
	names := cfg.AllowedAppIDList()
	allowed := make(map[string]struct{}, len(names))
	for _, id := range names {
		allowed[id] = struct{}{}
	}
	logger.Info("App ID registry initialized", zap.Strings("allowedAppIDs", names))
	return &Registry{
		allowed: allowed,
		names:   names,
		logger:  logger,
	}
}

// Validate checks that appID is a member of the allow-list. This is the
// first gate on every public operation in the system.
func (r *Registry) Validate(appID string) error {
	if appID == "" {
		r.logger.Warn("Empty app ID rejected")
		return common.ErrInvalidAppID.WithDetails("An app_id is required.")
	}
	if _, ok := r.allowed[appID]; !ok {
		r.logger.Warn("Unknown app ID rejected", zap.String("appID", appID))
		return common.ErrInvalidAppID.WithDetails("The provided app_id is not allowed.")
	}
	return nil
}

// AllowedAppIDs returns the configured allow-list.
func (r *Registry) AllowedAppIDs() []string {
	return r.names
}
