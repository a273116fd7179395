// File: internal/tenant/registry_test.go
package tenant

import (
	"errors"
	"testing"

	"readrocket_backend/internal/common"
	"readrocket_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestRegistry(allowed string) *Registry {
	cfg := &config.Config{AllowedAppIDs: allowed}
	return NewRegistry(cfg, zap.NewNop())
}

func TestRegistryValidate(t *testing.T) {
	reg := newTestRegistry("readrocket, lexirocket ,beta_app")

	tests := []struct {
		name    string
		appID   string
		wantErr bool
	}{
		{name: "allowed app ID", appID: "readrocket", wantErr: false},
		{name: "allowed app ID trimmed from config", appID: "lexirocket", wantErr: false},
		{name: "allowed app ID with underscore", appID: "beta_app", wantErr: false},
		{name: "unknown app ID", appID: "other_app", wantErr: true},
		{name: "empty app ID", appID: "", wantErr: true},
		{name: "case sensitive", appID: "ReadRocket", wantErr: true},
		{name: "whitespace is not stripped from input", appID: " readrocket", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := reg.Validate(tt.appID)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, common.ErrInvalidAppID))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRegistryValidateIsIdempotent(t *testing.T) {
	reg := newTestRegistry("readrocket")

	for i := 0; i < 3; i++ {
		assert.NoError(t, reg.Validate("readrocket"))
		assert.Error(t, reg.Validate("someone_else"))
	}
	assert.Equal(t, []string{"readrocket"}, reg.AllowedAppIDs())
}
