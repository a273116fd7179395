// File: internal/profile/binder_test.go
package profile

import (
	"errors"
	"testing"

	"readrocket_backend/internal/common"

	"github.com/stretchr/testify/assert"
)

func TestCheckAppAccess(t *testing.T) {
	tests := []struct {
		name      string
		profile   *Profile
		requested string
		wantErr   bool
	}{
		{
			name:      "matching app",
			profile:   &Profile{UserID: "u1", AppID: "readrocket"},
			requested: "readrocket",
			wantErr:   false,
		},
		{
			name:      "different app",
			profile:   &Profile{UserID: "u1", AppID: "readrocket"},
			requested: "lexirocket",
			wantErr:   true,
		},
		{
			name:      "profile without app binding",
			profile:   &Profile{UserID: "u1"},
			requested: "readrocket",
			wantErr:   true,
		},
		{
			name:      "nil profile",
			profile:   nil,
			requested: "readrocket",
			wantErr:   true,
		},
		{
			name:      "empty requested app against empty binding is still a mismatch",
			profile:   &Profile{UserID: "u1"},
			requested: "",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckAppAccess(tt.profile, tt.requested)
			if tt.wantErr {
				assert.True(t, errors.Is(err, common.ErrAppMismatch))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
