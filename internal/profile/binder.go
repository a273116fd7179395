// File: internal/profile/binder.go
package profile

import "readrocket_backend/internal/common"

// CheckAppAccess verifies that a fetched profile belongs to the app the
// caller asserted. It must run on every read and write path after the
// profile is fetched and before any data is returned or mutated.
//
// A profile with no app ID set is treated as a mismatch, and a mismatch
// is an authorization failure, never a not-found. The returned error
// does not reveal which app the profile actually belongs to.
func CheckAppAccess(p *Profile, requestedAppID string) error {
	if p == nil || p.AppID == "" || p.AppID != requestedAppID {
		return common.ErrAppMismatch
	}
	return nil
}
