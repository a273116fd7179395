// File: internal/token/token.go
package token

import (
	"fmt"
	"strings"

	"readrocket_backend/internal/common"
)

const (
	prefix = "user_"
	suffix = "_token"
)

// Issuer issues and parses the opaque session handle identifying a
// (user, app) pair. The token is a deterministic string, not a signed
// credential: the system's security boundary is the per-request app
// check, not token cryptography. Tokens carry no expiry.
type Issuer struct{}

// NewIssuer creates a new Issuer.
func NewIssuer() *Issuer {
	return &Issuer{}
}

// Issue builds the session token for a user and app.
func (i *Issuer) Issue(userID, appID string) string {
	return fmt.Sprintf("%s%s_%s%s", prefix, userID, appID, suffix)
}

// Parse recovers the (userID, appID) pair from a token. Provider user
// IDs are alphanumeric while app IDs may contain underscores, so the
// split happens at the first separator after the prefix.
func (i *Issuer) Parse(tok string) (userID, appID string, err error) {
	if !strings.HasPrefix(tok, prefix) || !strings.HasSuffix(tok, suffix) {
		return "", "", common.ErrMalformedToken
	}
	inner := tok[len(prefix) : len(tok)-len(suffix)]
	userID, appID, found := strings.Cut(inner, "_")
	if !found || userID == "" || appID == "" {
		return "", "", common.ErrMalformedToken
	}
	return userID, appID, nil
}
