// File: internal/identity/identity.go
package identity

import "context"

// Identity is an authentication record owned by the external identity
// provider. The service reads it but never mutates it.
type Identity struct {
	UID   string
	Email string
	// Verified is false when the identity was established without a
	// password check (existence-only fallback). Callers should not treat
	// an unverified identity as fully authenticated.
	Verified bool
}

// Verifier defines the credential operations the service needs from the
// identity provider.
type Verifier interface {
	// VerifyPassword validates an email/password pair and returns the
	// matching identity. When the provider's verification endpoint is not
	// configured it degrades to an existence-only check and returns an
	// identity with Verified=false.
	VerifyPassword(ctx context.Context, email, password string) (*Identity, error)
	// CreateIdentity registers a new credential with the provider.
	CreateIdentity(ctx context.Context, email, password string) (*Identity, error)
	// LookupByID fetches an identity by its provider-issued user ID.
	LookupByID(ctx context.Context, uid string) (*Identity, error)
	// LookupByEmail fetches an identity by email.
	LookupByEmail(ctx context.Context, email string) (*Identity, error)
	// ListIdentities returns up to max identities known to the provider.
	ListIdentities(ctx context.Context, max int) ([]Identity, error)
}
