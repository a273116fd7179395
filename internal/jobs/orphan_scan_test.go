// File: internal/jobs/orphan_scan_test.go
package jobs

import (
	"context"
	"errors"
	"testing"

	"readrocket_backend/internal/common"
	"readrocket_backend/internal/config"
	"readrocket_backend/internal/identity"
	"readrocket_backend/internal/profile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubVerifier struct {
	identities []identity.Identity
	listErr    error
}

func (s *stubVerifier) ListIdentities(ctx context.Context, max int) ([]identity.Identity, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	if len(s.identities) > max {
		return s.identities[:max], nil
	}
	return s.identities, nil
}

func (s *stubVerifier) VerifyPassword(ctx context.Context, email, password string) (*identity.Identity, error) {
	return nil, common.ErrServiceUnavailable
}

func (s *stubVerifier) CreateIdentity(ctx context.Context, email, password string) (*identity.Identity, error) {
	return nil, common.ErrServiceUnavailable
}

func (s *stubVerifier) LookupByID(ctx context.Context, uid string) (*identity.Identity, error) {
	return nil, common.ErrNotFound
}

func (s *stubVerifier) LookupByEmail(ctx context.Context, email string) (*identity.Identity, error) {
	return nil, common.ErrNotFound
}

type stubRepo struct {
	existing map[string]bool
	getErr   error
}

func (s *stubRepo) Get(ctx context.Context, userID string) (*profile.Profile, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if s.existing[userID] {
		return &profile.Profile{UserID: userID}, nil
	}
	return nil, common.ErrNotFound
}

func (s *stubRepo) Create(ctx context.Context, p *profile.Profile) error { return nil }

func (s *stubRepo) Update(ctx context.Context, userID string, fields map[string]interface{}) error {
	return nil
}

func (s *stubRepo) ListByApp(ctx context.Context, appID string, limit int) ([]profile.Profile, error) {
	return nil, nil
}

func TestScanFindsOrphans(t *testing.T) {
	verifier := &stubVerifier{identities: []identity.Identity{
		{UID: "uid1", Email: "a@x.com"},
		{UID: "uid2", Email: "b@x.com"},
		{UID: "uid3", Email: "c@x.com"},
	}}
	repo := &stubRepo{existing: map[string]bool{"uid1": true, "uid3": true}}
	job := NewOrphanScanJob(verifier, repo, zap.NewNop(), &config.Config{})

	orphans, scanned, err := job.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, scanned)
	require.Len(t, orphans, 1)
	assert.Equal(t, "uid2", orphans[0].UID)
}

func TestScanHonorsMaxUsers(t *testing.T) {
	verifier := &stubVerifier{identities: []identity.Identity{
		{UID: "uid1"}, {UID: "uid2"}, {UID: "uid3"},
	}}
	repo := &stubRepo{existing: map[string]bool{}}
	job := NewOrphanScanJob(verifier, repo, zap.NewNop(), &config.Config{OrphanScanMaxUsers: 2})

	orphans, scanned, err := job.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, scanned)
	assert.Len(t, orphans, 2)
}

func TestScanProviderFailure(t *testing.T) {
	verifier := &stubVerifier{listErr: errors.New("provider unreachable")}
	job := NewOrphanScanJob(verifier, &stubRepo{}, zap.NewNop(), &config.Config{})

	_, _, err := job.Scan(context.Background())
	assert.Error(t, err)
}

func TestScanSkipsLookupFailures(t *testing.T) {
	// A store failure on one lookup must not mark the identity orphaned.
	verifier := &stubVerifier{identities: []identity.Identity{{UID: "uid1"}}}
	repo := &stubRepo{getErr: errors.New("store unreachable")}
	job := NewOrphanScanJob(verifier, repo, zap.NewNop(), &config.Config{})

	orphans, scanned, err := job.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, scanned)
	assert.Empty(t, orphans)
}

func TestSetupAndStartWithoutSchedule(t *testing.T) {
	job := NewOrphanScanJob(&stubVerifier{}, &stubRepo{}, zap.NewNop(), &config.Config{})
	assert.NoError(t, job.SetupAndStart())
	job.Stop()
}

func TestSetupAndStartRejectsBadSpec(t *testing.T) {
	job := NewOrphanScanJob(&stubVerifier{}, &stubRepo{}, zap.NewNop(),
		&config.Config{OrphanScanJobSchedule: "not a cron spec"})
	assert.Error(t, job.SetupAndStart())
}
