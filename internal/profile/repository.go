// File: internal/profile/repository.go
package profile

import (
	"context"
	"errors"
	"strings"
	"time"

	"readrocket_backend/internal/common"

	"gorm.io/gorm"
)

// Repository defines the keyed-document operations the core depends on.
// It carries no business logic; tenant checks happen in the caller.
type Repository interface {
	Get(ctx context.Context, userID string) (*Profile, error)
	// Create fails with a conflict when the key is already present. This
	// is the idempotency guard against registration replays.
	Create(ctx context.Context, p *Profile) error
	// Update merge-updates only the given columns; absent fields are
	// untouched.
	Update(ctx context.Context, userID string, fields map[string]interface{}) error
	// ListByApp returns at most limit profiles for the app. Ordering is
	// store iteration order; callers must not rely on it.
	ListByApp(ctx context.Context, appID string, limit int) ([]Profile, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM profile repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func isDuplicateKeyError(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "unique constraint") ||
		strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key value violates unique constraint")
}

func (r *gormRepository) Get(ctx context.Context, userID string) (*Profile, error) {
	var p Profile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Profile not found for this user ID.")
		}
		return nil, err
	}
	return &p, nil
}

func (r *gormRepository) Create(ctx context.Context, p *Profile) error {
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		if isDuplicateKeyError(err) {
			return common.ErrConflict.WithDetails("A profile already exists for this user or email.")
		}
		return err
	}
	return nil
}

func (r *gormRepository) Update(ctx context.Context, userID string, fields map[string]interface{}) error {
	if _, ok := fields["updated_at"]; !ok {
		fields["updated_at"] = time.Now().UTC()
	}
	res := r.db.WithContext(ctx).
		Model(&Profile{}).
		Where("user_id = ?", userID).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Profile not found for this user ID.")
	}
	return nil
}

func (r *gormRepository) ListByApp(ctx context.Context, appID string, limit int) ([]Profile, error) {
	var profiles []Profile
	err := r.db.WithContext(ctx).
		Where("app_id = ?", appID).
		Limit(limit).
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}
