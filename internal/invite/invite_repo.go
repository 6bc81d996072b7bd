package invite

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, code *InviteCode) error
	GetByCode(ctx context.Context, code string) (*InviteCode, error)
	ListByTenant(ctx context.Context, tenantID string) ([]InviteCode, error)
	Deactivate(ctx context.Context, tenantID, code string) error
	ConsumeOne(ctx context.Context, code string) (int, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, code *InviteCode) error {
	return r.db.WithContext(ctx).Create(code).Error
}

func (r *repository) GetByCode(ctx context.Context, code string) (*InviteCode, error) {
	var inv InviteCode
	err := r.db.WithContext(ctx).First(&inv, "code = ?", code).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *repository) ListByTenant(ctx context.Context, tenantID string) ([]InviteCode, error) {
	var rows []InviteCode
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Deactivate(ctx context.Context, tenantID, code string) error {
	result := r.db.WithContext(ctx).
		Model(&InviteCode{}).
		Where("tenant_id = ? AND code = ?", tenantID, code).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ErrConsumeConflict signals the conditional increment matched no row:
// the code is missing, inactive, expired, or out of uses. The caller
// re-reads the row to report which.
var ErrConsumeConflict = errors.New("invite consume conflict")

// ConsumeOne increments the usage counter only while every validity
// condition still holds, so concurrent registrations cannot push the
// counter past max_uses.
func (r *repository) ConsumeOne(ctx context.Context, code string) (int, error) {
	query := `
UPDATE invite_codes
SET used = used + 1, last_used_at = NOW(), updated_at = NOW()
WHERE code = ?
	AND is_active
	AND expires_at > NOW()
	AND used < max_uses
RETURNING used
`

	var used []int
	err := r.db.WithContext(ctx).Raw(query, code).Scan(&used).Error
	if err != nil {
		return 0, err
	}
	if len(used) == 0 {
		return 0, ErrConsumeConflict
	}
	return used[0], nil
}
