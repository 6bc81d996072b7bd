package history

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, e *Entry) error
	ListByAttendance(ctx context.Context, tenantID, attendanceID string) ([]Entry, error)
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

func (r *repository) Create(ctx context.Context, e *Entry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) ListByAttendance(ctx context.Context, tenantID, attendanceID string) ([]Entry, error) {
	var rows []Entry
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND attendance_id = ?", tenantID, attendanceID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}
