package attendance

import (
	"context"

	"gorm.io/gorm"
)

// ListFilter narrows admin queries. Month is a YYYY-MM prefix match on
// the work date; zero values mean "no filter".
type ListFilter struct {
	Date     string
	Month    string
	UserID   string
	SiteName string
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateRecord(ctx context.Context, rec *AttendanceRecord) error
	GetRecordByID(ctx context.Context, tenantID, id string) (*AttendanceRecord, error)
	// FindLatestByUserAndDate orders by created_at so that if duplicate
	// same-day rows ever exist, the newest one wins.
	FindLatestByUserAndDate(ctx context.Context, tenantID, userID, date string) (*AttendanceRecord, error)
	UpdateRecord(ctx context.Context, rec *AttendanceRecord) error
	DeleteRecord(ctx context.Context, tenantID, id string) error
	List(ctx context.Context, tenantID string, filter ListFilter) ([]AttendanceRecord, error)
	FindRecentByUser(ctx context.Context, tenantID, userID string, limit int) ([]AttendanceRecord, error)

	CreateBreak(ctx context.Context, b *BreakInterval) error
	FindOpenBreak(ctx context.Context, tenantID, attendanceID string) (*BreakInterval, error)
	ListBreaks(ctx context.Context, tenantID, attendanceID string) ([]BreakInterval, error)
	UpdateBreak(ctx context.Context, b *BreakInterval) error
	DeleteBreaksByAttendance(ctx context.Context, tenantID, attendanceID string) error
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

func (r *repository) CreateRecord(ctx context.Context, rec *AttendanceRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *repository) GetRecordByID(ctx context.Context, tenantID, id string) (*AttendanceRecord, error) {
	var rec AttendanceRecord
	err := r.db.WithContext(ctx).
		Preload("Breaks").
		Where("tenant_id = ?", tenantID).
		First(&rec, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repository) FindLatestByUserAndDate(ctx context.Context, tenantID, userID, date string) (*AttendanceRecord, error) {
	var rec AttendanceRecord
	err := r.db.WithContext(ctx).
		Preload("Breaks").
		Where("tenant_id = ? AND user_id = ? AND date = ?", tenantID, userID, date).
		Order("created_at DESC").
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repository) UpdateRecord(ctx context.Context, rec *AttendanceRecord) error {
	return r.db.WithContext(ctx).Omit("Breaks").Save(rec).Error
}

func (r *repository) DeleteRecord(ctx context.Context, tenantID, id string) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Delete(&AttendanceRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context, tenantID string, filter ListFilter) ([]AttendanceRecord, error) {
	q := r.db.WithContext(ctx).
		Preload("Breaks").
		Where("tenant_id = ?", tenantID)

	if filter.Date != "" {
		q = q.Where("date = ?", filter.Date)
	}
	if filter.Month != "" {
		q = q.Where("date LIKE ?", filter.Month+"%")
	}
	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.SiteName != "" {
		q = q.Where("site_name = ?", filter.SiteName)
	}

	var rows []AttendanceRecord
	err := q.Order("date DESC, created_at DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) FindRecentByUser(ctx context.Context, tenantID, userID string, limit int) ([]AttendanceRecord, error) {
	var rows []AttendanceRecord
	err := r.db.WithContext(ctx).
		Preload("Breaks").
		Where("tenant_id = ? AND user_id = ?", tenantID, userID).
		Order("date DESC, created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *repository) CreateBreak(ctx context.Context, b *BreakInterval) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *repository) FindOpenBreak(ctx context.Context, tenantID, attendanceID string) (*BreakInterval, error) {
	var b BreakInterval
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND attendance_id = ? AND end_time IS NULL", tenantID, attendanceID).
		Order("start_time DESC").
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) ListBreaks(ctx context.Context, tenantID, attendanceID string) ([]BreakInterval, error) {
	var rows []BreakInterval
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND attendance_id = ?", tenantID, attendanceID).
		Order("start_time ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) UpdateBreak(ctx context.Context, b *BreakInterval) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *repository) DeleteBreaksByAttendance(ctx context.Context, tenantID, attendanceID string) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ? AND attendance_id = ?", tenantID, attendanceID).
		Delete(&BreakInterval{}).Error
}
