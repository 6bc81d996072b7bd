package adminrequest

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var clauseForUpdate = clause.Locking{Strength: "UPDATE"}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, req *AdminRequest) error
	GetByID(ctx context.Context, id string) (*AdminRequest, error)
	// GetByIDForUpdate locks the row so two reviewers cannot approve
	// the same request concurrently.
	GetByIDForUpdate(ctx context.Context, id string) (*AdminRequest, error)
	List(ctx context.Context, status string) ([]AdminRequest, error)
	HasPendingByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, req *AdminRequest) error
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

func (r *repository) Create(ctx context.Context, req *AdminRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *repository) GetByID(ctx context.Context, id string) (*AdminRequest, error) {
	var req AdminRequest
	err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repository) GetByIDForUpdate(ctx context.Context, id string) (*AdminRequest, error) {
	var req AdminRequest
	err := r.db.WithContext(ctx).
		Clauses(clauseForUpdate).
		First(&req, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repository) List(ctx context.Context, status string) ([]AdminRequest, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var rows []AdminRequest
	err := q.Find(&rows).Error
	return rows, err
}

func (r *repository) HasPendingByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&AdminRequest{}).
		Where("LOWER(email) = LOWER(?) AND status = ?", email, StatusPending).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) Update(ctx context.Context, req *AdminRequest) error {
	return r.db.WithContext(ctx).Save(req).Error
}
