package user

import (
	"context"
	"strings"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	FindAllByTenant(ctx context.Context, tenantID string) ([]User, error)
	Update(ctx context.Context, u *User) error

	GetGlobalByEmail(ctx context.Context, email string) (*GlobalUser, error)
	UpsertGlobal(ctx context.Context, g *GlobalUser) error
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

func (r *repository) Create(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(email)).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) FindAllByTenant(ctx context.Context, tenantID string) ([]User, error) {
	var rows []User
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("display_name ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *repository) GetGlobalByEmail(ctx context.Context, email string) (*GlobalUser, error) {
	var g GlobalUser
	err := r.db.WithContext(ctx).
		First(&g, "email = ?", strings.ToLower(email)).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// UpsertGlobal writes the authoritative email -> tenant binding. The email
// is normalized so lookups at login are case-insensitive.
func (r *repository) UpsertGlobal(ctx context.Context, g *GlobalUser) error {
	g.Email = strings.ToLower(g.Email)
	return r.db.WithContext(ctx).Save(g).Error
}
