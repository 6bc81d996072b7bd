package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleEmployee   = "employee"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

type User struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID    string         `gorm:"column:tenant_id;type:text;not null;index"`
	Email       string         `gorm:"column:email;type:varchar(255);uniqueIndex;not null"`
	DisplayName string         `gorm:"column:display_name;type:varchar(255);not null"`
	Role        string         `gorm:"column:role;type:varchar(50);not null;default:employee"`
	Password    string         `gorm:"column:password;type:text;not null"`
	IsActive    bool           `gorm:"column:is_active;default:true"`
	CreatedAt   time.Time      `gorm:"column:created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (User) TableName() string {
	return "users"
}

// GlobalUser maps a normalized (lower-cased) email to its tenant and role
// before any tenant-scoped data is readable. Exactly one row per email;
// this row is the authoritative tenant binding.
type GlobalUser struct {
	Email       string    `gorm:"column:email;type:varchar(255);primaryKey"`
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;not null"`
	TenantID    string    `gorm:"column:tenant_id;type:text;not null;index"`
	Role        string    `gorm:"column:role;type:varchar(50);not null"`
	DisplayName string    `gorm:"column:display_name;type:varchar(255)"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (GlobalUser) TableName() string {
	return "global_users"
}
