package site

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Site is a physical work location within a tenant. Names are unique per
// tenant so pickers and CSV exports stay unambiguous.
type Site struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID  string         `gorm:"column:tenant_id;type:text;not null;uniqueIndex:idx_sites_tenant_name"`
	Name      string         `gorm:"column:name;type:varchar(150);not null;uniqueIndex:idx_sites_tenant_name"`
	Address   string         `gorm:"column:address;type:varchar(255)"`
	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Site) TableName() string {
	return "sites"
}
