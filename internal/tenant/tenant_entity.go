package tenant

import (
	"time"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Tenant is one isolated company scope. The id is a human-readable slug
// derived from the company name, generated at provisioning time.
type Tenant struct {
	ID          string    `gorm:"column:id;type:text;primaryKey"`
	CompanyName string    `gorm:"column:company_name;type:varchar(150);not null"`
	AdminEmail  string    `gorm:"column:admin_email;type:varchar(255);not null;index"`
	AdminName   string    `gorm:"column:admin_name;type:varchar(255);not null"`
	Department  string    `gorm:"column:department;type:varchar(150)"`
	Phone       string    `gorm:"column:phone;type:varchar(50)"`
	Status      string    `gorm:"column:status;type:varchar(20);not null;default:active"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (Tenant) TableName() string {
	return "tenants"
}
