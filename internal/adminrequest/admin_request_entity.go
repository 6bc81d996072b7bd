package adminrequest

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// AdminRequest is one company's application for a workspace. The password
// is hashed at submission and carried here until approval creates the
// admin account.
type AdminRequest struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyName  string     `gorm:"column:company_name;type:varchar(150);not null"`
	Email        string     `gorm:"column:email;type:varchar(255);not null;index"`
	DisplayName  string     `gorm:"column:display_name;type:varchar(255);not null"`
	Department   string     `gorm:"column:department;type:varchar(150)"`
	Phone        string     `gorm:"column:phone;type:varchar(50)"`
	PasswordHash string     `gorm:"column:password_hash;type:text;not null"`
	Status       string     `gorm:"column:status;type:varchar(20);not null;default:pending;index"`
	TenantID     *string    `gorm:"column:tenant_id;type:text"`
	ReviewedBy   *uuid.UUID `gorm:"column:reviewed_by;type:uuid"`
	ReviewedAt   *time.Time `gorm:"column:reviewed_at"`
	RejectReason string     `gorm:"column:reject_reason;type:text"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at"`
}

func (AdminRequest) TableName() string {
	return "admin_requests"
}
