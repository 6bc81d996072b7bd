package invite

import (
	"time"

	"github.com/google/uuid"
)

const (
	// CodeLength is the length of a generated invite code.
	CodeLength = 32
	// DefaultMaxUses caps how many employees may register with one code.
	DefaultMaxUses = 100
	// DefaultValidity is how long a fresh code stays usable.
	DefaultValidity = 7 * 24 * time.Hour
)

type InviteCode struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Code        string     `gorm:"column:code;type:varchar(64);uniqueIndex;not null"`
	TenantID    string     `gorm:"column:tenant_id;type:text;not null;index"`
	CompanyName string     `gorm:"column:company_name;type:varchar(255);not null"`
	CreatedBy   uuid.UUID  `gorm:"column:created_by;type:uuid;not null"`
	ExpiresAt   time.Time  `gorm:"column:expires_at;not null"`
	MaxUses     int        `gorm:"column:max_uses;not null;default:100"`
	Used        int        `gorm:"column:used;not null;default:0"`
	IsActive    bool       `gorm:"column:is_active;not null;default:true"`
	LastUsedAt  *time.Time `gorm:"column:last_used_at"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

func (InviteCode) TableName() string {
	return "invite_codes"
}
