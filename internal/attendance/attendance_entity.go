package attendance

import (
	"time"

	"github.com/google/uuid"
)

const (
	// StateWaiting is virtual: no record exists for the day yet.
	StateWaiting   = "waiting"
	StateWorking   = "working"
	StateBreak     = "break"
	StateCompleted = "completed"
)

// AttendanceRecord is one employee's clock-in-to-clock-out span for one
// work date. The (tenant, user, date) key is unique, so a day has at most
// one record; deletes are hard deletes with the audit trail kept in
// attendance_history.
type AttendanceRecord struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID  string     `gorm:"column:tenant_id;type:text;not null;uniqueIndex:idx_attendance_user_date"`
	UserID    uuid.UUID  `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_attendance_user_date"`
	Date      string     `gorm:"column:date;type:varchar(10);not null;uniqueIndex:idx_attendance_user_date;index"`
	SiteName  string     `gorm:"column:site_name;type:varchar(150)"`
	Notes     string     `gorm:"column:notes;type:text"`
	StartTime time.Time  `gorm:"column:start_time;not null"`
	EndTime   *time.Time `gorm:"column:end_time"`
	Status    string     `gorm:"column:status;type:varchar(20);not null;default:working"`
	CreatedAt time.Time  `gorm:"column:created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at"`

	Breaks []BreakInterval `gorm:"foreignKey:AttendanceID"`
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}

// BreakInterval is an off-duty sub-span of one attendance record. At most
// one interval per record may be open (end_time unset) at any time.
type BreakInterval struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID     string     `gorm:"column:tenant_id;type:text;not null;index"`
	AttendanceID uuid.UUID  `gorm:"column:attendance_id;type:uuid;not null;index"`
	UserID       uuid.UUID  `gorm:"column:user_id;type:uuid;not null"`
	StartTime    time.Time  `gorm:"column:start_time;not null"`
	EndTime      *time.Time `gorm:"column:end_time"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
}

func (BreakInterval) TableName() string {
	return "break_intervals"
}

// ResolveState reconstructs the day's clock state from the record and its
// break intervals. Pure: no clock or storage access.
func ResolveState(record *AttendanceRecord, breaks []BreakInterval) string {
	if record == nil {
		return StateWaiting
	}
	if record.EndTime != nil || record.Status == StateCompleted {
		return StateCompleted
	}
	for _, b := range breaks {
		if b.EndTime == nil {
			return StateBreak
		}
	}
	return StateWorking
}
