package history

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	ChangeTypeCreate = "create"
	ChangeTypeEdit   = "edit"
	ChangeTypeDelete = "delete"
)

// FieldChange records one field's value before and after an edit.
type FieldChange struct {
	Before any `json:"before"`
	After  any `json:"after"`
}

// Entry is one append-only audit record for an attendance edit. Rows are
// never updated or deleted after creation.
type Entry struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID     string         `gorm:"column:tenant_id;type:text;not null;index"`
	AttendanceID uuid.UUID      `gorm:"column:attendance_id;type:uuid;not null;index"`
	Changes      datatypes.JSON `gorm:"column:changes;type:jsonb;not null"`
	Reason       string         `gorm:"column:reason;type:text"`
	ChangedBy    uuid.UUID      `gorm:"column:changed_by;type:uuid;not null"`
	ChangeType   string         `gorm:"column:change_type;type:varchar(20);not null"`
	CreatedAt    time.Time      `gorm:"column:created_at"`
}

func (Entry) TableName() string {
	return "attendance_history"
}

// NewEntry builds an audit row from a field-change set.
func NewEntry(tenantID string, attendanceID, changedBy uuid.UUID, changeType, reason string, changes map[string]FieldChange) (*Entry, error) {
	payload, err := json.Marshal(changes)
	if err != nil {
		return nil, err
	}

	return &Entry{
		ID:           uuid.New(),
		TenantID:     tenantID,
		AttendanceID: attendanceID,
		Changes:      datatypes.JSON(payload),
		Reason:       reason,
		ChangedBy:    changedBy,
		ChangeType:   changeType,
	}, nil
}
