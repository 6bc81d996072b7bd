package events

import "time"

const EmployeeRegisteredTopic = "kintai.employee.lifecycle.v1"

type EmployeeRegisteredEvent struct {
	EventType  string    `json:"event_type"`
	UserID     string    `json:"user_id"`
	TenantID   string    `json:"tenant_id"`
	Email      string    `json:"email"`
	InviteCode string    `json:"invite_code"`
	OccurredAt time.Time `json:"occurred_at"`
}
