package events

import "time"

const AdminRequestSubmittedTopic = "kintai.adminrequest.lifecycle.v1"

type AdminRequestSubmittedEvent struct {
	EventType   string    `json:"event_type"`
	RequestID   string    `json:"request_id"`
	CompanyName string    `json:"company_name"`
	Email       string    `json:"email"`
	OccurredAt  time.Time `json:"occurred_at"`
}
