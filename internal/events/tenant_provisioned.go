package events

import "time"

const TenantProvisionedTopic = "kintai.tenant.lifecycle.v1"

type TenantProvisionedEvent struct {
	EventType   string    `json:"event_type"`
	TenantID    string    `json:"tenant_id"`
	CompanyName string    `json:"company_name"`
	AdminUserID string    `json:"admin_user_id"`
	AdminEmail  string    `json:"admin_email"`
	ApprovedBy  string    `json:"approved_by"`
	OccurredAt  time.Time `json:"occurred_at"`
}
