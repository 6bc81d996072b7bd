package domain

type EnforceRequest struct {
	UserID   string `json:"user_id"`
	TenantID string `json:"tenant_id"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
}
