package user

type UserResponse struct {
	ID          string `json:"id"`
	TenantID    string `json:"tenant_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	IsActive    bool   `json:"is_active"`
}

type UpdateUserRequest struct {
	DisplayName string `json:"display_name"`
	IsActive    *bool  `json:"is_active"`
}
