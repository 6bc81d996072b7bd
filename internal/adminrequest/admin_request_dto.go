package adminrequest

import "time"

type SubmitRequest struct {
	CompanyName string `json:"company_name" binding:"required,max=150"`
	Email       string `json:"email" binding:"required,email"`
	DisplayName string `json:"display_name" binding:"required"`
	Department  string `json:"department"`
	Phone       string `json:"phone"`
	Password    string `json:"password" binding:"required,min=6"`
}

type RejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type AdminRequestResponse struct {
	ID           string     `json:"id"`
	CompanyName  string     `json:"company_name"`
	Email        string     `json:"email"`
	DisplayName  string     `json:"display_name"`
	Department   string     `json:"department,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	Status       string     `json:"status"`
	TenantID     *string    `json:"tenant_id,omitempty"`
	ReviewedBy   *string    `json:"reviewed_by,omitempty"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`
	RejectReason string     `json:"reject_reason,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

type ApproveResponse struct {
	Request  AdminRequestResponse `json:"request"`
	TenantID string               `json:"tenant_id"`
}

func toResponse(r *AdminRequest) AdminRequestResponse {
	resp := AdminRequestResponse{
		ID:           r.ID.String(),
		CompanyName:  r.CompanyName,
		Email:        r.Email,
		DisplayName:  r.DisplayName,
		Department:   r.Department,
		Phone:        r.Phone,
		Status:       r.Status,
		TenantID:     r.TenantID,
		ReviewedAt:   r.ReviewedAt,
		RejectReason: r.RejectReason,
		CreatedAt:    r.CreatedAt,
	}
	if r.ReviewedBy != nil {
		s := r.ReviewedBy.String()
		resp.ReviewedBy = &s
	}
	return resp
}
