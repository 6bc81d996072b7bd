package invite

import "time"

type GenerateInviteRequest struct {
	MaxUses int `json:"max_uses" binding:"omitempty,min=1,max=1000"`
}

type ValidateInviteRequest struct {
	Code string `json:"code" binding:"required"`
}

type InviteResponse struct {
	Code        string     `json:"code"`
	CompanyName string     `json:"company_name"`
	ExpiresAt   time.Time  `json:"expires_at"`
	MaxUses     int        `json:"max_uses"`
	Used        int        `json:"used"`
	IsActive    bool       `json:"is_active"`
	LastUsedAt  *time.Time `json:"last_used_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ValidationResponse is what the public pre-registration check returns.
// It deliberately exposes nothing beyond the company name.
type ValidationResponse struct {
	Valid       bool   `json:"valid"`
	CompanyName string `json:"company_name"`
}

func toInviteResponse(inv *InviteCode) InviteResponse {
	return InviteResponse{
		Code:        inv.Code,
		CompanyName: inv.CompanyName,
		ExpiresAt:   inv.ExpiresAt,
		MaxUses:     inv.MaxUses,
		Used:        inv.Used,
		IsActive:    inv.IsActive,
		LastUsedAt:  inv.LastUsedAt,
		CreatedAt:   inv.CreatedAt,
	}
}
