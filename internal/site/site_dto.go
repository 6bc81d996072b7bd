package site

import "time"

type CreateSiteRequest struct {
	Name    string `json:"name" binding:"required,max=150"`
	Address string `json:"address" binding:"max=255"`
}

type UpdateSiteRequest struct {
	Name    string `json:"name" binding:"required,max=150"`
	Address string `json:"address" binding:"max=255"`
}

type SiteResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SiteOption is the trimmed form served to clock-in pickers.
type SiteOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func toSiteResponse(s *Site) SiteResponse {
	return SiteResponse{
		ID:        s.ID.String(),
		Name:      s.Name,
		Address:   s.Address,
		CreatedAt: s.CreatedAt,
	}
}
