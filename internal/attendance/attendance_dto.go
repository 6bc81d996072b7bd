package attendance

import (
	"time"

	"github.com/TAIYOKONO/kintaikanri/internal/shared/businessday"
)

const clockLayout = "15:04"

type ClockInRequest struct {
	SiteName string `json:"site_name" binding:"required,max=150"`
	Notes    string `json:"notes" binding:"max=500"`
}

type AdminUpdateRequest struct {
	StartTime string `json:"start_time" binding:"omitempty"`
	EndTime   string `json:"end_time" binding:"omitempty"`
	SiteName  string `json:"site_name" binding:"omitempty,max=150"`
	Notes     string `json:"notes" binding:"omitempty,max=500"`
	Reason    string `json:"reason" binding:"required"`
}

type AdminDeleteRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type BreakResponse struct {
	ID        string  `json:"id"`
	StartTime string  `json:"start_time"`
	EndTime   *string `json:"end_time,omitempty"`
	Minutes   *int    `json:"minutes,omitempty"`
}

type RecordResponse struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	UserName    string          `json:"user_name,omitempty"`
	Date        string          `json:"date"`
	SiteName    string          `json:"site_name"`
	Notes       string          `json:"notes,omitempty"`
	StartTime   string          `json:"start_time"`
	EndTime     *string         `json:"end_time,omitempty"`
	Status      string          `json:"status"`
	Breaks      []BreakResponse `json:"breaks"`
	BreakTotal  int             `json:"break_minutes"`
	NetMinutes  *int            `json:"net_minutes,omitempty"`
	NetDuration string          `json:"net_duration,omitempty"`
}

// StatusResponse answers "what can this employee do next?".
type StatusResponse struct {
	State    string          `json:"state"`
	Record   *RecordResponse `json:"record,omitempty"`
	LastSite string          `json:"last_site,omitempty"`
}

func formatClock(t time.Time) string {
	return t.In(businessday.Location()).Format(clockLayout)
}

func toBreakResponse(b *BreakInterval) BreakResponse {
	resp := BreakResponse{
		ID:        b.ID.String(),
		StartTime: formatClock(b.StartTime),
	}
	if b.EndTime != nil {
		end := formatClock(*b.EndTime)
		resp.EndTime = &end
		if minutes, err := IntervalMinutes(b.StartTime, b.EndTime); err == nil {
			resp.Minutes = &minutes
		}
	}
	return resp
}

func toRecordResponse(rec *AttendanceRecord, userName string) RecordResponse {
	resp := RecordResponse{
		ID:         rec.ID.String(),
		UserID:     rec.UserID.String(),
		UserName:   userName,
		Date:       rec.Date,
		SiteName:   rec.SiteName,
		Notes:      rec.Notes,
		StartTime:  formatClock(rec.StartTime),
		Status:     ResolveState(rec, rec.Breaks),
		Breaks:     make([]BreakResponse, 0, len(rec.Breaks)),
		BreakTotal: TotalBreakMinutes(rec.Breaks),
	}

	for i := range rec.Breaks {
		resp.Breaks = append(resp.Breaks, toBreakResponse(&rec.Breaks[i]))
	}

	if rec.EndTime != nil {
		end := formatClock(*rec.EndTime)
		resp.EndTime = &end
		if net, err := NetWorkingMinutes(rec.StartTime, rec.EndTime, rec.Breaks); err == nil {
			resp.NetMinutes = &net
			resp.NetDuration = FormatMinutes(net)
		}
	}

	return resp
}
