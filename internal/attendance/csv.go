package attendance

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"
)

var csvHeader = []string{"employee", "date", "site", "start", "end", "break_minutes", "net_minutes", "notes"}

// ExportCSV renders the filtered records as a spreadsheet-ready file.
// The UTF-8 byte-order mark is required so Excel detects the encoding.
func (s *service) ExportCSV(ctx context.Context, tenantID string, filter ListFilter) ([]byte, error) {
	records, err := s.List(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Write([]byte{0xEF, 0xBB, 0xBF})

	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}

	for _, rec := range records {
		end := ""
		if rec.EndTime != nil {
			end = *rec.EndTime
		}
		net := ""
		if rec.NetMinutes != nil {
			net = strconv.Itoa(*rec.NetMinutes)
		}

		row := []string{
			rec.UserName,
			rec.Date,
			rec.SiteName,
			rec.StartTime,
			end,
			strconv.Itoa(rec.BreakTotal),
			net,
			rec.Notes,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
