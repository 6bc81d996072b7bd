package attendance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	attendanceerrors "github.com/TAIYOKONO/kintaikanri/internal/attendance/errors"
	"github.com/TAIYOKONO/kintaikanri/internal/history"
	"github.com/TAIYOKONO/kintaikanri/internal/shared/businessday"
	"github.com/TAIYOKONO/kintaikanri/internal/user"
	"github.com/google/uuid"
)

const lastSiteTTL = 30 * 24 * time.Hour

func lastSiteKey(tenantID, userID string) string {
	return fmt.Sprintf("attendance:lastsite:%s:%s", tenantID, userID)
}

type Service interface {
	Status(ctx context.Context, tenantID, userID string) (StatusResponse, error)
	ClockIn(ctx context.Context, tenantID, userID string, req ClockInRequest) (RecordResponse, error)
	ClockOut(ctx context.Context, tenantID, userID string) (RecordResponse, error)
	StartBreak(ctx context.Context, tenantID, userID string) (RecordResponse, error)
	EndBreak(ctx context.Context, tenantID, userID string) (RecordResponse, error)
	Recent(ctx context.Context, tenantID, userID string, limit int) ([]RecordResponse, error)

	List(ctx context.Context, tenantID string, filter ListFilter) ([]RecordResponse, error)
	AdminUpdate(ctx context.Context, tenantID, id, changedBy string, req AdminUpdateRequest) (RecordResponse, error)
	AdminDelete(ctx context.Context, tenantID, id, changedBy, reason string) error
	History(ctx context.Context, tenantID, id string) ([]HistoryResponse, error)
	ExportCSV(ctx context.Context, tenantID string, filter ListFilter) ([]byte, error)
}

type HistoryResponse struct {
	ID         string                         `json:"id"`
	Changes    map[string]history.FieldChange `json:"changes"`
	Reason     string                         `json:"reason,omitempty"`
	ChangedBy  string                         `json:"changed_by"`
	ChangeType string                         `json:"change_type"`
	CreatedAt  time.Time                      `json:"created_at"`
}

type service struct {
	db          *gorm.DB
	repo        Repository
	historyRepo history.Repository
	userRepo    user.Repository
	rdb         *redis.Client
	logger      *zap.Logger
	now         func() time.Time
}

func NewService(
	db *gorm.DB,
	repo Repository,
	historyRepo history.Repository,
	userRepo user.Repository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &service{
		db:          db,
		repo:        repo,
		historyRepo: historyRepo,
		userRepo:    userRepo,
		rdb:         rdb,
		logger:      l.Named("attendance"),
		now:         time.Now,
	}
}

// NewServiceWithClock injects the time source for deterministic tests.
func NewServiceWithClock(
	db *gorm.DB,
	repo Repository,
	historyRepo history.Repository,
	userRepo user.Repository,
	rdb *redis.Client,
	now func() time.Time,
) Service {
	s := NewService(db, repo, historyRepo, userRepo, rdb).(*service)
	s.now = now
	return s
}

func (s *service) today() string {
	return businessday.DateOf(s.now())
}

func (s *service) findToday(ctx context.Context, tenantID, userID string) (*AttendanceRecord, error) {
	rec, err := s.repo.FindLatestByUserAndDate(ctx, tenantID, userID, s.today())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

func (s *service) Status(ctx context.Context, tenantID, userID string) (StatusResponse, error) {
	rec, err := s.findToday(ctx, tenantID, userID)
	if err != nil {
		return StatusResponse{}, err
	}

	resp := StatusResponse{State: ResolveState(rec, breaksOf(rec))}
	if rec != nil {
		r := toRecordResponse(rec, "")
		resp.Record = &r
	}

	if s.rdb != nil {
		if site, err := s.rdb.Get(ctx, lastSiteKey(tenantID, userID)).Result(); err == nil {
			resp.LastSite = site
		}
	}

	return resp, nil
}

// ClockIn opens the day's record. The unique (tenant, user, date) index
// backs the application-level check, so two devices racing on the same
// day cannot both create a record.
func (s *service) ClockIn(ctx context.Context, tenantID, userID string, req ClockInRequest) (RecordResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return RecordResponse{}, err
	}

	existing, err := s.findToday(ctx, tenantID, userID)
	if err != nil {
		return RecordResponse{}, err
	}
	if existing != nil {
		return RecordResponse{}, attendanceerrors.ErrAlreadyClockedIn
	}

	rec := &AttendanceRecord{
		ID:        uuid.New(),
		TenantID:  tenantID,
		UserID:    uid,
		Date:      s.today(),
		SiteName:  req.SiteName,
		Notes:     req.Notes,
		StartTime: s.now(),
		Status:    StateWorking,
	}

	if err := s.repo.CreateRecord(ctx, rec); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return RecordResponse{}, attendanceerrors.ErrAlreadyClockedIn
		}
		return RecordResponse{}, err
	}

	if s.rdb != nil {
		s.rdb.Set(ctx, lastSiteKey(tenantID, userID), req.SiteName, lastSiteTTL)
	}

	s.logger.Info("clock in",
		zap.String("tenant_id", tenantID),
		zap.String("user_id", userID),
		zap.String("date", rec.Date),
		zap.String("site", req.SiteName))

	return toRecordResponse(rec, ""), nil
}

// ClockOut closes the day. An open break must be ended first; closing it
// implicitly would silently hide off-duty time.
func (s *service) ClockOut(ctx context.Context, tenantID, userID string) (RecordResponse, error) {
	rec, err := s.findToday(ctx, tenantID, userID)
	if err != nil {
		return RecordResponse{}, err
	}
	if rec == nil {
		return RecordResponse{}, attendanceerrors.ErrNotClockedIn
	}

	switch ResolveState(rec, rec.Breaks) {
	case StateCompleted:
		return RecordResponse{}, attendanceerrors.ErrAlreadyCompleted
	case StateBreak:
		return RecordResponse{}, attendanceerrors.ErrBreakOpen
	}

	end := s.now()
	rec.EndTime = &end
	rec.Status = StateCompleted
	if err := s.repo.UpdateRecord(ctx, rec); err != nil {
		return RecordResponse{}, err
	}

	s.logger.Info("clock out",
		zap.String("tenant_id", tenantID),
		zap.String("user_id", userID),
		zap.String("date", rec.Date))

	return toRecordResponse(rec, ""), nil
}

func (s *service) StartBreak(ctx context.Context, tenantID, userID string) (RecordResponse, error) {
	rec, err := s.findToday(ctx, tenantID, userID)
	if err != nil {
		return RecordResponse{}, err
	}
	if rec == nil {
		return RecordResponse{}, attendanceerrors.ErrNotClockedIn
	}

	switch ResolveState(rec, rec.Breaks) {
	case StateCompleted:
		return RecordResponse{}, attendanceerrors.ErrAlreadyCompleted
	case StateBreak:
		return RecordResponse{}, attendanceerrors.ErrAlreadyOnBreak
	}

	b := &BreakInterval{
		ID:           uuid.New(),
		TenantID:     tenantID,
		AttendanceID: rec.ID,
		UserID:       rec.UserID,
		StartTime:    s.now(),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.CreateBreak(ctx, b); err != nil {
			return err
		}
		rec.Status = StateBreak
		return txRepo.UpdateRecord(ctx, rec)
	})
	if err != nil {
		return RecordResponse{}, err
	}

	rec.Breaks = append(rec.Breaks, *b)
	return toRecordResponse(rec, ""), nil
}

func (s *service) EndBreak(ctx context.Context, tenantID, userID string) (RecordResponse, error) {
	rec, err := s.findToday(ctx, tenantID, userID)
	if err != nil {
		return RecordResponse{}, err
	}
	if rec == nil {
		return RecordResponse{}, attendanceerrors.ErrNotClockedIn
	}

	open, err := s.repo.FindOpenBreak(ctx, tenantID, rec.ID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RecordResponse{}, attendanceerrors.ErrNoOpenBreak
		}
		return RecordResponse{}, err
	}

	end := s.now()
	open.EndTime = &end

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.UpdateBreak(ctx, open); err != nil {
			return err
		}
		rec.Status = StateWorking
		return txRepo.UpdateRecord(ctx, rec)
	})
	if err != nil {
		return RecordResponse{}, err
	}

	for i := range rec.Breaks {
		if rec.Breaks[i].ID == open.ID {
			rec.Breaks[i] = *open
		}
	}
	return toRecordResponse(rec, ""), nil
}

func (s *service) Recent(ctx context.Context, tenantID, userID string, limit int) ([]RecordResponse, error) {
	if limit <= 0 || limit > 31 {
		limit = 7
	}

	rows, err := s.repo.FindRecentByUser(ctx, tenantID, userID, limit)
	if err != nil {
		return nil, err
	}

	out := make([]RecordResponse, 0, len(rows))
	for i := range rows {
		out = append(out, toRecordResponse(&rows[i], ""))
	}
	return out, nil
}

func (s *service) List(ctx context.Context, tenantID string, filter ListFilter) ([]RecordResponse, error) {
	if filter.Date != "" {
		if _, err := businessday.ParseDate(filter.Date); err != nil {
			return nil, attendanceerrors.ErrInvalidDate
		}
	}

	rows, err := s.repo.List(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	names, err := s.displayNames(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	out := make([]RecordResponse, 0, len(rows))
	for i := range rows {
		out = append(out, toRecordResponse(&rows[i], names[rows[i].UserID.String()]))
	}
	return out, nil
}

// AdminUpdate edits a record and appends the audit entry in the same
// transaction, so the record never changes without a trail.
func (s *service) AdminUpdate(ctx context.Context, tenantID, id, changedBy string, req AdminUpdateRequest) (RecordResponse, error) {
	editor, err := uuid.Parse(changedBy)
	if err != nil {
		return RecordResponse{}, err
	}

	var updated *AttendanceRecord
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		rec, err := txRepo.GetRecordByID(ctx, tenantID, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return attendanceerrors.ErrRecordNotFound
			}
			return err
		}

		changes := map[string]history.FieldChange{}

		if req.StartTime != "" {
			start, err := s.parseClock(rec.Date, req.StartTime)
			if err != nil {
				return err
			}
			if !start.Equal(rec.StartTime) {
				changes["start_time"] = history.FieldChange{Before: formatClock(rec.StartTime), After: req.StartTime}
				rec.StartTime = start
			}
		}

		if req.EndTime != "" {
			end, err := s.parseClock(rec.Date, req.EndTime)
			if err != nil {
				return err
			}
			if rec.EndTime == nil || !end.Equal(*rec.EndTime) {
				before := any(nil)
				if rec.EndTime != nil {
					before = formatClock(*rec.EndTime)
				}
				changes["end_time"] = history.FieldChange{Before: before, After: req.EndTime}
				rec.EndTime = &end
				rec.Status = StateCompleted
			}
		}

		if rec.EndTime != nil && !rec.EndTime.After(rec.StartTime) {
			return attendanceerrors.ErrInvalidTimeRange
		}

		if req.SiteName != "" && req.SiteName != rec.SiteName {
			changes["site_name"] = history.FieldChange{Before: rec.SiteName, After: req.SiteName}
			rec.SiteName = req.SiteName
		}
		if req.Notes != "" && req.Notes != rec.Notes {
			changes["notes"] = history.FieldChange{Before: rec.Notes, After: req.Notes}
			rec.Notes = req.Notes
		}

		if len(changes) == 0 {
			updated = rec
			return nil
		}

		if err := txRepo.UpdateRecord(ctx, rec); err != nil {
			return err
		}

		entry, err := history.NewEntry(tenantID, rec.ID, editor, history.ChangeTypeEdit, req.Reason, changes)
		if err != nil {
			return err
		}
		if err := s.historyRepo.WithTx(tx).Create(ctx, entry); err != nil {
			return err
		}

		updated = rec
		return nil
	})
	if err != nil {
		return RecordResponse{}, err
	}

	s.logger.Info("attendance edited",
		zap.String("tenant_id", tenantID),
		zap.String("attendance_id", id),
		zap.String("changed_by", changedBy))

	return toRecordResponse(updated, ""), nil
}

// AdminDelete removes the record and its breaks; the audit entry keeps a
// snapshot of what was deleted.
func (s *service) AdminDelete(ctx context.Context, tenantID, id, changedBy, reason string) error {
	editor, err := uuid.Parse(changedBy)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		rec, err := txRepo.GetRecordByID(ctx, tenantID, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return attendanceerrors.ErrRecordNotFound
			}
			return err
		}

		if err := txRepo.DeleteBreaksByAttendance(ctx, tenantID, id); err != nil {
			return err
		}
		if err := txRepo.DeleteRecord(ctx, tenantID, id); err != nil {
			return err
		}

		changes := map[string]history.FieldChange{
			"date":       {Before: rec.Date, After: nil},
			"site_name":  {Before: rec.SiteName, After: nil},
			"start_time": {Before: formatClock(rec.StartTime), After: nil},
		}
		if rec.EndTime != nil {
			changes["end_time"] = history.FieldChange{Before: formatClock(*rec.EndTime), After: nil}
		}

		entry, err := history.NewEntry(tenantID, rec.ID, editor, history.ChangeTypeDelete, reason, changes)
		if err != nil {
			return err
		}
		return s.historyRepo.WithTx(tx).Create(ctx, entry)
	})
	if err != nil {
		return err
	}

	s.logger.Info("attendance deleted",
		zap.String("tenant_id", tenantID),
		zap.String("attendance_id", id),
		zap.String("changed_by", changedBy))

	return nil
}

func (s *service) History(ctx context.Context, tenantID, id string) ([]HistoryResponse, error) {
	rows, err := s.historyRepo.ListByAttendance(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	out := make([]HistoryResponse, 0, len(rows))
	for _, row := range rows {
		resp := HistoryResponse{
			ID:         row.ID.String(),
			Reason:     row.Reason,
			ChangedBy:  row.ChangedBy.String(),
			ChangeType: row.ChangeType,
			CreatedAt:  row.CreatedAt,
		}
		if err := json.Unmarshal(row.Changes, &resp.Changes); err != nil {
			s.logger.Warn("malformed history changes",
				zap.String("history_id", row.ID.String()), zap.Error(err))
			resp.Changes = map[string]history.FieldChange{}
		}
		out = append(out, resp)
	}
	return out, nil
}

func (s *service) parseClock(date, value string) (time.Time, error) {
	t, err := time.ParseInLocation(businessday.DateLayout+" "+clockLayout, date+" "+value, businessday.Location())
	if err != nil {
		return time.Time{}, attendanceerrors.ErrInvalidTimeRange
	}
	return t, nil
}

func (s *service) displayNames(ctx context.Context, tenantID string) (map[string]string, error) {
	users, err := s.userRepo.FindAllByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID.String()] = u.DisplayName
	}
	return names, nil
}

func breaksOf(rec *AttendanceRecord) []BreakInterval {
	if rec == nil {
		return nil
	}
	return rec.Breaks
}
