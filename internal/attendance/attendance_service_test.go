package attendance_test

import (
	"context"
	"encoding/json"
	"sort"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/TAIYOKONO/kintaikanri/internal/attendance"
	attendanceerrors "github.com/TAIYOKONO/kintaikanri/internal/attendance/errors"
	"github.com/TAIYOKONO/kintaikanri/internal/history"
	"github.com/TAIYOKONO/kintaikanri/internal/shared/businessday"
	"github.com/TAIYOKONO/kintaikanri/internal/user"
)

// memRepo is an in-memory Repository good enough to drive the state
// machine without a database.
type memRepo struct {
	records map[string]*attendance.AttendanceRecord
	breaks  map[string]*attendance.BreakInterval
	now     func() time.Time
}

func newMemRepo(now func() time.Time) *memRepo {
	return &memRepo{
		records: map[string]*attendance.AttendanceRecord{},
		breaks:  map[string]*attendance.BreakInterval{},
		now:     now,
	}
}

func (m *memRepo) WithTx(tx *gorm.DB) attendance.Repository { return m }

func (m *memRepo) CreateRecord(ctx context.Context, rec *attendance.AttendanceRecord) error {
	rec.CreatedAt = m.now()
	cp := *rec
	m.records[rec.ID.String()] = &cp
	return nil
}

func (m *memRepo) GetRecordByID(ctx context.Context, tenantID, id string) (*attendance.AttendanceRecord, error) {
	rec, ok := m.records[id]
	if !ok || rec.TenantID != tenantID {
		return nil, gorm.ErrRecordNotFound
	}
	return m.withBreaks(rec), nil
}

func (m *memRepo) FindLatestByUserAndDate(ctx context.Context, tenantID, userID, date string) (*attendance.AttendanceRecord, error) {
	var candidates []*attendance.AttendanceRecord
	for _, rec := range m.records {
		if rec.TenantID == tenantID && rec.UserID.String() == userID && rec.Date == date {
			candidates = append(candidates, rec)
		}
	}
	if len(candidates) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].CreatedAt.After(candidates[j].CreatedAt)
	})
	return m.withBreaks(candidates[0]), nil
}

func (m *memRepo) UpdateRecord(ctx context.Context, rec *attendance.AttendanceRecord) error {
	cp := *rec
	cp.Breaks = nil
	m.records[rec.ID.String()] = &cp
	return nil
}

func (m *memRepo) DeleteRecord(ctx context.Context, tenantID, id string) error {
	if _, ok := m.records[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.records, id)
	return nil
}

func (m *memRepo) List(ctx context.Context, tenantID string, filter attendance.ListFilter) ([]attendance.AttendanceRecord, error) {
	var out []attendance.AttendanceRecord
	for _, rec := range m.records {
		if rec.TenantID != tenantID {
			continue
		}
		if filter.Date != "" && rec.Date != filter.Date {
			continue
		}
		if filter.UserID != "" && rec.UserID.String() != filter.UserID {
			continue
		}
		if filter.SiteName != "" && rec.SiteName != filter.SiteName {
			continue
		}
		out = append(out, *m.withBreaks(rec))
	}
	return out, nil
}

func (m *memRepo) FindRecentByUser(ctx context.Context, tenantID, userID string, limit int) ([]attendance.AttendanceRecord, error) {
	rows, _ := m.List(ctx, tenantID, attendance.ListFilter{UserID: userID})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (m *memRepo) CreateBreak(ctx context.Context, b *attendance.BreakInterval) error {
	cp := *b
	m.breaks[b.ID.String()] = &cp
	return nil
}

func (m *memRepo) FindOpenBreak(ctx context.Context, tenantID, attendanceID string) (*attendance.BreakInterval, error) {
	for _, b := range m.breaks {
		if b.TenantID == tenantID && b.AttendanceID.String() == attendanceID && b.EndTime == nil {
			cp := *b
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memRepo) ListBreaks(ctx context.Context, tenantID, attendanceID string) ([]attendance.BreakInterval, error) {
	var out []attendance.BreakInterval
	for _, b := range m.breaks {
		if b.TenantID == tenantID && b.AttendanceID.String() == attendanceID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memRepo) UpdateBreak(ctx context.Context, b *attendance.BreakInterval) error {
	cp := *b
	m.breaks[b.ID.String()] = &cp
	return nil
}

func (m *memRepo) DeleteBreaksByAttendance(ctx context.Context, tenantID, attendanceID string) error {
	for id, b := range m.breaks {
		if b.TenantID == tenantID && b.AttendanceID.String() == attendanceID {
			delete(m.breaks, id)
		}
	}
	return nil
}

func (m *memRepo) withBreaks(rec *attendance.AttendanceRecord) *attendance.AttendanceRecord {
	cp := *rec
	cp.Breaks, _ = m.ListBreaks(context.Background(), rec.TenantID, rec.ID.String())
	return &cp
}

type memHistoryRepo struct {
	entries []*history.Entry
}

func (m *memHistoryRepo) WithTx(tx *gorm.DB) history.Repository { return m }
func (m *memHistoryRepo) Create(ctx context.Context, e *history.Entry) error {
	e.CreatedAt = time.Now()
	m.entries = append(m.entries, e)
	return nil
}
func (m *memHistoryRepo) ListByAttendance(ctx context.Context, tenantID, attendanceID string) ([]history.Entry, error) {
	var out []history.Entry
	for _, e := range m.entries {
		if e.TenantID == tenantID && e.AttendanceID.String() == attendanceID {
			out = append(out, *e)
		}
	}
	return out, nil
}

type memUserRepo struct{}

func (memUserRepo) WithTx(tx *gorm.DB) user.Repository                   { return memUserRepo{} }
func (memUserRepo) Create(ctx context.Context, u *user.User) error       { return nil }
func (memUserRepo) GetByID(ctx context.Context, id string) (*user.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (memUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (memUserRepo) FindAllByTenant(ctx context.Context, tenantID string) ([]user.User, error) {
	return nil, nil
}
func (memUserRepo) Update(ctx context.Context, u *user.User) error { return nil }
func (memUserRepo) GetGlobalByEmail(ctx context.Context, email string) (*user.GlobalUser, error) {
	return nil, gorm.ErrRecordNotFound
}
func (memUserRepo) UpsertGlobal(ctx context.Context, g *user.GlobalUser) error { return nil }

type fixture struct {
	svc    attendance.Service
	repo   *memRepo
	hist   *memHistoryRepo
	mock   sqlmock.Sqlmock
	now    time.Time
	tenant string
	userID string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 mockDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	assert.NoError(t, err)

	f := &fixture{
		mock:   mock,
		now:    time.Date(2026, 8, 31, 9, 0, 0, 0, businessday.Location()),
		tenant: "acme-corp-abc",
		userID: uuid.NewString(),
	}
	f.repo = newMemRepo(func() time.Time { return f.now })
	f.hist = &memHistoryRepo{}
	f.svc = attendance.NewServiceWithClock(db, f.repo, f.hist, memUserRepo{}, nil, func() time.Time { return f.now })
	return f
}

func (f *fixture) advanceTo(hour, minute int) {
	f.now = time.Date(2026, 8, 31, hour, minute, 0, 0, businessday.Location())
}

// expectTx queues n transaction begin/commit pairs.
func (f *fixture) expectTx(n int) {
	for i := 0; i < n; i++ {
		f.mock.ExpectBegin()
		f.mock.ExpectCommit()
	}
}

func TestFullWorkday(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.expectTx(2) // start break, end break

	status, err := f.svc.Status(ctx, f.tenant, f.userID)
	assert.NoError(t, err)
	assert.Equal(t, attendance.StateWaiting, status.State)

	rec, err := f.svc.ClockIn(ctx, f.tenant, f.userID, attendance.ClockInRequest{SiteName: "Tokyo Office"})
	assert.NoError(t, err)
	assert.Equal(t, attendance.StateWorking, rec.Status)
	assert.Equal(t, "09:00", rec.StartTime)
	assert.Equal(t, "2026-08-31", rec.Date)

	f.advanceTo(12, 0)
	rec, err = f.svc.StartBreak(ctx, f.tenant, f.userID)
	assert.NoError(t, err)
	assert.Equal(t, attendance.StateBreak, rec.Status)

	f.advanceTo(13, 0)
	rec, err = f.svc.EndBreak(ctx, f.tenant, f.userID)
	assert.NoError(t, err)
	assert.Equal(t, attendance.StateWorking, rec.Status)

	f.advanceTo(18, 0)
	rec, err = f.svc.ClockOut(ctx, f.tenant, f.userID)
	assert.NoError(t, err)
	assert.Equal(t, attendance.StateCompleted, rec.Status)
	assert.Equal(t, 60, rec.BreakTotal)
	assert.NotNil(t, rec.NetMinutes)
	assert.Equal(t, 480, *rec.NetMinutes)
	assert.Equal(t, "8 hours 0 minutes", rec.NetDuration)

	status, err = f.svc.Status(ctx, f.tenant, f.userID)
	assert.NoError(t, err)
	assert.Equal(t, attendance.StateCompleted, status.State)
}

func TestClockIn_OncePerDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.ClockIn(ctx, f.tenant, f.userID, attendance.ClockInRequest{SiteName: "Tokyo Office"})
	assert.NoError(t, err)

	_, err = f.svc.ClockIn(ctx, f.tenant, f.userID, attendance.ClockInRequest{SiteName: "Tokyo Office"})
	assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyClockedIn)
}

func TestClockOut_Preconditions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("without clock in", func(t *testing.T) {
		_, err := f.svc.ClockOut(ctx, f.tenant, f.userID)
		assert.ErrorIs(t, err, attendanceerrors.ErrNotClockedIn)
	})

	_, err := f.svc.ClockIn(ctx, f.tenant, f.userID, attendance.ClockInRequest{SiteName: "Tokyo Office"})
	assert.NoError(t, err)

	t.Run("rejected while a break is open", func(t *testing.T) {
		f.expectTx(2) // start break, end break

		f.advanceTo(12, 0)
		_, err := f.svc.StartBreak(ctx, f.tenant, f.userID)
		assert.NoError(t, err)

		_, err = f.svc.ClockOut(ctx, f.tenant, f.userID)
		assert.ErrorIs(t, err, attendanceerrors.ErrBreakOpen)

		f.advanceTo(13, 0)
		_, err = f.svc.EndBreak(ctx, f.tenant, f.userID)
		assert.NoError(t, err)
	})

	t.Run("terminal after clock out", func(t *testing.T) {
		f.advanceTo(18, 0)
		_, err := f.svc.ClockOut(ctx, f.tenant, f.userID)
		assert.NoError(t, err)

		_, err = f.svc.ClockOut(ctx, f.tenant, f.userID)
		assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyCompleted)

		_, err = f.svc.StartBreak(ctx, f.tenant, f.userID)
		assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyCompleted)
	})
}

func TestBreak_Preconditions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.ClockIn(ctx, f.tenant, f.userID, attendance.ClockInRequest{SiteName: "Tokyo Office"})
	assert.NoError(t, err)

	t.Run("end without open break", func(t *testing.T) {
		_, err := f.svc.EndBreak(ctx, f.tenant, f.userID)
		assert.ErrorIs(t, err, attendanceerrors.ErrNoOpenBreak)
	})

	t.Run("double start rejected", func(t *testing.T) {
		f.expectTx(1)

		f.advanceTo(12, 0)
		_, err := f.svc.StartBreak(ctx, f.tenant, f.userID)
		assert.NoError(t, err)

		_, err = f.svc.StartBreak(ctx, f.tenant, f.userID)
		assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyOnBreak)
	})

	t.Run("end break resolves to working", func(t *testing.T) {
		f.expectTx(1)

		f.advanceTo(12, 30)
		_, err := f.svc.EndBreak(ctx, f.tenant, f.userID)
		assert.NoError(t, err)

		status, err := f.svc.Status(ctx, f.tenant, f.userID)
		assert.NoError(t, err)
		assert.Equal(t, attendance.StateWorking, status.State)
	})
}

func TestDuplicateRecords_LatestWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uid := uuid.MustParse(f.userID)

	// two same-day rows created out of band; the newer one is authoritative
	older := &attendance.AttendanceRecord{
		ID: uuid.New(), TenantID: f.tenant, UserID: uid,
		Date: "2026-08-31", StartTime: f.now, Status: attendance.StateWorking,
	}
	assert.NoError(t, f.repo.CreateRecord(ctx, older))

	f.advanceTo(9, 30)
	end := f.now
	newer := &attendance.AttendanceRecord{
		ID: uuid.New(), TenantID: f.tenant, UserID: uid,
		Date: "2026-08-31", StartTime: f.now, EndTime: &end, Status: attendance.StateCompleted,
	}
	assert.NoError(t, f.repo.CreateRecord(ctx, newer))

	status, err := f.svc.Status(ctx, f.tenant, f.userID)
	assert.NoError(t, err)
	assert.Equal(t, attendance.StateCompleted, status.State)
	assert.Equal(t, newer.ID.String(), status.Record.ID)
}

func TestAdminUpdate_WritesHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	editor := uuid.NewString()

	rec, err := f.svc.ClockIn(ctx, f.tenant, f.userID, attendance.ClockInRequest{SiteName: "Tokyo Office"})
	assert.NoError(t, err)

	f.expectTx(1)
	updated, err := f.svc.AdminUpdate(ctx, f.tenant, rec.ID, editor, attendance.AdminUpdateRequest{
		EndTime:  "18:00",
		SiteName: "Osaka Office",
		Reason:   "forgot to clock out",
	})
	assert.NoError(t, err)
	assert.Equal(t, attendance.StateCompleted, updated.Status)
	assert.Equal(t, "Osaka Office", updated.SiteName)

	entries, err := f.svc.History(ctx, f.tenant, rec.ID)
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, history.ChangeTypeEdit, entries[0].ChangeType)
	assert.Equal(t, "forgot to clock out", entries[0].Reason)
	assert.Contains(t, entries[0].Changes, "end_time")
	assert.Contains(t, entries[0].Changes, "site_name")
	assert.NotContains(t, entries[0].Changes, "start_time")
}

func TestAdminUpdate_RejectsInvertedRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rec, err := f.svc.ClockIn(ctx, f.tenant, f.userID, attendance.ClockInRequest{SiteName: "Tokyo Office"})
	assert.NoError(t, err)

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
	_, err = f.svc.AdminUpdate(ctx, f.tenant, rec.ID, uuid.NewString(), attendance.AdminUpdateRequest{
		EndTime: "08:00", // before the 09:00 start
		Reason:  "typo",
	})
	assert.ErrorIs(t, err, attendanceerrors.ErrInvalidTimeRange)
	assert.Empty(t, f.hist.entries)
}

func TestAdminDelete_KeepsAuditTrail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rec, err := f.svc.ClockIn(ctx, f.tenant, f.userID, attendance.ClockInRequest{SiteName: "Tokyo Office"})
	assert.NoError(t, err)

	f.expectTx(1)
	assert.NoError(t, f.svc.AdminDelete(ctx, f.tenant, rec.ID, uuid.NewString(), "duplicate entry"))

	status, err := f.svc.Status(ctx, f.tenant, f.userID)
	assert.NoError(t, err)
	assert.Equal(t, attendance.StateWaiting, status.State)

	entries, err := f.svc.History(ctx, f.tenant, rec.ID)
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, history.ChangeTypeDelete, entries[0].ChangeType)
}

func TestExportCSV(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.expectTx(2)

	_, err := f.svc.ClockIn(ctx, f.tenant, f.userID, attendance.ClockInRequest{SiteName: "Tokyo Office", Notes: "on site, \"east\" gate"})
	assert.NoError(t, err)

	f.advanceTo(12, 0)
	_, err = f.svc.StartBreak(ctx, f.tenant, f.userID)
	assert.NoError(t, err)
	f.advanceTo(13, 0)
	_, err = f.svc.EndBreak(ctx, f.tenant, f.userID)
	assert.NoError(t, err)
	f.advanceTo(18, 0)
	_, err = f.svc.ClockOut(ctx, f.tenant, f.userID)
	assert.NoError(t, err)

	data, err := f.svc.ExportCSV(ctx, f.tenant, attendance.ListFilter{Date: "2026-08-31"})
	assert.NoError(t, err)

	// UTF-8 BOM so spreadsheet apps detect the encoding
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, data[:3])

	body := string(data[3:])
	assert.Contains(t, body, "employee,date,site,start,end,break_minutes,net_minutes,notes")
	assert.Contains(t, body, "2026-08-31,Tokyo Office,09:00,18:00,60,480")
	// embedded quotes survive quoting
	assert.Contains(t, body, `"on site, ""east"" gate"`)
}

func TestHistoryResponse_RoundTrip(t *testing.T) {
	changes := map[string]history.FieldChange{
		"end_time": {Before: "17:00", After: "18:00"},
	}
	entry, err := history.NewEntry("acme-corp-abc", uuid.New(), uuid.New(), history.ChangeTypeEdit, "late train", changes)
	assert.NoError(t, err)

	var decoded map[string]history.FieldChange
	assert.NoError(t, json.Unmarshal(entry.Changes, &decoded))
	assert.Equal(t, "17:00", decoded["end_time"].Before)
	assert.Equal(t, "18:00", decoded["end_time"].After)
}
