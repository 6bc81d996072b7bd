package adminrequest_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/TAIYOKONO/kintaikanri/internal/adminrequest"
	adminrequesterrors "github.com/TAIYOKONO/kintaikanri/internal/adminrequest/errors"
	"github.com/TAIYOKONO/kintaikanri/internal/messaging/kafka"
	"github.com/TAIYOKONO/kintaikanri/internal/tenant"
	"github.com/TAIYOKONO/kintaikanri/internal/user"
)

type fakeRepo struct {
	requests map[string]*adminrequest.AdminRequest
	updated  []*adminrequest.AdminRequest
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{requests: map[string]*adminrequest.AdminRequest{}}
}

func (f *fakeRepo) WithTx(tx *gorm.DB) adminrequest.Repository { return f }
func (f *fakeRepo) Create(ctx context.Context, req *adminrequest.AdminRequest) error {
	f.requests[req.ID.String()] = req
	return nil
}
func (f *fakeRepo) GetByID(ctx context.Context, id string) (*adminrequest.AdminRequest, error) {
	if r, ok := f.requests[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeRepo) GetByIDForUpdate(ctx context.Context, id string) (*adminrequest.AdminRequest, error) {
	return f.GetByID(ctx, id)
}
func (f *fakeRepo) List(ctx context.Context, status string) ([]adminrequest.AdminRequest, error) {
	var out []adminrequest.AdminRequest
	for _, r := range f.requests {
		if status == "" || r.Status == status {
			out = append(out, *r)
		}
	}
	return out, nil
}
func (f *fakeRepo) HasPendingByEmail(ctx context.Context, email string) (bool, error) {
	for _, r := range f.requests {
		if r.Email == strings.ToLower(email) && r.Status == adminrequest.StatusPending {
			return true, nil
		}
	}
	return false, nil
}
func (f *fakeRepo) Update(ctx context.Context, req *adminrequest.AdminRequest) error {
	f.updated = append(f.updated, req)
	f.requests[req.ID.String()] = req
	return nil
}

type fakeTenantRepo struct {
	created   []*tenant.Tenant
	createErr error
}

func (f *fakeTenantRepo) WithTx(tx *gorm.DB) tenant.Repository { return f }
func (f *fakeTenantRepo) Create(ctx context.Context, t *tenant.Tenant) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, t)
	return nil
}
func (f *fakeTenantRepo) GetByID(ctx context.Context, id string) (*tenant.Tenant, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeTenantRepo) List(ctx context.Context) ([]tenant.Tenant, error)  { return nil, nil }
func (f *fakeTenantRepo) Update(ctx context.Context, t *tenant.Tenant) error { return nil }

type fakeUserRepo struct {
	created  []*user.User
	upserted []*user.GlobalUser
	globals  map[string]*user.GlobalUser
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{globals: map[string]*user.GlobalUser{}}
}

func (f *fakeUserRepo) WithTx(tx *gorm.DB) user.Repository { return f }
func (f *fakeUserRepo) Create(ctx context.Context, u *user.User) error {
	f.created = append(f.created, u)
	return nil
}
func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*user.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeUserRepo) FindAllByTenant(ctx context.Context, tenantID string) ([]user.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) Update(ctx context.Context, u *user.User) error { return nil }
func (f *fakeUserRepo) GetGlobalByEmail(ctx context.Context, email string) (*user.GlobalUser, error) {
	if g, ok := f.globals[strings.ToLower(email)]; ok {
		return g, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeUserRepo) UpsertGlobal(ctx context.Context, g *user.GlobalUser) error {
	f.upserted = append(f.upserted, g)
	f.globals[g.Email] = g
	return nil
}

type fakeOutbox struct {
	created []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *gorm.DB) kafka.OutboxRepository { return f }
func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	return nil
}
func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error           { return nil }
func (f *fakeOutbox) MarkFailed(ctx context.Context, id, reason string) error { return nil }

func newTxDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 mockDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	assert.NoError(t, err)

	return db, mock
}

func submitValid(t *testing.T, svc adminrequest.Service) adminrequest.AdminRequestResponse {
	t.Helper()

	resp, err := svc.Submit(context.Background(), adminrequest.SubmitRequest{
		CompanyName: "Acme Inc",
		Email:       "Boss@Acme.example",
		DisplayName: "The Boss",
		Department:  "HR",
		Password:    "password123",
	})
	assert.NoError(t, err)
	return resp
}

func TestService_Submit(t *testing.T) {
	db, mock := newTxDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	repo := newFakeRepo()
	outbox := &fakeOutbox{}
	svc := adminrequest.NewService(db, repo, &fakeTenantRepo{}, newFakeUserRepo(), outbox)

	resp := submitValid(t, svc)

	assert.Equal(t, adminrequest.StatusPending, resp.Status)
	assert.Equal(t, "boss@acme.example", resp.Email)

	// password is hashed before the row is written
	stored := repo.requests[resp.ID]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password123")))

	assert.Len(t, outbox.created, 1)
	assert.Equal(t, "admin_request.submitted", outbox.created[0].EventType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Submit_DuplicatePending(t *testing.T) {
	db, mock := newTxDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	svc := adminrequest.NewService(db, newFakeRepo(), &fakeTenantRepo{}, newFakeUserRepo(), &fakeOutbox{})
	submitValid(t, svc)

	_, err := svc.Submit(context.Background(), adminrequest.SubmitRequest{
		CompanyName: "Acme Inc",
		Email:       "boss@acme.example",
		DisplayName: "The Boss",
		Password:    "password123",
	})
	assert.ErrorIs(t, err, adminrequesterrors.ErrPendingRequestExists)
}

func TestService_Submit_RegisteredEmail(t *testing.T) {
	userRepo := newFakeUserRepo()
	userRepo.globals["boss@acme.example"] = &user.GlobalUser{Email: "boss@acme.example"}

	svc := adminrequest.NewService(nil, newFakeRepo(), &fakeTenantRepo{}, userRepo, &fakeOutbox{})

	_, err := svc.Submit(context.Background(), adminrequest.SubmitRequest{
		CompanyName: "Acme Inc",
		Email:       "boss@acme.example",
		DisplayName: "The Boss",
		Password:    "password123",
	})
	assert.ErrorIs(t, err, adminrequesterrors.ErrEmailAlreadyRegistered)
}

func TestService_Approve(t *testing.T) {
	db, mock := newTxDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()

	repo := newFakeRepo()
	tenantRepo := &fakeTenantRepo{}
	userRepo := newFakeUserRepo()
	outbox := &fakeOutbox{}
	svc := adminrequest.NewService(db, repo, tenantRepo, userRepo, outbox)

	submitted := submitValid(t, svc)
	reviewer := uuid.NewString()

	resp, err := svc.Approve(context.Background(), submitted.ID, reviewer)
	assert.NoError(t, err)

	// tenant id derives from the company name
	assert.True(t, strings.HasPrefix(resp.TenantID, "acme-inc-"), resp.TenantID)
	assert.Equal(t, adminrequest.StatusApproved, resp.Request.Status)

	assert.Len(t, tenantRepo.created, 1)
	assert.Equal(t, resp.TenantID, tenantRepo.created[0].ID)

	// the admin account reuses the hash from submission
	assert.Len(t, userRepo.created, 1)
	admin := userRepo.created[0]
	assert.Equal(t, user.RoleAdmin, admin.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte("password123")))

	assert.Len(t, userRepo.upserted, 1)
	assert.Equal(t, resp.TenantID, userRepo.upserted[0].TenantID)

	assert.Len(t, outbox.created, 2)
	assert.Equal(t, "tenant.provisioned", outbox.created[1].EventType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Approve_AlreadyReviewed(t *testing.T) {
	db, mock := newTxDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectRollback()

	svc := adminrequest.NewService(db, newFakeRepo(), &fakeTenantRepo{}, newFakeUserRepo(), &fakeOutbox{})

	submitted := submitValid(t, svc)
	reviewer := uuid.NewString()

	_, err := svc.Approve(context.Background(), submitted.ID, reviewer)
	assert.NoError(t, err)

	_, err = svc.Approve(context.Background(), submitted.ID, reviewer)
	assert.ErrorIs(t, err, adminrequesterrors.ErrAlreadyReviewed)
}

func TestService_Approve_RollsBackOnTenantFailure(t *testing.T) {
	db, mock := newTxDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectRollback()

	repo := newFakeRepo()
	tenantRepo := &fakeTenantRepo{createErr: errors.New("tenant insert failed")}
	userRepo := newFakeUserRepo()
	svc := adminrequest.NewService(db, repo, tenantRepo, userRepo, &fakeOutbox{})

	submitted := submitValid(t, svc)

	_, err := svc.Approve(context.Background(), submitted.ID, uuid.NewString())
	assert.Error(t, err)

	// nothing else was written and the request stays pending
	assert.Empty(t, userRepo.created)
	got, _ := svc.GetByID(context.Background(), submitted.ID)
	assert.Equal(t, adminrequest.StatusPending, got.Status)
}

func TestService_Reject(t *testing.T) {
	db, mock := newTxDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()

	svc := adminrequest.NewService(db, newFakeRepo(), &fakeTenantRepo{}, newFakeUserRepo(), &fakeOutbox{})
	submitted := submitValid(t, svc)

	resp, err := svc.Reject(context.Background(), submitted.ID, uuid.NewString(), "missing company registration")
	assert.NoError(t, err)
	assert.Equal(t, adminrequest.StatusRejected, resp.Status)
	assert.Equal(t, "missing company registration", resp.RejectReason)
	assert.NotNil(t, resp.ReviewedAt)
	assert.WithinDuration(t, time.Now(), *resp.ReviewedAt, time.Minute)

	_, err = svc.Reject(context.Background(), submitted.ID, uuid.NewString(), "")
	assert.ErrorIs(t, err, adminrequesterrors.ErrRejectReasonRequired)
}
