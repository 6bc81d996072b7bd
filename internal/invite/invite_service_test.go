package invite_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/TAIYOKONO/kintaikanri/internal/invite"
	inviteerrors "github.com/TAIYOKONO/kintaikanri/internal/invite/errors"
	"github.com/TAIYOKONO/kintaikanri/internal/tenant"
)

type fakeRepo struct {
	createFn     func(ctx context.Context, code *invite.InviteCode) error
	getByCodeFn  func(ctx context.Context, code string) (*invite.InviteCode, error)
	listFn       func(ctx context.Context, tenantID string) ([]invite.InviteCode, error)
	deactivateFn func(ctx context.Context, tenantID, code string) error
	consumeFn    func(ctx context.Context, code string) (int, error)
}

func (f *fakeRepo) WithTx(tx *gorm.DB) invite.Repository { return f }
func (f *fakeRepo) Create(ctx context.Context, code *invite.InviteCode) error {
	return f.createFn(ctx, code)
}
func (f *fakeRepo) GetByCode(ctx context.Context, code string) (*invite.InviteCode, error) {
	return f.getByCodeFn(ctx, code)
}
func (f *fakeRepo) ListByTenant(ctx context.Context, tenantID string) ([]invite.InviteCode, error) {
	return f.listFn(ctx, tenantID)
}
func (f *fakeRepo) Deactivate(ctx context.Context, tenantID, code string) error {
	return f.deactivateFn(ctx, tenantID, code)
}
func (f *fakeRepo) ConsumeOne(ctx context.Context, code string) (int, error) {
	return f.consumeFn(ctx, code)
}

type fakeTenantRepo struct {
	getByIDFn func(ctx context.Context, id string) (*tenant.Tenant, error)
}

func (f *fakeTenantRepo) WithTx(tx *gorm.DB) tenant.Repository { return f }
func (f *fakeTenantRepo) Create(ctx context.Context, t *tenant.Tenant) error {
	return nil
}
func (f *fakeTenantRepo) GetByID(ctx context.Context, id string) (*tenant.Tenant, error) {
	return f.getByIDFn(ctx, id)
}
func (f *fakeTenantRepo) List(ctx context.Context) ([]tenant.Tenant, error) { return nil, nil }
func (f *fakeTenantRepo) Update(ctx context.Context, t *tenant.Tenant) error {
	return nil
}

func activeInvite() *invite.InviteCode {
	return &invite.InviteCode{
		ID:          uuid.New(),
		Code:        "abcDEF123",
		TenantID:    "acme-corp-abc123",
		CompanyName: "Acme Corp",
		ExpiresAt:   time.Now().Add(24 * time.Hour),
		MaxUses:     100,
		Used:        3,
		IsActive:    true,
	}
}

func TestService_Generate(t *testing.T) {
	ctx := context.Background()

	var saved *invite.InviteCode
	repo := &fakeRepo{
		createFn: func(ctx context.Context, code *invite.InviteCode) error {
			saved = code
			return nil
		},
	}
	tenantRepo := &fakeTenantRepo{
		getByIDFn: func(ctx context.Context, id string) (*tenant.Tenant, error) {
			return &tenant.Tenant{ID: id, CompanyName: "Acme Corp"}, nil
		},
	}

	svc := invite.NewService(repo, tenantRepo)

	resp, err := svc.Generate(ctx, "acme-corp-abc123", uuid.New().String(), invite.GenerateInviteRequest{})
	assert.NoError(t, err)

	assert.Len(t, resp.Code, invite.CodeLength)
	assert.Equal(t, "Acme Corp", resp.CompanyName)
	assert.Equal(t, invite.DefaultMaxUses, resp.MaxUses)
	assert.WithinDuration(t, time.Now().Add(invite.DefaultValidity), resp.ExpiresAt, time.Minute)

	assert.NotNil(t, saved)
	assert.True(t, saved.IsActive)
	for _, ch := range saved.Code {
		isAlnum := (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9')
		assert.True(t, isAlnum, "code must be alphanumeric, got %q", ch)
	}
}

func TestService_Validate(t *testing.T) {
	ctx := context.Background()
	tenantRepo := &fakeTenantRepo{}

	t.Run("valid code", func(t *testing.T) {
		repo := &fakeRepo{
			getByCodeFn: func(ctx context.Context, code string) (*invite.InviteCode, error) {
				return activeInvite(), nil
			},
		}
		resp, err := invite.NewService(repo, tenantRepo).Validate(ctx, "abcDEF123")
		assert.NoError(t, err)
		assert.True(t, resp.Valid)
		assert.Equal(t, "Acme Corp", resp.CompanyName)
	})

	t.Run("unknown code", func(t *testing.T) {
		repo := &fakeRepo{
			getByCodeFn: func(ctx context.Context, code string) (*invite.InviteCode, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}
		_, err := invite.NewService(repo, tenantRepo).Validate(ctx, "nope")
		assert.ErrorIs(t, err, inviteerrors.ErrInviteInvalid)
	})

	t.Run("deactivated code", func(t *testing.T) {
		inv := activeInvite()
		inv.IsActive = false
		repo := &fakeRepo{
			getByCodeFn: func(ctx context.Context, code string) (*invite.InviteCode, error) {
				return inv, nil
			},
		}
		_, err := invite.NewService(repo, tenantRepo).Validate(ctx, inv.Code)
		assert.ErrorIs(t, err, inviteerrors.ErrInviteInactive)
	})

	t.Run("expired code", func(t *testing.T) {
		inv := activeInvite()
		inv.ExpiresAt = time.Now().Add(-time.Hour)
		repo := &fakeRepo{
			getByCodeFn: func(ctx context.Context, code string) (*invite.InviteCode, error) {
				return inv, nil
			},
		}
		_, err := invite.NewService(repo, tenantRepo).Validate(ctx, inv.Code)
		assert.ErrorIs(t, err, inviteerrors.ErrInviteExpired)
	})

	t.Run("exhausted code", func(t *testing.T) {
		inv := activeInvite()
		inv.Used = inv.MaxUses
		repo := &fakeRepo{
			getByCodeFn: func(ctx context.Context, code string) (*invite.InviteCode, error) {
				return inv, nil
			},
		}
		_, err := invite.NewService(repo, tenantRepo).Validate(ctx, inv.Code)
		assert.ErrorIs(t, err, inviteerrors.ErrInviteExhausted)
	})

	// Expiry wins over quota when both apply.
	t.Run("expired and exhausted reports expired", func(t *testing.T) {
		inv := activeInvite()
		inv.ExpiresAt = time.Now().Add(-time.Hour)
		inv.Used = inv.MaxUses
		repo := &fakeRepo{
			getByCodeFn: func(ctx context.Context, code string) (*invite.InviteCode, error) {
				return inv, nil
			},
		}
		_, err := invite.NewService(repo, tenantRepo).Validate(ctx, inv.Code)
		assert.ErrorIs(t, err, inviteerrors.ErrInviteExpired)
	})
}

func TestService_Consume(t *testing.T) {
	ctx := context.Background()
	tenantRepo := &fakeTenantRepo{}

	t.Run("claims one use", func(t *testing.T) {
		inv := activeInvite()
		repo := &fakeRepo{
			consumeFn: func(ctx context.Context, code string) (int, error) {
				return inv.Used + 1, nil
			},
			getByCodeFn: func(ctx context.Context, code string) (*invite.InviteCode, error) {
				return inv, nil
			},
		}
		got, err := invite.NewService(repo, tenantRepo).Consume(ctx, nil, inv.Code)
		assert.NoError(t, err)
		assert.Equal(t, inv.TenantID, got.TenantID)
	})

	t.Run("conflict maps to specific failure", func(t *testing.T) {
		inv := activeInvite()
		inv.Used = inv.MaxUses
		repo := &fakeRepo{
			consumeFn: func(ctx context.Context, code string) (int, error) {
				return 0, invite.ErrConsumeConflict
			},
			getByCodeFn: func(ctx context.Context, code string) (*invite.InviteCode, error) {
				return inv, nil
			},
		}
		_, err := invite.NewService(repo, tenantRepo).Consume(ctx, nil, inv.Code)
		assert.ErrorIs(t, err, inviteerrors.ErrInviteExhausted)
	})
}
