package invite

import (
	"context"
	"crypto/rand"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	inviteerrors "github.com/TAIYOKONO/kintaikanri/internal/invite/errors"
	"github.com/TAIYOKONO/kintaikanri/internal/tenant"
)

type Service interface {
	Generate(ctx context.Context, tenantID, createdBy string, req GenerateInviteRequest) (InviteResponse, error)
	Validate(ctx context.Context, code string) (ValidationResponse, error)
	List(ctx context.Context, tenantID string) ([]InviteResponse, error)
	Deactivate(ctx context.Context, tenantID, code string) error

	// Consume runs inside the caller's registration transaction.
	Consume(ctx context.Context, tx *gorm.DB, code string) (*InviteCode, error)
}

type service struct {
	repo       Repository
	tenantRepo tenant.Repository
	logger     *zap.Logger
}

func NewService(repo Repository, tenantRepo tenant.Repository, logger ...*zap.Logger) Service {
	l := zap.L()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &service{repo: repo, tenantRepo: tenantRepo, logger: l.Named("invite")}
}

const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

func newCode() (string, error) {
	buf := make([]byte, CodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = codeCharset[int(b)%len(codeCharset)]
	}
	return string(buf), nil
}

func (s *service) Generate(ctx context.Context, tenantID, createdBy string, req GenerateInviteRequest) (InviteResponse, error) {
	t, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return InviteResponse{}, err
	}

	code, err := newCode()
	if err != nil {
		return InviteResponse{}, err
	}

	creator, err := uuid.Parse(createdBy)
	if err != nil {
		return InviteResponse{}, err
	}

	maxUses := req.MaxUses
	if maxUses == 0 {
		maxUses = DefaultMaxUses
	}

	inv := &InviteCode{
		ID:          uuid.New(),
		Code:        code,
		TenantID:    tenantID,
		CompanyName: t.CompanyName,
		CreatedBy:   creator,
		ExpiresAt:   time.Now().Add(DefaultValidity),
		MaxUses:     maxUses,
		IsActive:    true,
	}

	if err := s.repo.Create(ctx, inv); err != nil {
		return InviteResponse{}, err
	}

	s.logger.Info("invite generated",
		zap.String("tenant_id", tenantID),
		zap.String("created_by", createdBy),
		zap.Time("expires_at", inv.ExpiresAt))

	return toInviteResponse(inv), nil
}

// Validate is the public pre-registration check. Checks run in a fixed
// order so the caller always learns the most specific failure: existence,
// active flag, expiry, then quota.
func (s *service) Validate(ctx context.Context, code string) (ValidationResponse, error) {
	inv, err := s.lookup(ctx, code)
	if err != nil {
		return ValidationResponse{}, err
	}
	return ValidationResponse{Valid: true, CompanyName: inv.CompanyName}, nil
}

func (s *service) lookup(ctx context.Context, code string) (*InviteCode, error) {
	inv, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, inviteerrors.ErrInviteInvalid
		}
		return nil, err
	}

	if !inv.IsActive {
		return nil, inviteerrors.ErrInviteInactive
	}
	if time.Now().After(inv.ExpiresAt) {
		return nil, inviteerrors.ErrInviteExpired
	}
	if inv.Used >= inv.MaxUses {
		return nil, inviteerrors.ErrInviteExhausted
	}
	return inv, nil
}

func (s *service) List(ctx context.Context, tenantID string) ([]InviteResponse, error) {
	rows, err := s.repo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	out := make([]InviteResponse, 0, len(rows))
	for i := range rows {
		out = append(out, toInviteResponse(&rows[i]))
	}
	return out, nil
}

func (s *service) Deactivate(ctx context.Context, tenantID, code string) error {
	err := s.repo.Deactivate(ctx, tenantID, code)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return inviteerrors.ErrInviteInvalid
	}
	if err != nil {
		return err
	}

	s.logger.Info("invite deactivated", zap.String("tenant_id", tenantID))
	return nil
}

// Consume atomically claims one use of the code within tx. On conflict it
// re-reads the row outside the increment to map the failure to a specific
// error for the client.
func (s *service) Consume(ctx context.Context, tx *gorm.DB, code string) (*InviteCode, error) {
	txRepo := s.repo.WithTx(tx)

	_, err := txRepo.ConsumeOne(ctx, code)
	if err != nil {
		if errors.Is(err, ErrConsumeConflict) {
			if _, lookupErr := s.lookup(ctx, code); lookupErr != nil {
				return nil, lookupErr
			}
			return nil, inviteerrors.ErrInviteInvalid
		}
		return nil, err
	}

	return txRepo.GetByCode(ctx, code)
}
