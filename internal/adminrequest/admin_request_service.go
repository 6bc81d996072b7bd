package adminrequest

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	adminrequesterrors "github.com/TAIYOKONO/kintaikanri/internal/adminrequest/errors"
	"github.com/TAIYOKONO/kintaikanri/internal/events"
	"github.com/TAIYOKONO/kintaikanri/internal/messaging/kafka"
	"github.com/TAIYOKONO/kintaikanri/internal/shared/contextutil"
	"github.com/TAIYOKONO/kintaikanri/internal/tenant"
	"github.com/TAIYOKONO/kintaikanri/internal/user"
)

type Service interface {
	Submit(ctx context.Context, req SubmitRequest) (AdminRequestResponse, error)
	List(ctx context.Context, status string) ([]AdminRequestResponse, error)
	GetByID(ctx context.Context, id string) (AdminRequestResponse, error)
	Approve(ctx context.Context, id, reviewerID string) (ApproveResponse, error)
	Reject(ctx context.Context, id, reviewerID, reason string) (AdminRequestResponse, error)
}

type service struct {
	db         *gorm.DB
	repo       Repository
	tenantRepo tenant.Repository
	userRepo   user.Repository
	outbox     kafka.OutboxRepository
	logger     *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	tenantRepo tenant.Repository,
	userRepo user.Repository,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &service{
		db:         db,
		repo:       repo,
		tenantRepo: tenantRepo,
		userRepo:   userRepo,
		outbox:     outbox,
		logger:     l.Named("adminrequest"),
	}
}

// Submit records a workspace application. The password is hashed here so
// the plaintext never touches storage, and a notification event rides the
// same transaction.
func (s *service) Submit(ctx context.Context, req SubmitRequest) (AdminRequestResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.userRepo.GetGlobalByEmail(ctx, email); err == nil {
		return AdminRequestResponse{}, adminrequesterrors.ErrEmailAlreadyRegistered
	}

	pending, err := s.repo.HasPendingByEmail(ctx, email)
	if err != nil {
		return AdminRequestResponse{}, err
	}
	if pending {
		return AdminRequestResponse{}, adminrequesterrors.ErrPendingRequestExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return AdminRequestResponse{}, err
	}

	request := &AdminRequest{
		ID:           uuid.New(),
		CompanyName:  strings.TrimSpace(req.CompanyName),
		Email:        email,
		DisplayName:  req.DisplayName,
		Department:   req.Department,
		Phone:        req.Phone,
		PasswordHash: string(hashed),
		Status:       StatusPending,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, request); err != nil {
			return err
		}

		payload, err := json.Marshal(events.AdminRequestSubmittedEvent{
			EventType:   "admin_request.submitted",
			RequestID:   request.ID.String(),
			CompanyName: request.CompanyName,
			Email:       request.Email,
			OccurredAt:  time.Now().UTC(),
		})
		if err != nil {
			return err
		}

		return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     contextutil.GetRequestID(ctx),
			AggregateType: "admin_request",
			AggregateID:   request.ID.String(),
			EventType:     "admin_request.submitted",
			Topic:         events.AdminRequestSubmittedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		})
	})
	if err != nil {
		return AdminRequestResponse{}, err
	}

	s.logger.Info("admin request submitted",
		zap.String("request_id", request.ID.String()),
		zap.String("company_name", request.CompanyName))

	return toResponse(request), nil
}

func (s *service) List(ctx context.Context, status string) ([]AdminRequestResponse, error) {
	rows, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, err
	}

	out := make([]AdminRequestResponse, 0, len(rows))
	for i := range rows {
		out = append(out, toResponse(&rows[i]))
	}
	return out, nil
}

func (s *service) GetByID(ctx context.Context, id string) (AdminRequestResponse, error) {
	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AdminRequestResponse{}, adminrequesterrors.ErrRequestNotFound
		}
		return AdminRequestResponse{}, err
	}
	return toResponse(req), nil
}

// Approve provisions the workspace: tenant row, admin account, email
// directory entry, and review state all commit in one transaction, so a
// failure at any step leaves no half-provisioned tenant behind.
func (s *service) Approve(ctx context.Context, id, reviewerID string) (ApproveResponse, error) {
	reviewer, err := uuid.Parse(reviewerID)
	if err != nil {
		return ApproveResponse{}, err
	}

	var approved *AdminRequest
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		request, err := txRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return adminrequesterrors.ErrRequestNotFound
			}
			return err
		}
		if request.Status != StatusPending {
			return adminrequesterrors.ErrAlreadyReviewed
		}

		tenantID := tenant.NewTenantID(request.CompanyName)
		if err := s.tenantRepo.WithTx(tx).Create(ctx, &tenant.Tenant{
			ID:          tenantID,
			CompanyName: request.CompanyName,
			AdminEmail:  request.Email,
			AdminName:   request.DisplayName,
			Department:  request.Department,
			Phone:       request.Phone,
			Status:      tenant.StatusActive,
		}); err != nil {
			return err
		}

		admin := &user.User{
			ID:          uuid.New(),
			TenantID:    tenantID,
			Email:       request.Email,
			DisplayName: request.DisplayName,
			Role:        user.RoleAdmin,
			Password:    request.PasswordHash,
			IsActive:    true,
		}

		txUsers := s.userRepo.WithTx(tx)
		if err := txUsers.Create(ctx, admin); err != nil {
			return err
		}
		if err := txUsers.UpsertGlobal(ctx, &user.GlobalUser{
			Email:       request.Email,
			UserID:      admin.ID,
			TenantID:    tenantID,
			Role:        user.RoleAdmin,
			DisplayName: request.DisplayName,
		}); err != nil {
			return err
		}

		now := time.Now()
		request.Status = StatusApproved
		request.TenantID = &tenantID
		request.ReviewedBy = &reviewer
		request.ReviewedAt = &now
		if err := txRepo.Update(ctx, request); err != nil {
			return err
		}

		payload, err := json.Marshal(events.TenantProvisionedEvent{
			EventType:   "tenant.provisioned",
			TenantID:    tenantID,
			CompanyName: request.CompanyName,
			AdminUserID: admin.ID.String(),
			AdminEmail:  request.Email,
			ApprovedBy:  reviewerID,
			OccurredAt:  now.UTC(),
		})
		if err != nil {
			return err
		}

		if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     contextutil.GetRequestID(ctx),
			AggregateType: "tenant",
			AggregateID:   tenantID,
			EventType:     "tenant.provisioned",
			Topic:         events.TenantProvisionedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			return err
		}

		approved = request
		return nil
	})
	if err != nil {
		return ApproveResponse{}, err
	}

	s.logger.Info("admin request approved",
		zap.String("request_id", approved.ID.String()),
		zap.String("tenant_id", *approved.TenantID),
		zap.String("reviewed_by", reviewerID))

	return ApproveResponse{Request: toResponse(approved), TenantID: *approved.TenantID}, nil
}

func (s *service) Reject(ctx context.Context, id, reviewerID, reason string) (AdminRequestResponse, error) {
	if strings.TrimSpace(reason) == "" {
		return AdminRequestResponse{}, adminrequesterrors.ErrRejectReasonRequired
	}

	reviewer, err := uuid.Parse(reviewerID)
	if err != nil {
		return AdminRequestResponse{}, err
	}

	var rejected *AdminRequest
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		request, err := txRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return adminrequesterrors.ErrRequestNotFound
			}
			return err
		}
		if request.Status != StatusPending {
			return adminrequesterrors.ErrAlreadyReviewed
		}

		now := time.Now()
		request.Status = StatusRejected
		request.ReviewedBy = &reviewer
		request.ReviewedAt = &now
		request.RejectReason = reason
		if err := txRepo.Update(ctx, request); err != nil {
			return err
		}

		rejected = request
		return nil
	})
	if err != nil {
		return AdminRequestResponse{}, err
	}

	s.logger.Info("admin request rejected",
		zap.String("request_id", rejected.ID.String()),
		zap.String("reviewed_by", reviewerID))

	return toResponse(rejected), nil
}
