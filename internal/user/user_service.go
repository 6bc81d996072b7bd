package user

import (
	"context"
	"errors"

	usererrors "github.com/TAIYOKONO/kintaikanri/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	GetAll(ctx context.Context, tenantID string) ([]UserResponse, error)
	GetByID(ctx context.Context, tenantID, id string) (UserResponse, error)
	Update(ctx context.Context, tenantID, id string, req UpdateUserRequest) (UserResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) GetAll(ctx context.Context, tenantID string) ([]UserResponse, error) {
	rows, err := s.repo.FindAllByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	res := make([]UserResponse, len(rows))
	for i, u := range rows {
		res[i] = mapToResponse(u)
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, tenantID, id string) (UserResponse, error) {
	u, err := s.getScoped(ctx, tenantID, id)
	if err != nil {
		return UserResponse{}, err
	}
	return mapToResponse(*u), nil
}

func (s *service) Update(ctx context.Context, tenantID, id string, req UpdateUserRequest) (UserResponse, error) {
	u, err := s.getScoped(ctx, tenantID, id)
	if err != nil {
		return UserResponse{}, err
	}

	if req.DisplayName != "" {
		u.DisplayName = req.DisplayName
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return UserResponse{}, err
	}

	s.logger.Info("user updated",
		zap.String("tenant_id", tenantID),
		zap.String("user_id", id),
	)

	return mapToResponse(*u), nil
}

// getScoped loads a user and verifies it belongs to the caller's tenant so
// an admin can never address another tenant's user by id.
func (s *service) getScoped(ctx context.Context, tenantID, id string) (*User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, usererrors.ErrInvalidUserID
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usererrors.ErrUserNotFound
		}
		return nil, err
	}
	if tenantID != "" && u.TenantID != tenantID {
		return nil, usererrors.ErrUserNotFound
	}
	return u, nil
}

func mapToResponse(u User) UserResponse {
	return UserResponse{
		ID:          u.ID.String(),
		TenantID:    u.TenantID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		IsActive:    u.IsActive,
	}
}
