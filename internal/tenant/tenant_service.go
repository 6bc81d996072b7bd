package tenant

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	tenanterrors "github.com/TAIYOKONO/kintaikanri/internal/tenant/errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const tenantCacheKeyPrefix = "tenants:info:"

func cacheKey(tenantID string) string {
	return tenantCacheKeyPrefix + tenantID
}

type Service interface {
	GetByID(ctx context.Context, id string) (TenantResponse, error)
	List(ctx context.Context) ([]TenantResponse, error)
	SetStatus(ctx context.Context, id string, req UpdateTenantStatusRequest) (TenantResponse, error)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("tenant.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("tenant.service")
	}
	return &service{
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

// GetByID resolves tenant info, consulted on nearly every request, so it
// is cached in Redis and concurrent fills are collapsed via singleflight.
func (s *service) GetByID(ctx context.Context, id string) (TenantResponse, error) {
	if id == "" {
		return TenantResponse{}, tenanterrors.ErrInvalidTenantID
	}

	key := cacheKey(id)
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var resp TenantResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		t, err := s.repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return TenantResponse{}, tenanterrors.ErrTenantNotFound
			}
			return TenantResponse{}, err
		}

		resp := mapToResponse(*t)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, key, jsonData, 10*time.Minute)
			}
		}

		return resp, nil
	})

	if err != nil {
		return TenantResponse{}, err
	}

	return v.(TenantResponse), nil
}

func (s *service) List(ctx context.Context) ([]TenantResponse, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]TenantResponse, len(rows))
	for i, t := range rows {
		res[i] = mapToResponse(t)
	}
	return res, nil
}

func (s *service) SetStatus(ctx context.Context, id string, req UpdateTenantStatusRequest) (TenantResponse, error) {
	if req.Status != StatusActive && req.Status != StatusInactive {
		return TenantResponse{}, tenanterrors.ErrInvalidStatus
	}

	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TenantResponse{}, tenanterrors.ErrTenantNotFound
		}
		return TenantResponse{}, err
	}

	t.Status = req.Status
	if err := s.repo.Update(ctx, t); err != nil {
		return TenantResponse{}, err
	}

	if s.rdb != nil {
		if err := s.rdb.Del(ctx, cacheKey(id)).Err(); err != nil {
			s.logger.Error("failed to invalidate tenant cache",
				zap.String("tenant_id", id),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("tenant status updated",
		zap.String("tenant_id", id),
		zap.String("status", req.Status),
	)

	return mapToResponse(*t), nil
}

func mapToResponse(t Tenant) TenantResponse {
	return TenantResponse{
		ID:          t.ID,
		CompanyName: t.CompanyName,
		AdminEmail:  t.AdminEmail,
		AdminName:   t.AdminName,
		Department:  t.Department,
		Phone:       t.Phone,
		Status:      t.Status,
	}
}
