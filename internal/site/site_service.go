package site

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	siteerrors "github.com/TAIYOKONO/kintaikanri/internal/site/errors"
)

const optionsCacheKeyPrefix = "sites:options:"

func optionsCacheKey(tenantID string) string {
	return optionsCacheKeyPrefix + tenantID
}

type Service interface {
	Create(ctx context.Context, tenantID string, req CreateSiteRequest) (SiteResponse, error)
	GetByID(ctx context.Context, tenantID, id string) (SiteResponse, error)
	List(ctx context.Context, tenantID string) ([]SiteResponse, error)
	Update(ctx context.Context, tenantID, id string, req UpdateSiteRequest) (SiteResponse, error)
	Delete(ctx context.Context, tenantID, id string) error

	// Options serves the clock-in picker. Read on every clock screen
	// load, so it is cached and fills are collapsed.
	Options(ctx context.Context, tenantID string) ([]SiteOption, error)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &service{
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l.Named("site"),
	}
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return siteerrors.ErrSiteNameTaken
	}
	return err
}

func (s *service) Create(ctx context.Context, tenantID string, req CreateSiteRequest) (SiteResponse, error) {
	site := &Site{
		ID:       uuid.New(),
		TenantID: tenantID,
		Name:     req.Name,
		Address:  req.Address,
	}

	if err := s.repo.Create(ctx, site); err != nil {
		return SiteResponse{}, mapUniqueViolation(err)
	}

	s.invalidateOptions(ctx, tenantID)
	s.logger.Info("site created", zap.String("tenant_id", tenantID), zap.String("site_id", site.ID.String()))

	return toSiteResponse(site), nil
}

func (s *service) GetByID(ctx context.Context, tenantID, id string) (SiteResponse, error) {
	site, err := s.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SiteResponse{}, siteerrors.ErrSiteNotFound
		}
		return SiteResponse{}, err
	}
	return toSiteResponse(site), nil
}

func (s *service) List(ctx context.Context, tenantID string) ([]SiteResponse, error) {
	rows, err := s.repo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	out := make([]SiteResponse, 0, len(rows))
	for i := range rows {
		out = append(out, toSiteResponse(&rows[i]))
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, tenantID, id string, req UpdateSiteRequest) (SiteResponse, error) {
	site, err := s.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SiteResponse{}, siteerrors.ErrSiteNotFound
		}
		return SiteResponse{}, err
	}

	site.Name = req.Name
	site.Address = req.Address
	if err := s.repo.Update(ctx, site); err != nil {
		return SiteResponse{}, mapUniqueViolation(err)
	}

	s.invalidateOptions(ctx, tenantID)
	return toSiteResponse(site), nil
}

func (s *service) Delete(ctx context.Context, tenantID, id string) error {
	err := s.repo.Delete(ctx, tenantID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return siteerrors.ErrSiteNotFound
	}
	if err != nil {
		return err
	}

	s.invalidateOptions(ctx, tenantID)
	s.logger.Info("site deleted", zap.String("tenant_id", tenantID), zap.String("site_id", id))
	return nil
}

func (s *service) Options(ctx context.Context, tenantID string) ([]SiteOption, error) {
	key := optionsCacheKey(tenantID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var opts []SiteOption
			if json.Unmarshal([]byte(cached), &opts) == nil {
				return opts, nil
			}
		}
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		rows, err := s.repo.ListByTenant(ctx, tenantID)
		if err != nil {
			return nil, err
		}

		opts := make([]SiteOption, 0, len(rows))
		for _, row := range rows {
			opts = append(opts, SiteOption{ID: row.ID.String(), Name: row.Name})
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(opts); err == nil {
				s.rdb.Set(ctx, key, jsonData, 10*time.Minute)
			}
		}

		return opts, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]SiteOption), nil
}

func (s *service) invalidateOptions(ctx context.Context, tenantID string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, optionsCacheKey(tenantID)).Err(); err != nil {
		s.logger.Warn("options cache invalidation failed",
			zap.String("tenant_id", tenantID), zap.Error(err))
	}
}
