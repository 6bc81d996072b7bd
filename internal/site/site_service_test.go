package site_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/TAIYOKONO/kintaikanri/internal/site"
	siteerrors "github.com/TAIYOKONO/kintaikanri/internal/site/errors"
)

type fakeRepo struct {
	sites     map[string]*site.Site
	createErr error
	listCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{sites: map[string]*site.Site{}}
}

func (f *fakeRepo) Create(ctx context.Context, s *site.Site) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.sites[s.ID.String()] = s
	return nil
}
func (f *fakeRepo) GetByID(ctx context.Context, tenantID, id string) (*site.Site, error) {
	if s, ok := f.sites[id]; ok && s.TenantID == tenantID {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeRepo) ListByTenant(ctx context.Context, tenantID string) ([]site.Site, error) {
	f.listCalls++
	var out []site.Site
	for _, s := range f.sites {
		if s.TenantID == tenantID {
			out = append(out, *s)
		}
	}
	return out, nil
}
func (f *fakeRepo) Update(ctx context.Context, s *site.Site) error {
	f.sites[s.ID.String()] = s
	return nil
}
func (f *fakeRepo) Delete(ctx context.Context, tenantID, id string) error {
	if s, ok := f.sites[id]; ok && s.TenantID == tenantID {
		delete(f.sites, id)
		return nil
	}
	return gorm.ErrRecordNotFound
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo := newFakeRepo()
		svc := site.NewService(repo, nil)

		resp, err := svc.Create(ctx, "acme-corp-abc", site.CreateSiteRequest{Name: "Head Office", Address: "Tokyo"})
		assert.NoError(t, err)
		assert.Equal(t, "Head Office", resp.Name)
		assert.Len(t, repo.sites, 1)
	})

	t.Run("duplicate name maps to conflict", func(t *testing.T) {
		repo := newFakeRepo()
		repo.createErr = &pgconn.PgError{Code: "23505"}
		svc := site.NewService(repo, nil)

		_, err := svc.Create(ctx, "acme-corp-abc", site.CreateSiteRequest{Name: "Head Office"})
		assert.ErrorIs(t, err, siteerrors.ErrSiteNameTaken)
	})
}

func TestService_Options_CacheFlow(t *testing.T) {
	ctx := context.Background()

	repo := newFakeRepo()
	s := &site.Site{ID: uuid.New(), TenantID: "acme-corp-abc", Name: "Head Office"}
	repo.sites[s.ID.String()] = s

	rdb, mock := redismock.NewClientMock()
	svc := site.NewService(repo, rdb)

	key := "sites:options:acme-corp-abc"
	expected := []site.SiteOption{{ID: s.ID.String(), Name: "Head Office"}}
	cached, _ := json.Marshal(expected)

	// miss: fills from repo and writes through
	mock.ExpectGet(key).RedisNil()
	mock.ExpectSet(key, cached, 10*time.Minute).SetVal("OK")

	opts, err := svc.Options(ctx, "acme-corp-abc")
	assert.NoError(t, err)
	assert.Equal(t, expected, opts)
	assert.Equal(t, 1, repo.listCalls)

	// hit: served without touching the repo
	mock.ExpectGet(key).SetVal(string(cached))

	opts, err = svc.Options(ctx, "acme-corp-abc")
	assert.NoError(t, err)
	assert.Equal(t, expected, opts)
	assert.Equal(t, 1, repo.listCalls)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Delete_InvalidatesOptions(t *testing.T) {
	ctx := context.Background()

	repo := newFakeRepo()
	s := &site.Site{ID: uuid.New(), TenantID: "acme-corp-abc", Name: "Head Office"}
	repo.sites[s.ID.String()] = s

	rdb, mock := redismock.NewClientMock()
	svc := site.NewService(repo, rdb)

	mock.ExpectDel("sites:options:acme-corp-abc").SetVal(1)

	assert.NoError(t, svc.Delete(ctx, "acme-corp-abc", s.ID.String()))
	assert.NoError(t, mock.ExpectationsWereMet())

	err := svc.Delete(ctx, "acme-corp-abc", s.ID.String())
	assert.ErrorIs(t, err, siteerrors.ErrSiteNotFound)
}
