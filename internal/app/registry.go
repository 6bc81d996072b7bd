package app

import (
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/TAIYOKONO/kintaikanri/internal/adminrequest"
	"github.com/TAIYOKONO/kintaikanri/internal/attendance"
	"github.com/TAIYOKONO/kintaikanri/internal/auth"
	"github.com/TAIYOKONO/kintaikanri/internal/history"
	"github.com/TAIYOKONO/kintaikanri/internal/invite"
	"github.com/TAIYOKONO/kintaikanri/internal/messaging/kafka"
	"github.com/TAIYOKONO/kintaikanri/internal/rbac"
	"github.com/TAIYOKONO/kintaikanri/internal/rbac/infra"
	"github.com/TAIYOKONO/kintaikanri/internal/site"
	"github.com/TAIYOKONO/kintaikanri/internal/tenant"
	"github.com/TAIYOKONO/kintaikanri/internal/user"
)

func registerModules(
	router *gin.Engine,
	db *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	tenantRepo := tenant.NewRepository(db)
	userRepo := user.NewRepository(db)
	inviteRepo := invite.NewRepository(db)
	adminRequestRepo := adminrequest.NewRepository(db)
	siteRepo := site.NewRepository(db)
	attendanceRepo := attendance.NewRepository(db)
	historyRepo := history.NewRepository(db)
	rbacRepo := rbac.NewRepository(db)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(filepath.Join("internal", "rbac", "infra", "model.conf"))
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Services ---
	tenantService := tenant.NewService(tenantRepo, rdb)
	userService := user.NewService(userRepo)
	inviteService := invite.NewService(inviteRepo, tenantRepo)
	authService := auth.NewService(db, userRepo, tenantRepo, inviteService, rbacService, outboxRepo)
	adminRequestService := adminrequest.NewService(db, adminRequestRepo, tenantRepo, userRepo, outboxRepo)
	siteService := site.NewService(siteRepo, rdb)
	attendanceService := attendance.NewService(db, attendanceRepo, historyRepo, userRepo, rdb)

	// --- Handlers ---
	tenantHandler := tenant.NewHandler(tenantService)
	userHandler := user.NewHandler(userService)
	inviteHandler := invite.NewHandler(inviteService)
	authHandler := auth.NewHandler(authService)
	adminRequestHandler := adminrequest.NewHandler(adminRequestService)
	siteHandler := site.NewHandler(siteService)
	attendanceHandler := attendance.NewHandler(attendanceService, rdb)
	rbacHandler := rbac.NewHandler(rbacService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		adminrequest.RegisterRoutes(api, adminRequestHandler)
		tenant.RegisterRoutes(api, tenantHandler)
		user.RegisterRoutes(api, userHandler, rbacService)
		invite.RegisterRoutes(api, inviteHandler, rbacService)
		site.RegisterRoutes(api, siteHandler, rbacService)
		attendance.RegisterRoutes(api, attendanceHandler, rbacService, rdb)
		rbac.RegisterRoutes(api, rbacHandler)
	}

	return nil
}
