package attendance

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/TAIYOKONO/kintaikanri/internal/middleware"
	"github.com/TAIYOKONO/kintaikanri/internal/rbac"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service, rdb *redis.Client) {
	group := r.Group("/attendance")
	group.Use(middleware.AuthMiddleware(), middleware.TenantScope(), middleware.RateLimitByUser(rate.Limit(5), 10))
	{
		// employee self-service
		group.GET("/status", h.Status)
		group.GET("/recent", h.Recent)
		group.POST("/clock-in", middleware.Idempotency(rdb), h.ClockIn)
		group.POST("/clock-out", middleware.Idempotency(rdb), h.ClockOut)
		group.POST("/breaks/start", h.StartBreak)
		group.POST("/breaks/end", h.EndBreak)

		// admin review
		group.GET("", middleware.RBACAuthorize(rbacService, "attendance", "read"), h.List)
		group.GET("/export", middleware.RBACAuthorize(rbacService, "attendance", "read"), h.Export)
		group.PUT("/:id", middleware.RBACAuthorize(rbacService, "attendance", "update"), h.Update)
		group.DELETE("/:id", middleware.RBACAuthorize(rbacService, "attendance", "delete"), h.Delete)
		group.GET("/:id/history", middleware.RBACAuthorize(rbacService, "attendance", "read"), h.History)
	}
}
