package invite

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/TAIYOKONO/kintaikanri/internal/middleware"
	"github.com/TAIYOKONO/kintaikanri/internal/rbac"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	// Public pre-registration check, throttled per IP.
	r.POST("/invites/validate", middleware.RateLimitByIP(rate.Limit(1), 5), h.Validate)

	invites := r.Group("/invites")
	invites.Use(middleware.AuthMiddleware(), middleware.TenantScope())
	{
		invites.POST("", middleware.RBACAuthorize(rbacService, "invite", "create"), h.Generate)
		invites.GET("", middleware.RBACAuthorize(rbacService, "invite", "read"), h.List)
		invites.DELETE("/:code", middleware.RBACAuthorize(rbacService, "invite", "delete"), h.Deactivate)
	}
}
