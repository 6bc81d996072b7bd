package tenant

import (
	"github.com/TAIYOKONO/kintaikanri/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	tenants := r.Group("/tenants")
	tenants.Use(middleware.AuthMiddleware(), middleware.TenantScope())
	{
		tenants.GET("/me", h.Get)
		tenants.GET("", middleware.RoleMiddleware("super_admin"), h.List)
		tenants.GET("/:id", middleware.RoleMiddleware("super_admin"), h.Get)
		tenants.PATCH("/:id/status", middleware.RoleMiddleware("super_admin"), h.SetStatus)
	}
}
