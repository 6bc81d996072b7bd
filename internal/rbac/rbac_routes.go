package rbac

import (
	"github.com/TAIYOKONO/kintaikanri/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	group := r.Group("/rbac")
	group.Use(middleware.AuthMiddleware(), middleware.TenantScope())
	{
		group.POST("/enforce", middleware.RoleMiddleware("admin", "super_admin"), h.Enforce)
		group.GET("/permissions", middleware.RoleMiddleware("admin", "super_admin"), h.ListPermissions)
		group.GET("/roles/:role/permissions", middleware.RoleMiddleware("admin", "super_admin"), h.GetRolePermissions)
		group.PUT("/roles/:role/permissions", middleware.RoleMiddleware("admin", "super_admin"), h.UpdateRolePermissions)
	}
}
