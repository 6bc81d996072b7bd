package site

import (
	"github.com/gin-gonic/gin"

	"github.com/TAIYOKONO/kintaikanri/internal/middleware"
	"github.com/TAIYOKONO/kintaikanri/internal/rbac"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	sites := r.Group("/sites")
	sites.Use(middleware.AuthMiddleware(), middleware.TenantScope())
	{
		// any signed-in member needs the picker
		sites.GET("/options", h.Options)

		sites.GET("", middleware.RBACAuthorize(rbacService, "site", "read"), h.List)
		sites.GET("/:id", middleware.RBACAuthorize(rbacService, "site", "read"), h.GetByID)
		sites.POST("", middleware.RBACAuthorize(rbacService, "site", "create"), h.Create)
		sites.PUT("/:id", middleware.RBACAuthorize(rbacService, "site", "update"), h.Update)
		sites.DELETE("/:id", middleware.RBACAuthorize(rbacService, "site", "delete"), h.Delete)
	}
}
