package user

import (
	"github.com/TAIYOKONO/kintaikanri/internal/middleware"
	"github.com/TAIYOKONO/kintaikanri/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware(), middleware.TenantScope())
	{
		users.GET("", middleware.RBACAuthorize(rbacService, "user", "read"), h.GetAll)
		users.GET("/:id", middleware.RBACAuthorize(rbacService, "user", "read"), h.GetByID)
		users.PATCH("/:id", middleware.RBACAuthorize(rbacService, "user", "update"), h.Update)
	}
}
