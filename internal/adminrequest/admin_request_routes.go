package adminrequest

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/TAIYOKONO/kintaikanri/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	// Public application endpoint, throttled per IP.
	r.POST("/admin-requests", middleware.RateLimitByIP(rate.Limit(0.5), 3), h.Submit)

	requests := r.Group("/admin-requests")
	requests.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware("super_admin"))
	{
		requests.GET("", h.List)
		requests.GET("/:id", h.GetByID)
		requests.POST("/:id/approve", h.Approve)
		requests.POST("/:id/reject", h.Reject)
	}
}
