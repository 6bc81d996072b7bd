package auth

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/TAIYOKONO/kintaikanri/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	group := r.Group("/auth")
	{
		group.POST("/login", middleware.RateLimitByIP(rate.Limit(1), 5), h.Login)
		group.POST("/register", middleware.RateLimitByIP(rate.Limit(1), 5), h.Register)
		group.POST("/refresh", h.RefreshToken)
		group.POST("/logout", h.Logout)
		group.GET("/me", middleware.AuthMiddleware(), h.Me)
	}
}
