package api

import (
	"github.com/gin-gonic/gin"

	iauth "github.com/charlesng35/eventboard/internal/auth"
	"github.com/charlesng35/eventboard/internal/handlers"
	"github.com/charlesng35/eventboard/internal/middleware"
)

func registerNotificationRoutes(api *gin.RouterGroup, handler *handlers.NotificationHandler, jwt *iauth.JWTService) {
	requireAuth := middleware.Auth(jwt)

	group := api.Group("/notifications")
	{
		// Anonymous callers receive an empty feed rather than an error.
		group.GET("", middleware.OptionalAuth(jwt), handler.List)
		group.POST("", requireAuth, middleware.RequireAdmin(), handler.Broadcast)

		group.POST("/read-all", requireAuth, handler.MarkAllRead)
		group.PATCH("/:id/read", requireAuth, handler.MarkRead)
		group.DELETE("/:id", requireAuth, handler.Dismiss)
	}
}
