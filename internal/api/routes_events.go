package api

import (
	"github.com/gin-gonic/gin"

	iauth "github.com/charlesng35/eventboard/internal/auth"
	"github.com/charlesng35/eventboard/internal/handlers"
	"github.com/charlesng35/eventboard/internal/middleware"
)

func registerEventRoutes(api *gin.RouterGroup, handler *handlers.EventHandler, jwt *iauth.JWTService) {
	group := api.Group("/admin/events", middleware.Auth(jwt), middleware.RequireAdmin())
	{
		group.POST("", handler.Create)
		group.DELETE("/:id", handler.Delete)
	}
}
