package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/charlesng35/eventboard/internal/app"
	iauth "github.com/charlesng35/eventboard/internal/auth"
	"github.com/charlesng35/eventboard/internal/handlers"
	"github.com/charlesng35/eventboard/internal/middleware"
	"github.com/charlesng35/eventboard/internal/services"
)

// NewRouter builds the Gin engine, wires middleware and registers the notification routes.
func NewRouter(db *gorm.DB, jwt *iauth.JWTService, cfg *app.Config, suite *services.NotificationSuite, rateStore middleware.RateStore) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if jwt == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}
	if suite == nil {
		return nil, fmt.Errorf("notification services must be provided")
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics(metricsEndpoint(cfg)))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.FrontendURL))
	r.Use(middleware.RateLimit(rateStore, cfg.Server.RateLimit.Requests, cfg.Server.RateLimit.Window))

	registerHealthRoutes(r, db, cfg)
	registerMetricsRoutes(r, cfg)

	notificationHandler, err := handlers.NewNotificationHandler(suite.Broadcasts, suite.Feed, suite.State)
	if err != nil {
		return nil, err
	}
	eventHandler, err := handlers.NewEventHandler(suite.Events)
	if err != nil {
		return nil, err
	}

	api := r.Group("/api")
	registerNotificationRoutes(api, notificationHandler, jwt)
	registerEventRoutes(api, eventHandler, jwt)

	// NotFound fallback
	r.NoRoute(middleware.NotFoundHandler)

	return r, nil
}
