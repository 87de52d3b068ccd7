package api

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/charlesng35/eventboard/internal/app"
	"github.com/charlesng35/eventboard/internal/handlers"
)

const defaultMetricsEndpoint = "/metrics"

func registerHealthRoutes(r *gin.Engine, db *gorm.DB, cfg *app.Config) {
	if !cfg.Monitoring.Health.Enabled {
		return
	}

	health := handlers.Health(db)
	r.GET("/health", health)
	r.GET("/api/health", health)
}

func registerMetricsRoutes(r *gin.Engine, cfg *app.Config) {
	if endpoint := metricsEndpoint(cfg); endpoint != "" {
		r.GET(endpoint, gin.WrapH(promhttp.Handler()))
	}
}

// metricsEndpoint returns the normalised scrape path, or "" when prometheus is disabled.
func metricsEndpoint(cfg *app.Config) string {
	if !cfg.Monitoring.Prometheus.Enabled {
		return ""
	}

	endpoint := strings.TrimSpace(cfg.Monitoring.Prometheus.Endpoint)
	if endpoint == "" {
		return defaultMetricsEndpoint
	}
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return endpoint
}
