package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/charlesng35/eventboard/pkg/errors"
	"github.com/charlesng35/eventboard/pkg/logger"
	"github.com/charlesng35/eventboard/pkg/response"
)

const healthCheckTimeout = 2 * time.Second

// Health returns a status payload useful for readiness checks. The database is pinged when provided.
func Health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			ctx, cancel := context.WithTimeout(requestContext(c), healthCheckTimeout)
			defer cancel()

			if err := pingDatabase(ctx, db); err != nil {
				logger.WithModule("health").Warn("database ping failed", zap.Error(err))
				response.Error(c, errors.ErrServiceUnavailable)
				return
			}
		}

		response.Success(c, http.StatusOK, gin.H{
			"status":     "ok",
			"checked_at": time.Now().UTC(),
		})
	}
}

func pingDatabase(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
