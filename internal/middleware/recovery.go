package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/charlesng35/eventboard/pkg/errors"
	"github.com/charlesng35/eventboard/pkg/logger"
	"github.com/charlesng35/eventboard/pkg/response"
)

// Recovery converts panics into a 500 response and logs the error with the caller's identity.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			logger.WithModule("http").Error("panic recovered",
				zap.String("method", c.Request.Method),
				zap.String("route", c.FullPath()),
				zap.Int64("recipient_id", RecipientIDFromContext(c)),
				zap.Any("error", r),
				zap.Stack("stack"),
			)
			if !c.Writer.Written() {
				response.Error(c, errors.ErrInternalServer)
			}
			c.Abort()
		}()
		c.Next()
	}
}

// NotFoundHandler returns a JSON 404 response for unknown routes.
func NotFoundHandler(c *gin.Context) {
	response.Error(c, errors.NewNotFound(fmt.Sprintf("route %s not found", c.Request.URL.Path)))
}
