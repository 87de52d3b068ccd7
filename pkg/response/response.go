package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appErrors "github.com/charlesng35/eventboard/pkg/errors"
	"github.com/charlesng35/eventboard/pkg/logger"
)

// Response is the envelope shared by every API reply.
type Response struct {
	Success  bool        `json:"success"`
	Data     interface{} `json:"data,omitempty"`
	Error    *ErrorInfo  `json:"error,omitempty"`
	Warnings []string    `json:"warnings,omitempty"`
}

// ErrorInfo is the client-facing part of an AppError.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Success writes data with the given status.
func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, Response{Success: true, Data: data})
}

// SuccessWithWarnings reports a completed request whose side effects partly failed, such as an
// event stored without its announcement.
func SuccessWithWarnings(c *gin.Context, statusCode int, data interface{}, warnings ...string) {
	c.JSON(statusCode, Response{Success: true, Data: data, Warnings: warnings})
}

// Error renders err through its AppError. Server-side failures log their cause, which clients
// never see.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	if appErr == nil {
		appErr = appErrors.ErrInternalServer
	}

	status := appErr.Status()
	if status >= http.StatusInternalServerError && appErr.Internal != nil {
		logger.WithModule("http").Error("request failed",
			zap.String("code", appErr.Code),
			zap.String("route", c.FullPath()),
			zap.Error(appErr.Internal),
		)
	}

	c.JSON(status, Response{
		Success: false,
		Error:   &ErrorInfo{Code: appErr.Code, Message: appErr.Message},
	})
}
