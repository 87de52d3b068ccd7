package handlers

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	iauth "github.com/charlesng35/eventboard/internal/auth"
	"github.com/charlesng35/eventboard/internal/middleware"
	apperrors "github.com/charlesng35/eventboard/pkg/errors"
)

// requestContext safely returns the request context with a background fallback for tests.
func requestContext(c *gin.Context) context.Context {
	if c == nil || c.Request == nil {
		return context.Background()
	}
	return c.Request.Context()
}

// callerRecipient is the recipient id carried by the caller's token, zero when anonymous.
func callerRecipient(c *gin.Context) int64 {
	return middleware.RecipientIDFromContext(c)
}

// feedRecipient resolves whose feed is requested. Admins may read another user's feed through the
// recipient_id query parameter; everyone else always reads their own.
func feedRecipient(c *gin.Context) (int64, error) {
	raw := strings.TrimSpace(c.Query("recipient_id"))
	if raw == "" || !middleware.ClaimsFromContext(c).IsAdmin() {
		return callerRecipient(c), nil
	}

	id, ok := iauth.ParseUserID(raw)
	if !ok {
		return 0, apperrors.NewBadRequest("recipient_id must be a positive integer")
	}
	return id, nil
}
