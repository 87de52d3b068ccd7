package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	iauth "github.com/charlesng35/eventboard/internal/auth"
	"github.com/charlesng35/eventboard/pkg/errors"
	"github.com/charlesng35/eventboard/pkg/response"
)

const (
	CtxClaimsKey      = "authClaims"
	CtxUserIDKey      = "userID"
	CtxRecipientIDKey = "recipientID"
)

// Auth enforces JWT authentication using the supplied JWT service.
func Auth(jwt *iauth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		claims, err := jwt.ValidateAccessToken(token)
		if err != nil {
			// Normalise all validation failures to 401
			c.Header("WWW-Authenticate", "Bearer")
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

// OptionalAuth attaches the caller's identity when a valid bearer token is present and otherwise lets
// the request through anonymously.
func OptionalAuth(jwt *iauth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if claims, err := jwt.ValidateAccessToken(token); err == nil {
				setIdentity(c, claims)
			}
		}
		c.Next()
	}
}

// RequireAdmin rejects callers whose token does not carry the admin role. It must run after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := ClaimsFromContext(c)
		if claims == nil {
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}
		if !claims.IsAdmin() {
			response.Error(c, errors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

// ClaimsFromContext returns the validated claims attached by Auth or OptionalAuth.
func ClaimsFromContext(c *gin.Context) *iauth.Claims {
	value, ok := c.Get(CtxClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := value.(*iauth.Claims)
	return claims
}

// RecipientIDFromContext returns the caller's numeric user id, or zero when the request is anonymous
// or the token carries a non-numeric id.
func RecipientIDFromContext(c *gin.Context) int64 {
	return c.GetInt64(CtxRecipientIDKey)
}

func bearerToken(c *gin.Context) (string, bool) {
	authz := c.GetHeader("Authorization")
	if len(authz) < 8 || !strings.EqualFold(authz[:7], "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(authz[7:])
	return token, token != ""
}

func setIdentity(c *gin.Context, claims *iauth.Claims) {
	c.Set(CtxClaimsKey, claims)
	c.Set(CtxUserIDKey, claims.UserID)
	if id, ok := claims.NumericUserID(); ok {
		c.Set(CtxRecipientIDKey, id)
	}
}
