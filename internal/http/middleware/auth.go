package middleware

import (
	"net/http"
	"strings"

	"railbook/internal/services"

	"github.com/gin-gonic/gin"
)

const claimsKey = "token_claims"

// Auth requires a valid bearer token and stores its claims on the context.
func Auth(tokens services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok {
			abort(c, http.StatusUnauthorized, "missing bearer token")
			return
		}
		claims, err := tokens.Parse(raw)
		if err != nil {
			abort(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireRoles allows only tokens whose role is listed.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := Claims(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "missing bearer token")
			return
		}
		for _, r := range roles {
			if claims.Role == r {
				c.Next()
				return
			}
		}
		abort(c, http.StatusForbidden, "not allowed")
	}
}

// RequireBookingAccess lets admins through, and booking tokens only for the
// booking named by the :param path segment.
func RequireBookingAccess(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := Claims(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "missing bearer token")
			return
		}
		if claims.Role == services.RoleAdmin || claims.BookingID == c.Param(param) {
			c.Next()
			return
		}
		abort(c, http.StatusForbidden, "token does not grant access to this booking")
	}
}

// Claims returns the verified token claims set by Auth.
func Claims(c *gin.Context) (services.TokenClaims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return services.TokenClaims{}, false
	}
	claims, ok := v.(services.TokenClaims)
	return claims, ok
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":      message,
		"code":       http.StatusText(status),
		"request_id": GetRequestID(c),
	})
}
