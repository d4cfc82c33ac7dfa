package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/invoicepal/invoicepal-api/internal/model"
	"github.com/invoicepal/invoicepal-api/internal/service"
)

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, model.ErrorResponse{
		Status:  http.StatusText(http.StatusUnauthorized),
		Message: message,
	})
}

// bearerToken extracts the token from an Authorization header.
// Returns an empty string when the header is missing or not a Bearer scheme.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// AuthMiddleware validates the request's JWT and stores the caller's
// identity in the gin context under "userID" and "userEmail".
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			abortUnauthorized(c, "Authorization header with a Bearer token is required")
			return
		}

		claims, err := authService.ValidateAccessToken(token)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("userEmail", claims.Email)
		c.Next()
	}
}

// OptionalAuthMiddleware sets the caller's identity when a valid token is
// present and otherwise lets the request through anonymously.
func OptionalAuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if claims, err := authService.ValidateAccessToken(token); err == nil {
				c.Set("userID", claims.UserID)
				c.Set("userEmail", claims.Email)
			}
		}
		c.Next()
	}
}
