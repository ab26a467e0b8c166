package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/RevInsanity/temu-clone/apperrors"
	"github.com/RevInsanity/temu-clone/models"
	"github.com/RevInsanity/temu-clone/services"
)

// claimsKey is the gin context key holding the authenticated claims.
const claimsKey = "auth_claims"

// Authenticate validates the Bearer token and stores the verified claims in
// the request context. Required on every protected endpoint.
func Authenticate(tokens services.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			apperrors.Handle(c, apperrors.ErrMissingToken)
			c.Abort()
			return
		}

		if !strings.HasPrefix(header, "Bearer ") {
			apperrors.Handle(c, apperrors.ErrInvalidToken)
			c.Abort()
			return
		}

		claims, err := tokens.Validate(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			apperrors.Handle(c, err)
			c.Abort()
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireRole is the authorization gate: the authenticated caller must hold
// exactly the given role.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil || claims.Role != role {
			apperrors.Handle(c, apperrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

// Claims returns the authenticated claims stored by Authenticate, or nil.
func Claims(c *gin.Context) *services.Claims {
	if v, exists := c.Get(claimsKey); exists {
		if claims, ok := v.(*services.Claims); ok {
			return claims
		}
	}
	return nil
}
