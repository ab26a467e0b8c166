package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RevInsanity/temu-clone/models"
	"github.com/RevInsanity/temu-clone/services"
)

func newAuthRouter(t *testing.T) (*gin.Engine, *services.TokenService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tokens := services.NewTokenService("middleware-secret", time.Hour)

	router := gin.New()
	authed := router.Group("/", Authenticate(tokens))
	authed.GET("/me", func(c *gin.Context) {
		claims := Claims(c)
		require.NotNil(t, claims)
		c.JSON(http.StatusOK, gin.H{"sub": claims.UserID, "role": string(claims.Role)})
	})
	authed.GET("/admin", RequireRole(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	authed.GET("/user", RequireRole(models.RoleUser), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router, tokens
}

func doGet(router *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticate(t *testing.T) {
	router, tokens := newAuthRouter(t)

	t.Run("missing header", func(t *testing.T) {
		rec := doGet(router, "/me", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Access token required")
	})

	t.Run("malformed header", func(t *testing.T) {
		rec := doGet(router, "/me", "Token abc")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		rec := doGet(router, "/me", "Bearer not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token from another secret", func(t *testing.T) {
		other := services.NewTokenService("evil-secret", time.Hour)
		token, err := other.Generate("abc", "a@b.com", models.RoleUser)
		require.NoError(t, err)

		rec := doGet(router, "/me", "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token exposes claims", func(t *testing.T) {
		token, err := tokens.Generate("64f000000000000000000001", "me@example.com", models.RoleUser)
		require.NoError(t, err)

		rec := doGet(router, "/me", "Bearer "+token)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "64f000000000000000000001")
		assert.Contains(t, rec.Body.String(), "user")
	})
}

func TestRequireRole(t *testing.T) {
	router, tokens := newAuthRouter(t)

	userToken, err := tokens.Generate("64f000000000000000000001", "user@example.com", models.RoleUser)
	require.NoError(t, err)
	adminToken, err := tokens.Generate("64f000000000000000000002", "admin@example.com", models.RoleAdmin)
	require.NoError(t, err)

	t.Run("user blocked from admin route", func(t *testing.T) {
		rec := doGet(router, "/admin", "Bearer "+userToken)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "Forbidden")
	})

	t.Run("admin blocked from user route", func(t *testing.T) {
		rec := doGet(router, "/user", "Bearer "+adminToken)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("matching roles pass", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, doGet(router, "/user", "Bearer "+userToken).Code)
		assert.Equal(t, http.StatusOK, doGet(router, "/admin", "Bearer "+adminToken).Code)
	})
}
