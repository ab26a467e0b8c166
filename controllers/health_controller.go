package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthController serves liveness and smoke-test endpoints.
type HealthController struct {
	env       string
	startedAt time.Time
}

func NewHealthController(env string) *HealthController {
	return &HealthController{env: env, startedAt: time.Now()}
}

// Health handles GET /health.
func (hc *HealthController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "OK",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"environment": hc.env,
		"uptime":      time.Since(hc.startedAt).Seconds(),
	})
}

// Test handles GET /api/test, the frontend's connectivity check.
func (hc *HealthController) Test(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":     "Backend is working!",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"environment": hc.env,
		"features":    []string{"Authentication", "Products", "Admin CRUD", "Cart", "Orders"},
	})
}
