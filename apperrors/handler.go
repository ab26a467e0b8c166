package apperrors

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var production bool

// SetProductionMode controls whether internal error details are returned to
// clients. In production only the generic message is exposed.
func SetProductionMode(enabled bool) {
	production = enabled
}

// Handle writes err as a structured JSON error response. Business errors map
// to their HTTP status; anything else becomes a 500 and is logged.
func Handle(c *gin.Context, err error) {
	appErr := AsAppError(err)

	if appErr.Code == http.StatusInternalServerError {
		zap.L().Error("Internal error",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		if !production && appErr.Err != nil {
			c.JSON(appErr.Code, gin.H{"error": appErr.Err.Error()})
			return
		}
	}

	c.JSON(appErr.Code, gin.H{"error": appErr.Message})
}
