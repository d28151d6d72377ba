package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cheerhub/cheerhub/internal/engagement"
	"github.com/cheerhub/cheerhub/pkg/logging"
)

// handleError funnels every handler error through one mapping. Domain
// errors carry their own status; anything else logs server-side and
// returns an opaque 500.
func handleError(c *gin.Context, err error) {
	var domainErr *engagement.Error
	if errors.As(err, &domainErr) {
		c.JSON(statusOf(domainErr.Kind), gin.H{"error": domainErr.Msg})
		return
	}

	logging.WithComponent("api").Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

func statusOf(kind engagement.Kind) int {
	switch kind {
	case engagement.KindForbidden:
		return http.StatusForbidden
	case engagement.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
