package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/Niche-Job-Board/internal/apperrors"
	"github.com/justsurfingit/Niche-Job-Board/internal/xlog"
)

// respondError is the single funnel from an internal failure to a
// response body. Classification happens here so every endpoint
// categorizes consistently; the raw cause is logged, never returned.
func respondError(c *gin.Context, err error) {
	ae := apperrors.Classify(err)
	if ae.Err != nil {
		xlog.S().Errorw("request failed",
			"path", c.FullPath(),
			"status", ae.Status,
			"cause", ae.Err.Error(),
		)
	}
	body := gin.H{"status": ae.Kind(), "message": ae.Message}
	if len(ae.Details) > 0 {
		body["errors"] = ae.Details
	}
	c.JSON(ae.Status, body)
}

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"status": "success", "data": data})
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
