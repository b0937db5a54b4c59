package version

import (
	"net/http"
	"runtime"

	"github.com/gin-gonic/gin"
)

// Build-time version information, overridden via ldflags
var (
	Version   = "1.0.0"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Get handles version requests
func Get() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":        "CaseTrail Evidence API",
			"version":     Version,
			"commit":      Commit,
			"build_time":  BuildTime,
			"go_version":  runtime.Version(),
			"description": "API for analyzing and reporting on video evidence",
			"status":      "running",
		})
	}
}
