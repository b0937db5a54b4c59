package health

import (
	"context"
	"net/http"
	"time"

	"github.com/casetrail/evidence-api/api/types"
	"github.com/gin-gonic/gin"
)

// healthCheckKey is a well-known key for reachability checks; it is
// never written, Exists just has to answer without a backend error
const healthCheckKey = ".healthcheck"

// Get handles health check requests
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		}

		if deps != nil && deps.DB != nil {
			response["database"] = getDatabaseStatus(deps)
		} else {
			response["database"] = gin.H{"status": "not configured"}
		}

		if deps != nil && deps.Storage != nil {
			response["storage"] = getStorageStatus(c, deps)
		} else {
			response["storage"] = gin.H{"status": "not configured"}
		}

		c.JSON(http.StatusOK, response)
	}
}

// getDatabaseStatus returns the database connection status
func getDatabaseStatus(deps *types.Dependencies) gin.H {
	if deps.DB == nil || deps.DB.DB == nil {
		return gin.H{"status": "not configured"}
	}

	if err := deps.DB.HealthCheck(); err != nil {
		return gin.H{"status": "unhealthy", "error": err.Error()}
	}

	return gin.H{"status": "healthy"}
}

// getStorageStatus checks the evidence store can be reached. The key
// does not have to exist; only a backend error counts as unhealthy.
func getStorageStatus(c *gin.Context, deps *types.Dependencies) gin.H {
	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
	defer cancel()

	if _, err := deps.Storage.Exists(ctx, healthCheckKey); err != nil {
		return gin.H{"status": "unhealthy", "error": err.Error()}
	}
	return gin.H{"status": "healthy"}
}
