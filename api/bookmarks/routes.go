package bookmarks

import (
	"github.com/casetrail/evidence-api/api/types"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers bookmark routes nested under sessions
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	router.GET("/:id/bookmarks", GetBookmarks(deps))
	router.POST("/:id/bookmarks/toggle", ToggleBookmark(deps))
}
