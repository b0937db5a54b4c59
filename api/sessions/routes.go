package sessions

import (
	"github.com/casetrail/evidence-api/api/types"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers session-related routes. promptMiddleware is
// mounted only on the prompt endpoint so the evidence upload ceiling
// does not apply to plain JSON requests.
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies, promptMiddleware ...gin.HandlerFunc) {
	router.POST("", CreateSession(deps))
	router.GET("", ListSessions(deps))
	router.GET("/:id", GetSession(deps))
	router.DELETE("/:id", DeleteSession(deps))
	router.POST("/:id/reset", ResetSession(deps))
	router.GET("/:id/turns", ListTurns(deps))

	prompts := router.Group("/:id/prompts")
	prompts.Use(promptMiddleware...)
	prompts.POST("", SubmitPrompt(deps))
}
