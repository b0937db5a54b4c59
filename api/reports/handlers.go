package reports

import (
	"github.com/casetrail/evidence-api/api/types"
	"github.com/gin-gonic/gin"
)

// GetReport compiles the report for a session's current bookmark set
// @Summary      Compile report
// @Description  Compile the narrative and findings log from the session's current bookmarks
// @Tags         reports
// @Produce      json
// @Param        id path string true "Session UUID"
// @Success      200 {object} types.ReportResponse
// @Failure      404 {object} types.ErrorResponse
// @Router       /api/v1/sessions/{id}/report [get]
func GetReport(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := types.OwnerID(c)
		if !ok {
			return
		}

		report, err := deps.ReportService.CompileReport(c.Request.Context(), ownerID, c.Param("id"))
		if err != nil {
			types.SendNotFound(c, "Session not found")
			return
		}

		types.SendSuccess(c, types.ReportResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Report:       report,
		})
	}
}

// RegisterRoutes registers report routes nested under sessions
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	router.GET("/:id/report", GetReport(deps))
}
