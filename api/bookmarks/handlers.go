package bookmarks

import (
	"github.com/casetrail/evidence-api/api/types"
	"github.com/gin-gonic/gin"
)

// ToggleRequest identifies the displayed event to toggle
type ToggleRequest struct {
	Index *int `json:"index" binding:"required"`
}

// GetBookmarks returns the saved set with the reconciled view
// @Summary      List bookmarks
// @Description  List a session's bookmarks together with the index map reconciling them against the current timeline
// @Tags         bookmarks
// @Produce      json
// @Param        id path string true "Session UUID"
// @Success      200 {object} types.BookmarksResponse
// @Failure      404 {object} types.ErrorResponse
// @Router       /api/v1/sessions/{id}/bookmarks [get]
func GetBookmarks(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := types.OwnerID(c)
		if !ok {
			return
		}

		marks, view, err := deps.BookmarkService.ListSaved(c.Request.Context(), ownerID, c.Param("id"))
		if err != nil {
			types.SendNotFound(c, "Session not found")
			return
		}

		out := make([]types.Bookmark, 0, len(marks))
		for i := range marks {
			out = append(out, types.NewBookmark(&marks[i]))
		}
		types.SendSuccess(c, types.BookmarksResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Bookmarks:    out,
			Saved:        view.Index,
			Count:        len(out),
		})
	}
}

// ToggleBookmark saves or removes the bookmark for one displayed event
// @Summary      Toggle bookmark
// @Description  Save the timeline event at the given display index, or remove the bookmark already covering it
// @Tags         bookmarks
// @Accept       json
// @Produce      json
// @Param        id path string true "Session UUID"
// @Param        toggle body ToggleRequest true "Display index"
// @Success      200 {object} types.ToggleResponse
// @Failure      400 {object} types.ErrorResponse "No event at that index"
// @Router       /api/v1/sessions/{id}/bookmarks/toggle [post]
func ToggleBookmark(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := types.OwnerID(c)
		if !ok {
			return
		}

		var req ToggleRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		result, err := deps.BookmarkService.Toggle(c.Request.Context(), ownerID, c.Param("id"), *req.Index)
		if err != nil {
			types.SendAppError(c, err)
			return
		}

		resp := types.ToggleResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Index:        result.Index,
			Saved:        result.Saved,
		}
		if result.Bookmark != nil {
			mark := types.NewBookmark(result.Bookmark)
			resp.Bookmark = &mark
		}
		types.SendSuccess(c, resp)
	}
}
