package sessions

import (
	"io"
	"net/http"

	"github.com/casetrail/evidence-api/api/types"
	"github.com/casetrail/evidence-api/internal/services/conversation"
	sessionCore "github.com/casetrail/evidence-api/internal/services/sessions"
	"github.com/gin-gonic/gin"
)

// CreateSessionRequest is the body for creating a session
type CreateSessionRequest struct {
	CaseNumber string `json:"case_number"`
}

// CreateSession creates a new evidence session
// @Summary      Create evidence session
// @Description  Create a new idle evidence session for the authenticated investigator
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        session body CreateSessionRequest false "Session data"
// @Success      201 {object} types.SingleSessionResponse
// @Failure      400 {object} types.ErrorResponse
// @Router       /api/v1/sessions [post]
func CreateSession(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := types.OwnerID(c)
		if !ok {
			return
		}

		var req CreateSessionRequest
		if c.Request.ContentLength > 0 && !types.BindJSONOrError(c, &req) {
			return
		}

		session, err := deps.SessionService.CreateSession(c.Request.Context(), ownerID, req.CaseNumber)
		if err != nil {
			types.SendAppError(c, err)
			return
		}

		types.SendCreated(c, types.SingleSessionResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Session:      types.NewSession(session),
		})
	}
}

// ListSessions lists the investigator's sessions
// @Summary      List evidence sessions
// @Tags         sessions
// @Produce      json
// @Success      200 {object} types.SessionsResponse
// @Router       /api/v1/sessions [get]
func ListSessions(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := types.OwnerID(c)
		if !ok {
			return
		}

		sessions, err := deps.SessionService.ListSessions(c.Request.Context(), ownerID)
		if err != nil {
			types.SendInternalError(c, "Failed to list sessions")
			return
		}

		out := make([]types.Session, 0, len(sessions))
		for i := range sessions {
			out = append(out, types.NewSession(&sessions[i]))
		}
		types.SendSuccess(c, types.SessionsResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Sessions:     out,
			Count:        len(out),
		})
	}
}

// GetSession retrieves one session
// @Summary      Get evidence session
// @Tags         sessions
// @Produce      json
// @Param        id path string true "Session UUID"
// @Success      200 {object} types.SingleSessionResponse
// @Failure      404 {object} types.ErrorResponse
// @Router       /api/v1/sessions/{id} [get]
func GetSession(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := types.OwnerID(c)
		if !ok {
			return
		}

		session, err := deps.SessionService.GetSessionByUUID(c.Request.Context(), ownerID, c.Param("id"))
		if err != nil {
			types.SendNotFound(c, "Session not found")
			return
		}

		types.SendSuccess(c, types.SingleSessionResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Session:      types.NewSession(session),
		})
	}
}

// DeleteSession removes a session with its turns and bookmarks
// @Summary      Delete evidence session
// @Tags         sessions
// @Produce      json
// @Param        id path string true "Session UUID"
// @Success      200 {object} types.BaseResponse
// @Failure      404 {object} types.ErrorResponse
// @Router       /api/v1/sessions/{id} [delete]
func DeleteSession(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := types.OwnerID(c)
		if !ok {
			return
		}

		if err := deps.SessionService.DeleteSession(c.Request.Context(), ownerID, c.Param("id")); err != nil {
			types.SendNotFound(c, "Session not found")
			return
		}

		types.SendSuccess(c, types.BaseResponse{Status: types.StatusOK, Message: "Session deleted"})
	}
}

// ResetSession returns a session to idle
// @Summary      Reset evidence session
// @Description  Clear findings, conversation, and evidence binding, returning the session to idle
// @Tags         sessions
// @Produce      json
// @Param        id path string true "Session UUID"
// @Success      200 {object} types.SingleSessionResponse
// @Failure      404 {object} types.ErrorResponse
// @Router       /api/v1/sessions/{id}/reset [post]
func ResetSession(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := types.OwnerID(c)
		if !ok {
			return
		}

		session, err := deps.SessionService.ResetSession(c.Request.Context(), ownerID, c.Param("id"))
		if err != nil {
			types.SendNotFound(c, "Session not found")
			return
		}

		types.SendSuccess(c, types.SingleSessionResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK, Message: "Session reset"},
			Session:      types.NewSession(session),
		})
	}
}

// SubmitPrompt runs one investigator prompt against the session
// @Summary      Submit analysis prompt
// @Description  Submit a natural-language prompt, optionally with a newly attached video file (multipart field "video"). Drives the session through upload and analysis and returns the resolved turn.
// @Tags         sessions
// @Accept       multipart/form-data
// @Produce      json
// @Param        id path string true "Session UUID"
// @Param        prompt formData string true "Prompt text"
// @Param        video formData file false "Evidence video file"
// @Success      200 {object} types.SingleTurnResponse
// @Failure      400 {object} types.ErrorResponse "Missing prompt or evidence"
// @Failure      409 {object} types.ErrorResponse "A prompt is already pending"
// @Failure      502 {object} types.ErrorResponse "Upload or analysis failure"
// @Router       /api/v1/sessions/{id}/prompts [post]
func SubmitPrompt(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := types.OwnerID(c)
		if !ok {
			return
		}

		submission := conversation.PromptSubmission{
			Text: c.PostForm("prompt"),
		}

		header, err := c.FormFile("video")
		switch {
		case err == nil:
			submission.Video = &sessionCore.AttachedVideo{
				Name: header.Filename,
				Size: header.Size,
				Open: func() (io.ReadCloser, error) {
					return header.Open()
				},
			}
		case err != http.ErrMissingFile:
			types.SendBadRequest(c, "Invalid multipart body")
			return
		}

		turn, err := deps.ConversationService.SubmitPrompt(c.Request.Context(), ownerID, c.Param("id"), submission)
		if err != nil {
			types.SendAppError(c, err)
			return
		}

		session, err := deps.SessionService.GetSessionByUUID(c.Request.Context(), ownerID, c.Param("id"))
		if err != nil {
			types.SendNotFound(c, "Session not found")
			return
		}

		types.SendSuccess(c, types.SingleTurnResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Turn:         types.NewTurn(turn),
			Session:      types.NewSession(session),
		})
	}
}

// ListTurns returns the conversation log oldest first
// @Summary      List conversation turns
// @Tags         sessions
// @Produce      json
// @Param        id path string true "Session UUID"
// @Success      200 {object} types.TurnsResponse
// @Failure      404 {object} types.ErrorResponse
// @Router       /api/v1/sessions/{id}/turns [get]
func ListTurns(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := types.OwnerID(c)
		if !ok {
			return
		}

		turns, err := deps.ConversationService.ListTurns(c.Request.Context(), ownerID, c.Param("id"))
		if err != nil {
			types.SendNotFound(c, "Session not found")
			return
		}

		out := make([]types.Turn, 0, len(turns))
		for i := range turns {
			out = append(out, types.NewTurn(&turns[i]))
		}
		types.SendSuccess(c, types.TurnsResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Turns:        out,
			Count:        len(out),
		})
	}
}
