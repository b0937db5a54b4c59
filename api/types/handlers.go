package types

import (
	"net/http"

	apperrors "github.com/casetrail/evidence-api/pkg/errors"
	"github.com/gin-gonic/gin"
)

// Handler utility functions to reduce duplication across handlers

// ownerContextKey is where the identity middleware stores the
// authenticated investigator id
const ownerContextKey = "owner_id"

// SetOwnerID stores the authenticated investigator id on the request
func SetOwnerID(c *gin.Context, ownerID string) {
	c.Set(ownerContextKey, ownerID)
}

// OwnerID extracts the authenticated investigator id set by the
// identity middleware. Sends 401 and returns false when absent.
func OwnerID(c *gin.Context) (string, bool) {
	ownerID := c.GetString(ownerContextKey)
	if ownerID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Status: StatusError,
			Error:  "Unauthorized",
		})
		return "", false
	}
	return ownerID, true
}

// BindJSONOrError attempts to bind JSON request body to target struct
// Returns false and sends error response if binding fails
func BindJSONOrError(c *gin.Context, target interface{}) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Status:  StatusError,
			Error:   "Invalid request body",
			Details: err.Error(),
		})
		return false
	}
	return true
}

// SendBadRequest sends a standardized bad request response
func SendBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Status: StatusError, Error: message})
}

// SendNotFound sends a standardized not found response
func SendNotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Status: StatusError, Error: message})
}

// SendInternalError sends a standardized internal server error response
func SendInternalError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, ErrorResponse{Status: StatusError, Error: message})
}

// SendAppError maps a structured application error onto its HTTP
// status, falling back to 500 for unclassified errors
func SendAppError(c *gin.Context, err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		c.JSON(appErr.GetHTTPCode(), ErrorResponse{
			Status:  StatusError,
			Error:   string(appErr.Code),
			Message: appErr.Message,
			Details: appErr.Details,
		})
		return
	}
	SendInternalError(c, err.Error())
}

// SendSuccess sends a standardized success response with data
func SendSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// SendCreated sends a standardized created response with data
func SendCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}
