package auth

import (
	"net/http"
	"strings"

	"github.com/casetrail/evidence-api/api/types"
	"github.com/casetrail/evidence-api/internal/services/identity"
	"github.com/gin-gonic/gin"
)

// Handler manages identity endpoints and the bearer-token middleware
type Handler struct {
	identityService *identity.Service
}

// NewHandler creates a new auth handler
func NewHandler(identityService *identity.Service) *Handler {
	return &Handler{identityService: identityService}
}

// Me returns current investigator info from the bearer token
// @Summary Get current investigator
// @Description Get the authenticated investigator's identity
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} identity.UserInfo
// @Failure 401 {object} types.ErrorResponse
// @Router /api/v1/me [get]
func (h *Handler) Me(c *gin.Context) {
	claims, exists := c.Get("claims")
	if !exists {
		c.JSON(http.StatusUnauthorized, types.ErrorResponse{Status: types.StatusError, Error: "Unauthorized"})
		return
	}

	c.JSON(http.StatusOK, identity.GetUserInfo(claims.(*identity.Claims)))
}

// Middleware validates bearer tokens and stores the investigator id
// on the request context. Session and bookmark routes refuse requests
// without one.
func (h *Handler) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, types.ErrorResponse{
				Status: types.StatusError,
				Error:  "Authorization header required",
			})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, types.ErrorResponse{
				Status: types.StatusError,
				Error:  "Bearer token required",
			})
			c.Abort()
			return
		}

		claims, err := h.identityService.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, types.ErrorResponse{
				Status: types.StatusError,
				Error:  "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set("claims", claims)
		types.SetOwnerID(c, claims.Subject)
		c.Next()
	}
}

// RegisterRoutes registers identity routes on an authenticated group
func RegisterRoutes(router *gin.RouterGroup, handler *Handler) {
	router.GET("/me", handler.Me)
}
