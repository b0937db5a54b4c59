package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	authapi "github.com/casetrail/evidence-api/api/auth"
	"github.com/casetrail/evidence-api/api/types"
	"github.com/casetrail/evidence-api/internal/services/identity"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-signing-secret"

func setupRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)

	identityService, err := identity.NewService(testSecret)
	require.NoError(t, err)

	handler := authapi.NewHandler(identityService)

	router := gin.New()
	group := router.Group("/api/v1")
	group.Use(handler.Middleware())
	authapi.RegisterRoutes(group, handler)
	group.GET("/whoami", func(c *gin.Context) {
		ownerID, ok := types.OwnerID(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"owner": ownerID})
	})
	return router
}

func signToken(t *testing.T, subject string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, identity.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func TestMiddleware(t *testing.T) {
	router := setupRouter(t)

	t.Run("valid token passes and scopes the owner", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/v1/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, "investigator-1"))
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "investigator-1", resp["owner"])
	})

	t.Run("missing header rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/v1/whoami", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("non-bearer header rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/v1/whoami", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("bad token rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/v1/whoami", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestMe(t *testing.T) {
	router := setupRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "investigator-1"))
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var info identity.UserInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "investigator-1", info.ID)
}
