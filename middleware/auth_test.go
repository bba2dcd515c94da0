package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/common/auth"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(tokens *auth.TokenManager) (*gin.Engine, *models.Actor) {
	var seen models.Actor
	r := gin.New()
	authed := r.Group("/", AuthMiddleware(tokens))
	handler := func(c *gin.Context) {
		actor, err := GetActor(c)
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		seen = actor
		c.Status(http.StatusOK)
	}
	authed.GET("/me", handler)
	authed.GET("/admin", AdminOnly(), handler)
	return r, &seen
}

func do(r *gin.Engine, path, header string) int {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestAuthMiddleware(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	r, seen := newRouter(tokens)

	userID := uuid.New()
	customer, err := tokens.Generate(userID.String(), string(models.RoleCustomer))
	require.NoError(t, err)
	admin, err := tokens.Generate(uuid.NewString(), string(models.RoleAdmin))
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", ""))
	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", "Bearer not-a-token"))
	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", customer))

	assert.Equal(t, http.StatusOK, do(r, "/me", "Bearer "+customer))
	assert.Equal(t, models.Actor{UserID: userID, Role: models.RoleCustomer}, *seen)

	assert.Equal(t, http.StatusOK, do(r, "/me?token="+customer, ""))

	assert.Equal(t, http.StatusForbidden, do(r, "/admin", "Bearer "+customer))
	assert.Equal(t, http.StatusOK, do(r, "/admin", "bearer "+admin))
	assert.True(t, seen.IsAdmin())
}

func TestGetActor_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, err := GetActor(c)
	assert.Error(t, err)
}
