package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brewery_backend/pkg/utils"
)

func newEngine(t *testing.T) (*gin.Engine, *utils.TokenIssuer) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tokens, err := utils.NewTokenIssuer("middleware-secret", time.Hour)
	require.NoError(t, err)

	engine := gin.New()
	api := engine.Group("", AuthMiddleware(tokens))
	api.GET("/me", func(c *gin.Context) {
		session, ok := SessionFromContext(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, session)
	})
	api.DELETE("/admin", RoleAuthMiddleware(utils.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return engine, tokens
}

func serve(engine *gin.Engine, method, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	engine, tokens := newEngine(t)
	token, _, err := tokens.GenerateAccessToken(2, "Sarah Brewer", "sarah@brewery.test", utils.RoleStaff)
	require.NoError(t, err)

	tests := []struct {
		name string
		auth string
		code int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"garbage token", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(engine, http.MethodGet, "/me", tt.auth)
			assert.Equal(t, tt.code, w.Code)
		})
	}

	w := serve(engine, http.MethodGet, "/me", "Bearer "+token)
	assert.Contains(t, w.Body.String(), `"employee_id":2`)
	assert.Contains(t, w.Body.String(), `"role":"staff"`)
}

func TestRoleAuthMiddleware(t *testing.T) {
	engine, tokens := newEngine(t)
	staff, _, err := tokens.GenerateAccessToken(2, "Sarah Brewer", "", utils.RoleStaff)
	require.NoError(t, err)
	admin, _, err := tokens.GenerateAccessToken(1, "Matt L.", "", utils.RoleAdmin)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, serve(engine, http.MethodDelete, "/admin", "Bearer "+staff).Code)
	assert.Equal(t, http.StatusNoContent, serve(engine, http.MethodDelete, "/admin", "Bearer "+admin).Code)
}
