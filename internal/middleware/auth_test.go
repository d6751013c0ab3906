package middleware

import (
	"clarity_hub_backend/internal/config"
	"clarity_hub_backend/internal/util"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware(cfg))
	r.GET("/me", func(c *gin.Context) {
		c.String(http.StatusOK, util.CurrentUserID(c))
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "secret", Issuer: "auth-service"}}
	router := newAuthRouter(cfg)

	valid, err := util.GenerateJWT("user-1", "secret", "auth-service", time.Hour)
	require.NoError(t, err)
	wrongIssuer, err := util.GenerateJWT("user-1", "secret", "elsewhere", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		code   int
		body   string
	}{
		{"valid token", "Bearer " + valid, http.StatusOK, "user-1"},
		{"missing header", "", http.StatusUnauthorized, "Unauthorized"},
		{"empty bearer", "Bearer ", http.StatusUnauthorized, "Unauthorized"},
		{"garbage", "Bearer abc.def.ghi", http.StatusUnauthorized, "Unauthorized"},
		{"wrong issuer", "Bearer " + wrongIssuer, http.StatusUnauthorized, "Unauthorized"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.code, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}
