package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	apperrors "github.com/ikkim/marketing-survey/internal/errors"
	"github.com/ikkim/marketing-survey/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret-for-middleware"

func setupMiddlewareTest() (*gin.Engine, *AuthMiddleware) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	middleware := NewAuthMiddleware(testJWTSecret)
	return router, middleware
}

func generateTestToken(t *testing.T, username, role string, expiry time.Duration) string {
	token, _, err := util.GenerateToken(username, role, testJWTSecret, expiry)
	require.NoError(t, err)
	return token
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

func TestAuthMiddleware_Authenticate_Success(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest()
	token := generateTestToken(t, "admin", "admin", 15*time.Minute)

	router.GET("/test", authMiddleware.Authenticate(), func(c *gin.Context) {
		username, _ := GetUsername(c)
		role, _ := GetUserRole(c)
		c.JSON(http.StatusOK, gin.H{"username": username, "role": role})
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"username":"admin","role":"admin"}`, w.Body.String())
}

func TestAuthMiddleware_Authenticate_QueryToken(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest()
	token := generateTestToken(t, "admin", "admin", 15*time.Minute)

	router.GET("/ws", authMiddleware.Authenticate(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/ws?token="+token, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware_Authenticate_Rejected(t *testing.T) {
	tests := []struct {
		name     string
		header   func(t *testing.T) string
		wantCode string
	}{
		{"no token", func(t *testing.T) string { return "" }, apperrors.AuthUnauthorized},
		{"invalid format", func(t *testing.T) string { return "Token abc" }, apperrors.AuthTokenInvalid},
		{"garbage token", func(t *testing.T) string { return "Bearer not.a.jwt" }, apperrors.AuthTokenInvalid},
		{"expired token", func(t *testing.T) string {
			return "Bearer " + generateTestToken(t, "admin", "admin", -time.Minute)
		}, apperrors.AuthTokenExpired},
		{"wrong secret", func(t *testing.T) string {
			token, _, err := util.GenerateToken("admin", "admin", "another-secret", time.Minute)
			require.NoError(t, err)
			return "Bearer " + token
		}, apperrors.AuthTokenInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, authMiddleware := setupMiddlewareTest()
			router.GET("/test", authMiddleware.Authenticate(), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest("GET", "/test", nil)
			if h := tt.header(t); h != "" {
				req.Header.Set("Authorization", h)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.wantCode, errorCode(t, w))
		})
	}
}

func TestAuthMiddleware_RequireRole(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		wantStatus int
	}{
		{"admin allowed", "admin", http.StatusOK},
		{"viewer forbidden", "viewer", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, authMiddleware := setupMiddlewareTest()
			router.GET("/test", authMiddleware.Authenticate(), authMiddleware.RequireRole("admin"), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest("GET", "/test", nil)
			req.Header.Set("Authorization", "Bearer "+generateTestToken(t, "admin", tt.role, time.Minute))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestAuthMiddleware_RequireRole_NoRole(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest()
	router.GET("/test", authMiddleware.RequireRole("admin"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, apperrors.AuthzRoleNotFound, errorCode(t, w))
}
