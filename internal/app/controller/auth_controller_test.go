package controller

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/marketing-survey/internal/app/service"
	apperrors "github.com/ikkim/marketing-survey/internal/errors"
	"github.com/ikkim/marketing-survey/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthRouter(t *testing.T, passwordHash string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctrl := NewAuthController(service.NewAuthService("admin", passwordHash, "test-secret", time.Hour))
	router := gin.New()
	router.POST("/login", ctrl.Login)
	return router
}

func TestAuthController_Login(t *testing.T) {
	hash, err := util.HashPassword("s3cret!")
	require.NoError(t, err)
	router := setupAuthRouter(t, hash)

	tests := []struct {
		name     string
		body     map[string]interface{}
		wantCode int
		wantErr  string
	}{
		{"success", map[string]interface{}{"username": "admin", "password": "s3cret!"}, http.StatusOK, ""},
		{"wrong password", map[string]interface{}{"username": "admin", "password": "nope"}, http.StatusUnauthorized, apperrors.AuthInvalidCredentials},
		{"missing password", map[string]interface{}{"username": "admin"}, http.StatusBadRequest, apperrors.ValidationInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(router, "POST", "/login", tt.body)
			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantErr != "" {
				assert.Contains(t, w.Body.String(), tt.wantErr)
				return
			}

			resp := decode(t, w)
			claims, err := util.ValidateToken(resp["token"].(string), "test-secret")
			require.NoError(t, err)
			assert.Equal(t, "admin", claims.Username)
		})
	}
}

func TestAuthController_LoginDisabled(t *testing.T) {
	router := setupAuthRouter(t, "")

	w := doJSON(router, "POST", "/login", map[string]interface{}{"username": "admin", "password": "x"})

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), apperrors.AuthAdminDisabled)
}
