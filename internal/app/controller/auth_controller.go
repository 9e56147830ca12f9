package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/marketing-survey/internal/app/service"
	apperrors "github.com/ikkim/marketing-survey/internal/errors"
	"github.com/ikkim/marketing-survey/internal/middleware"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 관리자 로그인
// POST /admin/api/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid login request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "아이디와 비밀번호를 입력해주세요")
		return
	}

	result, err := ctrl.authService.Login(req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "아이디 또는 비밀번호가 올바르지 않습니다")
		case errors.Is(err, service.ErrAdminDisabled):
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthAdminDisabled, "관리자 계정이 설정되지 않았습니다")
		default:
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// Me 현재 토큰의 관리자 정보
// GET /admin/api/me
func (ctrl *AuthController) Me(c *gin.Context) {
	username, _ := middleware.GetUsername(c)
	role, _ := middleware.GetUserRole(c)
	c.JSON(http.StatusOK, gin.H{
		"username": username,
		"role":     role,
	})
}
