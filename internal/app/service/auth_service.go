package service

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/ikkim/marketing-survey/pkg/logger"
	"github.com/ikkim/marketing-survey/pkg/util"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAdminDisabled      = errors.New("admin login is not configured")
)

const RoleAdmin = "admin"

type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Username  string    `json:"username"`
}

// AuthService 설정 파일의 단일 관리자 계정으로 로그인
type AuthService interface {
	Login(username, password string) (*LoginResult, error)
	ValidateToken(token string) (*util.Claims, error)
}

type authService struct {
	username     string
	passwordHash string
	jwtSecret    string
	tokenExpiry  time.Duration
}

func NewAuthService(username, passwordHash, jwtSecret string, tokenExpiry time.Duration) AuthService {
	return &authService{
		username:     username,
		passwordHash: passwordHash,
		jwtSecret:    jwtSecret,
		tokenExpiry:  tokenExpiry,
	}
}

func (s *authService) Login(username, password string) (*LoginResult, error) {
	if s.passwordHash == "" {
		logger.Warn("Admin login attempted but ADMIN_PASSWORD_HASH is not set", nil)
		return nil, ErrAdminDisabled
	}

	userMatch := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passMatch := util.VerifyPassword(s.passwordHash, password)
	if !userMatch || !passMatch {
		logger.Warn("Admin login failed", map[string]interface{}{
			"username": username,
		})
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := util.GenerateToken(s.username, RoleAdmin, s.jwtSecret, s.tokenExpiry)
	if err != nil {
		logger.Error("Failed to generate admin token", err, nil)
		return nil, err
	}

	logger.Info("Admin logged in", map[string]interface{}{
		"username": s.username,
	})
	return &LoginResult{Token: token, ExpiresAt: expiresAt, Username: s.username}, nil
}

func (s *authService) ValidateToken(token string) (*util.Claims, error) {
	return util.ValidateToken(token, s.jwtSecret)
}
