package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/ikkim/marketing-survey/internal/middleware"
	ws "github.com/ikkim/marketing-survey/internal/websocket"
)

// LiveFeedController 관리자 실시간 설문 피드
type LiveFeedController struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
}

func NewLiveFeedController(hub *ws.Hub, allowedOrigins []string) *LiveFeedController {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return &LiveFeedController{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				// same-origin and non-browser clients send no Origin
				return origin == "" || allowed["*"] || allowed[origin]
			},
		},
	}
}

// Connect WebSocket 연결 처리
// GET /admin/api/ws
// 쿼리 파라미터로 토큰을 받지만, 로깅하지 않음
func (ctrl *LiveFeedController) Connect(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	username, _ := middleware.GetUsername(c)

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade to WebSocket", err)
		return
	}

	ctrl.hub.Serve(conn, username)

	log.Info("WebSocket connection established", map[string]interface{}{
		"username": username,
	})
}
