package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/ikkim/marketing-survey/internal/app/model"
	"github.com/ikkim/marketing-survey/internal/metrics"
	"github.com/ikkim/marketing-survey/pkg/logger"
)

const (
	// Rate limiting: 최대 메시지 수 (1초당)
	maxMessagesPerSecond = 10

	clientSendBuffer = 256

	EventSurveyCreated = "survey.created"
	EventPong          = "pong"
)

// ClientMessage 클라이언트로부터 받은 메시지 (ping만 처리)
type ClientMessage struct {
	Type string `json:"type"`
}

// SurveySummary 실시간 피드에 노출되는 설문 요약
type SurveySummary struct {
	ID                uint      `json:"id"`
	StoreName         string    `json:"store_name"`
	OwnerName         string    `json:"owner_name"`
	BusinessType      string    `json:"business_type"`
	BusinessTypeLabel string    `json:"business_type_label"`
	CreatedAt         time.Time `json:"created_at"`
}

type Event struct {
	Type   string         `json:"type"`
	Survey *SurveySummary `json:"survey,omitempty"`
	At     time.Time      `json:"at"`
}

// Client 관리자 WebSocket 세션
type Client struct {
	Hub           *Hub
	Conn          *Conn
	Username      string
	Send          chan []byte
	MessageCount  int       // 최근 1초간 받은 메시지 수
	LastResetTime time.Time // 마지막 카운터 리셋 시간
	RateMu        sync.Mutex
}

type directMessage struct {
	client  *Client
	message []byte
}

// Hub 관리자 세션 전체에 새 설문 이벤트를 브로드캐스트
type Hub struct {
	clients map[*Client]bool
	stopped bool

	broadcast chan []byte
	direct    chan *directMessage

	metrics *metrics.SurveyMetrics
	done    chan struct{}
	mu      sync.RWMutex
}

func NewHub(m *metrics.SurveyMetrics) *Hub {
	return &Hub{
		clients:   make(map[*Client]bool),
		broadcast: make(chan []byte, 1024),
		direct:    make(chan *directMessage, 256),
		metrics:   m,
		done:      make(chan struct{}),
	}
}

// Run ctx 취소 전까지 이벤트 처리, 종료 시 모든 세션 정리
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			h.stopped = true
			for client := range h.clients {
				h.remove(client)
			}
			h.mu.Unlock()
			h.metrics.SetLiveFeedSubscribers(0)
			logger.Info("WebSocket hub stopped", nil)
			return

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					// Send 채널이 막혀있음 - 연결 정리
					h.remove(client)
					logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
						"username": client.Username,
					})
				}
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.metrics.SetLiveFeedSubscribers(total)

		case dm := <-h.direct:
			h.mu.Lock()
			if h.clients[dm.client] {
				select {
				case dm.client.Send <- dm.message:
				default:
				}
			}
			h.mu.Unlock()
		}
	}
}

// remove must be called with h.mu held.
func (h *Hub) remove(client *Client) {
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.Send)
	}
}

// Register 클라이언트 등록. 종료된 hub는 즉시 Send를 닫는다.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		close(client.Send)
		return
	}
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()

	h.metrics.SetLiveFeedSubscribers(total)
	logger.Info("WebSocket client registered", map[string]interface{}{
		"username":       client.Username,
		"total_sessions": total,
	})
}

// Unregister 클라이언트 등록 해제
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	h.remove(client)
	total := len(h.clients)
	h.mu.Unlock()

	h.metrics.SetLiveFeedSubscribers(total)
	logger.Info("WebSocket client unregistered", map[string]interface{}{
		"username":       client.Username,
		"total_sessions": total,
	})
}

// Count 현재 연결된 세션 수
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func Summarize(survey *model.SurveyResponse) *SurveySummary {
	return &SurveySummary{
		ID:                survey.ID,
		StoreName:         survey.StoreName,
		OwnerName:         survey.OwnerName,
		BusinessType:      string(survey.BusinessType),
		BusinessTypeLabel: survey.BusinessTypeDisplay(),
		CreatedAt:         survey.CreatedAt,
	}
}

// BroadcastSurvey 모든 관리자 세션에 survey.created 이벤트 전송
// 허브가 밀려 있으면 이벤트를 버린다
func (h *Hub) BroadcastSurvey(survey *model.SurveyResponse) {
	data, err := json.Marshal(Event{
		Type:   EventSurveyCreated,
		Survey: Summarize(survey),
		At:     time.Now().UTC(),
	})
	if err != nil {
		logger.Error("Failed to marshal survey event", err, nil)
		return
	}

	select {
	case h.broadcast <- data:
	default:
		logger.Warn("Broadcast channel full, event dropped", map[string]interface{}{
			"survey_id": survey.ID,
		})
	}
}

// HandleClientMessage 클라이언트 메시지 처리
func (h *Hub) HandleClientMessage(client *Client, message []byte) {
	// Rate limiting 체크
	client.RateMu.Lock()
	now := time.Now()
	if now.Sub(client.LastResetTime) >= time.Second {
		client.MessageCount = 0
		client.LastResetTime = now
	}
	client.MessageCount++
	count := client.MessageCount
	client.RateMu.Unlock()

	if count > maxMessagesPerSecond {
		logger.Warn("Rate limit exceeded", map[string]interface{}{
			"username": client.Username,
			"count":    count,
		})
		return
	}

	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		logger.Warn("Failed to parse client message", map[string]interface{}{
			"username": client.Username,
			"error":    err.Error(),
		})
		return
	}

	if msg.Type != "ping" {
		return
	}

	data, _ := json.Marshal(Event{Type: EventPong, At: now.UTC()})
	select {
	case h.direct <- &directMessage{client: client, message: data}:
	case <-h.done:
	default:
	}
}
