package websocket

import (
	"encoding/json"
	"sync"

	"github.com/glowsouk/glowsouk-backend/internal/app/model"
	"github.com/glowsouk/glowsouk-backend/pkg/logger"
)

// ReviewEvent 제품 리뷰 스트림 이벤트
type ReviewEvent struct {
	Type    string        `json:"type"` // new_review
	Review  *model.Review `json:"review"`
}

// Hub 제품별 리뷰 스트림 연결 관리자
// 제품 상세 페이지를 보고 있는 클라이언트에게 새 리뷰를 실시간으로 밀어준다.
// 비로그인 구독도 허용하므로 클라이언트는 포인터로 식별한다.
type Hub struct {
	// 제품별 구독 클라이언트 (ProductID -> clients)
	products map[uint]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *broadcastMessage

	mu sync.RWMutex
}

type broadcastMessage struct {
	ProductID uint
	Message   []byte
}

func NewHub() *Hub {
	return &Hub{
		products:   make(map[uint]map[*Client]bool),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		broadcast:  make(chan *broadcastMessage, 1024),
	}
}

// Run Hub 실행 (고루틴으로 띄운다)
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.products[client.ProductID]; !ok {
				h.products[client.ProductID] = make(map[*Client]bool)
			}
			h.products[client.ProductID][client] = true
			subscribers := len(h.products[client.ProductID])
			h.mu.Unlock()
			logger.Debug("Review stream client subscribed", map[string]interface{}{
				"product_id":  client.ProductID,
				"subscribers": subscribers,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.products[client.ProductID]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.Send)
					if len(clients) == 0 {
						delete(h.products, client.ProductID)
					}
				}
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.products[message.ProductID] {
				select {
				case client.Send <- message.Message:
				default:
					// 송신 버퍼가 막힌 클라이언트는 비동기로 정리
					go h.Unregister(client)
					logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
						"product_id": message.ProductID,
					})
				}
			}
			h.mu.RUnlock()
		}
	}
}

// BroadcastNewReview 새 리뷰를 해당 제품 구독자에게 전파
// 채널이 가득 차면 이벤트를 버린다 — 리뷰 저장에는 영향 없음.
func (h *Hub) BroadcastNewReview(productID uint, review *model.Review) {
	data, err := json.Marshal(ReviewEvent{Type: "new_review", Review: review})
	if err != nil {
		logger.Error("Failed to marshal review event", err, nil)
		return
	}

	select {
	case h.broadcast <- &broadcastMessage{ProductID: productID, Message: data}:
	default:
		logger.Warn("Broadcast channel full, review event dropped", map[string]interface{}{
			"product_id": productID,
		})
	}
}

// Register 클라이언트 등록
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister 클라이언트 등록 해제
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// SubscriberCount 제품 구독자 수
func (h *Hub) SubscriberCount(productID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.products[productID])
}
