package websocket

import (
	"time"

	"github.com/glowsouk/glowsouk-backend/pkg/logger"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4 * 1024
)

// Client 리뷰 스트림 구독 클라이언트
// 한 연결은 한 제품만 구독한다.
type Client struct {
	Hub       *Hub
	Conn      *websocket.Conn
	ProductID uint
	Send      chan []byte
}

func NewClient(hub *Hub, conn *websocket.Conn, productID uint) *Client {
	return &Client{
		Hub:       hub,
		Conn:      conn,
		ProductID: productID,
		Send:      make(chan []byte, 64),
	}
}

// ReadPump 클라이언트 읽기 루프
// 스트림은 단방향이라 수신 메시지는 버리고, 연결 유지(pong)와 종료 감지만 한다.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Debug("Review stream read error", map[string]interface{}{
					"product_id": c.ProductID,
					"error":      err.Error(),
				})
			}
			break
		}
	}
}

// WritePump 클라이언트 쓰기 루프
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub가 채널을 닫음
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

			// 대기 중인 이벤트도 이어서 전송
			n := len(c.Send)
			for i := 0; i < n; i++ {
				if err := c.Conn.WriteMessage(websocket.TextMessage, <-c.Send); err != nil {
					return
				}
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
