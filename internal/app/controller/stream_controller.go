package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/glowsouk/glowsouk-backend/internal/app/service"
	apperrors "github.com/glowsouk/glowsouk-backend/internal/errors"
	ws "github.com/glowsouk/glowsouk-backend/internal/websocket"
	"github.com/glowsouk/glowsouk-backend/pkg/logger"
	"github.com/gorilla/websocket"
)

// StreamController 제품 리뷰 실시간 스트림
type StreamController struct {
	hub            *ws.Hub
	productService service.ProductService
	upgrader       websocket.Upgrader
}

func NewStreamController(hub *ws.Hub, productService service.ProductService, allowedOrigins []string) *StreamController {
	originSet := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		originSet[origin] = true
	}

	return &StreamController{
		hub:            hub,
		productService: productService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					// 브라우저가 아닌 클라이언트 (테스트 등)
					return true
				}
				return originSet[origin]
			},
		},
	}
}

// StreamProductReviews 제품 리뷰 스트림 구독
// @Summary 제품의 새 리뷰를 웹소켓으로 수신
// @Tags Reviews
// @Param id path int true "제품 ID"
// @Router /ws/products/{id} [get]
func (ctrl *StreamController) StreamProductReviews(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "잘못된 제품 ID입니다")
		return
	}

	if _, err := ctrl.productService.GetProduct(uint(productID)); err != nil {
		apperrors.NotFound(c, apperrors.ProductNotFound, "제품을 찾을 수 없습니다")
		return
	}

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("WebSocket upgrade failed", map[string]interface{}{
			"product_id": productID,
			"error":      err.Error(),
		})
		return
	}

	client := ws.NewClient(ctrl.hub, conn, uint(productID))
	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
