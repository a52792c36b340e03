// internal/api/handlers/websocket_handler.go
package handlers

import (
	"net/http"
	"time"

	"mycars-storefront/internal/socket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	Hub *socket.Hub
	Log *zap.Logger
	// PongWait mặc định là socket.PongWait; phải lớn hơn chu kỳ PING của Hub.
	PongWait time.Duration
}

// ServeWs nâng cấp kết nối và giữ nó trong Hub cho tới khi client đóng.
// Server chỉ gửi event; tin nhắn từ client bị bỏ qua.
func (h *WebSocketHandler) ServeWs(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Log.Warn("failed to upgrade connection", zap.Error(err))
		return
	}

	id := h.Hub.Register(conn)
	defer func() {
		h.Hub.Unregister(id)
		conn.Close()
	}()

	pongWait := h.PongWait
	if pongWait <= 0 {
		pongWait = socket.PongWait
	}
	extend := func() { conn.SetReadDeadline(time.Now().Add(pongWait)) }

	// Hub gửi PING định kỳ; trình duyệt tự trả PONG và mỗi PONG gia hạn deadline.
	extend()
	conn.SetPongHandler(func(string) error {
		extend()
		return nil
	})
	conn.SetPingHandler(func(appData string) error {
		extend()
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(time.Second))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.Log.Debug("websocket closed unexpectedly", zap.String("clientID", id), zap.Error(err))
			}
			return
		}
		extend()
	}
}
