// internal/socket/hub.go
package socket

import (
	"encoding/json"
	"sync"
	"time"

	"mycars-storefront/internal/metrics"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait = 10 * time.Second

	// PongWait là thời gian tối đa giữa hai PONG (hoặc tin nhắn) từ client.
	PongWait = 60 * time.Second

	// Server gửi PING trước khi hết PongWait để trình duyệt trả PONG.
	defaultPingPeriod = PongWait * 9 / 10

	sendBuffer = 16
)

// EventInventoryChanged được gửi cho trình duyệt mỗi khi có xe mới.
const EventInventoryChanged = "inventory.changed"

// Event là payload JSON gửi qua WebSocket.
type Event struct {
	Type  string `json:"type"`
	CarID int64  `json:"carId,omitempty"`
}

// client bọc một kết nối. Chỉ writePump ghi vào conn.
type client struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func (c *client) stop() {
	c.once.Do(func() { close(c.done) })
}

// Hub quản lý tất cả các client WebSocket của trang catalog.
type Hub struct {
	// clients: key là ID sinh ra lúc kết nối.
	clients    map[string]*client
	mu         sync.RWMutex
	log        *zap.Logger
	pingPeriod time.Duration
}

// Option thay đổi cấu hình của Hub.
type Option func(*Hub)

// WithPingPeriod đổi chu kỳ gửi PING (mặc định 9/10 của PongWait).
func WithPingPeriod(d time.Duration) Option {
	return func(h *Hub) {
		if d > 0 {
			h.pingPeriod = d
		}
	}
}

// NewHub tạo một Hub mới.
func NewHub(log *zap.Logger, opts ...Option) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	h := &Hub{
		clients:    make(map[string]*client),
		log:        log.Named("socket"),
		pingPeriod: defaultPingPeriod,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register thêm một kết nối mới vào Hub, khởi động goroutine ghi và trả về ID.
// Caller vẫn giữ phần đọc (để nhận PONG) và phải gọi Unregister khi kết thúc.
func (h *Hub) Register(conn *websocket.Conn) string {
	id := uuid.NewString()
	c := &client{
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
	h.mu.Lock()
	h.clients[id] = c
	n := len(h.clients)
	h.mu.Unlock()

	go h.writePump(id, c)

	metrics.WebSocketClients.Set(float64(n))
	h.log.Debug("websocket client registered", zap.String("clientID", id), zap.Int("clients", n))
	return id
}

// Unregister xóa một client khỏi Hub và dừng goroutine ghi của nó.
func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	c, ok := h.clients[id]
	delete(h.clients, id)
	n := len(h.clients)
	h.mu.Unlock()

	if ok {
		c.stop()
		metrics.WebSocketClients.Set(float64(n))
		h.log.Debug("websocket client unregistered", zap.String("clientID", id), zap.Int("clients", n))
	}
}

// Len trả về số client đang kết nối.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast xếp event vào hàng đợi của mọi client và trả về ngay.
// Client có hàng đợi đầy bị loại khỏi Hub.
func (h *Hub) Broadcast(event Event) {
	msg, err := json.Marshal(event)
	if err != nil {
		h.log.Error("failed to encode websocket event", zap.Error(err))
		return
	}

	var stalled []string
	h.mu.RLock()
	for id, c := range h.clients {
		select {
		case c.send <- msg:
		default:
			stalled = append(stalled, id)
		}
	}
	h.mu.RUnlock()

	for _, id := range stalled {
		h.log.Warn("websocket client too slow, dropping", zap.String("clientID", id))
		h.drop(id)
	}
}

// InventoryChanged báo cho các trang catalog đang mở rằng danh sách xe đã đổi.
func (h *Hub) InventoryChanged(carID int64) {
	h.Broadcast(Event{Type: EventInventoryChanged, CarID: carID})
}

// drop loại client và đóng conn để vòng đọc của handler kết thúc.
func (h *Hub) drop(id string) {
	h.mu.RLock()
	c, ok := h.clients[id]
	h.mu.RUnlock()
	h.Unregister(id)
	if ok {
		c.conn.Close()
	}
}

// writePump là nơi duy nhất ghi vào conn: event từ hàng đợi và PING định kỳ.
func (h *Hub) writePump(id string, c *client) {
	ticker := time.NewTicker(h.pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.log.Warn("websocket write failed, dropping client", zap.String("clientID", id), zap.Error(err))
				h.drop(id)
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				h.log.Debug("websocket ping failed, dropping client", zap.String("clientID", id), zap.Error(err))
				h.drop(id)
				return
			}
		case <-c.done:
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
			return
		}
	}
}
