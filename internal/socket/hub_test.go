package socket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newHubServer(t *testing.T, hub *Hub) *httptest.Server {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		id := hub.Register(conn)
		defer func() {
			hub.Unregister(id)
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHub_InventoryChangedReachesAllClients(t *testing.T) {
	hub := NewHub(zaptest.NewLogger(t))
	srv := newHubServer(t, hub)

	a := dial(t, srv)
	b := dial(t, srv)
	require.Eventually(t, func() bool { return hub.Len() == 2 }, time.Second, 10*time.Millisecond)

	hub.InventoryChanged(42)

	for _, conn := range []*websocket.Conn{a, b} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var ev Event
		require.NoError(t, conn.ReadJSON(&ev))
		assert.Equal(t, Event{Type: EventInventoryChanged, CarID: 42}, ev)
	}
}

func TestHub_UnregisterOnDisconnect(t *testing.T) {
	hub := NewHub(zaptest.NewLogger(t))
	srv := newHubServer(t, hub)

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return hub.Len() == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Len() == 0 }, time.Second, 10*time.Millisecond)
}

func TestHub_BroadcastWithoutClients(t *testing.T) {
	hub := NewHub(nil)
	assert.NotPanics(t, func() { hub.InventoryChanged(1) })
	hub.Unregister("missing")
	assert.Equal(t, 0, hub.Len())
}

func TestHub_BroadcastDoesNotWaitForStalledClient(t *testing.T) {
	hub := NewHub(zaptest.NewLogger(t))
	conns := make(chan *websocket.Conn, 1)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conns <- conn
	}))
	t.Cleanup(srv.Close)
	dial(t, srv)

	var conn *websocket.Conn
	select {
	case conn = <-conns:
	case <-time.After(time.Second):
		t.Fatal("no server connection")
	}

	// Client không có writePump và hàng đợi không nhận thêm được gì.
	hub.mu.Lock()
	hub.clients["stalled"] = &client{conn: conn, send: make(chan []byte), done: make(chan struct{})}
	hub.mu.Unlock()

	start := time.Now()
	hub.InventoryChanged(1)

	assert.Less(t, time.Since(start), writeWait/10)
	assert.Equal(t, 0, hub.Len())
}
