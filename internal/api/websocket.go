package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pasjesplank/plank/internal/logger"
	"github.com/pasjesplank/plank/internal/session"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// WebSocketHub hosts one UI session per connection and fans out change
// notifications to all of them.
type WebSocketHub struct {
	app     *AppContext
	mu      sync.RWMutex
	clients map[*WebSocketClient]bool
}

// WebSocketClient represents a connected WebSocket client and its session.
type WebSocketClient struct {
	hub    *WebSocketHub
	conn   *websocket.Conn
	send   chan []byte
	cancel context.CancelFunc

	loop       *session.Loop
	session    *session.Session
	scanner    *remoteScanner
	view       *sessionView
	refreshing atomic.Bool
}

// WebSocketMessage is the JSON message sent to clients.
type WebSocketMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// NewWebSocketHub creates a new WebSocket hub. app may be nil for a hub that
// only broadcasts.
func NewWebSocketHub(app *AppContext) *WebSocketHub {
	return &WebSocketHub{
		app:     app,
		clients: make(map[*WebSocketClient]bool),
	}
}

// OnFileChange implements FileWatcherSubscriber. The collection changed on
// disk, so every session redraws.
func (h *WebSocketHub) OnFileChange(change FileChange) {
	msg := WebSocketMessage{
		Type: "file_change",
		Data: change,
	}

	data, err := json.Marshal(msg)
	if err != nil {
		logger.Get().Errorw("failed to marshal file change", "error", err)
		return
	}

	h.broadcast(data)
	h.Refresh()
}

// Refresh asks every session to redraw from the store.
func (h *WebSocketHub) Refresh() {
	for _, client := range h.snapshot() {
		client.requestRefresh()
	}
}

func (h *WebSocketHub) snapshot() []*WebSocketClient {
	h.mu.RLock()
	defer h.mu.RUnlock()
	clients := make([]*WebSocketClient, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	return clients
}

// broadcast sends a message to all connected clients.
func (h *WebSocketHub) broadcast(data []byte) {
	for _, client := range h.snapshot() {
		h.trySend(client, data)
	}
}

// trySend attempts to send data to a client, handling the case where
// the client's channel was closed between snapshot and send.
func (h *WebSocketHub) trySend(client *WebSocketClient, data []byte) (sent bool) {
	defer func() {
		if r := recover(); r != nil {
			// Channel was closed by removeClient - client already cleaned up
			sent = false
		}
	}()

	select {
	case client.send <- data:
		return true
	default:
		// Client buffer full, close it
		h.removeClient(client)
		return false
	}
}

func (h *WebSocketHub) addClient(client *WebSocketClient) {
	h.mu.Lock()
	h.clients[client] = true
	h.mu.Unlock()
}

func (h *WebSocketHub) removeClient(client *WebSocketClient) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	h.mu.Unlock()
}

// ServeWS upgrades the connection and starts a UI session for it.
func (h *WebSocketHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	if h.app == nil {
		http.Error(w, "sessions unavailable", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Get().Warnw("WebSocket upgrade failed", "error", err)
		return
	}

	// The request context ends when this handler returns; the session
	// lives as long as the connection.
	ctx, cancel := context.WithCancel(context.Background())
	client := h.newClient(ctx, conn, cancel)

	h.addClient(client)

	go client.writePump()
	go client.readPump()
	go client.run(ctx)

	client.loop.Post(func() {
		client.sendJSON("connected", map[string]any{"message": "Session started"})
		if err := client.session.Start(); err != nil {
			logger.Get().Errorw("failed to start session", "error", err)
		}
	})
}

func (h *WebSocketHub) newClient(ctx context.Context, conn *websocket.Conn, cancel context.CancelFunc) *WebSocketClient {
	client := &WebSocketClient{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, 256),
		cancel: cancel,
		loop:   session.NewLoop(),
	}
	client.view = &sessionView{client: client}
	client.scanner = &remoteScanner{}
	client.session = session.New(ctx, session.Deps{
		Store:     h.app.Cards,
		View:      client.view,
		Surface:   client.view,
		Scanner:   client.scanner,
		Barcodes:  h.app.Barcodes,
		Scheduler: client.loop.Scheduler(),
		Post:      func(fn func()) { client.loop.Post(fn) },
		Metrics:   h.app.Metrics,
	}, h.app.Session)
	return client
}

// run drives the session until the connection goes away. Close runs on the
// same goroutine, after the last queued handler.
func (c *WebSocketClient) run(ctx context.Context) {
	c.loop.Run(ctx)
	c.session.Close()
}

// sendJSON queues a message for the client. It reports whether the message
// was queued.
func (c *WebSocketClient) sendJSON(msgType string, data any) bool {
	payload, err := json.Marshal(WebSocketMessage{Type: msgType, Data: data})
	if err != nil {
		logger.Get().Errorw("failed to marshal message", "type", msgType, "error", err)
		return false
	}
	return c.hub.trySend(c, payload)
}

// requestRefresh queues one redraw. Requests that arrive while one is pending
// are merged into it. The post happens off the loop goroutine, since store
// notifications may come from a handler running on it.
func (c *WebSocketClient) requestRefresh() {
	if c.loop == nil || c.session == nil {
		return
	}
	if !c.refreshing.CompareAndSwap(false, true) {
		return
	}
	go c.loop.Post(func() {
		c.refreshing.Store(false)
		if err := c.session.Refresh(); err != nil {
			logger.Get().Warnw("session refresh failed", "error", err)
		}
	})
}

// readPump reads client messages and hands them to the session.
func (c *WebSocketClient) readPump() {
	defer func() {
		// Only call removeClient here - closing send channel signals writePump to exit
		// writePump is responsible for closing the connection
		c.hub.removeClient(c)
		if c.cancel != nil {
			c.cancel()
		}
	}()

	c.conn.SetReadLimit(4096)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Get().Warnw("WebSocket read error", "error", err)
			}
			break
		}
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		c.handleMessage(data)
	}
}

// writePump writes messages to the WebSocket connection.
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(30 * time.Second) // Ping interval
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// Send each message as its own WebSocket frame (not batched)
			// This ensures the frontend receives valid JSON for each message
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

			// Send any queued messages as separate frames
			n := len(c.send)
			for i := 0; i < n; i++ {
				queuedMsg, ok := <-c.send
				if !ok {
					return
				}
				if err := c.conn.WriteMessage(websocket.TextMessage, queuedMsg); err != nil {
					return
				}
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *WebSocketHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
