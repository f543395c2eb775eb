package realtime

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	maxInboundSize = 512
)

// Metrics receives hub activity.
type Metrics interface {
	LiveConnectionOpened()
	LiveConnectionClosed()
	RecordLiveMessage(topic string, recipients int)
}

// HubConfig tunes connection handling.
type HubConfig struct {
	PingInterval   time.Duration
	SendBuffer     int
	AllowedOrigins []string
}

// Hub tracks websocket subscribers and their topics.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*Client]struct{}
	cfg      HubConfig
	upgrader websocket.Upgrader
	metrics  Metrics
	logger   *zap.Logger
}

// Client is one websocket subscriber.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	topics map[string]struct{}
	once   sync.Once
}

// NewHub constructs a hub. metrics may be nil.
func NewHub(cfg HubConfig, metrics Metrics, logger *zap.Logger) *Hub {
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = 30 * time.Second
	}
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = 16
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Hub{
		clients: make(map[*Client]struct{}),
		cfg:     cfg,
		metrics: metrics,
		logger:  logger,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	if len(h.cfg.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.cfg.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

// Upgrade switches the request to the websocket protocol.
func (h *Hub) Upgrade(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return h.upgrader.Upgrade(w, r, nil)
}

// Register adds a connection subscribed to topics. Call Serve afterwards to run it.
func (h *Hub) Register(conn *websocket.Conn, topics []string) *Client {
	c := &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, h.cfg.SendBuffer),
		topics: make(map[string]struct{}, len(topics)),
	}
	for _, topic := range topics {
		c.topics[topic] = struct{}{}
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	if h.metrics != nil {
		h.metrics.LiveConnectionOpened()
	}
	return c
}

// Subscribed reports whether any client follows topic.
func (h *Hub) Subscribed(topic string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if c.follows(topic) {
			return true
		}
	}
	return false
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues payload for every client following topic and returns the number reached.
// Clients whose send buffer is full are disconnected.
func (h *Hub) Broadcast(topic string, payload []byte) int {
	var (
		delivered int
		slow      []*Client
	)
	h.mu.RLock()
	for c := range h.clients {
		if !c.follows(topic) {
			continue
		}
		select {
		case c.send <- payload:
			delivered++
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("dropping slow live client", zap.String("topic", topic))
		h.unregister(c)
	}
	if h.metrics != nil {
		h.metrics.RecordLiveMessage(topic, delivered)
	}
	return delivered
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		h.unregister(c)
	}
}

func (h *Hub) unregister(c *Client) {
	c.once.Do(func() {
		h.mu.Lock()
		delete(h.clients, c)
		h.mu.Unlock()
		close(c.send)
		if h.metrics != nil {
			h.metrics.LiveConnectionClosed()
		}
	})
}

func (c *Client) follows(topic string) bool {
	_, ok := c.topics[topic]
	return ok
}

// Send queues a payload for this client only. It reports false when the buffer is full.
func (c *Client) Send(payload []byte) (ok bool) {
	defer func() {
		// send on a channel closed by a concurrent unregister
		if recover() != nil {
			ok = false
		}
	}()
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// Serve pumps messages until the peer disconnects or the client is dropped. It blocks.
func (c *Client) Serve() {
	go c.writePump()
	c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
	}()

	pongWait := 2 * c.hub.cfg.PingInterval
	c.conn.SetReadLimit(maxInboundSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		// Inbound frames are ignored; reading keeps control frames flowing.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug("live client read error", zap.Error(err))
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(c.hub.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
