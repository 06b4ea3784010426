package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	eventsChannel = "notifications:events"

	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

type event struct {
	UserID       string        `json:"user_id"`
	Notification *Notification `json:"notification"`
}

// Connection is one client's WebSocket session
type Connection struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
	Send   chan []byte
}

// Hub fans freshly created notifications out to connected clients. With
// Redis, events flow through pub/sub so every instance sees them; without,
// delivery stays instance-local.
type Hub struct {
	connections map[uuid.UUID]map[*Connection]bool
	redis       *redis.Client
	pubsub      *redis.PubSub
	mu          sync.RWMutex

	register   chan *Connection
	unregister chan *Connection

	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub creates the notification hub. redisClient may be nil.
func NewHub(redisClient *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	h := &Hub{
		connections: make(map[uuid.UUID]map[*Connection]bool),
		redis:       redisClient,
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		ctx:         ctx,
		cancel:      cancel,
	}
	if redisClient != nil {
		h.pubsub = redisClient.Subscribe(ctx, eventsChannel)
	}
	return h
}

// Run starts the hub (call in goroutine)
func (h *Hub) Run() {
	if h.pubsub != nil {
		go h.runSubscriber()
	}

	for {
		select {
		case <-h.ctx.Done():
			return

		case conn := <-h.register:
			h.mu.Lock()
			if h.connections[conn.UserID] == nil {
				h.connections[conn.UserID] = make(map[*Connection]bool)
			}
			h.connections[conn.UserID][conn] = true
			h.mu.Unlock()
			log.Debug().Str("user_id", conn.UserID.String()).Msg("WebSocket client connected")

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.connections[conn.UserID]; ok {
				if _, exists := conns[conn]; exists {
					delete(conns, conn)
					close(conn.Send)
				}
				if len(conns) == 0 {
					delete(h.connections, conn.UserID)
				}
			}
			h.mu.Unlock()
			log.Debug().Str("user_id", conn.UserID.String()).Msg("WebSocket client disconnected")
		}
	}
}

// Stop shuts down the hub and closes the pub/sub subscription
func (h *Hub) Stop() {
	h.cancel()
	if h.pubsub != nil {
		_ = h.pubsub.Close()
	}
}

// Publish delivers a notification to its recipient. Implements Publisher.
func (h *Hub) Publish(ctx context.Context, n *Notification) {
	if h.redis != nil {
		payload, err := json.Marshal(event{UserID: n.UserID.String(), Notification: n})
		if err == nil {
			if err := h.redis.Publish(ctx, eventsChannel, payload).Err(); err == nil {
				return
			}
			log.Warn().Err(err).Msg("Failed to publish notification event, delivering locally")
		}
	}
	h.deliverLocal(n.UserID, n)
}

func (h *Hub) runSubscriber() {
	ch := h.pubsub.Channel()
	for {
		select {
		case <-h.ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var ev event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				continue
			}
			userID, err := uuid.Parse(ev.UserID)
			if err != nil {
				continue
			}
			h.deliverLocal(userID, ev.Notification)
		}
	}
}

func (h *Hub) deliverLocal(userID uuid.UUID, n *Notification) {
	payload, err := json.Marshal(n)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for conn := range h.connections[userID] {
		select {
		case conn.Send <- payload:
		default:
			// Slow consumer; drop the event rather than block the hub.
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWS upgrades the request and pumps notifications to the client until
// it disconnects.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	conn := &Connection{
		UserID: userID,
		Conn:   ws,
		Send:   make(chan []byte, 16),
	}
	h.register <- conn

	go h.writePump(conn)
	h.readPump(conn)
}

func (h *Hub) readPump(conn *Connection) {
	defer func() {
		h.unregister <- conn
		_ = conn.Conn.Close()
	}()

	conn.Conn.SetReadLimit(512)
	_ = conn.Conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.Conn.SetPongHandler(func(string) error {
		return conn.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		// Clients don't send application messages; this loop exists to
		// process control frames and detect disconnects.
		if _, _, err := conn.Conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Conn.Close()
	}()

	for {
		select {
		case payload, ok := <-conn.Send:
			_ = conn.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			_ = conn.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
