package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// writeWait bounds how long one stalled subscriber can hold the
// broadcaster lock before it is dropped.
const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // single local user, any origin
	},
}

// EventMessage is the envelope pushed to websocket subscribers.
type EventMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// Broadcaster fans assistant events out to attached websocket clients.
// Dead connections are dropped on write failure. A nil Broadcaster is
// valid and publishes nowhere.
type Broadcaster struct {
	mu     sync.Mutex
	conns  map[*websocket.Conn]bool
	logger *zap.Logger
}

func NewBroadcaster(logger *zap.Logger) *Broadcaster {
	if logger == nil {
		logger = zap.L()
	}
	return &Broadcaster{
		conns:  make(map[*websocket.Conn]bool),
		logger: logger,
	}
}

// Publish sends one event to every subscriber.
func (b *Broadcaster) Publish(msgType string, data interface{}) {
	if b == nil {
		return
	}

	msg := EventMessage{
		Type:      msgType,
		Data:      data,
		Timestamp: time.Now(),
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for conn := range b.conns {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(msg); err != nil {
			b.logger.Debug("Dropping dead websocket subscriber", zap.Error(err))
			conn.Close()
			delete(b.conns, conn)
		}
	}
}

// HandleWS upgrades the request and keeps the connection subscribed until
// the peer goes away.
func (b *Broadcaster) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.logger.Error("Failed to upgrade to websocket", zap.Error(err))
		return
	}

	b.mu.Lock()
	b.conns[conn] = true
	subscribers := len(b.conns)
	b.mu.Unlock()
	b.logger.Info("Event subscriber attached", zap.Int("subscribers", subscribers))

	// Read loop only to observe the close; subscribers never send.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	b.mu.Lock()
	delete(b.conns, conn)
	b.mu.Unlock()
	conn.Close()
	b.logger.Info("Event subscriber detached")
}
