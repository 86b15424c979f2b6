package game

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"goban/internal/domain/game"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	sendBufferSize = 16
)

// client is one websocket subscriber. Only writePump writes to conn.
type client struct {
	gameID string
	conn   *websocket.Conn
	send   chan []byte
}

// Hub fans committed turns out to the websocket subscribers of each game.
type Hub struct {
	log     *zap.SugaredLogger
	mu      sync.Mutex
	clients map[string]map[*client]struct{}
}

func NewHub(log *zap.SugaredLogger) *Hub {
	return &Hub{
		log:     log,
		clients: make(map[string]map[*client]struct{}),
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.gameID]
	if !ok {
		set = make(map[*client]struct{})
		h.clients[c.gameID] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.drop(c)
}

// drop must be called with h.mu held.
func (h *Hub) drop(c *client) {
	set, ok := h.clients[c.gameID]
	if !ok {
		return
	}
	if _, ok = set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.send)
	if len(set) == 0 {
		delete(h.clients, c.gameID)
	}
}

// Broadcast sends turn to every subscriber of the game. A subscriber whose
// buffer is full is disconnected.
func (h *Hub) Broadcast(gameID string, turn game.Turn) {
	data, err := json.Marshal(turn)
	if err != nil {
		h.log.Errorf("marshal turn for game %s: %v", gameID, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients[gameID] {
		select {
		case c.send <- data:
		default:
			h.log.Warnf("game %s: dropping slow subscriber", gameID)
			h.drop(c)
		}
	}
}

// reply queues a message for a single client.
func (h *Hub) reply(c *client, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		h.log.Errorf("marshal reply: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.gameID][c]; !ok {
		return
	}
	select {
	case c.send <- data:
	default:
		h.drop(c)
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
