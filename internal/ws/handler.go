package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development
	},
}

// Client represents a connected WebSocket client
type Client struct {
	conn        *websocket.Conn
	playerID    string
	accountID   string
	displayName string
	sessionID   string // set when the client joins a session
	send        chan []byte

	sendMu sync.Mutex
	closed bool
}

// trySend queues a message unless the client's send channel has been closed
// (the connection was replaced or torn down) or the buffer is full. Reports
// whether the message was queued.
func (c *Client) trySend(data []byte) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// closeSend closes the send channel exactly once. Safe to call concurrently
// with trySend; senders observe the closed flag under the same lock.
func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// Hub maintains the set of active clients and the per-session broadcast groups
type Hub struct {
	clients      map[string]*Client            // playerID -> Client
	sessionRooms map[string]map[string]*Client // sessionID -> playerID -> Client
	register     chan *Client
	unregister   chan *Client
	mu           sync.RWMutex
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		clients:      make(map[string]*Client),
		sessionRooms: make(map[string]map[string]*Client),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
	}
}

// JoinRoom attaches a client to a session's broadcast group
func (h *Hub) JoinRoom(sessionID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.sessionRooms[sessionID]; !exists {
		h.sessionRooms[sessionID] = make(map[string]*Client)
	}
	h.sessionRooms[sessionID][client.playerID] = client
	client.sessionID = sessionID
}

// BroadcastToSession sends a message to every client attached to a session
func (h *Hub) BroadcastToSession(sessionID string, message interface{}) {
	h.broadcast(sessionID, "", message)
}

// BroadcastToOthers sends a message to a session's group except one player
func (h *Hub) BroadcastToOthers(sessionID, excludePlayerID string, message interface{}) {
	h.broadcast(sessionID, excludePlayerID, message)
}

func (h *Hub) broadcast(sessionID, excludePlayerID string, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if room, exists := h.sessionRooms[sessionID]; exists {
		for _, client := range room {
			if client.playerID == excludePlayerID {
				continue
			}
			if !client.trySend(data) {
				log.Printf("Client send buffer full for player %s in session %s, dropping message", client.playerID, sessionID)
			}
		}
	}
}

// SendToPlayer sends a message to a specific player
func (h *Hub) SendToPlayer(playerID string, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if client, exists := h.clients[playerID]; exists {
		if !client.trySend(data) {
			log.Printf("[WS] SendToPlayer dropped message for player %s (buffer full)", playerID)
		}
	} else {
		log.Printf("[WS] SendToPlayer no client for player %s", playerID)
	}
}

// ReleaseRoom drops a session's broadcast group entirely
func (h *Hub) ReleaseRoom(sessionID string) {
	h.mu.Lock()
	delete(h.sessionRooms, sessionID)
	h.mu.Unlock()
}

// Message types
type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// writePump writes messages to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// Channel closed — connection is being replaced or cleaned up.
				// Best-effort close frame; ignore errors (conn may already be closed).
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("WebSocket write error for player %s: %v", c.playerID, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("WebSocket ping error for player %s: %v", c.playerID, err)
				return
			}
		}
	}
}

// sendError sends an error message to the client
func (c *Client) sendError(message string) {
	data, _ := json.Marshal(map[string]interface{}{
		"type":    "error",
		"message": message,
	})
	if !c.trySend(data) {
		log.Printf("[WS] Dropped error for player %s: %s", c.playerID, message)
	}
}
