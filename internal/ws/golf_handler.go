package ws

import (
	"crypto/rand"
	"encoding/json"
	"log"
	"math/big"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/gorilla/websocket"
	"github.com/playlinks/backend/internal/game"
)

// Golf-specific message data types
type JoinGameData struct {
	SessionID   string `json:"session_id"`
	DisplayName string `json:"display_name"`
}

type PlayerSwingData struct {
	SessionID   string           `json:"session_id"`
	Shot        game.ShotInput   `json:"shot"`
	Environment game.Environment `json:"environment"`
}

type ChatMessageData struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// GameHub is the single hub for all sessions.
var GameHub *Hub

func init() {
	GameHub = NewHub()
	go runGameHub(GameHub)
}

// HandleWebSocket upgrades the connection and resolves the caller's identity.
// A valid JWT (query param "token") binds the connection to that account;
// anything else gets a fresh guest identity, since the session engine only
// needs an authenticated player identity, not an account.
func HandleWebSocket(c *gin.Context) {
	playerID, accountID, displayName := resolveIdentity(c.Query("token"), c.Query("name"))

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	client := &Client{
		conn:        conn,
		playerID:    playerID,
		accountID:   accountID,
		displayName: displayName,
		send:        make(chan []byte, 256),
	}

	GameHub.register <- client

	go client.writePump()
	go client.readPump()
}

func resolveIdentity(tokenString, name string) (playerID, accountID, displayName string) {
	if tokenString != "" && wsConfig != nil {
		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(wsConfig.JWTSecret), nil
		})
		if err == nil && token.Valid {
			if claims, ok := token.Claims.(jwt.MapClaims); ok {
				sub, _ := claims["sub"].(string)
				claimName, _ := claims["name"].(string)
				isGuest, _ := claims["guest"].(bool)
				if sub != "" {
					if name == "" {
						name = claimName
					}
					if name == "" {
						name = sub
					}
					if isGuest {
						// Authenticated identity without an account behind it
						return sub, "", name
					}
					return sub, sub, name
				}
			}
		} else {
			log.Printf("[WS] Invalid token, falling back to guest identity: %v", err)
		}
	}

	guestID := "guest_" + randomID(8)
	if name == "" {
		name = guestID
	}
	return guestID, "", name
}

func randomID(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		result[i] = charset[n.Int64()]
	}
	return string(result)
}

// runGameHub runs the hub loop: connection registration and teardown.
func runGameHub(h *Hub) {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()

			if oldClient, exists := h.clients[client.playerID]; exists {
				log.Printf("[WS] Player %s reconnecting - closing old connection", client.playerID)
				if err := oldClient.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "replaced by new connection"), time.Now().Add(5*time.Second)); err != nil {
					log.Printf("Error writing close control to old client %s: %v", oldClient.playerID, err)
				}
				oldClient.conn.Close()
				oldClient.closeSend()
				delete(h.clients, client.playerID)
				if room, exists := h.sessionRooms[oldClient.sessionID]; exists {
					delete(room, client.playerID)
				}
				client.sessionID = oldClient.sessionID
			}

			h.clients[client.playerID] = client
			if client.sessionID != "" {
				if _, exists := h.sessionRooms[client.sessionID]; !exists {
					h.sessionRooms[client.sessionID] = make(map[string]*Client)
				}
				h.sessionRooms[client.sessionID][client.playerID] = client
			}
			h.mu.Unlock()

			log.Printf("[WS] Player %s connected", client.playerID)

		case client := <-h.unregister:
			h.mu.Lock()
			cur, ok := h.clients[client.playerID]
			if ok && cur == client {
				delete(h.clients, client.playerID)
				if room, exists := h.sessionRooms[client.sessionID]; exists {
					delete(room, client.playerID)
					if len(room) == 0 {
						delete(h.sessionRooms, client.sessionID)
					}
				}
				client.closeSend()
			}
			h.mu.Unlock()

			if ok && cur == client && client.sessionID != "" {
				log.Printf("[WS] Player %s disconnected from session %s", client.playerID, client.sessionID)
				handleLeave(h, client)
			}
		}
	}
}

// handleLeave keeps a session moving when a player drops: everyone left in
// the group hears about it, and if the leaver held the turn it passes on.
func handleLeave(h *Hub, client *Client) {
	s, err := game.Manager.GetSession(client.sessionID)
	if err != nil {
		return
	}

	advanced, nextTurn := s.HandleDisconnect(client.playerID)

	h.BroadcastToSession(client.sessionID, map[string]interface{}{
		"type":         "player_left",
		"player_id":    client.playerID,
		"display_name": client.displayName,
	})
	if advanced {
		h.BroadcastToSession(client.sessionID, map[string]interface{}{
			"type":      "player_turn",
			"player_id": nextTurn,
		})
	}

	game.Manager.SaveToRedis(s)
}

// readPump reads messages from the client connection.
func (c *Client) readPump() {
	defer func() {
		GameHub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(65536)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error (unexpected) for player %s: %v", c.playerID, err)
			} else {
				log.Printf("WebSocket read error for player %s: %v", c.playerID, err)
			}
			break
		}

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}

		c.handleMessage(msg)
	}
}

// handleMessage processes incoming session messages.
func (c *Client) handleMessage(msg WSMessage) {
	switch msg.Type {
	case "join_game":
		var data JoinGameData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Invalid join data")
			return
		}
		c.handleJoinGame(data)

	case "player_swing":
		var data PlayerSwingData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Invalid shot data")
			return
		}
		c.handlePlayerSwing(data)

	case "chat_message":
		var data ChatMessageData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Invalid chat data")
			return
		}
		c.handleChatMessage(data)

	case "get_state":
		c.handleGetState()

	default:
		c.sendError("Unknown message type")
	}
}

// handleJoinGame resolves or creates the target session, seats the player
// and attaches this connection to the session's broadcast group.
func (c *Client) handleJoinGame(data JoinGameData) {
	if data.SessionID == "" {
		c.sendError("session_id required")
		return
	}
	if data.DisplayName != "" {
		c.displayName = data.DisplayName
	}

	s, _ := game.Manager.GetOrCreateSession(data.SessionID)

	started, err := s.AddPlayer(c.playerID, c.accountID, c.displayName)
	if err != nil {
		c.sendError(err.Error())
		return
	}

	GameHub.JoinRoom(data.SessionID, c)

	GameHub.SendToPlayer(c.playerID, map[string]interface{}{
		"type":       "game_joined",
		"session_id": s.ID,
		"players":    s.Roster(),
	})

	GameHub.BroadcastToOthers(data.SessionID, c.playerID, map[string]interface{}{
		"type":         "player_joined",
		"player_id":    c.playerID,
		"display_name": c.displayName,
	})

	if started {
		GameHub.BroadcastToSession(data.SessionID, map[string]interface{}{
			"type":         "game_started",
			"first_player": s.CurrentTurn(),
		})
	}

	game.Manager.SaveToRedis(s)
}

// handlePlayerSwing forwards a shot into the session. Swings never create
// sessions; an unknown id is answered with an error, not a new session.
func (c *Client) handlePlayerSwing(data PlayerSwingData) {
	s, err := game.Manager.GetSession(data.SessionID)
	if err != nil {
		c.sendError("Session not found")
		return
	}

	outcome, err := s.TakeShot(c.playerID, data.Shot, data.Environment)
	if err != nil {
		// Rejections are answered explicitly so a refused swing is
		// distinguishable from a lost message.
		GameHub.SendToPlayer(c.playerID, map[string]interface{}{
			"type":   "shot_rejected",
			"reason": err.Error(),
		})
		return
	}

	GameHub.BroadcastToSession(data.SessionID, map[string]interface{}{
		"type":             "ball_moved",
		"player_id":        outcome.PlayerID,
		"new_position":     outcome.Result.NewPosition,
		"trajectory":       outcome.Result.Trajectory,
		"is_in_hole":       outcome.Result.IsInHole,
		"distance_to_hole": outcome.Result.DistanceToHole,
	})

	if outcome.HoleComplete {
		GameHub.BroadcastToSession(data.SessionID, map[string]interface{}{
			"type":      "hole_complete",
			"player_id": outcome.PlayerID,
		})
		game.Manager.RecordCompletedSession(s)
	} else {
		GameHub.BroadcastToSession(data.SessionID, map[string]interface{}{
			"type":      "player_turn",
			"player_id": outcome.NextTurn,
		})
	}

	game.Manager.SaveToRedis(s)
}

// handleChatMessage relays chat verbatim to the rest of the session's group.
func (c *Client) handleChatMessage(data ChatMessageData) {
	s, err := game.Manager.GetSession(data.SessionID)
	if err != nil {
		c.sendError("Session not found")
		return
	}
	if !s.HasPlayer(c.playerID) {
		c.sendError("Not in this session")
		return
	}

	s.Touch()

	GameHub.BroadcastToOthers(data.SessionID, c.playerID, map[string]interface{}{
		"type":         "chat_message",
		"player_id":    c.playerID,
		"display_name": c.displayName,
		"message":      data.Message,
	})
}

// handleGetState replies with a full session snapshot for client resync.
func (c *Client) handleGetState() {
	if c.sessionID == "" {
		c.sendError("Not in a session")
		return
	}
	s, err := game.Manager.GetSession(c.sessionID)
	if err != nil {
		c.sendError("Session not found")
		return
	}
	state := s.Snapshot()
	state["type"] = "game_state"
	GameHub.SendToPlayer(c.playerID, state)
}
