package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/playlinks/backend/internal/config"
	"github.com/redis/go-redis/v9"
)

var rdbClient *redis.Client
var wsConfig *config.Config

func SetRedisClient(r *redis.Client, cfg *config.Config) {
	rdbClient = r
	wsConfig = cfg
}

// StartSessionEventSubscriber subscribes to the session_events channel and
// relays reaper-published events to the affected broadcast group. The reaper
// runs outside the WS layer, so this is how its evictions become visible to
// clients that are still connected.
func StartSessionEventSubscriber(ctx context.Context) {
	if rdbClient == nil {
		log.Println("[WS] Redis client not set; session event subscriber not started")
		return
	}

	pubsub := rdbClient.Subscribe(ctx, "session_events")
	ch := pubsub.Channel()
	go func() {
		log.Println("[WS] session_events subscriber started")
		for msg := range ch {
			var payload map[string]interface{}
			if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
				log.Printf("[WS] invalid event payload: %v", err)
				continue
			}

			typeStr, _ := payload["type"].(string)
			sessionID, _ := payload["session_id"].(string)
			if sessionID == "" {
				continue
			}

			switch typeStr {
			case "session_expired":
				GameHub.mu.RLock()
				room, exists := GameHub.sessionRooms[sessionID]
				if exists {
					log.Printf("[WS] broadcasting session_expired for session %s (room_size=%d)", sessionID, len(room))
				}
				GameHub.mu.RUnlock()
				if exists {
					GameHub.BroadcastToSession(sessionID, map[string]interface{}{
						"type":       "session_expired",
						"session_id": sessionID,
						"message":    payload["message"],
					})
					GameHub.ReleaseRoom(sessionID)
				}

			default:
				log.Printf("[WS] unknown event type: %s", typeStr)
			}
		}
	}()
}
