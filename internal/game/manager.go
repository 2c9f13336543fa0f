package game

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/playlinks/backend/internal/config"
	"github.com/redis/go-redis/v9"
)

// SessionManager owns the registry of live sessions. Sessions are created
// lazily on the first join to an unknown id and removed by the reaper once
// idle. It is the only component holding writable session references.
type SessionManager struct {
	sessions map[string]*GolfSession
	mu       sync.RWMutex

	db     *sqlx.DB
	rdb    *redis.Client
	config *config.Config
}

var (
	// Manager is the global session manager instance
	Manager *SessionManager
)

// InitializeManager creates the global session manager
func InitializeManager(db *sqlx.DB, rdb *redis.Client, cfg *config.Config) {
	Manager = NewSessionManager(db, rdb, cfg)
	log.Println("[GOLF] Session manager initialized")
}

// NewSessionManager creates a new session manager
func NewSessionManager(db *sqlx.DB, rdb *redis.Client, cfg *config.Config) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*GolfSession),
		db:       db,
		rdb:      rdb,
		config:   cfg,
	}
}

// GetConfig returns the manager's config
func (sm *SessionManager) GetConfig() *config.Config {
	return sm.config
}

// GetSession returns a live session or an error if the id is unknown.
// Swing and chat use this: they never create sessions.
func (sm *SessionManager) GetSession(id string) (*GolfSession, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	s, ok := sm.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s not found", id)
	}
	return s, nil
}

// GetOrCreateSession resolves the session for a join, creating it atomically
// on first reference. Returns created=true when a new session was made.
func (sm *SessionManager) GetOrCreateSession(id string) (*GolfSession, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if s, ok := sm.sessions[id]; ok {
		return s, false
	}
	s := NewGolfSession(id)
	sm.sessions[id] = s
	log.Printf("[GOLF] Created session %s", id)
	return s, true
}

// RemoveSession deletes a session from the registry
func (sm *SessionManager) RemoveSession(id string) {
	sm.mu.Lock()
	delete(sm.sessions, id)
	sm.mu.Unlock()
}

// ActiveSessionCount returns the number of live sessions
func (sm *SessionManager) ActiveSessionCount() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// SaveToRedis writes a session snapshot so live sessions survive inspection
// and restarts. Best-effort: failures are logged, never surfaced.
func (sm *SessionManager) SaveToRedis(s *GolfSession) {
	if sm.rdb == nil {
		return
	}
	data, err := json.Marshal(s.Snapshot())
	if err != nil {
		log.Printf("[REDIS] Failed to marshal session %s: %v", s.ID, err)
		return
	}
	ttl := 2 * time.Hour
	if sm.config != nil {
		ttl = time.Duration(sm.config.SessionSnapshotTTLMin) * time.Minute
	}
	ctx := context.Background()
	if err := sm.rdb.Set(ctx, "golf_session:"+s.ID, data, ttl).Err(); err != nil {
		log.Printf("[REDIS] Failed to save session %s: %v", s.ID, err)
	}
}

// StartReaper runs the background eviction loop: every tick it removes
// sessions idle past the configured timeout and publishes a session_expired
// event for the WS layer to relay to any clients still attached.
func (sm *SessionManager) StartReaper(ctx context.Context) {
	interval := time.Duration(sm.config.ReaperIntervalSecs) * time.Second
	log.Printf("[REAPER] Started (interval=%s, timeout=%dm)", interval, sm.config.SessionIdleTimeoutMin)

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Println("[REAPER] Stopping")
				return
			case <-ticker.C:
				sm.reapIdleSessions()
			}
		}
	}()
}

func (sm *SessionManager) reapIdleSessions() {
	timeout := time.Duration(sm.config.SessionIdleTimeoutMin) * time.Minute

	sm.mu.Lock()
	var expired []*GolfSession
	for id, s := range sm.sessions {
		if s.IsInactive(timeout) {
			expired = append(expired, s)
			delete(sm.sessions, id)
		}
	}
	sm.mu.Unlock()

	for _, s := range expired {
		log.Printf("[REAPER] Evicted idle session %s", s.ID)
		sm.publishSessionExpired(s.ID)
		if sm.rdb != nil {
			sm.rdb.Del(context.Background(), "golf_session:"+s.ID)
		}
	}
}

func (sm *SessionManager) publishSessionExpired(sessionID string) {
	if sm.rdb == nil {
		return
	}
	payload, _ := json.Marshal(map[string]interface{}{
		"type":       "session_expired",
		"session_id": sessionID,
		"message":    "Session closed due to inactivity",
	})
	if err := sm.rdb.Publish(context.Background(), "session_events", payload).Err(); err != nil {
		log.Printf("[REAPER] Failed to publish expiry for session %s: %v", sessionID, err)
	}
}

// RecordCompletedSession persists a finished hole: one session row plus a
// stats bump for every registered (non-guest) player. Fire-and-forget; the
// hot path never waits on Postgres.
func (sm *SessionManager) RecordCompletedSession(s *GolfSession) {
	if sm.db == nil {
		return
	}

	roster := s.Roster()
	history := s.ShotHistory()
	go func() {
		s.mu.RLock()
		sessionID := s.ID
		winner := s.Winner
		shotCount := s.ShotNumber
		startedAt := s.StartedAt
		completedAt := s.CompletedAt
		s.mu.RUnlock()

		var sessionRowID int
		err := sm.db.QueryRow(`
			INSERT INTO golf_sessions (session_key, status, winner_account, player_count, shot_count, started_at, completed_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			sessionID, string(StatusCompleted), winnerAccount(roster, winner), len(roster), shotCount, startedAt, completedAt).Scan(&sessionRowID)
		if err != nil {
			log.Printf("[DB] Failed to record session %s: %v", sessionID, err)
			return
		}

		for _, shot := range history {
			if _, err := sm.db.Exec(`
				INSERT INTO golf_shots (session_id, shot_number, player_id, power, angle, spin, wind_speed, wind_direction, slope, landing_x, landing_y, in_hole)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
				sessionRowID, shot.ShotNumber, shot.PlayerID,
				shot.Input.Power, shot.Input.Angle, shot.Input.Spin,
				shot.Environment.WindSpeed, shot.Environment.WindDirection, shot.Environment.Slope,
				shot.Landing.X, shot.Landing.Y, shot.InHole); err != nil {
				log.Printf("[DB] Failed to record shot %d for session %s: %v", shot.ShotNumber, sessionID, err)
			}
		}

		for _, p := range roster {
			if p.AccountID == "" {
				continue
			}
			won := 0
			if p.ID == winner {
				won = 1
			}
			if _, err := sm.db.Exec(`
				UPDATE players
				SET total_holes_played = total_holes_played + 1,
				    total_holes_won = total_holes_won + $1,
				    last_active = NOW()
				WHERE phone_number = $2`, won, p.AccountID); err != nil {
				log.Printf("[DB] Failed to update stats for %s: %v", p.AccountID, err)
			}
		}
		log.Printf("[DB] Recorded completed session %s (winner=%s shots=%d)", sessionID, winner, shotCount)
	}()
}

func winnerAccount(roster []GolfPlayer, winnerID string) string {
	for _, p := range roster {
		if p.ID == winnerID && p.AccountID != "" {
			return p.AccountID
		}
	}
	return winnerID
}
