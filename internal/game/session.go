package game

import (
	"errors"
	"log"
	"sync"
	"time"
)

// GolfPlayer represents a player in a golf session.
type GolfPlayer struct {
	ID             string     `json:"id"`
	AccountID      string     `json:"account_id,omitempty"` // empty for guests
	DisplayName    string     `json:"display_name"`
	Connected      bool       `json:"connected"`
	DisconnectedAt *time.Time `json:"-"`
}

// ShotRecord is one accepted shot kept for history; written to the database
// when the hole completes.
type ShotRecord struct {
	ShotNumber  int         `json:"shot_number"`
	PlayerID    string      `json:"player_id"`
	Input       ShotInput   `json:"input"`
	Environment Environment `json:"environment"`
	Landing     Vec2        `json:"landing"`
	InHole      bool        `json:"in_hole"`
}

// ShotOutcome is what an accepted shot produces: the physics result plus the
// turn decision the orchestrator broadcasts.
type ShotOutcome struct {
	PlayerID     string     `json:"player_id"`
	Result       ShotResult `json:"result"`
	HoleComplete bool       `json:"hole_complete"`
	NextTurn     string     `json:"next_turn,omitempty"`
}

// GolfSession is one hole being played by a fixed set of players.
// Insertion order of Players is the turn order; TurnIndex points at whoever
// may shoot next. All mutation goes through the mutex-guarded methods below.
type GolfSession struct {
	ID           string
	Players      []*GolfPlayer
	TurnIndex    int
	Balls        map[string]Vec2
	Tee          Vec2
	Hole         Vec2
	Status       GameStatus
	Winner       string
	ShotNumber   int
	Shots        []ShotRecord
	CreatedAt    time.Time
	StartedAt    *time.Time
	CompletedAt  *time.Time
	LastActivity time.Time

	mu sync.RWMutex
}

// NewGolfSession creates an empty session on the default hole layout.
func NewGolfSession(id string) *GolfSession {
	now := time.Now()
	return &GolfSession{
		ID:           id,
		Balls:        make(map[string]Vec2),
		Tee:          NewVec2(TeeX, TeeY),
		Hole:         NewVec2(HoleX, HoleY),
		Status:       StatusWaiting,
		CreatedAt:    now,
		LastActivity: now,
	}
}

// AddPlayer appends a player to the roster and drops their ball on the tee.
// Returns started=true exactly once, when the second player arrives and the
// session moves from WAITING to IN_PROGRESS. Joining again with the same id
// is treated as a reconnect, not a new seat.
func (s *GolfSession) AddPlayer(id, accountID, displayName string) (started bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Status == StatusCompleted {
		return false, errors.New("hole already completed")
	}

	s.LastActivity = time.Now()

	if p := s.playerByID(id); p != nil {
		p.Connected = true
		p.DisconnectedAt = nil
		log.Printf("[GOLF] Player %s rejoined session %s", id, s.ID)
		return false, nil
	}

	s.Players = append(s.Players, &GolfPlayer{
		ID:          id,
		AccountID:   accountID,
		DisplayName: displayName,
		Connected:   true,
	})
	s.Balls[id] = s.Tee

	if s.Status == StatusWaiting && len(s.Players) >= 2 {
		now := time.Now()
		s.Status = StatusInProgress
		s.StartedAt = &now
		log.Printf("[GOLF] Session %s started, %s plays first", s.ID, s.Players[s.TurnIndex].ID)
		return true, nil
	}
	return false, nil
}

// TakeShot resolves one swing for playerID. Every rejection comes back as an
// error so the orchestrator can tell the sender why the ball didn't move.
func (s *GolfSession) TakeShot(playerID string, shot ShotInput, env Environment) (*ShotOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.playerByID(playerID) == nil {
		return nil, errors.New("player is not in this session")
	}
	if s.Status == StatusWaiting {
		return nil, errors.New("waiting for opponent")
	}
	if s.Status == StatusCompleted {
		return nil, errors.New("hole already completed")
	}
	if s.Players[s.TurnIndex].ID != playerID {
		return nil, errors.New("not your turn")
	}

	origin := s.Balls[playerID]
	result := ResolveShot(shot, origin, s.Hole, env)

	s.Balls[playerID] = result.NewPosition
	s.ShotNumber++
	s.Shots = append(s.Shots, ShotRecord{
		ShotNumber:  s.ShotNumber,
		PlayerID:    playerID,
		Input:       shot,
		Environment: env,
		Landing:     result.NewPosition,
		InHole:      result.IsInHole,
	})
	s.LastActivity = time.Now()

	outcome := &ShotOutcome{
		PlayerID: playerID,
		Result:   result,
	}

	if result.IsInHole {
		now := time.Now()
		s.Status = StatusCompleted
		s.Winner = playerID
		s.CompletedAt = &now
		outcome.HoleComplete = true
		log.Printf("[GOLF] Session %s complete: %s holed out after %d shots", s.ID, playerID, s.ShotNumber)
		return outcome, nil
	}

	s.TurnIndex = (s.TurnIndex + 1) % len(s.Players)
	outcome.NextTurn = s.Players[s.TurnIndex].ID
	return outcome, nil
}

// HandleDisconnect marks the player as gone. The seat stays (reconnects keep
// their ball), but if the leaver held the turn in a live session the turn
// advances so the remaining players can keep going. Returns the player to
// act next when the turn moved.
func (s *GolfSession) HandleDisconnect(playerID string) (advanced bool, nextTurn string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.playerByID(playerID)
	if p == nil {
		return false, ""
	}
	now := time.Now()
	p.Connected = false
	p.DisconnectedAt = &now

	if s.Status == StatusInProgress && len(s.Players) > 1 && s.Players[s.TurnIndex].ID == playerID {
		s.TurnIndex = (s.TurnIndex + 1) % len(s.Players)
		s.LastActivity = now
		return true, s.Players[s.TurnIndex].ID
	}
	return false, ""
}

// CurrentTurn returns the id of the player allowed to shoot, or "" before
// the session starts.
func (s *GolfSession) CurrentTurn() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.Players) == 0 {
		return ""
	}
	return s.Players[s.TurnIndex].ID
}

// Touch refreshes the activity timestamp (chat counts as activity).
func (s *GolfSession) Touch() {
	s.mu.Lock()
	s.LastActivity = time.Now()
	s.mu.Unlock()
}

// IsInactive reports whether the session has seen no activity for longer
// than timeout. Used only by the reaper.
func (s *GolfSession) IsInactive(timeout time.Duration) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return time.Since(s.LastActivity) > timeout
}

// ShotHistory returns a copy of the accepted shots in play order.
func (s *GolfSession) ShotHistory() []ShotRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := make([]ShotRecord, len(s.Shots))
	copy(history, s.Shots)
	return history
}

// HasPlayer reports whether the given id holds a seat in this session.
func (s *GolfSession) HasPlayer(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.playerByID(id) != nil
}

// Roster returns a copy of the player list for join replies.
func (s *GolfSession) Roster() []GolfPlayer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	roster := make([]GolfPlayer, 0, len(s.Players))
	for _, p := range s.Players {
		roster = append(roster, *p)
	}
	return roster
}

// Snapshot returns the shareable view of the session: roster, status, whose
// turn it is and where every ball lies. Used for state resync and Redis
// persistence.
func (s *GolfSession) Snapshot() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	players := make([]map[string]interface{}, 0, len(s.Players))
	for _, p := range s.Players {
		players = append(players, map[string]interface{}{
			"id":           p.ID,
			"display_name": p.DisplayName,
			"connected":    p.Connected,
		})
	}

	balls := make(map[string]Vec2, len(s.Balls))
	for id, pos := range s.Balls {
		balls[id] = pos
	}

	snap := map[string]interface{}{
		"session_id":  s.ID,
		"status":      s.Status,
		"players":     players,
		"balls":       balls,
		"hole":        s.Hole,
		"shot_number": s.ShotNumber,
	}
	if len(s.Players) > 0 {
		snap["current_turn"] = s.Players[s.TurnIndex].ID
	}
	if s.Winner != "" {
		snap["winner"] = s.Winner
	}
	return snap
}

// caller must hold s.mu
func (s *GolfSession) playerByID(id string) *GolfPlayer {
	for _, p := range s.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}
