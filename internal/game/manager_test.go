package game

import (
	"testing"
	"time"

	"github.com/playlinks/backend/internal/config"
)

func testManager() *SessionManager {
	return NewSessionManager(nil, nil, &config.Config{
		SessionIdleTimeoutMin: 60,
		ReaperIntervalSecs:    60,
		SessionSnapshotTTLMin: 120,
	})
}

func TestGetOrCreateSession(t *testing.T) {
	sm := testManager()

	s1, created := sm.GetOrCreateSession("demo")
	if !created {
		t.Error("First reference should create the session")
	}

	s2, created := sm.GetOrCreateSession("demo")
	if created {
		t.Error("Second reference should not create a new session")
	}
	if s1 != s2 {
		t.Error("Get-or-create should return the same session instance")
	}

	if sm.ActiveSessionCount() != 1 {
		t.Errorf("Expected 1 active session, got %d", sm.ActiveSessionCount())
	}
}

func TestGetSessionNeverCreates(t *testing.T) {
	sm := testManager()

	if _, err := sm.GetSession("nope"); err == nil {
		t.Error("Lookup of an unknown session should fail, not create one")
	}
	if sm.ActiveSessionCount() != 0 {
		t.Errorf("Lookup created a session: count=%d", sm.ActiveSessionCount())
	}
}

func TestReaperEvictsOnlyIdleSessions(t *testing.T) {
	sm := testManager()

	idle, _ := sm.GetOrCreateSession("idle")
	busy, _ := sm.GetOrCreateSession("busy")

	idle.LastActivity = time.Now().Add(-2 * time.Hour)
	busy.Touch()

	sm.reapIdleSessions()

	if _, err := sm.GetSession("idle"); err == nil {
		t.Error("Idle session should have been reaped")
	}
	if _, err := sm.GetSession("busy"); err != nil {
		t.Error("Active session should have been retained")
	}
	if sm.ActiveSessionCount() != 1 {
		t.Errorf("Expected 1 surviving session, got %d", sm.ActiveSessionCount())
	}
}

func TestReaperRetainsSessionTouchedInsideWindow(t *testing.T) {
	sm := testManager()

	s, _ := sm.GetOrCreateSession("demo")
	s.LastActivity = time.Now().Add(-59 * time.Minute)

	sm.reapIdleSessions()

	if _, err := sm.GetSession("demo"); err != nil {
		t.Error("Session inside the idle window should survive a reaper pass")
	}
}

func TestRemoveSession(t *testing.T) {
	sm := testManager()
	sm.GetOrCreateSession("demo")

	sm.RemoveSession("demo")
	if _, err := sm.GetSession("demo"); err == nil {
		t.Error("Removed session should be gone")
	}
}

func TestRecordCompletedSessionWithoutDB(t *testing.T) {
	// Persistence is fire-and-forget; with no DB attached it must be a no-op
	sm := testManager()
	s, _ := sm.GetOrCreateSession("demo")
	s.AddPlayer("alice", "", "Alice")
	s.AddPlayer("bob", "", "Bob")

	sm.RecordCompletedSession(s)
	sm.SaveToRedis(s)
}
