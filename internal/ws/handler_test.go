package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/playlinks/backend/internal/game"
)

func newTestClient(playerID string) *Client {
	return &Client{
		playerID:    playerID,
		displayName: playerID,
		send:        make(chan []byte, 8),
	}
}

func TestSendAfterCloseIsDropped(t *testing.T) {
	c := newTestClient("alice")
	c.closeSend()
	c.closeSend() // closing twice must be safe

	// A reconnect can close the old client's channel while a handler is
	// still answering it. The error must be dropped, not panic.
	c.sendError("too late")

	if c.trySend([]byte("x")) {
		t.Error("trySend should report failure after closeSend")
	}
}

func TestTrySendReportsFullBuffer(t *testing.T) {
	c := &Client{playerID: "alice", send: make(chan []byte, 1)}

	if !c.trySend([]byte("first")) {
		t.Fatal("Send into an empty buffer should succeed")
	}
	if c.trySend([]byte("second")) {
		t.Error("Send into a full buffer should be dropped, not block")
	}
}

func TestChatFromNonMemberRejected(t *testing.T) {
	game.Manager = game.NewSessionManager(nil, nil, nil)
	s, _ := game.Manager.GetOrCreateSession("room1")
	s.AddPlayer("alice", "", "Alice")
	s.AddPlayer("bob", "", "Bob")
	s.LastActivity = time.Now().Add(-time.Hour)

	mallory := newTestClient("mallory")
	mallory.handleChatMessage(ChatMessageData{SessionID: "room1", Message: "hello"})

	select {
	case raw := <-mallory.send:
		var reply map[string]interface{}
		if err := json.Unmarshal(raw, &reply); err != nil {
			t.Fatalf("Bad reply payload: %v", err)
		}
		if reply["type"] != "error" {
			t.Errorf("Expected an error reply, got %v", reply["type"])
		}
	default:
		t.Fatal("Non-member chat should be answered with an error")
	}

	if !s.IsInactive(time.Minute) {
		t.Error("Non-member chat must not refresh session activity")
	}
}

func TestChatFromMemberRefreshesActivity(t *testing.T) {
	game.Manager = game.NewSessionManager(nil, nil, nil)
	s, _ := game.Manager.GetOrCreateSession("room2")
	s.AddPlayer("alice", "", "Alice")
	s.AddPlayer("bob", "", "Bob")
	s.LastActivity = time.Now().Add(-time.Hour)

	alice := newTestClient("alice")
	alice.handleChatMessage(ChatMessageData{SessionID: "room2", Message: "hello"})

	select {
	case raw := <-alice.send:
		t.Errorf("Member chat should not error back at the sender: %s", raw)
	default:
	}

	if s.IsInactive(time.Minute) {
		t.Error("Member chat should refresh session activity")
	}
}
