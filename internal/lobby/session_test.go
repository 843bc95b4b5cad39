package lobby

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feltable/lobby/internal/protocol"
)

// Snapshot goes through the same queue as HandleMessage, so reading one
// after enqueuing events observes all of them.
func newTestSession(t *testing.T) (*Session, *recordingEmitter) {
	t.Helper()
	emitter := &recordingEmitter{}
	session := NewSession(protocol.Identity{ID: 1, Username: "alice", Bankroll: 1000}, emitter, testLogger())
	session.Start()
	t.Cleanup(session.Close)
	return session, emitter
}

func wireMessage(t *testing.T, event protocol.EventType, payload any) *protocol.Message {
	t.Helper()
	msg, err := protocol.NewMessage(event, payload)
	require.NoError(t, err)
	return msg
}

func TestSessionLobbyScenario(t *testing.T) {
	session, _ := newTestSession(t)

	session.HandleMessage(wireMessage(t, protocol.EventReceiveLobbyInfo, protocol.LobbyInfoData{
		Tables:   protocol.Tables{},
		Players:  protocol.Players{},
		SocketID: "sockA",
	}))

	session.HandleMessage(wireMessage(t, protocol.EventTableJoined, protocol.TableJoinedData{
		Tables: protocol.Tables{5: {ID: 5, Limit: 100, Seats: map[int]*protocol.Seat{
			0: {Stack: 500, Player: protocol.PlayerRef{SocketID: "sockA"}},
		}}},
		TableID: 5,
	}))

	snap := session.Snapshot()
	require.Len(t, snap.Open, 1)
	assert.Equal(t, 5, snap.Open[0].TableID)
	assert.Equal(t, "sockA", snap.SocketID)

	seatID, seat, ok := FindMySeat(snap.Tables[5], snap.SocketID)
	require.True(t, ok)
	assert.Equal(t, 0, seatID)
	assert.Equal(t, 500, seat.Stack)
}

func TestSessionChatTranscript(t *testing.T) {
	session, _ := newTestSession(t)

	session.HandleMessage(wireMessage(t, protocol.EventReceiveLobbyInfo, protocol.LobbyInfoData{SocketID: "sockA"}))
	session.HandleMessage(wireMessage(t, protocol.EventTableJoined, protocol.TableJoinedData{
		Tables:  protocol.Tables{5: {ID: 5, Limit: 100, Seats: map[int]*protocol.Seat{0: nil}}},
		TableID: 5,
	}))
	session.HandleMessage(wireMessage(t, protocol.EventTableUpdated, protocol.TableUpdatedData{
		Table:   &protocol.Table{ID: 5, Limit: 100, Seats: map[int]*protocol.Seat{0: nil}},
		Message: "hi",
		From:    "alice",
	}))

	snap := session.Snapshot()
	require.Len(t, snap.Open, 1)
	require.Len(t, snap.Open[0].Transcript, 1)
	assert.Equal(t, ChatMessage{Message: "hi", From: "alice", TableID: 5}, snap.Open[0].Transcript[0])
}

func TestSessionRejectsMalformedPayload(t *testing.T) {
	session, _ := newTestSession(t)

	session.HandleMessage(wireMessage(t, protocol.EventReceiveLobbyInfo, protocol.LobbyInfoData{
		Tables:   protocol.Tables{1: {ID: 1, Limit: 100, Seats: map[int]*protocol.Seat{}}},
		SocketID: "sockA",
	}))

	// Not even an object: decode fails, state keeps the prior snapshot.
	session.HandleMessage(&protocol.Message{
		Event: protocol.EventTablesUpdated,
		Data:  json.RawMessage(`"garbage"`),
	})

	snap := session.Snapshot()
	assert.Len(t, snap.Tables, 1)
}

func TestSessionNavigationCleanup(t *testing.T) {
	session, _ := newTestSession(t)

	session.HandleMessage(wireMessage(t, protocol.EventReceiveLobbyInfo, protocol.LobbyInfoData{SocketID: "sockA"}))
	session.HandleMessage(wireMessage(t, protocol.EventTableJoined, protocol.TableJoinedData{
		Tables:  protocol.Tables{5: {ID: 5, Limit: 100, Seats: map[int]*protocol.Seat{0: nil}}},
		TableID: 5,
	}))

	session.SeatClick(5, 0)
	assert.True(t, session.Snapshot().Modal.Open)

	session.HandleMessage(wireMessage(t, protocol.EventTableLeft, protocol.TableLeftData{
		Tables:  protocol.Tables{5: {ID: 5, Limit: 100, Seats: map[int]*protocol.Seat{0: nil}}},
		TableID: 5,
	}))

	snap := session.Snapshot()
	assert.Empty(t, snap.Open)
	assert.False(t, snap.Modal.Open, "modal for the departed table is cleared")
}

func TestSessionSeatClickRacingTableLeft(t *testing.T) {
	session, _ := newTestSession(t)
	session.HandleMessage(wireMessage(t, protocol.EventReceiveLobbyInfo, protocol.LobbyInfoData{SocketID: "sockA"}))

	// Table 5 was never opened: the click targets nothing and no-ops.
	session.SeatClick(5, 0)
	assert.False(t, session.Snapshot().Modal.Open)
}

func TestSessionSubmitClosesModal(t *testing.T) {
	session, emitter := newTestSession(t)

	session.HandleMessage(wireMessage(t, protocol.EventReceiveLobbyInfo, protocol.LobbyInfoData{SocketID: "sockA"}))
	session.HandleMessage(wireMessage(t, protocol.EventTableJoined, protocol.TableJoinedData{
		Tables:  protocol.Tables{5: {ID: 5, Limit: 100, Seats: map[int]*protocol.Seat{0: nil}}},
		TableID: 5,
	}))

	session.SeatClick(5, 0)
	session.SitDown(5, 0, 100)

	snap := session.Snapshot()
	assert.False(t, snap.Modal.Open, "submit closes the dialog")

	found := false
	for _, sent := range emitter.sent {
		if sent.event == protocol.EventSitDown {
			found = true
			assert.Equal(t, protocol.SitDownData{TableID: 5, SeatID: 0, Amount: 100}, sent.payload)
		}
	}
	assert.True(t, found, "sit_down was emitted")
}

func TestSessionToggleMenu(t *testing.T) {
	session, _ := newTestSession(t)

	assert.True(t, session.Snapshot().OnMenu)
	session.ToggleMenu()
	assert.False(t, session.Snapshot().OnMenu)
	session.ToggleMenu()
	assert.True(t, session.Snapshot().OnMenu)
}

func TestSessionIgnoresUnknownEvent(t *testing.T) {
	session, _ := newTestSession(t)
	session.HandleMessage(&protocol.Message{Event: "hand_started", Data: json.RawMessage(`{}`)})
	assert.True(t, session.Snapshot().OnMenu, "state untouched")
}
