package lobby

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feltable/lobby/internal/protocol"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(protocol.Identity{ID: 1, Username: "alice", Bankroll: 1000}, testLogger())
	require.NoError(t, store.ReceiveLobbyInfo(protocol.Tables{}, protocol.Players{}, "sockA"))
	return store
}

func emptyTable(id, seats int) *protocol.Table {
	table := &protocol.Table{ID: id, Limit: 100, Seats: make(map[int]*protocol.Seat)}
	for i := 0; i < seats; i++ {
		table.Seats[i] = nil
	}
	return table
}

func tables(ts ...*protocol.Table) protocol.Tables {
	dir := make(protocol.Tables, len(ts))
	for _, t := range ts {
		dir[t.ID] = t
	}
	return dir
}

func TestReceiveLobbyInfo(t *testing.T) {
	store := NewStore(protocol.Identity{ID: 1, Username: "alice", Bankroll: 1000}, testLogger())

	err := store.ReceiveLobbyInfo(
		tables(emptyTable(1, 5)),
		protocol.Players{"sockA": {ID: 1, Name: "alice", Bankroll: 1000}},
		"sockA",
	)
	require.NoError(t, err)

	assert.Equal(t, "sockA", store.SocketID())
	assert.Len(t, store.Tables(), 1)
	assert.Len(t, store.Players(), 1)

	t.Run("missing socket id is rejected", func(t *testing.T) {
		err := store.ReceiveLobbyInfo(protocol.Tables{}, protocol.Players{}, "")
		var verr *protocol.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "sockA", store.SocketID(), "prior state retained")
	})
}

func TestSnapshotReplaceSemantics(t *testing.T) {
	store := newTestStore(t)

	// Apply two snapshots; only the last one survives, with no merge
	// artifacts left over from the first.
	require.NoError(t, store.TablesUpdated(tables(emptyTable(1, 5), emptyTable(2, 9))))
	require.NoError(t, store.TablesUpdated(tables(emptyTable(3, 2))))

	assert.Len(t, store.Tables(), 1)
	_, ok := store.Table(1)
	assert.False(t, ok)
	_, ok = store.Table(3)
	assert.True(t, ok)

	require.NoError(t, store.PlayersUpdated(protocol.Players{
		"sockA": {ID: 1, Name: "alice", Bankroll: 1000},
		"sockB": {ID: 2, Name: "bob", Bankroll: 500},
	}))
	require.NoError(t, store.PlayersUpdated(protocol.Players{
		"sockC": {ID: 3, Name: "carol", Bankroll: 200},
	}))

	assert.Len(t, store.Players(), 1)
	_, ok = store.Players()["sockA"]
	assert.False(t, ok, "earlier snapshot must not survive")
}

func TestPlayersUpdatedRefreshesBankroll(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.PlayersUpdated(protocol.Players{
		"sockA": {ID: 1, Name: "alice", Bankroll: 750},
	}))

	assert.Equal(t, 750, store.Identity().Bankroll)
}

func TestTableJoinedAndLeftRoundTrip(t *testing.T) {
	store := newTestStore(t)

	before := store.Open().IDs()

	require.NoError(t, store.TableJoined(tables(emptyTable(7, 5)), 7))
	assert.True(t, store.Open().IsOpen(7))

	require.NoError(t, store.TableUpdated(emptyTable(7, 5), "hi", "alice"))
	require.Len(t, store.Open().Transcript(7), 1)

	require.NoError(t, store.TableLeft(tables(emptyTable(7, 5)), 7))
	assert.Equal(t, before, store.Open().IDs(), "membership restored")
	assert.Empty(t, store.Open().Transcript(7), "transcript discarded, not retained")

	// Rejoining starts from a clean transcript.
	require.NoError(t, store.TableJoined(tables(emptyTable(7, 5)), 7))
	assert.Empty(t, store.Open().Transcript(7))
}

func TestTableJoinedPastCapacityIsApplied(t *testing.T) {
	store := newTestStore(t)

	for id := 1; id <= MaxOpenTables; id++ {
		require.NoError(t, store.TableJoined(tables(emptyTable(id, 5)), id))
	}

	// The server is authoritative even when it violates the cap.
	require.NoError(t, store.TableJoined(tables(emptyTable(99, 5)), 99))
	assert.True(t, store.Open().IsOpen(99))
	assert.Equal(t, MaxOpenTables+1, store.Open().Len())
}

func TestTableUpdated(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.TableJoined(tables(emptyTable(5, 5), emptyTable(6, 5)), 5))
	require.NoError(t, store.TableJoined(tables(emptyTable(5, 5), emptyTable(6, 5)), 6))

	t.Run("replaces single table entry", func(t *testing.T) {
		updated := emptyTable(5, 5)
		updated.Seats[0] = &protocol.Seat{Stack: 500, Player: protocol.PlayerRef{SocketID: "sockB"}}
		require.NoError(t, store.TableUpdated(updated, "", ""))

		table, ok := store.Table(5)
		require.True(t, ok)
		require.NotNil(t, table.Seats[0])
		assert.Equal(t, 500, table.Seats[0].Stack)

		_, ok = store.Table(6)
		assert.True(t, ok, "other entries untouched")
	})

	t.Run("appends exactly one transcript entry", func(t *testing.T) {
		require.NoError(t, store.TableUpdated(emptyTable(5, 5), "hi", "alice"))

		require.Len(t, store.Open().Transcript(5), 1)
		assert.Equal(t, ChatMessage{Message: "hi", From: "alice", TableID: 5}, store.Open().Transcript(5)[0])
		assert.Empty(t, store.Open().Transcript(6), "other transcripts unaffected")
	})

	t.Run("no message means no transcript entry", func(t *testing.T) {
		before := len(store.Open().Transcript(5))
		require.NoError(t, store.TableUpdated(emptyTable(5, 5), "", "alice"))
		assert.Len(t, store.Open().Transcript(5), before)
	})

	t.Run("malformed table is rejected without partial apply", func(t *testing.T) {
		table, _ := store.Table(5)
		before := table.Seats[0]

		err := store.TableUpdated(&protocol.Table{Limit: 100, Seats: map[int]*protocol.Seat{}}, "", "")
		var verr *protocol.ValidationError
		require.ErrorAs(t, err, &verr)

		err = store.TableUpdated(&protocol.Table{ID: 5, Limit: 100}, "", "")
		require.ErrorAs(t, err, &verr)

		table, _ = store.Table(5)
		assert.Equal(t, before, table.Seats[0], "prior state retained")
	})
}

func TestValidationRejectionRetainsDirectory(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.TablesUpdated(tables(emptyTable(1, 5))))

	bad := protocol.Tables{2: {ID: 2, Limit: 50}} // nil seat map
	err := store.TablesUpdated(bad)
	var verr *protocol.ValidationError
	require.ErrorAs(t, err, &verr)

	assert.Len(t, store.Tables(), 1)
	_, ok := store.Table(1)
	assert.True(t, ok)
}

func TestReset(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.TableJoined(tables(emptyTable(5, 5)), 5))
	require.NoError(t, store.TableUpdated(emptyTable(5, 5), "hi", "alice"))

	store.Reset()

	assert.Empty(t, store.SocketID())
	assert.Empty(t, store.Tables())
	assert.Empty(t, store.Players())
	assert.Zero(t, store.Open().Len())
	assert.Empty(t, store.Open().Transcript(5), "no stale chat leakage")
}
