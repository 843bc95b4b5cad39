package lobby

import (
	"github.com/charmbracelet/log"

	"github.com/feltable/lobby/internal/protocol"
)

// Store holds everything the client knows about one lobby session: the
// local identity, the table and player directories, and the open-table
// set. One handler per inbound event kind; each handler validates its
// payload before touching state, so a rejected event leaves the previous
// state fully intact.
//
// Directory handlers replace, never merge. The server sends complete
// snapshots, and merging a partial payload would misread a missing key
// as a vacated seat.
type Store struct {
	logger   *log.Logger
	identity protocol.Identity
	socketID string
	tables   protocol.Tables
	players  protocol.Players
	open     *OpenTables
}

// NewStore creates a session store for a resolved identity. The store
// has no existence prior to one: identity resolution is what brings the
// whole data model to life.
func NewStore(identity protocol.Identity, logger *log.Logger) *Store {
	return &Store{
		logger:   logger.WithPrefix("store"),
		identity: identity,
		tables:   make(protocol.Tables),
		players:  make(protocol.Players),
		open:     NewOpenTables(),
	}
}

// ReceiveLobbyInfo applies the initial lobby snapshot: both directories
// are replaced and the local transport-session identifier is recorded
// for seat resolution.
func (s *Store) ReceiveLobbyInfo(tables protocol.Tables, players protocol.Players, socketID string) error {
	if socketID == "" {
		return protocol.NewValidationError(protocol.EventReceiveLobbyInfo, "missing socketId")
	}
	if err := protocol.ValidateTables(protocol.EventReceiveLobbyInfo, tables); err != nil {
		return err
	}
	s.socketID = socketID
	s.tables = orEmptyTables(tables)
	s.players = orEmptyPlayers(players)
	s.logger.Debug("lobby info received", "socketId", socketID, "tables", len(s.tables), "players", len(s.players))
	return nil
}

// TablesUpdated replaces the table directory with a fresh snapshot.
func (s *Store) TablesUpdated(tables protocol.Tables) error {
	if err := protocol.ValidateTables(protocol.EventTablesUpdated, tables); err != nil {
		return err
	}
	s.tables = orEmptyTables(tables)
	return nil
}

// PlayersUpdated replaces the player directory with a fresh snapshot.
func (s *Store) PlayersUpdated(players protocol.Players) error {
	s.players = orEmptyPlayers(players)
	if p, ok := s.players[s.socketID]; ok && p != nil && p.ID == s.identity.ID {
		s.identity.Bankroll = p.Bankroll
	}
	return nil
}

// TableJoined replaces the table directory and opens tableID with an
// empty transcript. A join past capacity is a protocol violation, but
// the server is authoritative so it is applied anyway and logged.
func (s *Store) TableJoined(tables protocol.Tables, tableID int) error {
	if tableID <= 0 {
		return protocol.NewValidationError(protocol.EventTableJoined, "missing tableId")
	}
	if err := protocol.ValidateTables(protocol.EventTableJoined, tables); err != nil {
		return err
	}
	if !s.open.CanOpen(tableID) {
		s.logger.Warn("server opened table past capacity", "tableId", tableID, "open", s.open.Len())
	}
	s.tables = orEmptyTables(tables)
	s.open.Open(tableID)
	s.logger.Debug("table joined", "tableId", tableID, "open", s.open.Len())
	return nil
}

// TableLeft replaces the table directory, closes tableID and discards
// its transcript.
func (s *Store) TableLeft(tables protocol.Tables, tableID int) error {
	if tableID <= 0 {
		return protocol.NewValidationError(protocol.EventTableLeft, "missing tableId")
	}
	if err := protocol.ValidateTables(protocol.EventTableLeft, tables); err != nil {
		return err
	}
	s.tables = orEmptyTables(tables)
	s.open.Close(tableID)
	s.logger.Debug("table left", "tableId", tableID, "open", s.open.Len())
	return nil
}

// TableUpdated replaces a single table's directory entry. If the update
// carries a chat line it is appended to that table's transcript; the
// transcript is append-only and unbounded here, trimming is a
// presentation concern.
func (s *Store) TableUpdated(table *protocol.Table, message, from string) error {
	if err := protocol.ValidateTable(protocol.EventTableUpdated, table); err != nil {
		return err
	}
	// Copy-on-write keeps directory maps immutable once handed out in a
	// snapshot.
	next := make(protocol.Tables, len(s.tables)+1)
	for id, t := range s.tables {
		next[id] = t
	}
	next[table.ID] = table
	s.tables = next
	if message != "" {
		s.open.Append(ChatMessage{Message: message, From: from, TableID: table.ID})
	}
	return nil
}

// Reset discards the entire data model. Called on logout or disconnect
// so no seat or chat state leaks into a later session.
func (s *Store) Reset() {
	s.socketID = ""
	s.tables = make(protocol.Tables)
	s.players = make(protocol.Players)
	s.open.Clear()
}

// Identity returns the local user.
func (s *Store) Identity() protocol.Identity { return s.identity }

// SocketID returns the local transport-session identifier, or "" before
// the lobby snapshot arrives.
func (s *Store) SocketID() string { return s.socketID }

// Tables returns the current table directory.
func (s *Store) Tables() protocol.Tables { return s.tables }

// Players returns the current player directory.
func (s *Store) Players() protocol.Players { return s.players }

// Table looks up a single table by id.
func (s *Store) Table(tableID int) (*protocol.Table, bool) {
	t, ok := s.tables[tableID]
	return t, ok
}

// Open returns the open-table set.
func (s *Store) Open() *OpenTables { return s.open }

// MySeat resolves the local user's seat at tableID.
func (s *Store) MySeat(tableID int) (int, *protocol.Seat, bool) {
	table, ok := s.tables[tableID]
	if !ok {
		return 0, nil, false
	}
	return FindMySeat(table, s.socketID)
}

func orEmptyTables(tables protocol.Tables) protocol.Tables {
	if tables == nil {
		return make(protocol.Tables)
	}
	return tables
}

func orEmptyPlayers(players protocol.Players) protocol.Players {
	if players == nil {
		return make(protocol.Players)
	}
	return players
}
