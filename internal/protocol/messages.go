package protocol

import (
	"encoding/json"
)

// Message is the envelope for every event exchanged with the lobby server.
type Message struct {
	Event EventType       `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// EventType names an event on the wire.
type EventType string

// Server to client event types
const (
	EventReceiveLobbyInfo EventType = "receive_lobby_info"
	EventTablesUpdated    EventType = "tables_updated"
	EventPlayersUpdated   EventType = "players_updated"
	EventTableJoined      EventType = "table_joined"
	EventTableLeft        EventType = "table_left"
	EventTableUpdated     EventType = "table_updated"
)

// Client to server event types
const (
	EventFetchLobbyInfo EventType = "fetch_lobby_info"
	EventJoinTable      EventType = "join_table"
	EventLeaveTable     EventType = "leave_table"
	EventSitDown        EventType = "sit_down"
	EventRebuy          EventType = "rebuy"
	EventStandUp        EventType = "stand_up"
	EventRaise          EventType = "raise"
	EventCheck          EventType = "check"
	EventCall           EventType = "call"
	EventFold           EventType = "fold"
	EventTableMessage   EventType = "table_message"
)

// Identity is the local authenticated user. Bankroll is refreshed only
// through directory updates; the rest is immutable for the session.
type Identity struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Bankroll int    `json:"bankroll"`
}

// Player is an entry in the player directory. Directory keys are
// transport-session identifiers, not stable user ids, so entries may
// disappear and reappear under a different key across reconnects.
type Player struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Bankroll int    `json:"bankroll"`
}

// PlayerRef points a seat at a player-directory entry via its socket id.
type PlayerRef struct {
	SocketID string `json:"socketId"`
	Name     string `json:"name,omitempty"`
}

// Seat is an occupied position at a table. A vacant seat is a nil entry
// in the table's seat map.
type Seat struct {
	Stack  int       `json:"stack"`
	Player PlayerRef `json:"player"`
}

// Table is one table in the lobby directory.
type Table struct {
	ID    int           `json:"id"`
	Limit int           `json:"limit"`
	Seats map[int]*Seat `json:"seats"`
}

// Tables is the table directory, keyed by table id.
type Tables map[int]*Table

// Players is the player directory, keyed by socket id. A nil value is a
// slot that is known but unoccupied.
type Players map[string]*Player

// Server to client payloads

// LobbyInfoData is the initial lobby snapshot, sent once on connect.
type LobbyInfoData struct {
	Tables   Tables  `json:"tables"`
	Players  Players `json:"players"`
	SocketID string  `json:"socketId"`
}

// TablesUpdatedData carries a full replacement of the table directory.
type TablesUpdatedData struct {
	Tables Tables `json:"tables"`
}

// PlayersUpdatedData carries a full replacement of the player directory.
type PlayersUpdatedData struct {
	Players Players `json:"players"`
}

// TableJoinedData acknowledges a join, with a fresh directory snapshot.
type TableJoinedData struct {
	Tables  Tables `json:"tables"`
	TableID int    `json:"tableId"`
}

// TableLeftData acknowledges a leave, with a fresh directory snapshot.
type TableLeftData struct {
	Tables  Tables `json:"tables"`
	TableID int    `json:"tableId"`
}

// TableUpdatedData replaces a single table and optionally carries a chat
// line posted at it.
type TableUpdatedData struct {
	Table   *Table `json:"table"`
	Message string `json:"message,omitempty"`
	From    string `json:"from,omitempty"`
}

// Client to server payloads

// SitDownData is sent to buy in at a specific seat.
type SitDownData struct {
	TableID int `json:"tableId"`
	SeatID  int `json:"seatId"`
	Amount  int `json:"amount"`
}

// RebuyData is sent to top up an already occupied seat.
type RebuyData struct {
	TableID int `json:"tableId"`
	SeatID  int `json:"seatId"`
	Amount  int `json:"amount"`
}

// RaiseData is sent to raise the current bet.
type RaiseData struct {
	TableID int `json:"tableId"`
	Amount  int `json:"amount"`
}

// TableMessageData is a chat line scoped to one table.
type TableMessageData struct {
	Message string `json:"message"`
	From    string `json:"from"`
	TableID int    `json:"tableId"`
}
