package lobby

import (
	"strings"

	"github.com/charmbracelet/log"

	"github.com/feltable/lobby/internal/protocol"
)

// Emitter sends a named event with a payload to the server. The
// transport implements this; tests substitute a recorder.
type Emitter interface {
	Emit(event protocol.EventType, payload any) error
}

// Gateway turns user intents into outbound transport messages. Each
// intent validates its preconditions against the store and then emits
// exactly one message. A failed precondition is a silent no-op: nothing
// is sent and nothing is surfaced, the next authoritative snapshot
// reconciles whatever the user saw.
type Gateway struct {
	store   *Store
	emitter Emitter
	logger  *log.Logger
}

// NewGateway creates a command gateway over the given store and emitter.
func NewGateway(store *Store, emitter Emitter, logger *log.Logger) *Gateway {
	return &Gateway{
		store:   store,
		emitter: emitter,
		logger:  logger.WithPrefix("gateway"),
	}
}

// JoinTable asks to open a table session. Refused locally once
// MaxOpenTables sessions are open.
func (g *Gateway) JoinTable(tableID int) bool {
	if !g.store.Open().CanOpen(tableID) {
		g.logger.Debug("join refused, table cap reached", "tableId", tableID)
		return false
	}
	return g.send(protocol.EventJoinTable, tableID)
}

// LeaveTable asks to close an open table session.
func (g *Gateway) LeaveTable(tableID int) bool {
	if !g.store.Open().IsOpen(tableID) {
		g.logger.Debug("leave refused, table not open", "tableId", tableID)
		return false
	}
	return g.send(protocol.EventLeaveTable, tableID)
}

// SitDown buys in at a vacant seat.
func (g *Gateway) SitDown(tableID, seatID, amount int) bool {
	table, ok := g.store.Table(tableID)
	if !ok || !g.store.Open().IsOpen(tableID) {
		g.logger.Debug("sit refused, stale table", "tableId", tableID)
		return false
	}
	if !SeatIsVacant(table, seatID) || amount <= 0 {
		g.logger.Debug("sit refused", "tableId", tableID, "seatId", seatID, "amount", amount)
		return false
	}
	return g.send(protocol.EventSitDown, protocol.SitDownData{TableID: tableID, SeatID: seatID, Amount: amount})
}

// Rebuy tops up the local user's own seat.
func (g *Gateway) Rebuy(tableID, seatID, amount int) bool {
	mySeatID, _, seated := g.store.MySeat(tableID)
	if !seated || mySeatID != seatID || amount <= 0 {
		g.logger.Debug("rebuy refused", "tableId", tableID, "seatId", seatID, "amount", amount)
		return false
	}
	return g.send(protocol.EventRebuy, protocol.RebuyData{TableID: tableID, SeatID: seatID, Amount: amount})
}

// StandUp vacates the local user's seat.
func (g *Gateway) StandUp(tableID int) bool {
	if _, _, seated := g.store.MySeat(tableID); !seated {
		g.logger.Debug("stand refused, not seated", "tableId", tableID)
		return false
	}
	return g.send(protocol.EventStandUp, tableID)
}

// Raise raises the current bet. Whether the user actually has action is
// the server's call; locally we only require a seat at an open table.
func (g *Gateway) Raise(tableID, amount int) bool {
	if !g.hasAction(tableID) || amount <= 0 {
		return false
	}
	return g.send(protocol.EventRaise, protocol.RaiseData{TableID: tableID, Amount: amount})
}

// Check passes the action.
func (g *Gateway) Check(tableID int) bool {
	if !g.hasAction(tableID) {
		return false
	}
	return g.send(protocol.EventCheck, tableID)
}

// Call matches the current bet.
func (g *Gateway) Call(tableID int) bool {
	if !g.hasAction(tableID) {
		return false
	}
	return g.send(protocol.EventCall, tableID)
}

// Fold gives up the hand.
func (g *Gateway) Fold(tableID int) bool {
	if !g.hasAction(tableID) {
		return false
	}
	return g.send(protocol.EventFold, tableID)
}

// SendChat posts a chat line to an open table. Empty or whitespace-only
// text is dropped; the caller commits a line explicitly, not per
// keystroke.
func (g *Gateway) SendChat(tableID int, text string) bool {
	text = strings.TrimSpace(text)
	if text == "" || !g.store.Open().IsOpen(tableID) {
		g.logger.Debug("chat refused", "tableId", tableID)
		return false
	}
	return g.send(protocol.EventTableMessage, protocol.TableMessageData{
		Message: text,
		From:    g.store.Identity().Username,
		TableID: tableID,
	})
}

func (g *Gateway) hasAction(tableID int) bool {
	if !g.store.Open().IsOpen(tableID) {
		g.logger.Debug("action refused, table not open", "tableId", tableID)
		return false
	}
	if _, _, seated := g.store.MySeat(tableID); !seated {
		g.logger.Debug("action refused, not seated", "tableId", tableID)
		return false
	}
	return true
}

func (g *Gateway) send(event protocol.EventType, payload any) bool {
	if err := g.emitter.Emit(event, payload); err != nil {
		g.logger.Error("emit failed", "event", event, "error", err)
		return false
	}
	return true
}
