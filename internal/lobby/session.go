package lobby

import (
	"errors"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/feltable/lobby/internal/protocol"
)

// Session owns one user's lobby state and serializes every state
// transition through a single ordered queue consumed by one goroutine.
// Inbound transport events and user intents both go through the queue,
// so no two transitions ever run concurrently and the state needs no
// locks.
type Session struct {
	logger  *log.Logger
	store   *Store
	gateway *Gateway
	nav     *Navigation

	queue     chan func()
	done      chan struct{}
	updates   chan struct{}
	closeOnce sync.Once
}

// Snapshot is an immutable derived view of the session for the
// presentation layer. Directory maps are replaced wholesale by the
// store, never mutated in place, so sharing their entries is safe.
type Snapshot struct {
	Identity protocol.Identity
	SocketID string
	Tables   protocol.Tables
	Players  protocol.Players
	Open     []OpenTableView
	OnMenu   bool
	Modal    Modal
}

// OpenTableView pairs an open table with its transcript.
type OpenTableView struct {
	TableID    int
	Table      *protocol.Table
	Transcript []ChatMessage
}

// NewSession creates a session for a resolved identity. Nothing runs
// until Start.
func NewSession(identity protocol.Identity, emitter Emitter, logger *log.Logger) *Session {
	store := NewStore(identity, logger)
	return &Session{
		logger:  logger.WithPrefix("session"),
		store:   store,
		gateway: NewGateway(store, emitter, logger),
		nav:     NewNavigation(),
		queue:   make(chan func(), 64),
		done:    make(chan struct{}),
		updates: make(chan struct{}, 1),
	}
}

// Start launches the run loop.
func (s *Session) Start() {
	go s.loop()
}

// Close stops the run loop; the loop discards all session state on its
// way out so teardown never races an in-flight transition.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

// Updates signals after each applied transition. The channel coalesces:
// a slow consumer sees at least one signal for any burst of changes.
func (s *Session) Updates() <-chan struct{} {
	return s.updates
}

func (s *Session) loop() {
	for {
		select {
		case <-s.done:
			s.store.Reset()
			s.nav.Reset()
			return
		case fn := <-s.queue:
			fn()
		}
	}
}

func (s *Session) enqueue(fn func()) {
	select {
	case s.queue <- fn:
	case <-s.done:
	}
}

func (s *Session) notify() {
	select {
	case s.updates <- struct{}{}:
	default:
	}
}

// HandleMessage decodes an inbound transport message and enqueues its
// state transition. Malformed payloads are logged and dropped; prior
// state is never partially applied.
func (s *Session) HandleMessage(msg *protocol.Message) {
	s.enqueue(func() {
		if err := s.apply(msg); err != nil {
			var verr *protocol.ValidationError
			if errors.As(err, &verr) {
				s.logger.Warn("rejected event", "event", msg.Event, "reason", verr.Reason)
			} else {
				s.logger.Warn("failed to apply event", "event", msg.Event, "error", err)
			}
			return
		}
		s.notify()
	})
}

func (s *Session) apply(msg *protocol.Message) error {
	switch msg.Event {
	case protocol.EventReceiveLobbyInfo:
		var data protocol.LobbyInfoData
		if err := msg.Decode(&data); err != nil {
			return err
		}
		return s.store.ReceiveLobbyInfo(data.Tables, data.Players, data.SocketID)

	case protocol.EventTablesUpdated:
		var data protocol.TablesUpdatedData
		if err := msg.Decode(&data); err != nil {
			return err
		}
		return s.store.TablesUpdated(data.Tables)

	case protocol.EventPlayersUpdated:
		var data protocol.PlayersUpdatedData
		if err := msg.Decode(&data); err != nil {
			return err
		}
		return s.store.PlayersUpdated(data.Players)

	case protocol.EventTableJoined:
		var data protocol.TableJoinedData
		if err := msg.Decode(&data); err != nil {
			return err
		}
		return s.store.TableJoined(data.Tables, data.TableID)

	case protocol.EventTableLeft:
		var data protocol.TableLeftData
		if err := msg.Decode(&data); err != nil {
			return err
		}
		if err := s.store.TableLeft(data.Tables, data.TableID); err != nil {
			return err
		}
		s.nav.TableClosed(data.TableID)
		return nil

	case protocol.EventTableUpdated:
		var data protocol.TableUpdatedData
		if err := msg.Decode(&data); err != nil {
			return err
		}
		return s.store.TableUpdated(data.Table, data.Message, data.From)

	default:
		s.logger.Debug("ignoring unknown event", "event", msg.Event)
		return nil
	}
}

// Snapshot returns the current derived view, synchronized through the
// run loop. Returns the zero snapshot after Close.
func (s *Session) Snapshot() Snapshot {
	reply := make(chan Snapshot, 1)
	s.enqueue(func() {
		reply <- s.snapshot()
	})
	select {
	case snap := <-reply:
		return snap
	case <-s.done:
		return Snapshot{}
	}
}

func (s *Session) snapshot() Snapshot {
	open := make([]OpenTableView, 0, s.store.Open().Len())
	for _, id := range s.store.Open().IDs() {
		table, _ := s.store.Table(id)
		open = append(open, OpenTableView{
			TableID:    id,
			Table:      table,
			Transcript: s.store.Open().Transcript(id),
		})
	}
	return Snapshot{
		Identity: s.store.Identity(),
		SocketID: s.store.SocketID(),
		Tables:   s.store.Tables(),
		Players:  s.store.Players(),
		Open:     open,
		OnMenu:   s.nav.OnMenu(),
		Modal:    s.nav.Modal(),
	}
}

// User intents. Each is enqueued so it reads consistent state, and each
// carries its explicit table target end to end.

// JoinTable requests a new table session.
func (s *Session) JoinTable(tableID int) {
	s.enqueue(func() { s.gateway.JoinTable(tableID) })
}

// LeaveTable requests closing a table session.
func (s *Session) LeaveTable(tableID int) {
	s.enqueue(func() { s.gateway.LeaveTable(tableID) })
}

// SeatClick opens the buy-in/rebuy dialog for a seat at an open table.
// A click racing a table_left is treated as targeting nothing.
func (s *Session) SeatClick(tableID, seatID int) {
	s.enqueue(func() {
		if !s.store.Open().IsOpen(tableID) {
			return
		}
		s.nav.OpenModal(tableID, seatID)
		s.notify()
	})
}

// SitDown submits the buy-in dialog. The dialog closes whether or not
// the command passes its local guard.
func (s *Session) SitDown(tableID, seatID, amount int) {
	s.enqueue(func() {
		s.gateway.SitDown(tableID, seatID, amount)
		s.nav.CloseModal()
		s.notify()
	})
}

// Rebuy submits the rebuy dialog, closing it as with SitDown.
func (s *Session) Rebuy(tableID, seatID, amount int) {
	s.enqueue(func() {
		s.gateway.Rebuy(tableID, seatID, amount)
		s.nav.CloseModal()
		s.notify()
	})
}

// StandUp vacates the local user's seat.
func (s *Session) StandUp(tableID int) {
	s.enqueue(func() { s.gateway.StandUp(tableID) })
}

// Raise raises the current bet at tableID.
func (s *Session) Raise(tableID, amount int) {
	s.enqueue(func() { s.gateway.Raise(tableID, amount) })
}

// Check passes the action at tableID.
func (s *Session) Check(tableID int) {
	s.enqueue(func() { s.gateway.Check(tableID) })
}

// Call matches the current bet at tableID.
func (s *Session) Call(tableID int) {
	s.enqueue(func() { s.gateway.Call(tableID) })
}

// Fold gives up the hand at tableID.
func (s *Session) Fold(tableID int) {
	s.enqueue(func() { s.gateway.Fold(tableID) })
}

// SendChat commits a chat line to tableID.
func (s *Session) SendChat(tableID int, text string) {
	s.enqueue(func() { s.gateway.SendChat(tableID, text) })
}

// ToggleMenu flips between the menu and the table view.
func (s *Session) ToggleMenu() {
	s.enqueue(func() {
		s.nav.ToggleMenu()
		s.notify()
	})
}

// CloseModal dismisses the buy-in/rebuy dialog.
func (s *Session) CloseModal() {
	s.enqueue(func() {
		s.nav.CloseModal()
		s.notify()
	})
}
