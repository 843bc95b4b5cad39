package tui

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/feltable/lobby/internal/lobby"
	"github.com/feltable/lobby/internal/protocol"
)

// input mode for the bottom line
const (
	modeNormal = iota
	modeChat
	modeRaise
)

// refreshMsg signals that the session applied a state transition.
type refreshMsg struct{}

// Model is the Bubble Tea model for the lobby client. It never touches
// session state directly: it reads snapshots and feeds intents back
// through the session, which serializes everything on its own queue.
type Model struct {
	session      *lobby.Session
	logger       *log.Logger
	styles       *Styles
	defaultBuyIn int

	snap    lobby.Snapshot
	cursor  int // menu selection over sorted table ids
	focused int // index into snap.Open for the table view

	mode        int
	chatInput   textinput.Model
	amountInput textinput.Model
	chatView    viewport.Model

	width  int
	height int
	ready  bool
}

// NewModel creates the client model.
func NewModel(session *lobby.Session, defaultBuyIn int, logger *log.Logger) *Model {
	chat := textinput.New()
	chat.Placeholder = "say something..."
	chat.CharLimit = 280

	amount := textinput.New()
	amount.Placeholder = strconv.Itoa(defaultBuyIn)
	amount.CharLimit = 9

	return &Model{
		session:      session,
		logger:       logger.WithPrefix("tui"),
		styles:       DefaultStyles(),
		defaultBuyIn: defaultBuyIn,
		snap:         session.Snapshot(),
		chatInput:    chat,
		amountInput:  amount,
	}
}

// Run drives the TUI until the user quits or ctx is canceled.
func Run(ctx context.Context, session *lobby.Session, defaultBuyIn int, logger *log.Logger) error {
	model := NewModel(session, defaultBuyIn, logger)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Init subscribes to session updates.
func (m *Model) Init() tea.Cmd {
	return m.waitForUpdate()
}

func (m *Model) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		<-m.session.Updates()
		return refreshMsg{}
	}
}

// Update handles terminal events and session refreshes.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshMsg:
		m.refresh()
		return m, m.waitForUpdate()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.chatView = viewport.New(msg.Width-4, max(3, msg.Height-14))
		m.ready = true
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) refresh() {
	m.snap = m.session.Snapshot()
	if m.focused >= len(m.snap.Open) {
		m.focused = max(0, len(m.snap.Open)-1)
	}
	if ids := m.menuTableIDs(); m.cursor >= len(ids) {
		m.cursor = max(0, len(ids)-1)
	}
	if m.ready {
		m.chatView.SetContent(m.renderTranscript())
		m.chatView.GotoBottom()
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.snap.Modal.Open {
		return m.handleModalKey(msg)
	}
	switch m.mode {
	case modeChat:
		return m.handleChatKey(msg)
	case modeRaise:
		return m.handleRaiseKey(msg)
	}
	if m.snap.OnMenu {
		return m.handleMenuKey(msg)
	}
	return m.handleTableKey(msg)
}

func (m *Model) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ids := m.menuTableIDs()
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "m", "tab":
		m.session.ToggleMenu()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(ids)-1 {
			m.cursor++
		}
	case "enter":
		if m.cursor < len(ids) {
			m.session.JoinTable(ids[m.cursor])
		}
	}
	return m, nil
}

func (m *Model) handleTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	view, ok := m.focusedTable()
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "m":
		m.session.ToggleMenu()
	case "tab":
		if len(m.snap.Open) > 0 {
			m.focused = (m.focused + 1) % len(m.snap.Open)
		}
	case "l":
		if ok {
			m.session.LeaveTable(view.TableID)
		}
	case "s":
		if ok {
			m.session.StandUp(view.TableID)
		}
	case "f":
		if ok {
			m.session.Fold(view.TableID)
		}
	case "x":
		if ok {
			m.session.Check(view.TableID)
		}
	case "c":
		if ok {
			m.session.Call(view.TableID)
		}
	case "r":
		if ok {
			m.mode = modeRaise
			m.amountInput.SetValue("")
			m.amountInput.Focus()
		}
	case "t":
		if ok {
			m.mode = modeChat
			m.chatInput.Focus()
		}
	case "0", "1", "2", "3", "4", "5", "6", "7", "8", "9":
		if ok {
			seatID, _ := strconv.Atoi(msg.String())
			m.session.SeatClick(view.TableID, seatID)
		}
	}
	return m, nil
}

func (m *Model) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.session.CloseModal()
		m.amountInput.Blur()
		return m, nil
	case "enter":
		amount := m.defaultBuyIn
		if v, err := strconv.Atoi(strings.TrimSpace(m.amountInput.Value())); err == nil {
			amount = v
		}
		modal := m.snap.Modal
		if seatID, seated := mySeatIn(m.snap, modal.TableID); seated && seatID == modal.SeatID {
			m.session.Rebuy(modal.TableID, modal.SeatID, amount)
		} else {
			m.session.SitDown(modal.TableID, modal.SeatID, amount)
		}
		m.amountInput.SetValue("")
		m.amountInput.Blur()
		return m, nil
	}
	if !m.amountInput.Focused() {
		m.amountInput.Focus()
	}
	var cmd tea.Cmd
	m.amountInput, cmd = m.amountInput.Update(msg)
	return m, cmd
}

func (m *Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
		m.chatInput.SetValue("")
		m.chatInput.Blur()
		return m, nil
	case "enter":
		if view, ok := m.focusedTable(); ok {
			m.session.SendChat(view.TableID, m.chatInput.Value())
		}
		m.mode = modeNormal
		m.chatInput.SetValue("")
		m.chatInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.chatInput, cmd = m.chatInput.Update(msg)
	return m, cmd
}

func (m *Model) handleRaiseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
		m.amountInput.SetValue("")
		m.amountInput.Blur()
		return m, nil
	case "enter":
		if view, ok := m.focusedTable(); ok {
			if amount, err := strconv.Atoi(strings.TrimSpace(m.amountInput.Value())); err == nil {
				m.session.Raise(view.TableID, amount)
			}
		}
		m.mode = modeNormal
		m.amountInput.SetValue("")
		m.amountInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.amountInput, cmd = m.amountInput.Update(msg)
	return m, cmd
}

// View renders either the menu or the focused table, with the modal on
// top when open.
func (m *Model) View() string {
	if !m.ready {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if m.snap.OnMenu {
		b.WriteString(m.renderMenu())
	} else {
		b.WriteString(m.renderTable())
	}

	if m.snap.Modal.Open {
		b.WriteString("\n")
		b.WriteString(m.renderModal())
	}

	return b.String()
}

func (m *Model) renderHeader() string {
	id := m.snap.Identity
	title := fmt.Sprintf(" %s  bankroll $%d ", id.Username, id.Bankroll)
	tabs := make([]string, 0, len(m.snap.Open)+1)
	if m.snap.OnMenu {
		tabs = append(tabs, m.styles.ActiveTab.Render("menu"))
	} else {
		tabs = append(tabs, m.styles.Tab.Render("menu"))
	}
	for i, view := range m.snap.Open {
		label := fmt.Sprintf("table %d", view.TableID)
		if !m.snap.OnMenu && i == m.focused {
			tabs = append(tabs, m.styles.ActiveTab.Render(label))
		} else {
			tabs = append(tabs, m.styles.Tab.Render(label))
		}
	}
	return m.styles.Header.Render(title) + "  " + strings.Join(tabs, "")
}

func (m *Model) renderMenu() string {
	var b strings.Builder
	b.WriteString("Tables\n")
	ids := m.menuTableIDs()
	if len(ids) == 0 {
		b.WriteString(m.styles.SeatEmpty.Render("  no tables yet") + "\n")
	}
	for i, id := range ids {
		table := m.snap.Tables[id]
		occupied := 0
		for _, seat := range table.Seats {
			if seat != nil {
				occupied++
			}
		}
		line := fmt.Sprintf("  table %d  limit $%d  seats %d/%d", id, table.Limit, occupied, len(table.Seats))
		if isOpen(m.snap, id) {
			line += " " + m.styles.OpenMarker.Render("[open]")
		}
		if i == m.cursor {
			line = m.styles.Cursor.Render(">") + line[1:]
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\nPlayers\n")
	for _, socketID := range sortedPlayerKeys(m.snap) {
		player := m.snap.Players[socketID]
		if player == nil {
			continue
		}
		line := fmt.Sprintf("  %s  $%d", player.Name, player.Bankroll)
		if socketID == m.snap.SocketID {
			line = m.styles.SeatYou.Render(line + "  (you)")
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n" + m.styles.Help.Render("enter join · m table view · q quit"))
	return b.String()
}

func (m *Model) renderTable() string {
	view, ok := m.focusedTable()
	if !ok {
		return m.styles.SeatEmpty.Render("no open tables") + "\n\n" +
			m.styles.Help.Render("m menu · q quit")
	}

	var b strings.Builder
	if view.Table != nil {
		b.WriteString(fmt.Sprintf("Table %d  limit $%d\n", view.TableID, view.Table.Limit))
		for _, seatID := range sortedSeatKeys(view.Table.Seats) {
			seat := view.Table.Seats[seatID]
			switch {
			case seat == nil:
				b.WriteString(m.styles.SeatEmpty.Render(fmt.Sprintf("  seat %d: empty", seatID)) + "\n")
			case seat.Player.SocketID == m.snap.SocketID:
				b.WriteString(m.styles.SeatYou.Render(fmt.Sprintf("  seat %d: %s  $%d  (you)", seatID, playerLabel(m.snap, seat.Player.SocketID), seat.Stack)) + "\n")
			default:
				b.WriteString(fmt.Sprintf("  seat %d: %s  $%d\n", seatID, playerLabel(m.snap, seat.Player.SocketID), seat.Stack))
			}
		}
	} else {
		b.WriteString(fmt.Sprintf("Table %d\n", view.TableID))
	}

	b.WriteString("\nChat\n")
	b.WriteString(m.chatView.View())
	b.WriteString("\n")

	switch m.mode {
	case modeChat:
		b.WriteString(m.chatInput.View())
	case modeRaise:
		b.WriteString("raise to: " + m.amountInput.View())
	default:
		b.WriteString(m.styles.Help.Render("0-9 seat · s stand · f fold · x check · c call · r raise · t chat · l leave · tab next · m menu"))
	}
	return b.String()
}

func (m *Model) renderModal() string {
	modal := m.snap.Modal
	action := "Buy in"
	if seatID, seated := mySeatIn(m.snap, modal.TableID); seated && seatID == modal.SeatID {
		action = "Rebuy"
	}
	body := fmt.Sprintf("%s at table %d, seat %d\n\namount: %s\n\n%s",
		action, modal.TableID, modal.SeatID,
		m.amountInput.View(),
		m.styles.Help.Render("enter submit · esc cancel"))
	return m.styles.Modal.Render(body)
}

func (m *Model) renderTranscript() string {
	view, ok := m.focusedTable()
	if !ok {
		return ""
	}
	var lines []string
	for _, msg := range view.Transcript {
		lines = append(lines, m.styles.ChatFrom.Render(msg.From+":")+" "+msg.Message)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) focusedTable() (lobby.OpenTableView, bool) {
	if m.focused < 0 || m.focused >= len(m.snap.Open) {
		return lobby.OpenTableView{}, false
	}
	return m.snap.Open[m.focused], true
}

func (m *Model) menuTableIDs() []int {
	ids := make([]int, 0, len(m.snap.Tables))
	for id := range m.snap.Tables {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func isOpen(snap lobby.Snapshot, tableID int) bool {
	for _, view := range snap.Open {
		if view.TableID == tableID {
			return true
		}
	}
	return false
}

func mySeatIn(snap lobby.Snapshot, tableID int) (int, bool) {
	table, ok := snap.Tables[tableID]
	if !ok {
		return 0, false
	}
	seatID, _, seated := lobby.FindMySeat(table, snap.SocketID)
	return seatID, seated
}

func playerLabel(snap lobby.Snapshot, socketID string) string {
	if player := snap.Players[socketID]; player != nil {
		return player.Name
	}
	return socketID
}

func sortedPlayerKeys(snap lobby.Snapshot) []string {
	keys := make([]string, 0, len(snap.Players))
	for k := range snap.Players {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedSeatKeys(seats map[int]*protocol.Seat) []int {
	ids := make([]int, 0, len(seats))
	for id := range seats {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
