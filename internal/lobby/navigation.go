package lobby

// Modal is the buy-in/rebuy dialog state. It records exactly which table
// and seat it was opened for, so submitting never has to guess the
// target from whatever table happens to be focused.
type Modal struct {
	Open    bool
	TableID int
	SeatID  int
}

// Navigation tracks whether the user is looking at the lobby menu or an
// open table, plus the orthogonal modal sub-state. Joining a table never
// pulls the user off the menu; only an explicit toggle does.
type Navigation struct {
	onMenu bool
	modal  Modal
}

// NewNavigation creates navigation state positioned on the menu.
func NewNavigation() *Navigation {
	return &Navigation{onMenu: true}
}

// OnMenu reports whether the menu is showing.
func (n *Navigation) OnMenu() bool { return n.onMenu }

// ToggleMenu flips between the menu and the table view unconditionally.
func (n *Navigation) ToggleMenu() { n.onMenu = !n.onMenu }

// Modal returns the current modal state.
func (n *Navigation) Modal() Modal { return n.modal }

// OpenModal opens the buy-in/rebuy dialog for a specific seat. Works
// from either view.
func (n *Navigation) OpenModal(tableID, seatID int) {
	n.modal = Modal{Open: true, TableID: tableID, SeatID: seatID}
}

// CloseModal dismisses the dialog and clears its target.
func (n *Navigation) CloseModal() {
	n.modal = Modal{}
}

// TableClosed clears modal state that references a table which is no
// longer open, so a seat click racing a table_left cannot leave a
// dialog pointing at a dead table.
func (n *Navigation) TableClosed(tableID int) {
	if n.modal.Open && n.modal.TableID == tableID {
		n.modal = Modal{}
	}
}

// Reset returns navigation to its initial state.
func (n *Navigation) Reset() {
	n.onMenu = true
	n.modal = Modal{}
}
