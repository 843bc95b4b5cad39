package lobby

// MaxOpenTables caps how many table sessions a client renders at once.
const MaxOpenTables = 4

// ChatMessage is one line of a table's chat transcript.
type ChatMessage struct {
	Message string
	From    string
	TableID int
}

// OpenTables is the bounded set of tables the local client has open,
// each with an ordered chat transcript. Membership changes only on
// server acknowledgment (table_joined / table_left), never on the
// outbound command alone.
type OpenTables struct {
	order       []int
	transcripts map[int][]ChatMessage
}

// NewOpenTables creates an empty open-table set.
func NewOpenTables() *OpenTables {
	return &OpenTables{
		transcripts: make(map[int][]ChatMessage),
	}
}

// CanOpen reports whether a join for tableID may be sent: the table is
// already open, or there is capacity for one more. This is an optimistic
// client-side guard; the server stays authoritative.
func (o *OpenTables) CanOpen(tableID int) bool {
	return o.IsOpen(tableID) || len(o.order) < MaxOpenTables
}

// IsOpen reports whether tableID is a member of the set.
func (o *OpenTables) IsOpen(tableID int) bool {
	_, ok := o.transcripts[tableID]
	return ok
}

// Open adds tableID with an empty transcript. Opening an already open
// table is a no-op.
func (o *OpenTables) Open(tableID int) {
	if o.IsOpen(tableID) {
		return
	}
	o.order = append(o.order, tableID)
	o.transcripts[tableID] = nil
}

// Close removes tableID and discards its transcript.
func (o *OpenTables) Close(tableID int) {
	if !o.IsOpen(tableID) {
		return
	}
	delete(o.transcripts, tableID)
	for i, id := range o.order {
		if id == tableID {
			o.order = append(o.order[:i], o.order[i+1:]...)
			break
		}
	}
}

// IDs returns the open table ids in join order.
func (o *OpenTables) IDs() []int {
	ids := make([]int, len(o.order))
	copy(ids, o.order)
	return ids
}

// Len returns the number of open tables.
func (o *OpenTables) Len() int {
	return len(o.order)
}

// Append adds a chat line to its table's transcript. Lines for tables
// that are not open are dropped.
func (o *OpenTables) Append(msg ChatMessage) {
	if !o.IsOpen(msg.TableID) {
		return
	}
	o.transcripts[msg.TableID] = append(o.transcripts[msg.TableID], msg)
}

// Transcript returns the chat transcript for tableID in arrival order.
func (o *OpenTables) Transcript(tableID int) []ChatMessage {
	return o.transcripts[tableID]
}

// Clear empties the set and all transcripts.
func (o *OpenTables) Clear() {
	o.order = nil
	o.transcripts = make(map[int][]ChatMessage)
}
