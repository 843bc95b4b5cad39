package lobby

import (
	"sort"

	"github.com/feltable/lobby/internal/protocol"
)

// FindMySeat returns the seat occupied by the local transport session at
// the given table. Seat ids within a table are unique and a session
// occupies at most one seat, so the first match is the only match.
func FindMySeat(table *protocol.Table, socketID string) (seatID int, seat *protocol.Seat, ok bool) {
	if table == nil || socketID == "" {
		return 0, nil, false
	}
	for _, id := range sortedSeatIDs(table) {
		s := table.Seats[id]
		if s != nil && s.Player.SocketID == socketID {
			return id, s, true
		}
	}
	return 0, nil, false
}

// SeatIsVacant reports whether the seat exists at the table and nobody
// occupies it.
func SeatIsVacant(table *protocol.Table, seatID int) bool {
	if table == nil {
		return false
	}
	seat, exists := table.Seats[seatID]
	return exists && seat == nil
}

func sortedSeatIDs(table *protocol.Table) []int {
	ids := make([]int, 0, len(table.Seats))
	for id := range table.Seats {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
