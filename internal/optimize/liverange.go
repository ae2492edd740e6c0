package optimize

import "github.com/magv/rat2c/internal/ir"

// Event is one entry of a live-range-marked stream: either an ordinary
// statement or a synthetic end-of-life marker for a name.
type Event struct {
	Stmt  ir.Statement
	Death string // name whose live range ends here; empty for statements
}

// IsDeath reports whether the event is an end-of-life marker.
func (e Event) IsDeath() bool { return e.Death != "" }

// MarkLiveRanges interleaves the stream with death markers. The program is
// traversed in reverse; the first reverse-order sighting of a name is its
// last use, so a marker is emitted there, and a statement's own target has
// its pending mark cleared at the definition. Read forward, each name's
// marker sits immediately after the statement containing its last use.
//
// Markers are emitted for every referenced name, including input variables
// and result slots; the allocator ignores names it never bound. Live ranges
// exist only in the returned stream, nothing is persisted.
func MarkLiveRanges(prog ir.Program) []Event {
	ended := make(map[string]bool)
	rev := make([]Event, 0, 2*len(prog))
	for i := len(prog) - 1; i >= 0; i-- {
		stmt := prog[i]
		for _, name := range ir.ScanNames(stmt.Expr) {
			if !ended[name] {
				ended[name] = true
				rev = append(rev, Event{Death: name})
			}
		}
		delete(ended, stmt.Target)
		rev = append(rev, Event{Stmt: stmt})
	}

	events := make([]Event, len(rev))
	for i, ev := range rev {
		events[len(rev)-1-i] = ev
	}
	return events
}
