package optimize

import "github.com/magv/rat2c/internal/ir"

// Allocation is the output of slot allocation.
type Allocation struct {
	Program ir.Program

	// Slots is the number of distinct scratch slots minted, which equals
	// the peak number of simultaneously live temporaries: a fresh slot is
	// minted only when the free list is empty.
	Slots int
}

// AllocateSlots maps every temporary onto a minimal pool of reusable tmp<N>
// slots by a single forward scan over the marked stream. A death marker
// returns the dead name's slot to a FIFO free list; a statement pops the
// head of the free list for its target (minting a fresh slot only when the
// list is empty) and rewrites its right-hand side through the current
// bindings.
//
// Result-slot targets are emitted unchanged: never pooled, never recycled.
func AllocateSlots(events []Event) Allocation {
	var free []string
	binding := make(map[string]string)
	lookup := func(name string) (string, bool) {
		r, ok := binding[name]
		return r, ok
	}
	minted := 0
	var out ir.Program
	for _, ev := range events {
		if ev.IsDeath() {
			if slot, ok := binding[ev.Death]; ok {
				free = append(free, slot)
				delete(binding, ev.Death)
			}
			continue
		}
		stmt := ev.Stmt
		expr := ir.RewriteNames(stmt.Expr, lookup)
		target := stmt.Target
		if !ir.IsResult(target) {
			var slot string
			if len(free) > 0 {
				slot = free[0]
				free = free[1:]
			} else {
				slot = ir.SlotName(minted)
				minted++
			}
			binding[target] = slot
			target = slot
		}
		out = append(out, ir.Statement{Target: target, Expr: expr})
	}
	return Allocation{Program: out, Slots: minted}
}
