package optimize

import "github.com/magv/rat2c/internal/ir"

// Stats summarizes one pipeline run, mostly for verbose diagnostics.
type Stats struct {
	Merged       int // statements after merging engine output
	Expanded     int // after power expansion
	AfterAliases int
	AfterCSE     int
	Final        int
	Slots        int // scratch slots in the final program
}

// Run composes the whole backend over one batch: merge the per-fragment
// engine programs with the result bindings, expand integer powers, then run
// the four lifecycle passes in order. The returned program is the final
// minimal-footprint assignment sequence.
func Run(fragments []ir.Fragment, programs []ir.Program, results ir.Program) (ir.Program, Stats, error) {
	var stats Stats

	merged, err := Merge(fragments, programs, results)
	if err != nil {
		return nil, stats, err
	}
	stats.Merged = len(merged)

	expanded, err := ExpandPowers(merged)
	if err != nil {
		return nil, stats, err
	}
	stats.Expanded = len(expanded)

	unaliased := EliminateAliases(expanded)
	stats.AfterAliases = len(unaliased)

	deduped := EliminateCommonSubexpressions(unaliased)
	stats.AfterCSE = len(deduped)

	alloc := AllocateSlots(MarkLiveRanges(deduped))
	stats.Final = len(alloc.Program)
	stats.Slots = alloc.Slots
	return alloc.Program, stats, nil
}
