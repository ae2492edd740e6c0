package engine

import (
	"context"

	"github.com/magv/rat2c/internal/ir"
)

// Default batch parameters, matching FORM's conventions.
const (
	DefaultOptLevel  = 2
	DefaultWorkspace = "1G"
)

// Batch is one complete submission to the external engine. Fragments must be
// in discovery (topological) order; vocabularies cover every name the
// fragment bodies may reference.
type Batch struct {
	Fragments []ir.Fragment
	Variables []string
	Functions []string

	// OptLevel selects the engine's optimization effort (FORM Format O0-O4).
	OptLevel int

	// Workspace is the engine's memory budget, e.g. "1G".
	Workspace string
}

// Engine simplifies a whole batch in one round trip. Implementations are
// deterministic pure functions of (fragment text, vocabularies, OptLevel):
// the same batch always yields the same programs.
//
// The returned slice is positional: programs[i] is the straight-line program
// for batch.Fragments[i], with its final statement's target already renamed
// to the fragment's name.
type Engine interface {
	Simplify(ctx context.Context, batch *Batch) ([]ir.Program, error)
}
