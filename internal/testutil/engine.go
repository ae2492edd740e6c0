package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/magv/rat2c/internal/engine"
	"github.com/magv/rat2c/internal/ir"
)

// ScriptedEngine is a deterministic in-process stand-in for the external
// symbolic engine, used by pipeline and command tests.
//
// Responses are keyed by fragment body text. A scripted response is parsed
// as a program whose final statement target is renamed to the requesting
// fragment, mirroring the positional output contract of the real engine.
// Fragments with no scripted response echo their body unchanged.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type ScriptedEngine struct {
	mu        sync.Mutex
	responses map[string]string
	calls     int
	err       error
}

// NewScriptedEngine creates an engine with no scripted responses.
func NewScriptedEngine() *ScriptedEngine {
	return &ScriptedEngine{responses: make(map[string]string)}
}

var _ engine.Engine = (*ScriptedEngine)(nil)

// Respond scripts the program returned for a fragment body.
//
// The program text uses the usual "a=b;c=d;" form. Its final target is
// rewritten per request, so scripts may name it anything.
func (e *ScriptedEngine) Respond(body, program string) *ScriptedEngine {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.responses[body] = program
	return e
}

// Fail makes every subsequent Simplify call return err.
func (e *ScriptedEngine) Fail(err error) *ScriptedEngine {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.err = err
	return e
}

// Calls returns the number of Simplify invocations so far.
//
// Used to assert that validation failures reject input before the engine
// is ever reached, and that cache hits skip it.
func (e *ScriptedEngine) Calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

// Simplify implements engine.Engine.
func (e *ScriptedEngine) Simplify(ctx context.Context, batch *engine.Batch) ([]ir.Program, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	if e.err != nil {
		return nil, e.err
	}

	programs := make([]ir.Program, len(batch.Fragments))
	for i, frag := range batch.Fragments {
		text, ok := e.responses[frag.Body]
		if !ok {
			programs[i] = ir.Program{{Target: frag.Name, Expr: frag.Body}}
			continue
		}
		prog, err := ir.ParseProgram(text)
		if err != nil {
			return nil, fmt.Errorf("bad scripted response for %q: %w", frag.Body, err)
		}
		if len(prog) == 0 {
			return nil, fmt.Errorf("empty scripted response for %q", frag.Body)
		}
		prog[len(prog)-1].Target = frag.Name
		programs[i] = prog
	}
	return programs, nil
}
