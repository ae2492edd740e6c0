package harness

import (
	"context"
	"fmt"
	"strings"

	"github.com/magv/rat2c/internal/compiler"
	"github.com/magv/rat2c/internal/emit"
	"github.com/magv/rat2c/internal/engine"
	"github.com/magv/rat2c/internal/ir"
	"github.com/magv/rat2c/internal/optimize"
	"github.com/magv/rat2c/internal/testutil"
)

// Result captures one scenario execution.
type Result struct {
	// Code is the emitted C function text.
	Code string

	// Fragments is the decomposition submitted to the engine, in
	// submission order.
	Fragments []ir.Fragment

	// Program is the final assignment sequence before emission.
	Program ir.Program

	// Stats summarizes the pipeline run.
	Stats optimize.Stats

	// EngineCalls is the number of engine invocations (0 or 1).
	EngineCalls int
}

// Run executes the full pipeline for a scenario with a scripted engine and
// verifies the scenario's shape expectations.
func Run(scenario *Scenario) (*Result, error) {
	unit, err := compiler.Compile(scenario.Expressions, scenario.Variables, scenario.Functions)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	if scenario.ExpectFragments != nil && len(unit.Fragments) != *scenario.ExpectFragments {
		return nil, fmt.Errorf("scenario %s: decomposed into %d fragment(s), expected %d",
			scenario.Name, len(unit.Fragments), *scenario.ExpectFragments)
	}

	eng := testutil.NewScriptedEngine()
	for body, program := range scenario.Responses {
		eng.Respond(body, program)
	}

	var programs []ir.Program
	if len(unit.Fragments) > 0 {
		batch := &engine.Batch{
			Fragments: unit.Fragments,
			Variables: unit.Variables,
			Functions: unit.Functions,
			OptLevel:  engine.DefaultOptLevel,
			Workspace: engine.DefaultWorkspace,
		}
		if programs, err = eng.Simplify(context.Background(), batch); err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
	}

	final, stats, err := optimize.Run(unit.Fragments, programs, unit.Results)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	if scenario.ExpectSlots != nil && stats.Slots != *scenario.ExpectSlots {
		return nil, fmt.Errorf("scenario %s: allocated %d slot(s), expected %d",
			scenario.Name, stats.Slots, *scenario.ExpectSlots)
	}

	name := scenario.FunctionName
	if name == "" {
		name = scenario.Name
	}
	var code strings.Builder
	spec := emit.FunctionSpec{Name: name, Variables: unit.Variables, Results: len(unit.Results)}
	if err := emit.Function(&code, spec, final); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	return &Result{
		Code:        code.String(),
		Fragments:   unit.Fragments,
		Program:     final,
		Stats:       stats,
		EngineCalls: eng.Calls(),
	}, nil
}
