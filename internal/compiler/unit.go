package compiler

import "github.com/magv/rat2c/internal/ir"

// Unit is one fully validated and decomposed batch of input expressions,
// ready for submission to the external engine. It is the smallest unit of
// work in the pipeline: no subset of it can succeed or fail on its own.
type Unit struct {
	// Expressions holds the flattened input texts, in input order.
	Expressions []string

	// Variables is the final input-parameter order: the caller-declared
	// order when one was given, otherwise the referenced variables sorted.
	Variables []string

	// Functions is the sorted set of opaque function names, declared or
	// referenced.
	Functions []string

	// Fragments is the decomposed DAG in discovery (topological) order.
	Fragments []ir.Fragment

	// Results binds res<N> to each expression's decomposed top-level text.
	Results ir.Program
}

// Compile runs the whole front end over raw input expressions: flattening,
// structural validation, reserved-identifier rejection, vocabulary
// resolution, and parenthesis decomposition. Any error here is an
// input-validation error raised before the engine is invoked.
func Compile(exprs, declaredVars, declaredFuncs []string) (*Unit, error) {
	flats := make([]string, len(exprs))
	for i, text := range exprs {
		flat, err := Flatten(text, i)
		if err != nil {
			return nil, err
		}
		if err := CheckReserved(flat, i); err != nil {
			return nil, err
		}
		flats[i] = flat
	}

	vocab := ExtractVocabulary(flats)
	variables, err := ResolveVariableOrder(declaredVars, vocab.Variables)
	if err != nil {
		return nil, err
	}

	functions := vocab.Functions
	if len(declaredFuncs) > 0 {
		set := make(map[string]bool, len(functions)+len(declaredFuncs))
		for _, f := range functions {
			set[f] = true
		}
		for _, f := range declaredFuncs {
			set[f] = true
		}
		functions = sortedKeys(set)
	}

	decomp := Decompose(flats)
	return &Unit{
		Expressions: flats,
		Variables:   variables,
		Functions:   functions,
		Fragments:   decomp.Fragments,
		Results:     decomp.Results,
	}, nil
}
