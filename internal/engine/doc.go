// Package engine adapts the external symbolic-algebra engine.
//
// The engine is treated as a black box: it receives the whole fragment batch
// in one invocation and returns, per fragment, a straight-line assignment
// program. This package owns the batch protocol (script generation, sentinel
// splitting, the positional ordering contract) and the output-contract
// checks; it performs no algebra of its own.
//
// Hard contracts:
//   - Fragments are submitted in discovery order and outputs are matched
//     back positionally, never by name or content. A block-count mismatch is
//     a fatal BATCH_SHAPE error.
//   - A non-zero engine exit aborts the whole batch; there is no retry and
//     no partial result.
//   - Engine output must contain no residual division, no floating-point
//     markers, and no residual '^': rationals arrive as rat(num,den) calls,
//     reciprocals as inv(...) calls, integer powers as pow(...) calls.
//     Violations abort rather than risk emitting incorrect code.
package engine
