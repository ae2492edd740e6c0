// Package optimize implements the temporary-lifecycle pipeline: merging the
// per-fragment engine programs into one single-assignment stream, expanding
// bounded integer powers, and running the four lifecycle passes (alias
// elimination, global common-subexpression elimination, live-range marking,
// slot allocation).
//
// Every pass is a pure function consuming and producing an ordered statement
// sequence; none mutates its input. Fresh-name counters are local to one
// pass invocation, so the pipeline is re-entrant and each pass is testable
// in isolation.
//
// Matching is purely textual on post-alias strings. Algebraically equal but
// differently written expressions are not merged; canonicalization is the
// external engine's job, not this package's.
package optimize
