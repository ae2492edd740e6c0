// Package store provides an optional persistent cache of per-fragment
// simplification results, backed by SQLite.
//
// The external engine is by far the slowest stage of the pipeline and a
// deterministic pure function of (fragment text, vocabularies, optimization
// level), which makes its output safely cacheable across runs. Keys are
// content-addressed: sha256 over the NFC-normalized fragment body, the
// vocabulary hash, and the optimization level.
//
// Caching never weakens the batch contract: a batch is served from cache
// only when every fragment hits; on any miss the engine runs for the whole
// batch and all results are stored under one batch id.
package store
