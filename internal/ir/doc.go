// Package ir provides the core intermediate representation for rat2c.
//
// This package contains the statement/program types, the reserved name
// scheme, and text-level parsing and scanning helpers. All other internal
// packages import ir; ir imports nothing internal. This keeps the IR the
// foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Expressions stay plain text end to end. Passes match and rewrite
//     expressions textually; algebraic canonicalization belongs to the
//     external engine, never to this package.
//   - Generated names are reserved by prefix (frag/tmp/res/pow followed by
//     digits) and must never appear in user input.
//   - A Program is an ordered slice; statement order is significant and
//     passes must preserve it.
package ir
