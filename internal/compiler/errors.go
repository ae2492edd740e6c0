package compiler

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes input-validation failures. All of them are raised
// before the external engine is ever invoked.
type ErrorCode string

const (
	// ErrCodeMalformed indicates the expression text violates the token
	// alphabet or delimiter structure.
	ErrCodeMalformed ErrorCode = "MALFORMED"

	// ErrCodeReservedIdent indicates user input contains an identifier
	// colliding with a generated-name form (frag/tmp/res/pow + digits).
	ErrCodeReservedIdent ErrorCode = "RESERVED_IDENT"

	// ErrCodeUndeclaredVar indicates an expression references a variable
	// missing from an explicitly declared variable order.
	ErrCodeUndeclaredVar ErrorCode = "UNDECLARED_VAR"
)

// CompileError is an input-validation error with source position.
// Expr is the zero-based index of the offending input expression; Offset is
// a byte offset into its flattened text, or -1 when the error is not tied
// to a single position.
type CompileError struct {
	Code    ErrorCode
	Message string
	Expr    int
	Offset  int
}

func (e *CompileError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("expression %d, offset %d: %s: %s", e.Expr+1, e.Offset, e.Code, e.Message)
	}
	return fmt.Sprintf("expression %d: %s: %s", e.Expr+1, e.Code, e.Message)
}

// IsValidationError reports whether err is (or wraps) a CompileError.
func IsValidationError(err error) bool {
	var ce *CompileError
	return errors.As(err, &ce)
}

func malformed(expr, offset int, format string, args ...interface{}) *CompileError {
	return &CompileError{
		Code:    ErrCodeMalformed,
		Message: fmt.Sprintf(format, args...),
		Expr:    expr,
		Offset:  offset,
	}
}
