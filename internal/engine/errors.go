package engine

import (
	"errors"
	"fmt"
)

// EngineError represents a failure of the external engine invocation itself.
type EngineError struct {
	// Code identifies the failure category.
	Code EngineErrorCode

	// Message is a human-readable description.
	Message string

	// Diagnostics carries the engine's own stderr/stdout output verbatim.
	// It is surfaced to the user unchanged; the batch is not decomposable
	// after the fact, so the engine's diagnostics are all there is.
	Diagnostics string

	// Err is the underlying process error, if any.
	Err error
}

// EngineErrorCode categorizes engine invocation failures.
type EngineErrorCode string

const (
	// ErrCodeEngineFailed indicates the batch invocation exited non-zero.
	ErrCodeEngineFailed EngineErrorCode = "ENGINE_FAILED"

	// ErrCodeBatchShape indicates the engine returned a different number of
	// output blocks than fragments submitted. Outputs are matched
	// positionally; a shape mismatch means any mapping would be a guess.
	ErrCodeBatchShape EngineErrorCode = "BATCH_SHAPE"
)

func (e *EngineError) Error() string {
	if e.Diagnostics != "" {
		return fmt.Sprintf("%s: %s\n%s", e.Code, e.Message, e.Diagnostics)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *EngineError) Unwrap() error { return e.Err }

// ContractError represents engine output that violates the adapter's output
// contract. It signals either a broken engine contract or a decomposition
// defect; either way the result cannot be trusted and the batch aborts.
type ContractError struct {
	Code     ContractErrorCode
	Message  string
	Fragment string // fragment whose program violated the contract, if known
}

// ContractErrorCode categorizes output-contract violations.
type ContractErrorCode string

const (
	// ErrCodeResidualDivision indicates a '/' survived simplification.
	ErrCodeResidualDivision ContractErrorCode = "RESIDUAL_DIVISION"

	// ErrCodeFloatMarker indicates a floating-point marker in the output.
	ErrCodeFloatMarker ContractErrorCode = "FLOAT_MARKER"

	// ErrCodeResidualPower indicates a '^' survived; integer powers must
	// arrive as pow(...) calls.
	ErrCodeResidualPower ContractErrorCode = "RESIDUAL_POWER"

	// ErrCodeParseOutput indicates an output block was not a well-formed
	// statement sequence.
	ErrCodeParseOutput ContractErrorCode = "PARSE_OUTPUT"
)

func (e *ContractError) Error() string {
	if e.Fragment != "" {
		return fmt.Sprintf("%s: fragment %s: %s", e.Code, e.Fragment, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsEngineFailure reports whether err is (or wraps) an EngineError.
func IsEngineFailure(err error) bool {
	var ee *EngineError
	return errors.As(err, &ee)
}

// IsContractViolation reports whether err is (or wraps) a ContractError.
func IsContractViolation(err error) bool {
	var ce *ContractError
	return errors.As(err, &ce)
}
