package searcher

import "fmt"

// ConfigurationError signals a construction-time problem: an invalid FEN,
// a negative budget, or a model load failure. It aborts the search that
// tried to start; per spec it is always surfaced to the caller, never
// recovered internally.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("searcher: configuration error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("searcher: configuration error: %s", e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// NewConfigurationError wraps err with a human-readable reason.
func NewConfigurationError(reason string, err error) *ConfigurationError {
	return &ConfigurationError{Reason: reason, Err: err}
}

// EvaluationError records a single failed model inference. Callers
// recover from it locally by falling back to rollout for that node; it is
// never returned from Search, only logged.
type EvaluationError struct {
	FEN string
	Err error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("searcher: evaluation failed for %s: %v", e.FEN, e.Err)
}

func (e *EvaluationError) Unwrap() error { return e.Err }

// UnknownMoveInAdvance describes an AdvanceTree call for a move with no
// explored child. AdvanceTree only logs it and recovers by constructing a
// fresh root; it never escapes Node.AdvanceTree.
type UnknownMoveInAdvance struct {
	UCI string
}

func (e *UnknownMoveInAdvance) Error() string {
	return fmt.Sprintf("searcher: move %s not among root's explored children", e.UCI)
}

// invariantViolation panics with a programmer-error message: a node
// invariant the spec requires was never supposed to be reachable, e.g.
// selectBestChild called with no children. Per spec §7 this indicates a
// bug in the core itself, not a runtime condition, so it panics rather
// than returning an error.
func invariantViolation(format string, args ...any) {
	panic(fmt.Sprintf("searcher: invariant violation: "+format, args...))
}
