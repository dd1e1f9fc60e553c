package installer

import "fmt"

// PreconditionError aborts a run before any item executes.
type PreconditionError struct {
	Item   string // empty when the problem is not tied to one item
	Reason string
}

func (e *PreconditionError) Error() string {
	if e.Item == "" {
		return "invalid run configuration: " + e.Reason
	}
	return fmt.Sprintf("invalid run configuration: item %q: %s", e.Item, e.Reason)
}

// ItemFailure is a non-fatal failure recorded against a single item.
type ItemFailure struct {
	Item string
	Op   Operation
	Err  error
}

func (e *ItemFailure) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Item, e.Err)
}

func (e *ItemFailure) Unwrap() error {
	return e.Err
}

// ConsentInputError signals an answer that was neither yes nor no.
type ConsentInputError struct {
	Input string
}

func (e *ConsentInputError) Error() string {
	return fmt.Sprintf("unrecognised answer %q (expected yes or no)", e.Input)
}

// ReasonVerificationFailed is the reason recorded when an install reports
// success but the item is still absent afterwards.
const ReasonVerificationFailed = "post-install verification failed"
