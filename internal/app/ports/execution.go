package ports

import (
	"context"
	"errors"
	"fmt"

	"dominion/internal/domain/civ"
)

// ExecutionEngine applies one action to the authoritative game state. It is
// called strictly sequentially; an implementation never has to synchronize.
type ExecutionEngine interface {
	Apply(ctx context.Context, id civ.CivID, action civ.Action) error
}

type FailureClass uint8

const (
	// FailureRecoverable marks a transiently invalid action. It consumes one
	// retry and the action goes back to its queue.
	FailureRecoverable FailureClass = iota
	// FailureFatal marks a structurally invalid action. It is dropped without
	// retry.
	FailureFatal
)

type ExecutionError struct {
	Class  FailureClass
	Reason string
}

func (e *ExecutionError) Error() string {
	if e.Class == FailureFatal {
		return "fatal execution failure: " + e.Reason
	}
	return "recoverable execution failure: " + e.Reason
}

func Recoverablef(format string, args ...any) error {
	return &ExecutionError{Class: FailureRecoverable, Reason: fmt.Sprintf(format, args...)}
}

func Fatalf(format string, args ...any) error {
	return &ExecutionError{Class: FailureFatal, Reason: fmt.Sprintf(format, args...)}
}

func IsRecoverable(err error) bool {
	var ee *ExecutionError
	return errors.As(err, &ee) && ee.Class == FailureRecoverable
}

func IsFatal(err error) bool {
	var ee *ExecutionError
	return errors.As(err, &ee) && ee.Class == FailureFatal
}
