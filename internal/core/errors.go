package core

import (
	"errors"
	"fmt"
)

var (
	ErrReentrantDispatch = errors.New("reentrant dispatch from reducer")
	ErrReducerPanic      = errors.New("reducer panicked")
	ErrObserverPanic     = errors.New("observer panicked")
	ErrClosed            = errors.New("store is closed")
)

// ReducerError reports the slice whose reducer failed a dispatch.
type ReducerError struct {
	Slice  string
	Action string
	Err    error
}

func (e *ReducerError) Error() string {
	return fmt.Sprintf("slice %q reducing %q: %v", e.Slice, e.Action, e.Err)
}

func (e *ReducerError) Unwrap() error {
	return e.Err
}

// ObserverError reports a failed observer call. It never reaches the
// dispatcher; it is handed to the store error hook.
type ObserverError struct {
	ID    uint64
	Index int
	Err   error
}

func (e *ObserverError) Error() string {
	return fmt.Sprintf("observer %d (position %d): %v", e.ID, e.Index, e.Err)
}

func (e *ObserverError) Unwrap() error {
	return e.Err
}
