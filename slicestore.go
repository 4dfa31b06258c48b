// Package slicestore is an in-memory state container: a single immutable
// Snapshot of named slices, reduced by pure slice reducers in response to
// dispatched Actions, with synchronous, ordered observer notification.
//
// A Store is an explicit instance. Create one per application root and hand
// it down, either directly or through a context with WithProvider.
package slicestore

import (
	"github.com/comalice/slicestore/internal/core"
	"github.com/comalice/slicestore/internal/primitives"
)

type (
	Action      = primitives.Action
	Snapshot    = primitives.Snapshot
	Reducer     = primitives.Reducer
	SliceConfig = primitives.SliceConfig
	StoreConfig = primitives.StoreConfig
	SetPayload  = primitives.SetPayload

	Store           = core.Store
	Observer        = core.Observer
	Subscription    = core.Subscription
	Option          = core.Option
	Change          = core.Change
	Publisher       = core.Publisher
	Instrumentation = core.Instrumentation
	Outcome         = core.Outcome
	ReducerError    = core.ReducerError
	ObserverError   = core.ObserverError
)

const (
	InitActionType = primitives.InitActionType
	SetActionType  = primitives.SetActionType
)

var (
	ErrReentrantDispatch = core.ErrReentrantDispatch
	ErrReducerPanic      = core.ErrReducerPanic
	ErrObserverPanic     = core.ErrObserverPanic
	ErrClosed            = core.ErrClosed

	ErrNoSlices       = primitives.ErrNoSlices
	ErrEmptySliceName = primitives.ErrEmptySliceName
	ErrDuplicateSlice = primitives.ErrDuplicateSlice
	ErrNilReducer     = primitives.ErrNilReducer
)

// Store options.
var (
	WithID              = core.WithID
	WithClock           = core.WithClock
	WithLogger          = core.WithLogger
	WithErrorHook       = core.WithErrorHook
	WithEquality        = core.WithEquality
	WithAlwaysNotify    = core.WithAlwaysNotify
	WithPublisher       = core.WithPublisher
	WithInstrumentation = core.WithInstrumentation
)

// New creates a Store. See core.NewStore.
func New(config StoreConfig, opts ...Option) (*Store, error) {
	return core.NewStore(config, opts...)
}

// NewAction creates an Action.
func NewAction(actionType string, payload any) Action {
	return primitives.NewAction(actionType, payload)
}

// Get reads a slice from snap as T. It reports false when the slice is
// missing or holds another type.
func Get[T any](snap Snapshot, slice string) (T, bool) {
	v, ok := snap.Get(slice)
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}
