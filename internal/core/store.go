// Package core provides the runtime core tier of the store engine:
// dispatch, snapshot publication, observer notification and reentrancy control.
// Dependencies: internal/primitives.
//go:generate go test ./... -race

package core

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/comalice/slicestore/internal/primitives"
)

// Observer is notified synchronously after each accepted transition.
// Dispatches it makes on the same store are queued until the current round
// completes. Pass its ctx along when handing work to another goroutine.
type Observer func(ctx context.Context, snap primitives.Snapshot) error

// Change is a published, accepted transition.
type Change struct {
	StoreID  string              `json:"storeID" yaml:"storeID"`
	Action   primitives.Action   `json:"action" yaml:"action"`
	Snapshot primitives.Snapshot `json:"snapshot" yaml:"snapshot"`
}

// Publisher forwards accepted transitions outside the store.
type Publisher interface {
	Publish(ctx context.Context, change Change) error
	Close() error
}

// Outcome classifies a dispatch for instrumentation.
type Outcome string

const (
	OutcomeChanged   Outcome = "changed"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeFailed    Outcome = "failed"
	OutcomeRejected  Outcome = "rejected"
	OutcomeQueued    Outcome = "queued"
)

// Instrumentation observes the store without influencing it.
type Instrumentation interface {
	DispatchObserved(storeID string, action primitives.Action, outcome Outcome, elapsed time.Duration)
	SnapshotPublished(storeID string, snap primitives.Snapshot)
	ObserverFailed(storeID string)
}

// Option applies configuration to Store via functional options pattern.
type Option func(*Store)

type subscription struct {
	id     uint64
	fn     Observer
	active atomic.Bool
}

type queuedAction struct {
	ctx    context.Context
	action primitives.Action
}

// Store is the state container: one immutable Snapshot reduced by a fixed
// set of slice reducers.
// Dispatch is serialized; Snapshot is lock-free and safe from any goroutine.
type Store struct {
	id       string
	config   primitives.StoreConfig
	names    []string
	reducers []primitives.Reducer
	current  atomic.Pointer[primitives.Snapshot]
	closed   atomic.Bool

	mu sync.Mutex // held for the whole of a dispatch, including notification

	obsMu     sync.RWMutex
	observers []*subscription
	nextSub   uint64

	// Round state. A round is one locked Dispatch, including the queued
	// actions it drains. round is 0 when no round is in progress.
	roundMu sync.Mutex
	pending []queuedAction
	rounds  uint64
	round   uint64
	owner   uint64 // goroutine running the round
	phase   phase

	clock        clockwork.Clock
	logger       *zap.Logger
	errorHook    func(error)
	equal        func(a, b any) bool
	alwaysNotify bool
	publisher    Publisher
	instr        Instrumentation
}

// NewStore validates config, resolves initial slice values and publishes
// snapshot version 0. Slices without an initial value are initialized by
// their reducer with a nil state and primitives.InitAction.
func NewStore(config primitives.StoreConfig, opts ...Option) (*Store, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	s := &Store{
		config: config,
		names:  config.Names(),
		clock:  clockwork.NewRealClock(),
		logger: zap.NewNop(),
		equal:  reflect.DeepEqual,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.clock == nil {
		s.clock = clockwork.NewRealClock()
	}
	if s.equal == nil {
		s.equal = reflect.DeepEqual
	}
	if s.id == "" {
		s.id = config.ID
	}
	if s.id == "" {
		s.id = uuid.NewString()
	}
	s.logger = s.logger.With(zap.String("store", s.id))
	if s.errorHook == nil {
		s.errorHook = func(err error) {
			s.logger.Error("store error", zap.Error(err))
		}
	}

	ctx := context.Background()
	init := primitives.InitAction()
	values := make(map[string]any, len(config.Slices))
	s.reducers = make([]primitives.Reducer, len(config.Slices))
	for i, sc := range config.Slices {
		s.reducers[i] = sc.Reducer
		if sc.Initial != nil {
			values[sc.Name] = sc.Initial
			continue
		}
		v, err := callReducer(ctx, sc.Reducer, nil, init)
		if err != nil {
			return nil, &ReducerError{Slice: sc.Name, Action: init.Type, Err: err}
		}
		values[sc.Name] = v
	}

	snap := primitives.NewSnapshot(s.names, values, 0, s.clock.Now())
	s.current.Store(&snap)
	if s.instr != nil {
		s.instr.SnapshotPublished(s.id, snap)
	}
	s.logger.Debug("store created", zap.Strings("slices", s.names))
	return s, nil
}

// ID returns the store identity.
func (s *Store) ID() string {
	return s.id
}

// Config returns the store configuration (shallow copy).
func (s *Store) Config() primitives.StoreConfig {
	return s.config
}

// Snapshot returns the current snapshot.
func (s *Store) Snapshot() primitives.Snapshot {
	return *s.current.Load()
}

// Dispatch runs every slice reducer against the current snapshot and publishes
// the result. It is all-or-nothing: if any reducer fails, the error is returned
// as a *ReducerError and the current snapshot is left untouched.
//
// When no slice changes by value the current snapshot is returned as-is and
// observers are not notified (unless WithAlwaysNotify).
//
// A Dispatch made from inside a round of this store, either with a ctx that
// round handed out or from the goroutine running it, is reentrant. From a
// reducer it is rejected with ErrReentrantDispatch. From an observer, the
// error hook, the publisher or instrumentation it is queued and applied right
// after the current round; the snapshot being published is returned. Calls
// from other goroutines wait for the round to finish and are serialized.
func (s *Store) Dispatch(ctx context.Context, action primitives.Action) (primitives.Snapshot, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if s.closed.Load() {
		return s.Snapshot(), ErrClosed
	}

	switch s.admit(ctx, action) {
	case admitReject:
		s.observe(action, OutcomeRejected, 0)
		return s.Snapshot(), fmt.Errorf("%w: %q", ErrReentrantDispatch, action.Type)
	case admitQueue:
		s.observe(action, OutcomeQueued, 0)
		return s.Snapshot(), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return s.Snapshot(), ErrClosed
	}

	round := s.beginRound()
	snap, err := s.dispatchLocked(ctx, round, action)
	s.drain(round)
	return snap, err
}

type admission int

const (
	admitRun admission = iota
	admitQueue
	admitReject
)

// admit classifies a Dispatch against the round in progress. A call that
// carries a frame of an earlier round and runs on another goroutine is not
// reentrant; it waits for mu like any other caller.
func (s *Store) admit(ctx context.Context, action primitives.Action) admission {
	s.roundMu.Lock()
	defer s.roundMu.Unlock()
	if s.round == 0 {
		return admitRun
	}
	if r, ok := roundOf(ctx, s); !ok || r != s.round {
		if s.owner != goroutineID() {
			return admitRun
		}
	}
	if s.phase == phaseReducing {
		return admitReject
	}
	s.pending = append(s.pending, queuedAction{ctx: ctx, action: action})
	return admitQueue
}

// beginRound opens a round owned by the calling goroutine. Must hold mu.
func (s *Store) beginRound() uint64 {
	owner := goroutineID()
	s.roundMu.Lock()
	defer s.roundMu.Unlock()
	s.rounds++
	s.round = s.rounds
	s.owner = owner
	s.phase = phaseIdle
	return s.round
}

func (s *Store) setPhase(p phase) {
	s.roundMu.Lock()
	s.phase = p
	s.roundMu.Unlock()
}

// drain applies queued actions in FIFO order, then closes the round.
// Must hold mu.
func (s *Store) drain(round uint64) {
	for {
		s.roundMu.Lock()
		if len(s.pending) == 0 {
			s.round, s.owner, s.phase = 0, 0, phaseIdle
			s.roundMu.Unlock()
			return
		}
		next := s.pending[0]
		s.pending = s.pending[1:]
		s.roundMu.Unlock()

		if _, err := s.dispatchLocked(next.ctx, round, next.action); err != nil {
			s.errorHook(fmt.Errorf("queued action %q: %w", next.action.Type, err))
		}
	}
}

func (s *Store) dispatchLocked(ctx context.Context, round uint64, action primitives.Action) (primitives.Snapshot, error) {
	start := s.clock.Now()
	prev := s.Snapshot()

	s.setPhase(phaseReducing)
	values, changed, err := s.reduce(withFrame(ctx, s, round), prev, action)
	s.setPhase(phaseNotifying)
	if err != nil {
		s.observe(action, OutcomeFailed, s.clock.Since(start))
		s.logger.Debug("dispatch failed", zap.String("action", action.Type), zap.Error(err))
		return prev, err
	}

	if !changed {
		if s.alwaysNotify {
			s.notify(withFrame(ctx, s, round), action, prev)
		}
		s.observe(action, OutcomeUnchanged, s.clock.Since(start))
		return prev, nil
	}

	next := primitives.NewSnapshot(s.names, values, prev.Version()+1, s.clock.Now())
	s.current.Store(&next)
	if s.instr != nil {
		s.instr.SnapshotPublished(s.id, next)
	}
	s.notify(withFrame(ctx, s, round), action, next)
	s.observe(action, OutcomeChanged, s.clock.Since(start))
	return next, nil
}

// reduce computes the next slice values without touching the store.
// Slices whose value did not change keep the previous value.
func (s *Store) reduce(rctx context.Context, prev primitives.Snapshot, action primitives.Action) (map[string]any, bool, error) {
	values := make(map[string]any, len(s.names))
	changed := false
	for i, name := range s.names {
		old, _ := prev.Get(name)
		v, err := callReducer(rctx, s.reducers[i], old, action)
		if err != nil {
			return nil, false, &ReducerError{Slice: name, Action: action.Type, Err: err}
		}
		if s.equal(old, v) {
			values[name] = old
			continue
		}
		values[name] = v
		changed = true
	}
	return values, changed, nil
}

func callReducer(ctx context.Context, r primitives.Reducer, state any, action primitives.Action) (out any, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrReducerPanic, p)
		}
	}()
	return r(ctx, state, action)
}

// notify calls observers in registration order, then the publisher.
// Failures are isolated and reported to the error hook.
func (s *Store) notify(nctx context.Context, action primitives.Action, snap primitives.Snapshot) {
	s.obsMu.RLock()
	subs := append([]*subscription(nil), s.observers...)
	s.obsMu.RUnlock()

	for i, sub := range subs {
		if !sub.active.Load() {
			continue
		}
		if err := callObserver(nctx, sub.fn, snap); err != nil {
			if s.instr != nil {
				s.instr.ObserverFailed(s.id)
			}
			s.errorHook(&ObserverError{ID: sub.id, Index: i, Err: err})
		}
	}

	if s.publisher != nil {
		change := Change{StoreID: s.id, Action: action, Snapshot: snap}
		if err := s.publisher.Publish(nctx, change); err != nil {
			s.errorHook(fmt.Errorf("publish %q: %w", action.Type, err))
		}
	}
}

func callObserver(ctx context.Context, fn Observer, snap primitives.Snapshot) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrObserverPanic, p)
		}
	}()
	return fn(ctx, snap)
}

func (s *Store) observe(action primitives.Action, outcome Outcome, elapsed time.Duration) {
	if s.instr != nil {
		s.instr.DispatchObserved(s.id, action, outcome, elapsed)
	}
}

// Close drops all observers and closes the publisher. Later dispatches fail
// with ErrClosed; Snapshot keeps returning the last published snapshot.
// Safe to call multiple times, but not from a reducer or observer.
func (s *Store) Close() error {
	if s.closed.Swap(true) {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.obsMu.Lock()
	for _, sub := range s.observers {
		sub.active.Store(false)
	}
	s.observers = nil
	s.obsMu.Unlock()

	if s.publisher != nil {
		return s.publisher.Close()
	}
	return nil
}
