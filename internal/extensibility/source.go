package extensibility

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/comalice/slicestore/internal/primitives"
)

// ActionSource feeds external actions into a store.
type ActionSource interface {
	Actions() <-chan primitives.Action
}

// Dispatcher is the part of a store a Pump needs.
type Dispatcher interface {
	Dispatch(ctx context.Context, action primitives.Action) (primitives.Snapshot, error)
}

// ChannelActionSource is an ActionSource backed by a Go channel.
type ChannelActionSource struct {
	ch chan primitives.Action
}

// NewChannelActionSource creates a new ChannelActionSource with the given channel.
// The channel should be buffered if producers must not block.
func NewChannelActionSource(ch chan primitives.Action) *ChannelActionSource {
	return &ChannelActionSource{ch: ch}
}

// Actions returns the receive-only channel for actions.
func (s *ChannelActionSource) Actions() <-chan primitives.Action {
	return s.ch
}

// TimerActionSource emits the same action on every tick of a clock.
// Ticks that find the buffer full are counted in Missed and skipped.
type TimerActionSource struct {
	out    chan primitives.Action
	action primitives.Action
	ticker clockwork.Ticker
	done   chan struct{}
	once   sync.Once
	missed atomic.Uint64
}

// NewTimerActionSource starts emitting action every d. A nil clock means the
// real clock.
func NewTimerActionSource(clock clockwork.Clock, action primitives.Action, d time.Duration) *TimerActionSource {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	src := &TimerActionSource{
		out:    make(chan primitives.Action, 10),
		action: action,
		ticker: clock.NewTicker(d),
		done:   make(chan struct{}),
	}
	go src.loop()
	return src
}

func (src *TimerActionSource) loop() {
	defer close(src.out)
	defer src.ticker.Stop()
	for {
		select {
		case <-src.done:
			return
		case <-src.ticker.Chan():
		}
		select {
		case src.out <- src.action:
		default:
			src.missed.Add(1)
		}
	}
}

// Actions returns the action channel. It is closed after Stop.
func (src *TimerActionSource) Actions() <-chan primitives.Action {
	return src.out
}

// Missed reports how many ticks were skipped because nobody was reading.
func (src *TimerActionSource) Missed() uint64 {
	return src.missed.Load()
}

// Stop ends the ticker. Safe to call more than once.
func (src *TimerActionSource) Stop() {
	src.once.Do(func() { close(src.done) })
}

// Pump dispatches actions from src one at a time until the source closes or
// ctx is done. Dispatch errors are logged and do not stop the pump.
// It returns ctx.Err() on cancellation and nil when the source closes.
func Pump(ctx context.Context, d Dispatcher, src ActionSource, logger *zap.Logger) error {
	if d == nil || src == nil {
		return errors.New("pump needs a dispatcher and a source")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case action, ok := <-src.Actions():
			if !ok {
				return nil
			}
			if _, err := d.Dispatch(ctx, action); err != nil {
				logger.Warn("pumped dispatch failed", zap.String("action", action.Type), zap.Error(err))
			}
		}
	}
}
