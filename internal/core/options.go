// Package core provides the runtime core tier of the store engine.
// Options for configuring Store instances.
package core

import (
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// WithID sets the store identity used in logs, metrics and published changes.
func WithID(id string) Option {
	return func(s *Store) {
		s.id = id
	}
}

// WithClock configures the clock used for snapshot timestamps and dispatch timing.
func WithClock(c clockwork.Clock) Option {
	return func(s *Store) {
		s.clock = c
	}
}

// WithLogger configures the Store with a structured logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// WithErrorHook receives observer and publisher failures, and failures of
// queued actions. The default hook logs them at error level.
func WithErrorHook(hook func(error)) Option {
	return func(s *Store) {
		s.errorHook = hook
	}
}

// WithEquality replaces the value equality used to detect unchanged slices.
func WithEquality(eq func(a, b any) bool) Option {
	return func(s *Store) {
		s.equal = eq
	}
}

// WithAlwaysNotify notifies observers even when no slice changed.
// The snapshot passed to them is then the unchanged current one.
func WithAlwaysNotify() Option {
	return func(s *Store) {
		s.alwaysNotify = true
	}
}

// WithPublisher configures the Store with a change Publisher, called after observers.
func WithPublisher(p Publisher) Option {
	return func(s *Store) {
		s.publisher = p
	}
}

// WithInstrumentation configures the Store with dispatch instrumentation.
func WithInstrumentation(i Instrumentation) Option {
	return func(s *Store) {
		s.instr = i
	}
}
