// Package testutil holds helpers shared by the store's tests.
package testutil

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/comalice/slicestore/internal/primitives"
)

// ErrTimeout is returned by WaitFor when the expected snapshots never arrive.
var ErrTimeout = errors.New("testutil: timed out waiting for snapshots")

// Recorder is an observer that keeps every snapshot it is handed.
// Pass rec.Observe to Subscribe.
type Recorder struct {
	mu    sync.Mutex
	snaps []primitives.Snapshot
	err   error
	wake  chan struct{}
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{wake: make(chan struct{}, 1)}
}

// FailWith makes subsequent Observe calls return err after recording.
func (r *Recorder) FailWith(err error) {
	r.mu.Lock()
	r.err = err
	r.mu.Unlock()
}

// Observe records snap.
func (r *Recorder) Observe(ctx context.Context, snap primitives.Snapshot) error {
	r.mu.Lock()
	r.snaps = append(r.snaps, snap)
	err := r.err
	r.mu.Unlock()
	select {
	case r.wake <- struct{}{}:
	default:
	}
	return err
}

// Len returns the number of recorded snapshots.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snaps)
}

// Snapshots returns a copy of everything recorded so far.
func (r *Recorder) Snapshots() []primitives.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]primitives.Snapshot, len(r.snaps))
	copy(out, r.snaps)
	return out
}

// Versions returns the version of each recorded snapshot in order.
func (r *Recorder) Versions() []uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]uint64, len(r.snaps))
	for i, s := range r.snaps {
		out[i] = s.Version()
	}
	return out
}

// Last returns the most recent snapshot.
func (r *Recorder) Last() (primitives.Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.snaps) == 0 {
		return primitives.Snapshot{}, false
	}
	return r.snaps[len(r.snaps)-1], true
}

// WaitFor blocks until at least n snapshots are recorded or timeout elapses.
// Used when dispatches happen on another goroutine, such as a pump.
func (r *Recorder) WaitFor(n int, timeout time.Duration) error {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	for {
		if r.Len() >= n {
			return nil
		}
		select {
		case <-r.wake:
		case <-deadline.C:
			if r.Len() >= n {
				return nil
			}
			return ErrTimeout
		}
	}
}
