package production

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/comalice/slicestore/internal/core"
)

// ChannelPublisher hands accepted changes to a channel consumer. A store
// publishes while holding its dispatch lock, so Publish never waits: a
// change that finds the channel full is dropped and counted.
type ChannelPublisher struct {
	ch      chan<- core.Change
	dropped atomic.Uint64
	closed  atomic.Bool
	once    sync.Once
}

var _ core.Publisher = (*ChannelPublisher)(nil)

// NewChannelPublisher publishes into ch. Close closes ch.
func NewChannelPublisher(ch chan<- core.Change) *ChannelPublisher {
	return &ChannelPublisher{ch: ch}
}

// Publish forwards change, dropping it when the consumer is behind.
func (p *ChannelPublisher) Publish(ctx context.Context, change core.Change) error {
	if p.closed.Load() {
		return core.ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case p.ch <- change:
	default:
		p.dropped.Add(1)
	}
	return nil
}

// Dropped reports how many changes were discarded on backpressure.
func (p *ChannelPublisher) Dropped() uint64 {
	return p.dropped.Load()
}

// Close closes the output channel. Later calls are no-ops.
func (p *ChannelPublisher) Close() error {
	p.once.Do(func() {
		p.closed.Store(true)
		close(p.ch)
	})
	return nil
}
