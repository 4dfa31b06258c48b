package core

import (
	"bytes"
	"context"
	"runtime"
	"strconv"
)

type phase int

const (
	phaseIdle phase = iota
	phaseReducing
	phaseNotifying
)

func (p phase) String() string {
	switch p {
	case phaseReducing:
		return "reducing"
	case phaseNotifying:
		return "notifying"
	default:
		return "idle"
	}
}

type frameKey struct{}

// frame marks a context as handed out by one round of one store. Frames
// chain so a dispatch into store B from an observer of store A still
// recognises A further up.
type frame struct {
	store  *Store
	round  uint64
	parent *frame
}

func withFrame(ctx context.Context, s *Store, round uint64) context.Context {
	parent, _ := ctx.Value(frameKey{}).(*frame)
	return context.WithValue(ctx, frameKey{}, &frame{store: s, round: round, parent: parent})
}

// roundOf returns the innermost round of s recorded on ctx.
func roundOf(ctx context.Context, s *Store) (uint64, bool) {
	f, _ := ctx.Value(frameKey{}).(*frame)
	for ; f != nil; f = f.parent {
		if f.store == s {
			return f.round, true
		}
	}
	return 0, false
}

// goroutineID parses the current goroutine's id from the runtime.Stack
// header ("goroutine 18 [running]:"). It is used only to recognise a round's
// own goroutine, never for scheduling.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := bytes.TrimPrefix(buf[:n], []byte("goroutine "))
	if i := bytes.IndexByte(b, ' '); i > 0 {
		b = b[:i]
	}
	id, _ := strconv.ParseUint(string(b), 10, 64)
	return id
}
