package slicestore

import (
	"context"

	"github.com/comalice/slicestore/internal/primitives"
)

// Provider is the capability handed to view code: read the current snapshot
// and dispatch actions. *Store satisfies it.
type Provider interface {
	Snapshot() Snapshot
	Dispatch(ctx context.Context, action Action) (Snapshot, error)
}

var _ Provider = (*Store)(nil)

type providerKey struct{}

// WithProvider returns a context carrying p for code further down the call chain.
func WithProvider(ctx context.Context, p Provider) context.Context {
	return context.WithValue(ctx, providerKey{}, p)
}

// ProviderFrom returns the Provider stored by WithProvider.
func ProviderFrom(ctx context.Context) (Provider, bool) {
	p, ok := ctx.Value(providerKey{}).(Provider)
	return p, ok && p != nil
}

// MustProvider is ProviderFrom that panics when no Provider is present.
func MustProvider(ctx context.Context) Provider {
	p, ok := ProviderFrom(ctx)
	if !ok {
		panic("slicestore: no Provider in context")
	}
	return p
}

// Setter returns a function replacing the value of one slice through p.
// The slice's reducer must be wrapped with Assignable.
func Setter(p Provider, slice string) func(ctx context.Context, value any) (Snapshot, error) {
	return func(ctx context.Context, value any) (Snapshot, error) {
		return p.Dispatch(ctx, primitives.NewSetAction(slice, value))
	}
}
