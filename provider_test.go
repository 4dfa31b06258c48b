package slicestore_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/comalice/slicestore"
)

// contextStore mirrors the context example: a number and a text, each with a setter.
func contextStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStoreBuilder("app").
		Slice("number").Initial(1).Settable().
		Slice("text").Initial("Context API + Hooks").Settable().
		Store().Build()
	require.NoError(t, err)
	return store
}

// counterView is a view-layer consumer: it only sees the Provider from ctx.
func counterView(ctx context.Context, delta int) (int, error) {
	p := MustProvider(ctx)
	number, _ := Get[int](p.Snapshot(), "number")
	snap, err := Setter(p, "number")(ctx, number+delta)
	if err != nil {
		return 0, err
	}
	n, _ := Get[int](snap, "number")
	return n, nil
}

func TestProviderInjection(t *testing.T) {
	store := contextStore(t)
	ctx := WithProvider(context.Background(), store)

	p, ok := ProviderFrom(ctx)
	require.True(t, ok)
	assert.Same(t, store, p.(*Store))

	n, err := counterView(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = counterView(ctx, -1)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	text, _ := Get[string](store.Snapshot(), "text")
	assert.Equal(t, "Context API + Hooks", text, "setting number leaves text alone")
}

func TestSetterText(t *testing.T) {
	store := contextStore(t)
	snap, err := Setter(store, "text")(context.Background(), "updated")
	require.NoError(t, err)
	text, _ := Get[string](snap, "text")
	assert.Equal(t, "updated", text)
	n, _ := Get[int](snap, "number")
	assert.Equal(t, 1, n)
}

func TestProviderMissing(t *testing.T) {
	_, ok := ProviderFrom(context.Background())
	assert.False(t, ok)
	assert.Panics(t, func() { MustProvider(context.Background()) })

	var nilProvider Provider
	_, ok = ProviderFrom(WithProvider(context.Background(), nilProvider))
	assert.False(t, ok)
}

func TestSetterFromObserverWithOuterContext(t *testing.T) {
	store := contextStore(t)
	ctx := WithProvider(context.Background(), store)
	setText := Setter(MustProvider(ctx), "text")

	store.Subscribe(func(_ context.Context, snap Snapshot) error {
		n, _ := Get[int](snap, "number")
		if n == 2 {
			_, err := setText(ctx, "two")
			return err
		}
		return nil
	})

	done := make(chan error, 1)
	go func() {
		_, err := Setter(store, "number")(ctx, 2)
		done <- err
	}()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("setter inside an observer did not return")
	}

	text, _ := Get[string](store.Snapshot(), "text")
	assert.Equal(t, "two", text)
}
