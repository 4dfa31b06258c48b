package slicestore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	. "github.com/comalice/slicestore"
)

func counterReducer() Reducer {
	return Handle(map[string]func(int, any) (int, error){
		"INC": func(n int, _ any) (int, error) { return n + 1, nil },
		"DEC": func(n int, _ any) (int, error) { return n - 1, nil },
	})
}

func TestBuilderOrderAndValues(t *testing.T) {
	store, err := NewStoreBuilder("built").
		Slice("numeros").Static(map[string]int{"min": 1, "max": 10}).
		Slice("nomes").Static([]string{"Ana", "Bia", "Carlos"}).
		Slice("count").Initial(0).Reducer(counterReducer()).
		Store().Build()
	require.NoError(t, err)

	assert.Equal(t, "built", store.ID())
	snap := store.Snapshot()
	assert.Equal(t, []string{"numeros", "nomes", "count"}, snap.Names())

	snap, err = store.Dispatch(context.Background(), NewAction("INC", nil))
	require.NoError(t, err)
	n, _ := Get[int](snap, "count")
	assert.Equal(t, 1, n)
	assert.Equal(t, uint64(1), snap.Version())
}

func TestBuilderSliceReuse(t *testing.T) {
	b := NewStoreBuilder("reuse")
	b.Slice("a").Initial(1)
	b.Slice("a").Reducer(Static(2))
	cfg, err := b.Config()
	require.NoError(t, err)
	require.Len(t, cfg.Slices, 1)
	assert.Equal(t, 1, cfg.Slices[0].Initial)
}

func TestBuilderMissingReducer(t *testing.T) {
	_, err := NewStoreBuilder("bad").Slice("a").Initial(1).Store().Build()
	assert.ErrorIs(t, err, ErrNilReducer)
}

func TestBuilderEmpty(t *testing.T) {
	_, err := NewStoreBuilder("empty").Build()
	assert.ErrorIs(t, err, ErrNoSlices)
}

func TestBuilderSeed(t *testing.T) {
	store, err := NewStoreBuilder("seeded").
		Slice("count").Initial(0).Reducer(counterReducer()).
		Store().
		Seed(map[string]any{"count": 41}).
		Build()
	require.NoError(t, err)
	n, _ := Get[int](store.Snapshot(), "count")
	assert.Equal(t, 41, n)

	_, err = NewStoreBuilder("seeded").
		Slice("count").Initial(0).Reducer(counterReducer()).
		Store().
		Seed(map[string]any{"missing": 1}).
		Build()
	assert.ErrorIs(t, err, ErrUnknownSlice)
}

func TestBuilderOnly(t *testing.T) {
	// Both slices react to INC, but "guarded" only sees DEC.
	store, err := NewStoreBuilder("guards").
		Slice("open").Initial(0).Reducer(counterReducer()).
		Slice("guarded").Initial(0).Reducer(counterReducer()).Only("DEC").
		Store().Build()
	require.NoError(t, err)

	snap, err := store.Dispatch(context.Background(), NewAction("INC", nil))
	require.NoError(t, err)
	open, _ := Get[int](snap, "open")
	guarded, _ := Get[int](snap, "guarded")
	assert.Equal(t, 1, open)
	assert.Equal(t, 0, guarded)

	snap, err = store.Dispatch(context.Background(), NewAction("DEC", nil))
	require.NoError(t, err)
	guarded, _ = Get[int](snap, "guarded")
	assert.Equal(t, -1, guarded)
}

func TestBuilderOnlyStillInitializes(t *testing.T) {
	store, err := NewStoreBuilder("init").
		Slice("n").Reducer(Typed(func(_ context.Context, n int, a Action) (int, error) {
			if a.Type == InitActionType {
				return 100, nil
			}
			return n, nil
		})).Only("NEVER").
		Store().Build()
	require.NoError(t, err)
	n, _ := Get[int](store.Snapshot(), "n")
	assert.Equal(t, 100, n)
}

func TestBuilderSettableWithoutReducer(t *testing.T) {
	store, err := NewStoreBuilder("settable").
		Slice("text").Initial("a").Settable().
		Store().Build()
	require.NoError(t, err)

	snap, err := Setter(store, "text")(context.Background(), "b")
	require.NoError(t, err)
	text, _ := Get[string](snap, "text")
	assert.Equal(t, "b", text)
}

func TestBuilderLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	store, err := NewStoreBuilder("logged").
		Slice("count").Initial(0).Reducer(counterReducer()).Logged(zap.New(core)).
		Store().Build()
	require.NoError(t, err)

	_, err = store.Dispatch(context.Background(), NewAction("INC", nil))
	require.NoError(t, err)
	assert.NotZero(t, logs.FilterField(zap.String("slice", "count")).Len())
}

func TestBuilderWhen(t *testing.T) {
	add := Handle(map[string]func(int, any) (int, error){
		"ADD": func(n int, p any) (int, error) { return n + p.(int), nil },
	})
	store, err := NewStoreBuilder("when").
		Slice("total").Initial(0).Reducer(add).When("payload > 0").
		Store().Build()
	require.NoError(t, err)

	ctx := context.Background()
	for _, p := range []int{5, -3, 2} {
		_, err := store.Dispatch(ctx, NewAction("ADD", p))
		require.NoError(t, err)
	}
	total, _ := Get[int](store.Snapshot(), "total")
	assert.Equal(t, 7, total, "negative payloads are filtered out")
}

func TestBuilderWhenInvalid(t *testing.T) {
	_, err := NewStoreBuilder("when").
		Slice("total").Initial(0).Reducer(Static(0)).When("payload ~ 1").
		Store().Build()
	assert.ErrorContains(t, err, `slice "total"`)
}
