package extensibility

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/comalice/slicestore/internal/primitives"
)

func TestLoggingReducer(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	inner := func(_ context.Context, state any, a primitives.Action) (any, error) {
		if a.Type == "INC" {
			return state.(int) + 1, nil
		}
		return state, nil
	}

	r := LoggingReducer("count", inner, zap.New(core))
	next, err := r(context.Background(), 1, primitives.NewAction("INC", nil))
	require.NoError(t, err)
	assert.Equal(t, 2, next)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "reducing", entries[0].Message)
	assert.Equal(t, "reduced", entries[1].Message)
	assert.Equal(t, "count", entries[1].ContextMap()["slice"])
	assert.Equal(t, "INC", entries[1].ContextMap()["action"])
}

func TestLoggingReducer_Error(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	boom := errors.New("boom")
	r := LoggingReducer("count", func(context.Context, any, primitives.Action) (any, error) {
		return nil, boom
	}, zap.New(core))

	_, err := r(context.Background(), 1, primitives.NewAction("INC", nil))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, logs.FilterMessage("reducer failed").Len())
}

func TestLoggingReducer_NilLogger(t *testing.T) {
	r := LoggingReducer("count", func(_ context.Context, s any, _ primitives.Action) (any, error) {
		return s, nil
	}, nil)
	next, err := r(context.Background(), 7, primitives.NewAction("X", nil))
	require.NoError(t, err)
	assert.Equal(t, 7, next)
}
