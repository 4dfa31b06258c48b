package extensibility

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/comalice/slicestore/internal/primitives"
)

// LoggingReducer wraps a slice reducer and logs around its execution.
// Logging lives here, outside the reducer, so the reducer itself stays pure.
func LoggingReducer(slice string, inner primitives.Reducer, logger *zap.Logger) primitives.Reducer {
	if logger == nil {
		logger = zap.NewNop()
	}
	log := logger.With(zap.String("slice", slice))
	return func(ctx context.Context, state any, action primitives.Action) (any, error) {
		log.Debug("reducing", zap.String("action", action.Type), zap.Any("state", state))
		start := time.Now()
		next, err := inner(ctx, state, action)
		if err != nil {
			log.Debug("reducer failed", zap.String("action", action.Type), zap.Duration("elapsed", time.Since(start)), zap.Error(err))
			return next, err
		}
		log.Debug("reduced", zap.String("action", action.Type), zap.Duration("elapsed", time.Since(start)), zap.Any("next", next))
		return next, nil
	}
}
