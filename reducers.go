package slicestore

import (
	"context"
	"errors"
	"fmt"

	"github.com/comalice/slicestore/internal/primitives"
)

var ErrSliceType = errors.New("unexpected slice value type")

// Static always yields v, ignoring state and action.
func Static(v any) Reducer {
	return func(context.Context, any, Action) (any, error) {
		return v, nil
	}
}

// Typed adapts a reducer over a concrete slice type. A nil state is passed
// as the zero S; any other type fails with ErrSliceType.
func Typed[S any](fn func(ctx context.Context, state S, action Action) (S, error)) Reducer {
	return func(ctx context.Context, state any, action Action) (any, error) {
		cur, err := sliceAs[S](state)
		if err != nil {
			return nil, err
		}
		return fn(ctx, cur, action)
	}
}

// Handle builds a reducer from per-action-type cases. Action types without a
// case leave the slice untouched.
func Handle[S any](cases map[string]func(state S, payload any) (S, error)) Reducer {
	return func(_ context.Context, state any, action Action) (any, error) {
		h, ok := cases[action.Type]
		if !ok {
			return state, nil
		}
		cur, err := sliceAs[S](state)
		if err != nil {
			return nil, err
		}
		return h(cur, action.Payload)
	}
}

// Assignable lets Setter replace the slice wholesale. Set actions aimed at
// other slices are identity transitions; everything else goes to inner.
// A nil inner is treated as the identity reducer.
func Assignable(slice string, inner Reducer) Reducer {
	return func(ctx context.Context, state any, action Action) (any, error) {
		if action.Type == primitives.SetActionType {
			p, ok := action.Payload.(primitives.SetPayload)
			if !ok {
				return nil, fmt.Errorf("%s payload is %T, want SetPayload", primitives.SetActionType, action.Payload)
			}
			if p.Slice == slice {
				return p.Value, nil
			}
			return state, nil
		}
		if inner == nil {
			return state, nil
		}
		return inner(ctx, state, action)
	}
}

func sliceAs[S any](state any) (S, error) {
	var zero S
	if state == nil {
		return zero, nil
	}
	cur, ok := state.(S)
	if !ok {
		return zero, fmt.Errorf("%w: have %T, want %T", ErrSliceType, state, zero)
	}
	return cur, nil
}
