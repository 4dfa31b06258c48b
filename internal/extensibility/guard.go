package extensibility

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/comalice/slicestore/internal/primitives"
)

// Guard decides whether a reducer sees an action.
type Guard func(action primitives.Action) bool

// Guarded runs inner only for actions every guard accepts. Other actions
// leave the slice unchanged.
func Guarded(inner primitives.Reducer, guards ...Guard) primitives.Reducer {
	return func(ctx context.Context, state any, action primitives.Action) (any, error) {
		for _, g := range guards {
			if g != nil && !g(action) {
				return state, nil
			}
		}
		return inner(ctx, state, action)
	}
}

// MatchTypes accepts actions whose type is one of types.
// The reserved init action is always accepted so slices can still initialize.
func MatchTypes(types ...string) Guard {
	set := make(map[string]struct{}, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}
	return func(action primitives.Action) bool {
		if action.Type == primitives.InitActionType {
			return true
		}
		_, ok := set[action.Type]
		return ok
	}
}

// ParseGuard compiles simple expressions like "payload > 30" or "type == SET_MAX".
// Supported keys: type, payload. Supported operators: ==, !=, >, <.
// Numeric comparisons accept int, int64 and float64 payloads.
func ParseGuard(expr string) (Guard, error) {
	parts := strings.Fields(expr)
	if len(parts) != 3 {
		return nil, fmt.Errorf("guard %q: want \"key op value\"", expr)
	}
	key, op, raw := parts[0], parts[1], parts[2]
	if key != "type" && key != "payload" {
		return nil, fmt.Errorf("guard %q: unknown key %q", expr, key)
	}

	switch op {
	case "==", "!=":
		eq := func(a primitives.Action) bool {
			if key == "type" {
				return a.Type == raw
			}
			return payloadEquals(a.Payload, raw)
		}
		if op == "!=" {
			return func(a primitives.Action) bool { return !eq(a) }, nil
		}
		return eq, nil
	case ">", "<":
		if key != "payload" {
			return nil, fmt.Errorf("guard %q: %s needs a numeric payload", expr, op)
		}
		want, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("guard %q: %w", expr, err)
		}
		return func(a primitives.Action) bool {
			got, ok := toFloat(a.Payload)
			if !ok {
				return false
			}
			if op == ">" {
				return got > want
			}
			return got < want
		}, nil
	default:
		return nil, fmt.Errorf("guard %q: unknown operator %q", expr, op)
	}
}

func payloadEquals(v any, raw string) bool {
	switch raw {
	case "nil":
		return v == nil
	case "true":
		return v == true
	case "false":
		return v == false
	}
	if want, err := strconv.ParseFloat(raw, 64); err == nil {
		if got, ok := toFloat(v); ok {
			return got == want
		}
	}
	s, ok := v.(string)
	return ok && s == raw
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
