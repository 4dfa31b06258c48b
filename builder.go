package slicestore

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/comalice/slicestore/internal/extensibility"
)

var ErrUnknownSlice = errors.New("seed names an unknown slice")

// StoreBuilder provides a fluent API for assembling a store's slices.
type StoreBuilder struct {
	id     string
	order  []string
	slices map[string]*SliceBuilder
	seed   map[string]any
}

// SliceBuilder provides fluent methods for configuring a single slice.
type SliceBuilder struct {
	b        *StoreBuilder
	name     string
	initial  any
	reducer  Reducer
	settable bool
	only     []string
	guards   []extensibility.Guard
	err      error
	logger   *zap.Logger
}

// NewStoreBuilder creates a new builder for a store with the given ID.
func NewStoreBuilder(id string) *StoreBuilder {
	return &StoreBuilder{
		id:     id,
		slices: make(map[string]*SliceBuilder),
	}
}

// Slice creates or retrieves a slice by name. Slices keep the order in which
// they were first named.
func (b *StoreBuilder) Slice(name string) *SliceBuilder {
	if sb, ok := b.slices[name]; ok {
		return sb
	}
	sb := &SliceBuilder{b: b, name: name}
	b.slices[name] = sb
	b.order = append(b.order, name)
	return sb
}

// Seed overrides initial values, typically loaded from a seed file.
// Every key must name a slice by the time Config is called.
func (b *StoreBuilder) Seed(values map[string]any) *StoreBuilder {
	if b.seed == nil {
		b.seed = make(map[string]any, len(values))
	}
	for k, v := range values {
		b.seed[k] = v
	}
	return b
}

// Config assembles and validates the StoreConfig.
func (b *StoreBuilder) Config() (StoreConfig, error) {
	cfg := StoreConfig{ID: b.id}
	for _, name := range b.order {
		sb := b.slices[name]
		if sb.err != nil {
			return StoreConfig{}, fmt.Errorf("slice %q: %w", name, sb.err)
		}
		initial := sb.initial
		if v, ok := b.seed[name]; ok {
			initial = v
		}
		cfg.Slices = append(cfg.Slices, SliceConfig{
			Name:    name,
			Initial: initial,
			Reducer: sb.build(),
		})
	}
	for name := range b.seed {
		if _, ok := b.slices[name]; !ok {
			return StoreConfig{}, fmt.Errorf("slice %q: %w", name, ErrUnknownSlice)
		}
	}
	if err := cfg.Validate(); err != nil {
		return StoreConfig{}, err
	}
	return cfg, nil
}

// Build creates the Store.
func (b *StoreBuilder) Build(opts ...Option) (*Store, error) {
	cfg, err := b.Config()
	if err != nil {
		return nil, err
	}
	return New(cfg, opts...)
}

// Initial sets the slice's starting value.
func (sb *SliceBuilder) Initial(v any) *SliceBuilder {
	sb.initial = v
	return sb
}

// Reducer sets the slice reducer.
func (sb *SliceBuilder) Reducer(r Reducer) *SliceBuilder {
	sb.reducer = r
	return sb
}

// Static makes the slice a constant.
func (sb *SliceBuilder) Static(v any) *SliceBuilder {
	sb.initial = v
	sb.reducer = Static(v)
	return sb
}

// Settable lets Setter replace the slice. A settable slice needs no reducer.
func (sb *SliceBuilder) Settable() *SliceBuilder {
	sb.settable = true
	return sb
}

// Only restricts the reducer to the given action types.
func (sb *SliceBuilder) Only(types ...string) *SliceBuilder {
	sb.only = append(sb.only, types...)
	return sb
}

// When restricts the reducer to actions matching a guard expression such as
// "payload > 0". A malformed expression fails Config.
func (sb *SliceBuilder) When(expr string) *SliceBuilder {
	g, err := extensibility.ParseGuard(expr)
	if err != nil {
		if sb.err == nil {
			sb.err = err
		}
		return sb
	}
	sb.guards = append(sb.guards, g)
	return sb
}

// Logged logs every reduction of this slice at debug level.
func (sb *SliceBuilder) Logged(logger *zap.Logger) *SliceBuilder {
	sb.logger = logger
	return sb
}

// Slice continues with another slice of the same store.
func (sb *SliceBuilder) Slice(name string) *SliceBuilder {
	return sb.b.Slice(name)
}

// Store returns the owning builder.
func (sb *SliceBuilder) Store() *StoreBuilder {
	return sb.b
}

func (sb *SliceBuilder) build() Reducer {
	r := sb.reducer
	if r != nil && len(sb.only) > 0 {
		r = extensibility.Guarded(r, extensibility.MatchTypes(sb.only...))
	}
	if r != nil && len(sb.guards) > 0 {
		r = extensibility.Guarded(r, sb.guards...)
	}
	if sb.settable {
		r = Assignable(sb.name, r)
	}
	if r != nil && sb.logger != nil {
		r = extensibility.LoggingReducer(sb.name, r, sb.logger)
	}
	return r
}
