// StoreConfig represents the top-level configuration of a store: its ID and the
// ordered list of slices with their reducers and optional initial values.
// Validation ensures at least one slice, non-empty unique names and non-nil reducers.

package primitives

import (
	"context"
	"errors"
	"fmt"
)

// Reducer computes a new slice value from the old one and an action.
// Reducers must be pure: no I/O, no blocking, no reads outside their slice.
// A reducer not interested in an action returns state unchanged.
type Reducer func(ctx context.Context, state any, action Action) (any, error)

var (
	ErrNoSlices       = errors.New("store config has no slices")
	ErrEmptySliceName = errors.New("slice name is required")
	ErrDuplicateSlice = errors.New("duplicate slice name")
	ErrNilReducer     = errors.New("slice reducer is nil")
)

// SliceConfig binds a named slice to its reducer.
// A nil Initial is resolved by calling Reducer with InitAction.
type SliceConfig struct {
	Name    string  `json:"name" yaml:"name"`
	Initial any     `json:"initial,omitempty" yaml:"initial,omitempty"`
	Reducer Reducer `json:"-" yaml:"-"`
}

// StoreConfig defines the complete store configuration.
type StoreConfig struct {
	ID     string        `json:"id,omitempty" yaml:"id,omitempty"`
	Slices []SliceConfig `json:"slices" yaml:"slices"`
}

// Validate checks the slice list:
// - at least one slice
// - every slice has a non-empty, unique name
// - every slice has a reducer
func (c *StoreConfig) Validate() error {
	if len(c.Slices) == 0 {
		return ErrNoSlices
	}
	seen := make(map[string]struct{}, len(c.Slices))
	for i, s := range c.Slices {
		if s.Name == "" {
			return fmt.Errorf("slice %d: %w", i, ErrEmptySliceName)
		}
		if _, dup := seen[s.Name]; dup {
			return fmt.Errorf("slice %q: %w", s.Name, ErrDuplicateSlice)
		}
		seen[s.Name] = struct{}{}
		if s.Reducer == nil {
			return fmt.Errorf("slice %q: %w", s.Name, ErrNilReducer)
		}
	}
	return nil
}

// Names returns slice names in registration order.
func (c *StoreConfig) Names() []string {
	names := make([]string, len(c.Slices))
	for i, s := range c.Slices {
		names[i] = s.Name
	}
	return names
}

// Slice looks up a slice by name.
func (c *StoreConfig) Slice(name string) (SliceConfig, bool) {
	for _, s := range c.Slices {
		if s.Name == name {
			return s, true
		}
	}
	return SliceConfig{}, false
}
