// Package benchmarks provides shared helpers for benchmark tests.
package benchmarks

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/comalice/slicestore/internal/core"
	"github.com/comalice/slicestore/internal/primitives"
)

func counter(ctx context.Context, state any, action primitives.Action) (any, error) {
	n, _ := state.(int)
	if action.Type == "tick" {
		return n + 1, nil
	}
	return n, nil
}

func constant(ctx context.Context, state any, action primitives.Action) (any, error) {
	return state, nil
}

// GenWideConfig creates a store with n slices. Only the first slice changes on "tick".
func GenWideConfig(n int) primitives.StoreConfig {
	if n < 1 {
		n = 1
	}
	config := primitives.StoreConfig{ID: fmt.Sprintf("wide_%d", n)}
	for i := 0; i < n; i++ {
		r := constant
		if i == 0 {
			r = counter
		}
		config.Slices = append(config.Slices, primitives.SliceConfig{
			Name:    fmt.Sprintf("s%d", i),
			Initial: i,
			Reducer: r,
		})
	}
	return config
}

// GenSnapshotYAML generates YAML bytes for a snapshot with numSlices slices.
func GenSnapshotYAML(numSlices int) []byte {
	s, err := core.NewStore(GenWideConfig(numSlices))
	if err != nil {
		panic(err)
	}
	defer s.Close()
	snap, err := s.Dispatch(context.Background(), primitives.NewAction("tick", nil))
	if err != nil {
		panic(err)
	}
	data, err := yaml.Marshal(snap)
	if err != nil {
		panic(err)
	}
	return data
}
