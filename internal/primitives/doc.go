// Package primitives provides the foundational data structures for the store engine.
//
// Core invariants:
// - Actions are values and are never mutated after construction
// - Snapshots are immutable once published; accessors hand out copies
// - The slice set of a StoreConfig is fixed once validated
//
// Nothing in this package blocks or starts goroutines.
package primitives
