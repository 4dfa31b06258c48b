package primitives

import (
	"encoding/json"
	"reflect"
	"time"
)

// Snapshot is the complete, immutable state value at a point in time.
// The zero Snapshot is empty and has version 0.
type Snapshot struct {
	names     []string
	slices    map[string]any
	version   uint64
	timestamp time.Time
}

// NewSnapshot creates a Snapshot from slice values in the given name order.
// Names missing from values are stored as nil. Both arguments are copied.
func NewSnapshot(names []string, values map[string]any, version uint64, ts time.Time) Snapshot {
	s := Snapshot{
		names:     append([]string(nil), names...),
		slices:    make(map[string]any, len(names)),
		version:   version,
		timestamp: ts,
	}
	for _, name := range names {
		s.slices[name] = values[name]
	}
	return s
}

// Get returns the value of a slice. The value is shared with the snapshot and
// must not be mutated.
func (s Snapshot) Get(name string) (any, bool) {
	v, ok := s.slices[name]
	return v, ok
}

// Names returns slice names in registration order.
func (s Snapshot) Names() []string {
	return append([]string(nil), s.names...)
}

// Len returns the number of slices.
func (s Snapshot) Len() int {
	return len(s.names)
}

// Version is 0 for the initial snapshot and grows by one per accepted transition.
func (s Snapshot) Version() uint64 {
	return s.version
}

// Timestamp is the store clock reading when the snapshot was published.
func (s Snapshot) Timestamp() time.Time {
	return s.timestamp
}

// Map returns a shallow copy of all slices, safe for the caller to modify.
func (s Snapshot) Map() map[string]any {
	out := make(map[string]any, len(s.slices))
	for k, v := range s.slices {
		out[k] = v
	}
	return out
}

// Equal reports whether both snapshots hold the same slice names and
// deep-equal slice values. Version and timestamp are ignored.
func (s Snapshot) Equal(other Snapshot) bool {
	if len(s.names) != len(other.names) {
		return false
	}
	for i, name := range s.names {
		if other.names[i] != name {
			return false
		}
		if !reflect.DeepEqual(s.slices[name], other.slices[name]) {
			return false
		}
	}
	return true
}

// snapshotDoc is the serialized shape of a Snapshot.
type snapshotDoc struct {
	Version   uint64         `json:"version" yaml:"version"`
	Timestamp time.Time      `json:"timestamp" yaml:"timestamp"`
	Slices    map[string]any `json:"slices" yaml:"slices"`
}

func (s Snapshot) doc() snapshotDoc {
	return snapshotDoc{
		Version:   s.version,
		Timestamp: s.timestamp,
		Slices:    s.Map(),
	}
}

// MarshalJSON implements json.Marshaler.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.doc())
}

// MarshalYAML implements yaml.Marshaler.
func (s Snapshot) MarshalYAML() (any, error) {
	return s.doc(), nil
}
