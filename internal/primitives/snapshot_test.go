package primitives

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestSnapshotAccessors(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	values := map[string]any{"numeros": map[string]int{"min": 1, "max": 10}}
	snap := NewSnapshot([]string{"numeros", "nomes"}, values, 3, ts)

	if snap.Len() != 2 {
		t.Errorf("Len() = %d, want 2", snap.Len())
	}
	if snap.Version() != 3 {
		t.Errorf("Version() = %d, want 3", snap.Version())
	}
	if !snap.Timestamp().Equal(ts) {
		t.Errorf("Timestamp() = %v, want %v", snap.Timestamp(), ts)
	}
	if v, ok := snap.Get("nomes"); !ok || v != nil {
		t.Errorf("Get(nomes) = %v, %v; want nil, true", v, ok)
	}
	if _, ok := snap.Get("missing"); ok {
		t.Error("Get(missing) should report false")
	}

	// Inputs are copied.
	values["numeros"] = "replaced"
	if v, _ := snap.Get("numeros"); v == "replaced" {
		t.Error("NewSnapshot should copy the values map")
	}
}

func TestSnapshotDefensiveCopies(t *testing.T) {
	snap := NewSnapshot([]string{"a", "b"}, map[string]any{"a": 1, "b": 2}, 0, time.Time{})

	m := snap.Map()
	m["a"] = 100
	m["c"] = 3
	if v, _ := snap.Get("a"); v != 1 {
		t.Error("Map() should return a copy")
	}

	names := snap.Names()
	names[0] = "z"
	if snap.Names()[0] != "a" {
		t.Error("Names() should return a copy")
	}
}

func TestSnapshotEqual(t *testing.T) {
	a := NewSnapshot([]string{"n"}, map[string]any{"n": []string{"Ana", "Bia"}}, 1, time.Now())
	b := NewSnapshot([]string{"n"}, map[string]any{"n": []string{"Ana", "Bia"}}, 7, time.Time{})
	c := NewSnapshot([]string{"n"}, map[string]any{"n": []string{"Ana"}}, 1, time.Now())
	d := NewSnapshot([]string{"m"}, map[string]any{"m": []string{"Ana", "Bia"}}, 1, time.Now())

	if !a.Equal(b) {
		t.Error("snapshots with equal slices should be Equal regardless of version")
	}
	if a.Equal(c) {
		t.Error("different slice values should not be Equal")
	}
	if a.Equal(d) {
		t.Error("different slice names should not be Equal")
	}
	if !(Snapshot{}).Equal(Snapshot{}) {
		t.Error("zero snapshots should be Equal")
	}
}

func TestSnapshotMarshal(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	snap := NewSnapshot([]string{"numeros"}, map[string]any{"numeros": map[string]any{"max": 10}}, 2, ts)

	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	if !strings.Contains(string(data), `"version":2`) || !strings.Contains(string(data), `"max":10`) {
		t.Errorf("unexpected JSON: %s", data)
	}

	out, err := yaml.Marshal(snap)
	if err != nil {
		t.Fatalf("yaml.Marshal: %v", err)
	}
	if !strings.Contains(string(out), "version: 2") || !strings.Contains(string(out), "max: 10") {
		t.Errorf("unexpected YAML:\n%s", out)
	}
}

func TestFingerprint(t *testing.T) {
	a := NewSnapshot([]string{"n"}, map[string]any{"n": 1}, 1, time.Now())
	b := NewSnapshot([]string{"n"}, map[string]any{"n": 1}, 9, time.Now())
	c := NewSnapshot([]string{"n"}, map[string]any{"n": 2}, 1, time.Now())

	if Fingerprint(a) != Fingerprint(b) {
		t.Error("equal slices should share a fingerprint")
	}
	if Fingerprint(a) == Fingerprint(c) {
		t.Error("different slices should not share a fingerprint")
	}

	bad := NewSnapshot([]string{"ch"}, map[string]any{"ch": make(chan int)}, 4, time.Now())
	if got := Fingerprint(bad); got != "unhashable-4" {
		t.Errorf("Fingerprint(unencodable) = %q", got)
	}
}
