// Package production provides production integrations: change publishing,
// snapshot export and seed loading.
package production

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/comalice/slicestore/internal/primitives"
)

// Exporter renders snapshots for inspection.
type Exporter struct{}

// ExportJSON serializes the snapshot together with its fingerprint.
func (e *Exporter) ExportJSON(snap primitives.Snapshot) ([]byte, error) {
	return json.MarshalIndent(exportDoc{
		Fingerprint: primitives.Fingerprint(snap),
		Snapshot:    snap,
	}, "", "  ")
}

// ExportYAML serializes the snapshot together with its fingerprint.
func (e *Exporter) ExportYAML(snap primitives.Snapshot) ([]byte, error) {
	return yaml.Marshal(exportDoc{
		Fingerprint: primitives.Fingerprint(snap),
		Snapshot:    snap,
	})
}

type exportDoc struct {
	Fingerprint string              `json:"fingerprint" yaml:"fingerprint"`
	Snapshot    primitives.Snapshot `json:"snapshot" yaml:"snapshot"`
}

// ExportDOT generates Graphviz DOT source with one store node and one node per slice.
func (e *Exporter) ExportDOT(storeID string, snap primitives.Snapshot) string {
	var buf bytes.Buffer
	buf.WriteString(`digraph Store {
  rankdir=LR;
  node [shape=box, fontsize=10, style=rounded];
`)
	fmt.Fprintf(&buf, "  %q [label=%q shape=ellipse style=filled fillcolor=lightblue];\n",
		storeID, fmt.Sprintf("%s v%d", storeID, snap.Version()))

	for _, name := range snap.Names() {
		v, _ := snap.Get(name)
		node := storeID + "." + name
		fmt.Fprintf(&buf, "  %q [label=%q];\n", node, fmt.Sprintf("%s\n%s", name, summarize(v)))
		fmt.Fprintf(&buf, "  %q -> %q;\n", storeID, node)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// summarize renders a slice value compactly for a node label.
func summarize(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%T", v)
	}
	const max = 60
	if len(data) > max {
		return string(data[:max-3]) + "..."
	}
	return string(data)
}
