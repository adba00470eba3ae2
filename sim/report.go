package sim

import (
	"fmt"
	"strings"
)

// Report generates a Graphviz DOT representation of a Simulation's
// topology: one boxed node per model and one labeled edge per connector.
// It reads only GetModels/GetConnectors and never mutates the
// simulation.
type Report struct {
	sim *Simulation
}

// NewReport wraps sim for DOT-graph generation.
func NewReport(sim *Simulation) *Report {
	return &Report{sim: sim}
}

// GenerateDotGraph renders the simulation's models and connectors as a
// Graphviz "digraph DAG" block, each connector rendered as a directed
// edge labeled with its own id.
func (r *Report) GenerateDotGraph() string {
	var b strings.Builder
	b.WriteString("digraph DAG {\n")

	for _, model := range r.sim.GetModels() {
		fmt.Fprintf(&b, "  \"%s\" [shape=box];\n", model.ID)
	}

	for _, conn := range r.sim.GetConnectors() {
		fmt.Fprintf(&b, "  \"%s\" -> \"%s\" [label=\"%s\"];\n", conn.SourceID, conn.TargetID, conn.ID)
	}

	b.WriteString("}\n")
	return b.String()
}
