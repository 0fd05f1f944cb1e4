// Package report renders an allocation's verified dependency graph and
// round-by-round progress for human consumption: Graphviz text, SVG
// (via github.com/ajstarks/svgo), and a plain-text progress line
// summarizing an allocator snapshot.
package report

import (
	"fmt"
	"strings"

	"github.com/mdsherry/randomizer/pkg/verifier"
)

// Dot renders a dependency graph as a Graphviz digraph: one box node
// per item placement, one octagon node per satisfied flag, and an
// edge from each node to the witness items that justified it.
func Dot(g *verifier.DependencyGraph) string {
	var b strings.Builder
	b.WriteString("digraph G {\n")
	for _, n := range g.Nodes {
		shape := "box"
		if n.Kind == verifier.NodeFlag {
			shape = "octagon"
		}
		fmt.Fprintf(&b, "  %q [label=%q, shape=%q];\n", n.ID, n.Label, shape)
	}
	for _, e := range g.Edges {
		fmt.Fprintf(&b, "  %q -> %q;\n", e.From, e.To)
	}
	b.WriteString("}\n")
	return b.String()
}
