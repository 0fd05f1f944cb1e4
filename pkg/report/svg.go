package report

import (
	"bytes"
	"fmt"
	"math"
	"sort"

	svg "github.com/ajstarks/svgo"

	"github.com/mdsherry/randomizer/pkg/verifier"
	"github.com/mdsherry/randomizer/pkg/world"
)

// SVGOptions configures dependency graph SVG rendering.
type SVGOptions struct {
	Width      int // Canvas width in pixels
	Height     int // Canvas height in pixels
	NodeRadius int // Radius of item/flag nodes (default: 20)
	Margin     int // Canvas margin in pixels (default: 60)
	Title      string
}

// DefaultSVGOptions returns sensible default SVG render options.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Width:      1200,
		Height:     900,
		NodeRadius: 20,
		Margin:     60,
		Title:      "Item Dependency Graph",
	}
}

type position struct{ X, Y float64 }

// SVG renders a dependency graph as an SVG document: nodes colored by
// item category (flags get their own color), arranged on a circle,
// with an edge from each node to every witness it depended on.
func SVG(g *verifier.DependencyGraph, opts SVGOptions) []byte {
	if opts.Width <= 0 {
		opts.Width = 1200
	}
	if opts.Height <= 0 {
		opts.Height = 900
	}
	if opts.NodeRadius <= 0 {
		opts.NodeRadius = 20
	}
	if opts.Margin <= 0 {
		opts.Margin = 60
	}

	buf := new(bytes.Buffer)
	canvas := svg.New(buf)
	canvas.Start(opts.Width, opts.Height)
	canvas.Rect(0, 0, opts.Width, opts.Height, "fill:#1a1a2e")

	positions := layout(g, opts)

	drawEdges(canvas, g, positions)
	drawNodes(canvas, g, positions, opts)

	if opts.Title != "" {
		canvas.Text(opts.Width/2, 25, opts.Title,
			"text-anchor:middle;font-size:20px;font-weight:bold;fill:#e2e8f0;font-family:sans-serif")
	}

	canvas.End()
	return buf.Bytes()
}

// layout arranges every node on a circle, ordered by id for
// determinism, in place of a full force-directed layout.
func layout(g *verifier.DependencyGraph, opts SVGOptions) map[string]position {
	positions := make(map[string]position)
	if len(g.Nodes) == 0 {
		return positions
	}

	ids := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		ids[i] = n.ID
	}
	sort.Strings(ids)

	drawWidth := float64(opts.Width - 2*opts.Margin - 2*opts.NodeRadius)
	drawHeight := float64(opts.Height - 2*opts.Margin - 2*opts.NodeRadius - 60)
	centerX := float64(opts.Width) / 2
	centerY := float64(opts.Height-60) / 2
	radius := math.Min(drawWidth, drawHeight) / 2.5

	angleStep := 2 * math.Pi / float64(len(ids))
	for i, id := range ids {
		angle := float64(i) * angleStep
		positions[id] = position{
			X: centerX + radius*math.Cos(angle),
			Y: centerY + radius*math.Sin(angle),
		}
	}
	return positions
}

func drawEdges(canvas *svg.SVG, g *verifier.DependencyGraph, positions map[string]position) {
	for _, e := range g.Edges {
		from, ok1 := positions[e.From]
		to, ok2 := positions[e.To]
		if !ok1 || !ok2 {
			continue
		}
		canvas.Line(int(from.X), int(from.Y), int(to.X), int(to.Y),
			"stroke:#4a5568;stroke-width:2;opacity:0.8")
	}
}

func drawNodes(canvas *svg.SVG, g *verifier.DependencyGraph, positions map[string]position, opts SVGOptions) {
	nodesByID := make(map[string]verifier.GraphNode, len(g.Nodes))
	for _, n := range g.Nodes {
		nodesByID[n.ID] = n
	}
	ids := make([]string, 0, len(g.Nodes))
	for id := range nodesByID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		n := nodesByID[id]
		pos, ok := positions[id]
		if !ok {
			continue
		}
		color := nodeColor(n)
		canvas.Circle(int(pos.X), int(pos.Y), opts.NodeRadius,
			fmt.Sprintf("fill:%s;stroke:#fff;stroke-width:2;opacity:0.9", color))
		labelY := int(pos.Y) + opts.NodeRadius + 15
		canvas.Text(int(pos.X), labelY, firstLine(n.Label),
			"text-anchor:middle;font-size:11px;font-family:monospace;fill:#e2e8f0;font-weight:500")
	}
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}

// nodeColor maps a node's item category (or flags, which carry no
// category) to a fixed color.
func nodeColor(n verifier.GraphNode) string {
	if n.Kind == verifier.NodeFlag {
		return "#9f7aea" // Purple
	}
	switch n.Category {
	case world.CategoryMajor:
		return "#f56565" // Red
	case world.CategoryDungeonItem:
		return "#ffd700" // Gold
	default: // world.CategoryMinor
		return "#4299e1" // Blue
	}
}
