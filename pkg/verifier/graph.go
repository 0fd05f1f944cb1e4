package verifier

import (
	"fmt"
	"sort"

	"github.com/mdsherry/randomizer/pkg/ids"
	"github.com/mdsherry/randomizer/pkg/require"
	"github.com/mdsherry/randomizer/pkg/world"
)

// NodeKind distinguishes the two kinds of node a dependency graph draws:
// a placed, ShowInGraph item (at the location it was placed in) or a
// satisfied flag.
type NodeKind int

const (
	NodeItem NodeKind = iota
	NodeFlag
)

// GraphNode is one drawable vertex: either the Nth copy of an item to
// be placed (at its location), or a flag once it becomes satisfied.
type GraphNode struct {
	ID       string
	Kind     NodeKind
	Label    string
	Item     ids.ItemID
	Category world.Category
	HasItem  bool
}

// GraphEdge points from a node to the witness item node that justified
// it -- "this requirement opened because a copy of that item had
// already been acquired".
type GraphEdge struct {
	From, To string
}

// DependencyGraph is the structured node/edge form of a replay: what a
// renderer (Graphviz text, SVG, anything else) draws, independent of
// how it draws it. Items with ShowInGraph false never appear, neither
// as nodes nor as edge witnesses.
type DependencyGraph struct {
	Nodes []GraphNode
	Edges []GraphEdge
}

// DependencyGraph builds the structured graph for a completed replay:
// one node per ShowInGraph item placement and per satisfied flag, and
// an edge from each to every witness item copy acquired by that point
// in the replay. Nodes and edges for a generation are derived entirely
// from items acquired in *prior* generations -- mirroring Verify's own
// wave-at-a-time semantics -- so a location never cites a sibling from
// its own wave.
func (r *Report) DependencyGraph(w *world.World, assignments map[ids.LocationID]ids.ItemID) *DependencyGraph {
	g := &DependencyGraph{}
	acquired := make(map[ids.ItemID]int)
	itemNodeIndex := make(map[ids.ItemID]int)

	for _, gen := range r.Generations {
		for _, f := range gen.Flags {
			flag := w.Flag(f)
			nodeID := fmt.Sprintf("flag%s", flag.Name)
			g.Nodes = append(g.Nodes, GraphNode{ID: nodeID, Kind: NodeFlag, Label: flag.Name})
			g.Edges = append(g.Edges, witnessEdges(nodeID, flag.Requirement, acquired, itemNodeIndex, w)...)
		}
		placedThisGen := make(map[ids.ItemID]int)
		for _, v := range gen.Locations {
			loc := w.Location(v.Location)
			item := w.Item(v.Item)
			if !item.ShowInGraph {
				continue
			}
			placedThisGen[v.Item]++
			idx := itemNodeIndex[v.Item] + placedThisGen[v.Item]
			nodeID := fmt.Sprintf("%s%d", item.Name, idx)
			g.Nodes = append(g.Nodes, GraphNode{
				ID: nodeID, Kind: NodeItem, Label: item.Name + "\n" + loc.Name,
				Item: v.Item, Category: item.Category, HasItem: true,
			})
			g.Edges = append(g.Edges, witnessEdges(nodeID, loc.Requirement, acquired, itemNodeIndex, w)...)
		}
		for _, v := range gen.Locations {
			if w.Item(v.Item).ShowInGraph {
				itemNodeIndex[v.Item]++
			}
			acquired[v.Item]++
		}
	}

	sort.SliceStable(g.Nodes, func(i, j int) bool { return g.Nodes[i].ID < g.Nodes[j].ID })
	return g
}

// witnessEdges draws an edge from src to every numbered node the
// witness item has produced so far (1..count), mirroring the source's
// choice to link a dependency to *every* copy acquired rather than
// just the most recent, since any of them could be the one the player
// is carrying.
func witnessEdges(src string, req require.Requirement, acquired map[ids.ItemID]int, itemNodeIndex map[ids.ItemID]int, w *world.World) []GraphEdge {
	var edges []GraphEdge
	for witness := range require.SatisfiedByItems(req, acquired) {
		if !w.Item(witness).ShowInGraph {
			continue
		}
		name := w.Item(witness).Name
		count := itemNodeIndex[witness]
		for i := 1; i <= count; i++ {
			edges = append(edges, GraphEdge{From: src, To: fmt.Sprintf("%s%d", name, i)})
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})
	return edges
}

// UnsatisfiedFlagNames renders the names of every flag the replay never
// satisfied, for a CLI summary line.
func UnsatisfiedFlagNames(w *world.World, report *Report) []string {
	names := make([]string, 0, len(report.UnsatisfiedFlags))
	for _, f := range report.UnsatisfiedFlags {
		names = append(names, w.Flag(f).Name)
	}
	return names
}
