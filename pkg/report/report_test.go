package report

import (
	"strings"
	"testing"

	"github.com/mdsherry/randomizer/pkg/allocator"
	"github.com/mdsherry/randomizer/pkg/condtext"
	"github.com/mdsherry/randomizer/pkg/ids"
	"github.com/mdsherry/randomizer/pkg/verifier"
	"github.com/mdsherry/randomizer/pkg/world"
)

func buildKeyGemWorld(t *testing.T) (*world.World, ids.LocationID, ids.LocationID, ids.ItemID, ids.ItemID) {
	t.Helper()
	b := world.NewBuilder(nil)
	b.RegisterItem("Key", world.CategoryMinor, world.NoRestriction, 1, 1, true, condtext.Term{})
	b.RegisterItem("Gem", world.CategoryMinor, world.NoRestriction, 1, 1, true, condtext.Term{})
	b.RegisterLocation("A", world.CategoryMinor, world.NoRestriction, condtext.Term{})
	b.RegisterLocation("B", world.CategoryMinor, world.NoRestriction, condtext.ParseCondition("Items.Key"))
	w, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	var a, bLoc ids.LocationID
	var key, gem ids.ItemID
	for _, l := range w.Locations {
		switch l.Name {
		case "A":
			a = l.ID
		case "B":
			bLoc = l.ID
		}
	}
	for _, it := range w.Items {
		switch it.Name {
		case "Key":
			key = it.ID
		case "Gem":
			gem = it.ID
		}
	}
	return w, a, bLoc, key, gem
}

func TestDotRendersNodesAndEdges(t *testing.T) {
	w, a, bLoc, key, gem := buildKeyGemWorld(t)
	assignments := map[ids.LocationID]ids.ItemID{a: key, bLoc: gem}
	rep := verifier.Verify(w, assignments)
	graph := rep.DependencyGraph(w, assignments)

	dot := Dot(graph)
	if !strings.HasPrefix(dot, "digraph G {") {
		t.Fatalf("expected a digraph header, got:\n%s", dot)
	}
	if !strings.Contains(dot, "Key1") {
		t.Fatalf("expected Key1 node, got:\n%s", dot)
	}
	if !strings.Contains(dot, "Gem1") {
		t.Fatalf("expected Gem1 node, got:\n%s", dot)
	}
	if !strings.Contains(dot, `"Gem1" -> "Key1"`) {
		t.Fatalf("expected Gem's location to cite Key as its witness, got:\n%s", dot)
	}
}

func TestSVGProducesWellFormedDocument(t *testing.T) {
	w, a, bLoc, key, gem := buildKeyGemWorld(t)
	assignments := map[ids.LocationID]ids.ItemID{a: key, bLoc: gem}
	rep := verifier.Verify(w, assignments)
	graph := rep.DependencyGraph(w, assignments)

	data := SVG(graph, DefaultSVGOptions())
	doc := string(data)
	if !strings.Contains(doc, "<svg") {
		t.Fatalf("expected an <svg> tag, got:\n%s", doc)
	}
	if !strings.Contains(doc, "</svg>") {
		t.Fatalf("expected a closing </svg> tag, got:\n%s", doc)
	}
}

func TestProgressLineFormatsByCategory(t *testing.T) {
	b := world.NewBuilder(nil)
	b.RegisterItem("Sword", world.CategoryMajor, world.NoRestriction, 1, 1, true, condtext.Term{})
	b.RegisterLocation("L", world.CategoryMajor, world.NoRestriction, condtext.ParseCondition("Items.Sword"))
	w, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	a, err := allocator.New(w, w.Pool(), world.AllocatorConfig{RoundCap: world.DefaultRoundCap}, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	line := ProgressLine(a.Snapshot())
	if !strings.Contains(line, "pool=1") {
		t.Fatalf("expected pool=1 in progress line, got %q", line)
	}
	if !strings.Contains(line, "Major(") {
		t.Fatalf("expected a Major category breakdown, got %q", line)
	}
}
