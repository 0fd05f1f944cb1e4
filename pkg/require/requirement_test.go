package require

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/mdsherry/randomizer/pkg/ids"
)

func TestAllDropsTrueAndCollapses(t *testing.T) {
	sword := ids.ItemID(1)
	r := All(True(), Atom(sword, 1))
	if !r.Equal(Atom(sword, 1)) {
		t.Fatalf("expected All(True, Atom) to collapse to Atom, got %s", r)
	}
	if empty := All(); !empty.Equal(True()) {
		t.Fatalf("expected empty All to be True, got %s", empty)
	}
}

func TestAllShortCircuitsOnUnattainable(t *testing.T) {
	sword := ids.ItemID(1)
	r := All(Atom(sword, 1), Unattainable())
	if !r.Equal(Unattainable()) {
		t.Fatalf("expected All with Unattainable child to be Unattainable, got %s", r)
	}
}

func TestAnyDropsUnattainableAndCollapses(t *testing.T) {
	sword := ids.ItemID(1)
	r := Any(Unattainable(), Atom(sword, 1))
	if !r.Equal(Atom(sword, 1)) {
		t.Fatalf("expected Any(Unattainable, Atom) to collapse to Atom, got %s", r)
	}
	if empty := Any(); !empty.Equal(Unattainable()) {
		t.Fatalf("expected empty Any to be Unattainable, got %s", empty)
	}
}

func TestAnyShortCircuitsOnTrue(t *testing.T) {
	sword := ids.ItemID(1)
	r := Any(Atom(sword, 1), True())
	if !r.Equal(True()) {
		t.Fatalf("expected Any with a True child to be True, got %s", r)
	}
}

func TestSortAndDedupRemovesDuplicateSiblings(t *testing.T) {
	bow, bomb := ids.ItemID(1), ids.ItemID(2)
	r := All(Atom(bow, 1), Atom(bomb, 1), Atom(bow, 1))
	want := All(Atom(bow, 1), Atom(bomb, 1))
	if !r.Equal(want) {
		t.Fatalf("expected duplicate sibling to be deduped, got %s", r)
	}
}

func TestConstantPropagationResolvesSiblingAny(t *testing.T) {
	bow, bomb, lamp := ids.ItemID(1), ids.ItemID(2), ids.ItemID(3)
	// Holding the bow already satisfies the Any, so once All sees Atom(bow)
	// as a sibling fact, the Any sibling should collapse away entirely.
	r := All(Atom(bow, 1), Any(Atom(bow, 1), Atom(bomb, 1), Atom(lamp, 1)))
	if !r.Equal(Atom(bow, 1)) {
		t.Fatalf("expected constant propagation to drop the satisfied Any, got %s", r)
	}
}

func TestSubsumptionRemovesRedundantNestedOr(t *testing.T) {
	bow, bomb, lamp, key := ids.ItemID(1), ids.ItemID(2), ids.ItemID(3), ids.ItemID(4)
	d := Any(Atom(bow, 1), Atom(bomb, 1))
	// (bow | bomb) & ((bow | bomb | lamp) & key) -- the nested Or is a
	// strict superset of d and unrelated to the sibling Atom(key), so
	// only the subsumption pass (not constant propagation) can remove it.
	r := All(d, All(Any(Atom(bow, 1), Atom(bomb, 1), Atom(lamp, 1)), Atom(key, 1)))
	want := All(d, Atom(key, 1))
	if !r.Equal(want) {
		t.Fatalf("expected subsumption to remove the redundant Or, got %s, want %s", r, want)
	}
}

func TestAssumeItemReducesAtomToTrue(t *testing.T) {
	sword := ids.ItemID(1)
	r := AssumeItem(Atom(sword, 2), sword, 2)
	if !r.Satisfied() {
		t.Fatalf("expected assuming 2 units to satisfy Atom(sword, 2), got %s", r)
	}
}

func TestAssumeItemReducesAtomPartially(t *testing.T) {
	sword := ids.ItemID(1)
	r := AssumeItem(Atom(sword, 3), sword, 1)
	if want := Atom(sword, 2); !r.Equal(want) {
		t.Fatalf("expected Atom(sword, 2), got %s", r)
	}
}

func TestAssumeItemOnAtLeast(t *testing.T) {
	heart := ids.ItemID(1)
	r := AtLeastOf(6, WeightedItem{Item: heart, Weight: 2})
	r = AssumeItem(r, heart, 2)
	if want := AtLeastOf(2, WeightedItem{Item: heart, Weight: 2}); !r.Equal(want) {
		t.Fatalf("expected threshold to drop to 2, got %s", r)
	}
	r = AssumeItem(r, heart, 1)
	if !r.Satisfied() {
		t.Fatalf("expected AtLeast to become satisfied once threshold <= 0, got %s", r)
	}
}

func TestWouldBeSatisfiedByDoesNotMutate(t *testing.T) {
	sword := ids.ItemID(1)
	r := Atom(sword, 1)
	if !WouldBeSatisfiedBy(r, sword) {
		t.Fatalf("expected holding sword to satisfy Atom(sword, 1)")
	}
	if r.Satisfied() {
		t.Fatalf("WouldBeSatisfiedBy must not mutate the original requirement")
	}
}

func TestSatisfiedByChecksSnapshotInventory(t *testing.T) {
	bow, bomb := ids.ItemID(1), ids.ItemID(2)
	r := All(Atom(bow, 1), Any(Atom(bomb, 2), Atom(bow, 3)))
	if SatisfiedBy(r, map[ids.ItemID]int{bow: 1}) {
		t.Fatalf("should not be satisfied without 2 bombs or 3 bows")
	}
	if !SatisfiedBy(r, map[ids.ItemID]int{bow: 1, bomb: 2}) {
		t.Fatalf("expected to be satisfied with a bow and 2 bombs")
	}
}

func TestMissingReportsAtomAndAtLeast(t *testing.T) {
	heart, bomb := ids.ItemID(1), ids.ItemID(2)
	r := All(Atom(bomb, 3), AtLeastOf(6, WeightedItem{Item: heart, Weight: 2}))
	got := Missing(r)
	if got[bomb] != 3 {
		t.Fatalf("expected 3 missing bombs, got %d", got[bomb])
	}
	if got[heart] != 3 {
		t.Fatalf("expected ceil(6/2)=3 missing hearts, got %d", got[heart])
	}
}

func TestMissingOnSatisfiedIsEmpty(t *testing.T) {
	if got := Missing(True()); len(got) != 0 {
		t.Fatalf("expected no missing items for True, got %v", got)
	}
}

func TestPruneSatRejectsUnsatisfied(t *testing.T) {
	sword := ids.ItemID(1)
	if _, err := PruneSat(Atom(sword, 1), map[ids.ItemID]int{}); err == nil {
		t.Fatalf("expected an error pruning an unsatisfied requirement")
	}
}

func TestPruneSatPicksCheapestAnyBranch(t *testing.T) {
	bow, bomb := ids.ItemID(1), ids.ItemID(2)
	r := Any(AtLeastOf(4, WeightedItem{Item: bomb, Weight: 1}), Atom(bow, 1))
	inv := map[ids.ItemID]int{bow: 1, bomb: 4}
	pruned, err := PruneSat(r, inv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !pruned.Equal(Atom(bow, 1)) {
		t.Fatalf("expected the single-item branch to win, got %s", pruned)
	}
}

func TestSatisfiedByItemsReportsOnlyWitnesses(t *testing.T) {
	bow, bomb, lamp := ids.ItemID(1), ids.ItemID(2), ids.ItemID(3)
	r := All(Atom(bow, 1), Any(Atom(bomb, 1), Atom(lamp, 1)))
	inv := map[ids.ItemID]int{bow: 1, lamp: 1}
	got := SatisfiedByItems(r, inv)
	if !got[bow] || !got[lamp] || got[bomb] {
		t.Fatalf("expected witnesses {bow, lamp}, got %v", got)
	}
}

// Property: Simplify is idempotent.
func TestSimplifyIsIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := genRequirement(t, 3)
		once := Simplify(r)
		twice := Simplify(once)
		if !once.Equal(twice) {
			t.Fatalf("Simplify not idempotent: %s -> %s -> %s", r, once, twice)
		}
	})
}

// Property: assuming an item never makes a requirement harder to satisfy
// than it already was (monotonicity of progressive reduction).
func TestAssumeItemNeverMakesUnattainableFromSatisfiable(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := Simplify(genRequirement(t, 3))
		item := ids.ItemID(rapid.IntRange(0, 4).Draw(t, "item"))
		count := rapid.IntRange(1, 5).Draw(t, "count")

		inv := map[ids.ItemID]int{item: count}
		before := SatisfiedBy(r, inv)
		after := AssumeItem(r, item, count).Satisfied()
		if before && !after {
			t.Fatalf("assuming held items made a satisfiable requirement unsatisfied: %s", r)
		}
	})
}

// genRequirement builds a small random Requirement tree over a handful
// of fixed item ids, for property testing the algebra's normalization.
func genRequirement(t *rapid.T, depth int) Requirement {
	item := ids.ItemID(rapid.IntRange(0, 4).Draw(t, "item"))
	if depth <= 0 {
		return rapid.SampledFrom([]Requirement{True(), Unattainable(), Atom(item, rapid.IntRange(1, 3).Draw(t, "count"))}).Draw(t, "leaf")
	}
	switch rapid.IntRange(0, 3).Draw(t, "kind") {
	case 0:
		return True()
	case 1:
		return Atom(item, rapid.IntRange(1, 3).Draw(t, "count"))
	case 2:
		n := rapid.IntRange(1, 3).Draw(t, "nAll")
		children := make([]Requirement, n)
		for i := range children {
			children[i] = genRequirement(t, depth-1)
		}
		return All(children...)
	default:
		n := rapid.IntRange(1, 3).Draw(t, "nAny")
		children := make([]Requirement, n)
		for i := range children {
			children[i] = genRequirement(t, depth-1)
		}
		return Any(children...)
	}
}
