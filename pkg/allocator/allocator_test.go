package allocator

import (
	"testing"

	"github.com/mdsherry/randomizer/pkg/condtext"
	"github.com/mdsherry/randomizer/pkg/ids"
	"github.com/mdsherry/randomizer/pkg/world"
)

func defaultConfig() world.AllocatorConfig {
	return world.AllocatorConfig{RoundCap: world.DefaultRoundCap}
}

// S1: single location requiring a single item.
func TestScenarioSingleLocationSingleItem(t *testing.T) {
	b := world.NewBuilder(nil)
	b.RegisterItem("Sword", world.CategoryMajor, world.NoRestriction, 1, 1, true, condtext.Term{})
	b.RegisterLocation("L", world.CategoryMajor, world.NoRestriction, condtext.ParseCondition("Items.Sword"))
	w, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	a, err := New(w, w.Pool(), defaultConfig(), 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res := a.Run()
	if !res.Success {
		t.Fatalf("expected success, got residual %v", res.Residual)
	}
	sword := w.Items[0].ID
	loc := w.Locations[0].ID
	if res.Assignments[loc] != sword {
		t.Fatalf("expected Sword at L, got %v", res.Assignments[loc])
	}
}

// S2: an unlocker location and a free location; the key must be placed
// before it can be consumed, so it lands at the already-open location.
func TestScenarioKeyUnlocksSecondLocation(t *testing.T) {
	b := world.NewBuilder(nil)
	b.RegisterItem("Key", world.CategoryMinor, world.NoRestriction, 1, 1, true, condtext.Term{})
	b.RegisterItem("Gem", world.CategoryMinor, world.NoRestriction, 1, 1, true, condtext.Term{})
	b.RegisterLocation("A", world.CategoryMinor, world.NoRestriction, condtext.Term{})
	b.RegisterLocation("B", world.CategoryMinor, world.NoRestriction, condtext.ParseCondition("Items.Key"))
	w, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	a, err := New(w, w.Pool(), defaultConfig(), 7)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res := a.Run()
	if !res.Success {
		t.Fatalf("expected success, got residual %v", res.Residual)
	}
	var keyID, gemID ids.ItemID
	for _, it := range w.Items {
		switch it.Name {
		case "Key":
			keyID = it.ID
		case "Gem":
			gemID = it.ID
		}
	}
	var aLoc, bLoc ids.LocationID
	for _, l := range w.Locations {
		switch l.Name {
		case "A":
			aLoc = l.ID
		case "B":
			bLoc = l.ID
		}
	}
	if res.Assignments[aLoc] != keyID {
		t.Fatalf("expected Key to be placed at the open location A, got %v", res.Assignments[aLoc])
	}
	if res.Assignments[bLoc] != gemID {
		t.Fatalf("expected Gem at B, got %v", res.Assignments[bLoc])
	}
}

// S3: a threshold requirement only opens once every contributing unit
// has been placed. Three free locations hold the three Rupees one per
// round; C (which needs all three) and its own reward, Prize, only
// become reachable/placeable on round four.
func TestScenarioThresholdRequirement(t *testing.T) {
	b := world.NewBuilder(nil)
	b.RegisterItem("Rupee", world.CategoryMinor, world.NoRestriction, 3, 1, true, condtext.Term{})
	b.RegisterItem("Prize", world.CategoryMajor, world.NoRestriction, 1, 1, true, condtext.Term{})
	b.RegisterLocation("Free1", world.CategoryMinor, world.NoRestriction, condtext.Term{})
	b.RegisterLocation("Free2", world.CategoryMinor, world.NoRestriction, condtext.Term{})
	b.RegisterLocation("Free3", world.CategoryMinor, world.NoRestriction, condtext.Term{})
	b.RegisterLocation("C", world.CategoryMajor, world.NoRestriction, condtext.ParseCondition("(+3, Items.Rupee)"))
	w, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	a, err := New(w, w.Pool(), defaultConfig(), 3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res := a.Run()
	if !res.Success {
		t.Fatalf("expected success, got residual %v", res.Residual)
	}
	var cLoc ids.LocationID
	var prize ids.ItemID
	for _, l := range w.Locations {
		if l.Name == "C" {
			cLoc = l.ID
		}
	}
	for _, it := range w.Items {
		if it.Name == "Prize" {
			prize = it.ID
		}
	}
	if res.Assignments[cLoc] != prize {
		t.Fatalf("expected C to receive Prize once all three Rupees were placed, got %v", res.Assignments[cLoc])
	}
}

// S4: restriction-tagged items can only land on their matching homes.
func TestScenarioRestrictionConfinesItems(t *testing.T) {
	b := world.NewBuilder(nil)
	dungeonA := b.Registry().InternRestriction("dungeonA")
	b.RegisterItem("SmallKey1", world.CategoryDungeonItem, dungeonA, 1, 1, true, condtext.Term{})
	b.RegisterItem("SmallKey2", world.CategoryDungeonItem, dungeonA, 1, 1, true, condtext.Term{})
	for i := 0; i < 4; i++ {
		b.RegisterItem(itemName(i), world.CategoryMinor, world.NoRestriction, 1, 1, true, condtext.Term{})
	}
	b.RegisterLocation("R1", world.CategoryDungeonItem, dungeonA, condtext.Term{})
	b.RegisterLocation("R2", world.CategoryDungeonItem, dungeonA, condtext.Term{})
	for i := 0; i < 4; i++ {
		b.RegisterLocation(locName(i), world.CategoryMinor, world.NoRestriction, condtext.Term{})
	}
	w, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	a, err := New(w, w.Pool(), defaultConfig(), 11)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res := a.Run()
	if !res.Success {
		t.Fatalf("expected success, got residual %v", res.Residual)
	}
	var r1, r2 ids.LocationID
	for _, l := range w.Locations {
		switch l.Name {
		case "R1":
			r1 = l.ID
		case "R2":
			r2 = l.ID
		}
	}
	homes := map[ids.ItemID]bool{res.Assignments[r1]: true, res.Assignments[r2]: true}
	for _, it := range w.Items {
		if it.Restriction == dungeonA && !homes[it.ID] {
			t.Fatalf("expected restricted item %q to land in R1 or R2", it.Name)
		}
	}
}

// S5: a flag inlines a conjunction of items and gates the goal location.
// Bow and Bomb land on the two free locations; Goal (and its own
// reward, Trophy) only becomes reachable once the flag is satisfied.
func TestScenarioFlagGatesGoal(t *testing.T) {
	b := world.NewBuilder(nil)
	b.RegisterItem("Bow", world.CategoryMajor, world.NoRestriction, 1, 1, true, condtext.Term{})
	b.RegisterItem("Bomb", world.CategoryMajor, world.NoRestriction, 1, 1, true, condtext.Term{})
	b.RegisterItem("Trophy", world.CategoryMinor, world.NoRestriction, 1, 1, true, condtext.Term{})
	b.RegisterFlag("F", condtext.ParseCondition("(&Items.Bow, Items.Bomb)"))
	b.RegisterLocation("Free1", world.CategoryMajor, world.NoRestriction, condtext.Term{})
	b.RegisterLocation("Free2", world.CategoryMajor, world.NoRestriction, condtext.Term{})
	b.RegisterLocation("Goal", world.CategoryMinor, world.NoRestriction, condtext.ParseCondition("Helpers.F"))
	w, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	a, err := New(w, w.Pool(), defaultConfig(), 5)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res := a.Run()
	if !res.Success {
		t.Fatalf("expected success, got residual %v", res.Residual)
	}
	var goal ids.LocationID
	var bowID, bombID, trophyID ids.ItemID
	for _, l := range w.Locations {
		if l.Name == "Goal" {
			goal = l.ID
		}
	}
	for _, it := range w.Items {
		switch it.Name {
		case "Bow":
			bowID = it.ID
		case "Bomb":
			bombID = it.ID
		case "Trophy":
			trophyID = it.ID
		}
	}
	placed := map[ids.ItemID]bool{}
	for _, item := range res.Assignments {
		placed[item] = true
	}
	if !placed[bowID] || !placed[bombID] {
		t.Fatalf("expected both Bow and Bomb to be placed")
	}
	if res.Assignments[goal] != trophyID {
		t.Fatalf("expected Goal to receive Trophy once the flag was satisfied, got %v", res.Assignments[goal])
	}
}

// S6: an unsolvable world fails preflight before any round runs.
func TestScenarioUnsolvableFailsPreflight(t *testing.T) {
	b := world.NewBuilder(nil)
	b.RegisterItem("X", world.CategoryMajor, world.NoRestriction, 1, 1, true, condtext.Term{})
	b.RegisterLocation("L1", world.CategoryMajor, world.NoRestriction, condtext.ParseCondition("Items.X"))
	b.RegisterLocation("L2", world.CategoryMajor, world.NoRestriction, condtext.ParseCondition("Items.X"))
	w, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, err := New(w, w.Pool(), defaultConfig(), 1); err == nil {
		t.Fatalf("expected preflight to reject a world with insufficient copies of X")
	}
}

func TestRunIsDeterministicForAFixedSeed(t *testing.T) {
	build := func() *world.World {
		b := world.NewBuilder(nil)
		b.RegisterItem("Key", world.CategoryMajor, world.NoRestriction, 1, 1, true, condtext.Term{})
		b.RegisterItem("Gem", world.CategoryMinor, world.NoRestriction, 1, 1, true, condtext.Term{})
		b.RegisterItem("Bow", world.CategoryMajor, world.NoRestriction, 1, 1, true, condtext.Term{})
		b.RegisterLocation("A", world.CategoryMinor, world.NoRestriction, condtext.Term{})
		b.RegisterLocation("B", world.CategoryMajor, world.NoRestriction, condtext.ParseCondition("Items.Key"))
		b.RegisterLocation("C", world.CategoryMajor, world.NoRestriction, condtext.ParseCondition("Items.Bow"))
		w, err := b.Build()
		if err != nil {
			t.Fatalf("build: %v", err)
		}
		return w
	}

	w1 := build()
	a1, err := New(w1, w1.Pool(), defaultConfig(), 99)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res1 := a1.Run()

	w2 := build()
	a2, err := New(w2, w2.Pool(), defaultConfig(), 99)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res2 := a2.Run()

	if !res1.Success || !res2.Success {
		t.Fatalf("expected both runs to succeed")
	}
	for loc, item := range res1.Assignments {
		locName := w1.Registry.LocationName(loc)
		itemName := w1.Registry.ItemName(item)
		var loc2 ids.LocationID
		for _, l := range w2.Locations {
			if l.Name == locName {
				loc2 = l.ID
			}
		}
		got, ok := res2.Assignments[loc2]
		if !ok || w2.Registry.ItemName(got) != itemName {
			t.Fatalf("determinism violated at %s: %s vs %v", locName, itemName, got)
		}
	}
}

func itemName(i int) string { return "Filler" + string(rune('A'+i)) }
func locName(i int) string  { return "Room" + string(rune('A'+i)) }
