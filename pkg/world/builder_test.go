package world

import (
	"testing"

	"github.com/mdsherry/randomizer/pkg/condtext"
	"github.com/mdsherry/randomizer/pkg/require"
)

func TestBuildSimpleWorld(t *testing.T) {
	b := NewBuilder(nil)
	if _, err := b.RegisterItem("Sword", CategoryMajor, NoRestriction, 1, 1, true, condtext.Term{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := b.RegisterLocation("L", CategoryMinor, NoRestriction, condtext.ParseCondition("Items.Sword")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w, err := b.Build()
	if err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}
	if len(w.Items) != 1 || len(w.Locations) != 1 {
		t.Fatalf("expected 1 item and 1 location, got %d/%d", len(w.Items), len(w.Locations))
	}
	sword := w.Items[0].ID
	if want := require.Atom(sword, 1); !w.Locations[0].Requirement.Equal(want) {
		t.Fatalf("expected location requirement to be Atom(Sword,1), got %s", w.Locations[0].Requirement)
	}
}

func TestBuildInlinesFlagAndLocationReferences(t *testing.T) {
	b := NewBuilder(nil)
	b.RegisterItem("Bow", CategoryMajor, NoRestriction, 1, 1, true, condtext.Term{})
	b.RegisterItem("Bomb", CategoryMajor, NoRestriction, 1, 1, true, condtext.Term{})
	b.RegisterFlag("F", condtext.ParseCondition("(&Items.Bow, Items.Bomb)"))
	b.RegisterLocation("Goal", CategoryMinor, NoRestriction, condtext.ParseCondition("Helpers.F"))
	w, err := b.Build()
	if err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}
	goal := w.Locations[0]
	missing := require.Missing(goal.Requirement)
	if len(missing) != 2 {
		t.Fatalf("expected goal to require both Bow and Bomb, got %v", missing)
	}
}

func TestBuildDetectsCycle(t *testing.T) {
	b := NewBuilder(nil)
	b.RegisterFlag("A", condtext.ParseCondition("Helpers.B"))
	b.RegisterFlag("B", condtext.ParseCondition("Helpers.A"))
	if _, err := b.Build(); err == nil {
		t.Fatalf("expected a cycle error")
	}
}

func TestBuildResolvesParameterToTrueOrUnattainable(t *testing.T) {
	b := NewBuilder(map[string]bool{"Glitched": false})
	b.RegisterLocation("L", CategoryMinor, NoRestriction, condtext.ParseCondition("Parameters.Glitched"))
	w, err := b.Build()
	if err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}
	if !w.Locations[0].Requirement.Equal(require.Unattainable()) {
		t.Fatalf("expected Parameters.Glitched=false to resolve to Unattainable, got %s", w.Locations[0].Requirement)
	}
}

func TestPoolExpandsByCount(t *testing.T) {
	b := NewBuilder(nil)
	b.RegisterItem("Rupee", CategoryMinor, NoRestriction, 3, 1, true, condtext.Term{})
	w, err := b.Build()
	if err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}
	if pool := w.Pool(); len(pool) != 3 {
		t.Fatalf("expected 3 pool occurrences, got %d", len(pool))
	}
}
