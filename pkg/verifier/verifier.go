// Package verifier replays a completed allocation forward from an
// empty inventory to confirm every location is actually reachable and
// every flag actually satisfiable, generation by generation. Where the
// allocator's open/closed frontier is a live, progressively-reduced
// working set built up incrementally as it places items, the verifier
// re-derives reachability from scratch against each location's and
// flag's original (unreduced) requirement -- an independent check that
// the allocator's output is self-consistent.
package verifier

import (
	"sort"

	"github.com/mdsherry/randomizer/pkg/ids"
	"github.com/mdsherry/randomizer/pkg/require"
	"github.com/mdsherry/randomizer/pkg/world"
)

// LocationVisit is one location opening in a generation, paired with
// the item assigned to it.
type LocationVisit struct {
	Location ids.LocationID
	Item     ids.ItemID
}

// Generation is everything that became reachable in one wave of the
// replay: every location whose requirement is now satisfied by items
// acquired in prior generations, and every flag likewise satisfied.
type Generation struct {
	Locations []LocationVisit
	Flags     []ids.FlagID
}

// Report is the outcome of a full replay.
type Report struct {
	Generations        []Generation
	UnreachedLocations []ids.LocationID
	UnsatisfiedFlags   []ids.FlagID
}

// Complete reports whether the replay reached every location and
// satisfied every flag -- the condition for a successful allocation
// outcome (verifier completeness on success).
func (r *Report) Complete() bool {
	return len(r.UnreachedLocations) == 0 && len(r.UnsatisfiedFlags) == 0
}

// Verify replays assignments against w starting from an empty
// inventory. Each generation gathers every not-yet-visited location and
// flag whose requirement is satisfied by everything acquired so far,
// absorbs the newly-visited locations' assigned items into the
// inventory, and repeats until a generation finds nothing new. Locations
// and flags within a generation are ordered by id for a deterministic
// trace; this has no bearing on reachability, since a generation is by
// definition a set that opens simultaneously under the current
// inventory.
func Verify(w *world.World, assignments map[ids.LocationID]ids.ItemID) *Report {
	acquired := make(map[ids.ItemID]int)
	visitedLoc := make(map[ids.LocationID]bool, len(w.Locations))
	visitedFlag := make(map[ids.FlagID]bool, len(w.Flags))
	var generations []Generation

	for {
		newLocs := reachableLocations(w, acquired, visitedLoc)
		newFlags := reachableFlags(w, acquired, visitedFlag)
		if len(newLocs) == 0 && len(newFlags) == 0 {
			break
		}

		var gen Generation
		for _, l := range newLocs {
			visitedLoc[l.ID] = true
			item, ok := assignments[l.ID]
			if !ok {
				continue
			}
			acquired[item]++
			gen.Locations = append(gen.Locations, LocationVisit{Location: l.ID, Item: item})
		}
		for _, f := range newFlags {
			visitedFlag[f.ID] = true
			gen.Flags = append(gen.Flags, f.ID)
		}
		generations = append(generations, gen)
	}

	report := &Report{Generations: generations}
	for _, l := range w.Locations {
		if !visitedLoc[l.ID] {
			report.UnreachedLocations = append(report.UnreachedLocations, l.ID)
		}
	}
	for _, f := range w.Flags {
		if !visitedFlag[f.ID] {
			report.UnsatisfiedFlags = append(report.UnsatisfiedFlags, f.ID)
		}
	}
	return report
}

func reachableLocations(w *world.World, acquired map[ids.ItemID]int, visited map[ids.LocationID]bool) []world.LocationDef {
	var out []world.LocationDef
	for _, l := range w.Locations {
		if visited[l.ID] || !require.SatisfiedBy(l.Requirement, acquired) {
			continue
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func reachableFlags(w *world.World, acquired map[ids.ItemID]int, visited map[ids.FlagID]bool) []world.FlagDef {
	var out []world.FlagDef
	for _, f := range w.Flags {
		if visited[f.ID] || !require.SatisfiedBy(f.Requirement, acquired) {
			continue
		}
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// GenerationOf returns the 1-based generation index a location opened
// in, or 0 if it was never reached. Scenario tests key off this to
// assert "X reaches in generation N" without re-deriving the replay.
func (r *Report) GenerationOf(loc ids.LocationID) int {
	for i, gen := range r.Generations {
		for _, v := range gen.Locations {
			if v.Location == loc {
				return i + 1
			}
		}
	}
	return 0
}

// FlagGenerationOf returns the 1-based generation a flag became
// satisfied in, or 0 if it never did.
func (r *Report) FlagGenerationOf(flag ids.FlagID) int {
	for i, gen := range r.Generations {
		for _, f := range gen.Flags {
			if f == flag {
				return i + 1
			}
		}
	}
	return 0
}
