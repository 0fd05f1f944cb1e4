package allocator

import (
	"fmt"
	"sort"

	"github.com/mdsherry/randomizer/pkg/ids"
	"github.com/mdsherry/randomizer/pkg/require"
	"github.com/mdsherry/randomizer/pkg/world"
)

// DefaultRoundCap is re-exported for convenience; see world.DefaultRoundCap.
const DefaultRoundCap = world.DefaultRoundCap

// Result is the outcome of a Run: either every pool item found a home
// and Success is true, or the round budget was exhausted and Residual
// names what's left unreachable -- an allocation stall.
type Result struct {
	Assignments map[ids.LocationID]ids.ItemID
	Rounds      int
	Success     bool
	Residual    []ResidualLocation
}

// ResidualLocation is one location still closed when the allocator
// gave up, with its live (progressively-reduced) requirement for
// diagnostics.
type ResidualLocation struct {
	Location    ids.LocationID
	Requirement require.Requirement
}

// SetLogger installs a callback invoked with a human-readable
// progress line after every successful placement, for a CLI's
// -verbose flag. A nil logger (the default) disables this.
func (a *Allocator) SetLogger(fn func(line string)) { a.onLog = fn }

// Run drives the round strategy until the pool is
// empty or RoundCap consecutive rounds make no progress. Each round
// tries, in order, the backfill pass, the unlock pass, the missing-
// item pass, and the fallback pass, stopping at the first successful
// placement. Result.Rounds counts every round; RoundCap is compared
// against a separate count of consecutive rounds that place nothing,
// which resets after every placement.
func (a *Allocator) Run() *Result {
	stagnant := 0
	for len(a.pool) > 0 {
		a.rounds++
		placed := a.round()
		if placed {
			stagnant = 0
			continue
		}
		stagnant++
		if stagnant >= a.cfg.RoundCap {
			return a.failureResult()
		}
	}
	return a.successResult()
}

func (a *Allocator) round() bool {
	if a.backfillPass() {
		return true
	}
	if a.unlockPass() {
		return true
	}
	if a.missingItemPass() {
		return true
	}
	return a.fallbackPass()
}

func (a *Allocator) logPlacement(pass string, item ids.ItemID, loc ids.LocationID) {
	if a.onLog == nil {
		return
	}
	a.onLog(fmt.Sprintf("[%s] round %d: %s -> %s (pool remaining: %d)",
		pass, a.rounds, a.w.Registry.ItemName(item), a.w.Registry.LocationName(loc), len(a.pool)))
}

// progressionItems returns the set of progression-affecting items:
// those some closed location's missing() map reports needing exactly
// one more unit of.
func (a *Allocator) progressionItems() map[ids.ItemID]bool {
	set := make(map[ids.ItemID]bool)
	for _, c := range a.closedLocations {
		for item, count := range require.Missing(c.req) {
			if count == 1 {
				set[item] = true
			}
		}
	}
	return set
}

// backfillPass is the per-category filler trigger:
// while a category's distinct progression-affecting items fall below
// half its open, unrestricted location count, spend one non-progression
// item of that category on the earliest eligible open location.
func (a *Allocator) backfillPass() bool {
	progressing := a.progressionItems()
	for _, cat := range allCategories {
		openCount := a.openUnrestrictedCountByCategory(cat)
		if openCount == 0 {
			continue
		}
		progCount := a.distinctProgressionItemsInCategory(cat, progressing)
		if progCount*2 >= openCount {
			continue
		}
		candidates := a.placeableNonProgressionItemsOfCategory(cat, progressing)
		if len(candidates) == 0 {
			continue
		}
		weights := make([]float64, len(candidates))
		for i, it := range candidates {
			weights[i] = float64(a.itemDef(it).Weight)
		}
		idx := a.backfillRNG.WeightedChoice(weights)
		if idx < 0 {
			continue
		}
		item := candidates[idx]
		loc, ok := a.earliestOpenLocationOfCategory(cat, item)
		if !ok {
			continue
		}
		a.placeItem(item, loc)
		a.logPlacement("backfill", item, loc)
		return true
	}
	return false
}

// openUnrestrictedCountByCategory counts open, unrestricted locations.
// When MatchCategory is false the source ignores category for this
// threshold entirely (Open Question (c)), so cat is only applied when
// MatchCategory is set.
func (a *Allocator) openUnrestrictedCountByCategory(cat world.Category) int {
	n := 0
	for _, l := range a.openLocations {
		ld := a.locDef(l)
		if ld.Restriction != world.NoRestriction {
			continue
		}
		if a.cfg.MatchCategory && ld.Category != cat {
			continue
		}
		n++
	}
	return n
}

// distinctProgressionItemsInCategory counts the distinct unrestricted
// items in the progressing set, matching the source's
// probably_safe_to_backfill (a HashSet count, not a pool-occurrence
// count): a single progression item backfilled against a hundred
// copies of itself in the pool still counts once.
func (a *Allocator) distinctProgressionItemsInCategory(cat world.Category, progressing map[ids.ItemID]bool) int {
	n := 0
	for it := range progressing {
		d := a.itemDef(it)
		if d.Restriction != world.NoRestriction {
			continue
		}
		if a.cfg.MatchCategory && d.Category != cat {
			continue
		}
		n++
	}
	return n
}

// placeableNonProgressionItemsOfCategory returns the distinct,
// currently-placeable item ids of category cat that are not in the
// progressing set.
func (a *Allocator) placeableNonProgressionItemsOfCategory(cat world.Category, progressing map[ids.ItemID]bool) []ids.ItemID {
	seen := map[ids.ItemID]bool{}
	var out []ids.ItemID
	for _, it := range a.pool {
		if seen[it] || progressing[it] {
			continue
		}
		d := a.itemDef(it)
		if d.Category != cat || !a.itemReqs[it].Satisfied() {
			continue
		}
		seen[it] = true
		out = append(out, it)
	}
	return out
}

func (a *Allocator) earliestOpenLocationOfCategory(cat world.Category, item ids.ItemID) (ids.LocationID, bool) {
	for _, l := range a.openLocations {
		if a.locDef(l).Category == cat && a.canPlaceIn(item, l) {
			return l, true
		}
	}
	return 0, false
}

// unlockPass ranks every placeable item that would open at least one
// closed location by
// weight plus temperature jitter, and place the first that finds a home.
func (a *Allocator) unlockPass() bool {
	type candidate struct {
		item ids.ItemID
		key  float64
	}
	seen := map[ids.ItemID]bool{}
	var candidates []candidate
	for _, it := range a.placeableItems() {
		if seen[it] {
			continue
		}
		seen[it] = true
		if !a.itemHasSomeHome(it) {
			continue
		}
		if !a.wouldUnlockAnything(it) {
			continue
		}
		jitter := 0.0
		if a.cfg.Temperature > 0 {
			jitter = float64(a.unlockRNG.IntRange(0, int(a.cfg.Temperature)))
		}
		candidates = append(candidates, candidate{item: it, key: float64(a.itemDef(it).Weight) + jitter})
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].key < candidates[j].key })
	for _, c := range candidates {
		loc, ok := a.findItemHome(c.item, a.unlockRNG)
		if !ok {
			continue
		}
		a.placeItem(c.item, loc)
		a.logPlacement("unlock", c.item, loc)
		return true
	}
	return false
}

func (a *Allocator) itemHasSomeHome(item ids.ItemID) bool {
	for _, l := range a.openLocations {
		if a.canPlaceIn(item, l) {
			return true
		}
	}
	return false
}

func (a *Allocator) wouldUnlockAnything(item ids.ItemID) bool {
	for _, c := range a.closedLocations {
		if require.WouldBeSatisfiedBy(c.req, item) {
			return true
		}
	}
	return false
}

// missingItemPass is the fallback ranking for when no single item
// unlocks anything directly: rank candidates by the union
// of missing() across closed locations, then flags, restricted items
// before unrestricted, each partition shuffled independently.
func (a *Allocator) missingItemPass() bool {
	locMissing := map[ids.ItemID]bool{}
	for _, c := range a.closedLocations {
		for item := range require.Missing(c.req) {
			locMissing[item] = true
		}
	}
	flagMissing := map[ids.ItemID]bool{}
	for _, req := range a.flagReqs {
		for item := range require.Missing(req) {
			flagMissing[item] = true
		}
	}

	restrictedLoc, unrestrictedLoc := a.partitionByRestriction(locMissing)
	restrictedFlag, unrestrictedFlag := a.partitionByRestriction(flagMissing)

	a.missingRNG.Shuffle(len(restrictedLoc), func(i, j int) { restrictedLoc[i], restrictedLoc[j] = restrictedLoc[j], restrictedLoc[i] })
	a.missingRNG.Shuffle(len(restrictedFlag), func(i, j int) { restrictedFlag[i], restrictedFlag[j] = restrictedFlag[j], restrictedFlag[i] })
	a.missingRNG.Shuffle(len(unrestrictedLoc), func(i, j int) { unrestrictedLoc[i], unrestrictedLoc[j] = unrestrictedLoc[j], unrestrictedLoc[i] })
	a.missingRNG.Shuffle(len(unrestrictedFlag), func(i, j int) { unrestrictedFlag[i], unrestrictedFlag[j] = unrestrictedFlag[j], unrestrictedFlag[i] })

	order := make([]ids.ItemID, 0, len(restrictedLoc)+len(restrictedFlag)+len(unrestrictedLoc)+len(unrestrictedFlag))
	order = append(order, restrictedLoc...)
	order = append(order, restrictedFlag...)
	order = append(order, unrestrictedLoc...)
	order = append(order, unrestrictedFlag...)

	for _, item := range order {
		if !a.itemReqs[item].Satisfied() || !a.poolHas(item) {
			continue
		}
		loc, ok := a.findItemHome(item, a.missingRNG)
		if !ok {
			continue
		}
		a.placeItem(item, loc)
		a.logPlacement("missing-item", item, loc)
		return true
	}
	return false
}

func (a *Allocator) partitionByRestriction(set map[ids.ItemID]bool) (restricted, unrestricted []ids.ItemID) {
	for item := range set {
		if a.itemDef(item).Restriction != world.NoRestriction {
			restricted = append(restricted, item)
		} else {
			unrestricted = append(unrestricted, item)
		}
	}
	sort.Slice(restricted, func(i, j int) bool { return restricted[i] < restricted[j] })
	sort.Slice(unrestricted, func(i, j int) bool { return unrestricted[i] < unrestricted[j] })
	return restricted, unrestricted
}

func (a *Allocator) poolHas(item ids.ItemID) bool {
	for _, it := range a.pool {
		if it == item {
			return true
		}
	}
	return false
}

// fallbackPass places any remaining placeable item in any home it can
// legally occupy, ignoring PreferNewLocations -- the last resort when
// no ranking pass found a candidate.
func (a *Allocator) fallbackPass() bool {
	seen := map[ids.ItemID]bool{}
	for _, it := range a.pool {
		if seen[it] || !a.itemReqs[it].Satisfied() {
			continue
		}
		seen[it] = true
		for _, loc := range a.openLocations {
			if a.canPlaceIn(it, loc) {
				a.placeItem(it, loc)
				a.logPlacement("fallback", it, loc)
				return true
			}
		}
	}
	// A closed location that needs nothing but the item about to be
	// placed can never appear in open_locations -- nothing opens it
	// first. Once every other avenue is exhausted, place such an item
	// directly and let the usual cascade take it from there.
	for _, it := range a.pool {
		if !a.itemReqs[it].Satisfied() {
			continue
		}
		for _, c := range a.closedLocations {
			if a.canPlaceIn(it, c.id) && require.WouldBeSatisfiedBy(c.req, it) {
				a.placeItemInClosed(it, c.id)
				a.logPlacement("fallback-self", it, c.id)
				return true
			}
		}
	}
	return false
}

func (a *Allocator) successResult() *Result {
	return &Result{
		Assignments: a.copyAssignments(),
		Rounds:      a.rounds,
		Success:     true,
	}
}

func (a *Allocator) failureResult() *Result {
	residual := make([]ResidualLocation, 0, len(a.closedLocations))
	for _, c := range a.closedLocations {
		residual = append(residual, ResidualLocation{Location: c.id, Requirement: c.req})
	}
	sort.Slice(residual, func(i, j int) bool { return residual[i].Location < residual[j].Location })
	return &Result{
		Assignments: a.copyAssignments(),
		Rounds:      a.rounds,
		Success:     false,
		Residual:    residual,
	}
}

func (a *Allocator) copyAssignments() map[ids.LocationID]ids.ItemID {
	out := make(map[ids.LocationID]ids.ItemID, len(a.assignments))
	for loc, item := range a.assignments {
		out[loc] = item
	}
	return out
}

// Snapshot reports the open/closed frontier split by category, as
// round diagnostics; pkg/report's ProgressLine formats it as one line.
type Snapshot struct {
	Round            int
	PoolRemaining    int
	OpenByCategory   map[world.Category]int
	ClosedByCategory map[world.Category]int
}

// Snapshot captures the allocator's current frontier state.
func (a *Allocator) Snapshot() Snapshot {
	s := Snapshot{
		Round:            a.rounds,
		PoolRemaining:    len(a.pool),
		OpenByCategory:   map[world.Category]int{},
		ClosedByCategory: map[world.Category]int{},
	}
	for _, l := range a.openLocations {
		s.OpenByCategory[a.locDef(l).Category]++
	}
	for _, c := range a.closedLocations {
		s.ClosedByCategory[a.locDef(c.id).Category]++
	}
	return s
}

// World exposes the allocator's underlying World, for callers (such as
// the verifier and report packages) that need to look up definitions
// by id after a run completes.
func (a *Allocator) World() *world.World { return a.w }

// AssignedItems reports how many occurrences of each item have been
// placed so far.
func (a *Allocator) AssignedItems() map[ids.ItemID]int {
	out := make(map[ids.ItemID]int, len(a.assignedItems))
	for item, n := range a.assignedItems {
		out[item] = n
	}
	return out
}
