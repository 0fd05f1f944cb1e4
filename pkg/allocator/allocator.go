package allocator

import (
	"fmt"
	"sort"

	"github.com/mdsherry/randomizer/pkg/ids"
	"github.com/mdsherry/randomizer/pkg/require"
	"github.com/mdsherry/randomizer/pkg/rng"
	"github.com/mdsherry/randomizer/pkg/world"
)

var allCategories = []world.Category{world.CategoryMinor, world.CategoryMajor, world.CategoryDungeonItem}

// closedLoc pairs a not-yet-reachable location with its own live,
// progressively-reduced copy of its requirement. closedLocations is
// kept as an ordered slice, not a map, because the order in which
// locations are discovered to be reachable is semantically load-
// bearing: it feeds directly into open_locations'
// insertion order.
type closedLoc struct {
	id  ids.LocationID
	req require.Requirement
}

// Allocator is the assumed-fill placement state machine. It consumes
// a frozen World and an item pool and distributes pool items across
// locations round by round.
type Allocator struct {
	w   *world.World
	cfg world.AllocatorConfig

	// Each round-strategy pass gets its own RNG stream,
	// derived once from the master seed, its stage name, and the config
	// hash, and reused across rounds -- consuming it advances that
	// stage's own sequence without disturbing the others (pkg/rng).
	backfillRNG *rng.RNG
	unlockRNG   *rng.RNG
	missingRNG  *rng.RNG

	pool     []ids.ItemID
	itemReqs map[ids.ItemID]require.Requirement

	openLocations   []ids.LocationID
	closedLocations []closedLoc

	flagReqs map[ids.FlagID]require.Requirement

	assignments   map[ids.LocationID]ids.ItemID
	assignedItems map[ids.ItemID]int

	rounds int
	onLog  func(string)
}

// New builds an Allocator over world w with the given item pool
// (typically w.Pool()), running the preflight check
// before returning. A preflight failure is a build error: fatal, and
// never runs a single allocation round. seed is the master seed from
// which every round-strategy pass derives its own independent RNG
// stream: reproducibility is seeding the generator. A zero RoundCap in
// cfg (e.g. an AllocatorConfig built as a struct literal rather than
// through LoadAllocatorConfigFromBytes) defaults to
// world.DefaultRoundCap rather than stalling on the first round.
func New(w *world.World, pool []ids.ItemID, cfg world.AllocatorConfig, seed uint64) (*Allocator, error) {
	if cfg.RoundCap <= 0 {
		cfg.RoundCap = world.DefaultRoundCap
	}
	configHash := cfg.Hash()
	a := &Allocator{
		w:             w,
		cfg:           cfg,
		backfillRNG:   rng.NewRNG(seed, "backfill", configHash),
		unlockRNG:     rng.NewRNG(seed, "unlock-pass", configHash),
		missingRNG:    rng.NewRNG(seed, "missing-item-pass", configHash),
		pool:          append([]ids.ItemID(nil), pool...),
		itemReqs:      make(map[ids.ItemID]require.Requirement, len(w.Items)),
		flagReqs:      make(map[ids.FlagID]require.Requirement, len(w.Flags)),
		assignments:   make(map[ids.LocationID]ids.ItemID),
		assignedItems: make(map[ids.ItemID]int),
	}
	for _, it := range w.Items {
		a.itemReqs[it.ID] = it.Requirement
	}
	for _, f := range w.Flags {
		a.flagReqs[f.ID] = f.Requirement
	}
	for _, l := range w.Locations {
		if l.Requirement.Satisfied() {
			a.openLocations = append(a.openLocations, l.ID)
		} else {
			a.closedLocations = append(a.closedLocations, closedLoc{id: l.ID, req: l.Requirement})
		}
	}
	if err := a.preflightCheck(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Allocator) itemDef(id ids.ItemID) world.ItemDef         { return a.w.Item(id) }
func (a *Allocator) locDef(id ids.LocationID) world.LocationDef  { return a.w.Location(id) }

// preflightCheck asserts the three build-time invariants:
// the pool can fill every location (by count, or by
// count-per-category when MatchCategory is set), every flag and
// location becomes reachable if the whole pool were applied, and every
// restriction tag has at least as many homes as items.
func (a *Allocator) preflightCheck() error {
	allItems := make(map[ids.ItemID]int, len(a.pool))
	for _, it := range a.pool {
		allItems[it]++
	}
	for _, l := range a.w.Locations {
		if !require.SatisfiedBy(l.Requirement, allItems) {
			return fmt.Errorf("allocator: location %q is unreachable even with the full item pool", l.Name)
		}
	}
	for _, f := range a.w.Flags {
		if !require.SatisfiedBy(f.Requirement, allItems) {
			return fmt.Errorf("allocator: flag %q is unreachable even with the full item pool", f.Name)
		}
	}
	for _, it := range a.w.Items {
		if !require.SatisfiedBy(it.Requirement, allItems) {
			return fmt.Errorf("allocator: item %q can never become placeable", it.Name)
		}
	}

	if a.cfg.MatchCategory {
		for _, cat := range allCategories {
			itemCount := a.countItemsByCategory(cat)
			locCount := a.countLocationsByCategory(cat)
			if itemCount != locCount {
				return fmt.Errorf("allocator: category %s has %d pool items but %d locations", cat, itemCount, locCount)
			}
		}
	} else if len(a.pool) != len(a.w.Locations) {
		return fmt.Errorf("allocator: item pool size %d does not match location count %d", len(a.pool), len(a.w.Locations))
	}

	// Restriction accounting intentionally ignores category when
	// MatchCategory is false, matching source behavior: brittle, but
	// preserved rather than silently tightened.
	for _, restriction := range a.restrictionsInPool() {
		if a.cfg.MatchCategory {
			for _, cat := range allCategories {
				itemCount := a.countItemsByCategoryRestriction(cat, restriction)
				locCount := a.countLocationsByCategoryRestriction(cat, restriction)
				if itemCount > locCount {
					return fmt.Errorf("allocator: not enough %s homes for restriction %q: %d items, %d locations",
						cat, a.w.Registry.RestrictionName(restriction), itemCount, locCount)
				}
			}
		} else {
			itemCount := a.countItemsByRestriction(restriction)
			locCount := a.countLocationsByRestriction(restriction)
			if itemCount > locCount {
				return fmt.Errorf("allocator: not enough homes for restriction %q: %d items, %d locations",
					a.w.Registry.RestrictionName(restriction), itemCount, locCount)
			}
		}
	}
	return nil
}

func (a *Allocator) countItemsByCategory(cat world.Category) int {
	n := 0
	for _, it := range a.pool {
		if a.itemDef(it).Category == cat {
			n++
		}
	}
	return n
}

func (a *Allocator) countLocationsByCategory(cat world.Category) int {
	n := 0
	for _, l := range a.w.Locations {
		if l.Category == cat {
			n++
		}
	}
	return n
}

func (a *Allocator) countItemsByCategoryRestriction(cat world.Category, r ids.RestrictionID) int {
	n := 0
	for _, it := range a.pool {
		d := a.itemDef(it)
		if d.Category == cat && d.Restriction == r {
			n++
		}
	}
	return n
}

func (a *Allocator) countLocationsByCategoryRestriction(cat world.Category, r ids.RestrictionID) int {
	n := 0
	for _, l := range a.w.Locations {
		if l.Category == cat && l.Restriction == r {
			n++
		}
	}
	return n
}

func (a *Allocator) countItemsByRestriction(r ids.RestrictionID) int {
	n := 0
	for _, it := range a.pool {
		if a.itemDef(it).Restriction == r {
			n++
		}
	}
	return n
}

func (a *Allocator) countLocationsByRestriction(r ids.RestrictionID) int {
	n := 0
	for _, l := range a.w.Locations {
		if l.Restriction == r {
			n++
		}
	}
	return n
}

func (a *Allocator) restrictionsInPool() []ids.RestrictionID {
	seen := map[ids.RestrictionID]bool{}
	var out []ids.RestrictionID
	for _, it := range a.pool {
		r := a.itemDef(it).Restriction
		if r == world.NoRestriction || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// canPlaceIn is the eligibility rule: a
// restricted item must land in a location carrying the exact same
// restriction tag; an unrestricted item may take a restricted
// location only while doing so still leaves enough open capacity for
// restricted items yet to be placed.
func (a *Allocator) canPlaceIn(item ids.ItemID, loc ids.LocationID) bool {
	id := a.itemDef(item)
	ld := a.locDef(loc)
	if a.cfg.MatchCategory && ld.Category != id.Category {
		return false
	}
	if id.Restriction != world.NoRestriction {
		return ld.Restriction == id.Restriction
	}
	if ld.Restriction != world.NoRestriction {
		return a.spareSpaceForRestriction(ld.Category, ld.Restriction)
	}
	return true
}

func (a *Allocator) spareSpaceForRestriction(cat world.Category, restriction ids.RestrictionID) bool {
	openCount := 0
	for _, l := range a.openLocations {
		ld := a.locDef(l)
		if ld.Restriction == restriction && (!a.cfg.MatchCategory || ld.Category == cat) {
			openCount++
		}
	}
	poolCount := 0
	for _, it := range a.pool {
		id := a.itemDef(it)
		if id.Restriction == restriction && (!a.cfg.MatchCategory || id.Category == cat) {
			poolCount++
		}
	}
	return openCount > poolCount
}

// findItemHome walks open_locations in reverse (newest first) when
// PreferNewLocations is set and item is non-Minor, otherwise in a
// shuffled order, returning the first location item can legally fill.
// r is the calling pass's own RNG stream, so the shuffle it performs
// stays isolated to that pass's sequence.
func (a *Allocator) findItemHome(item ids.ItemID, r *rng.RNG) (ids.LocationID, bool) {
	locations := append([]ids.LocationID(nil), a.openLocations...)
	if !a.cfg.PreferNewLocations || a.itemDef(item).Category == world.CategoryMinor {
		r.Shuffle(len(locations), func(i, j int) {
			locations[i], locations[j] = locations[j], locations[i]
		})
	}
	for i := len(locations) - 1; i >= 0; i-- {
		if a.canPlaceIn(item, locations[i]) {
			return locations[i], true
		}
	}
	return 0, false
}

func (a *Allocator) removeOpenLocation(loc ids.LocationID) {
	for i, l := range a.openLocations {
		if l == loc {
			a.openLocations = append(a.openLocations[:i], a.openLocations[i+1:]...)
			return
		}
	}
	panic(fmt.Sprintf("allocator: location %q not in open set", a.w.Registry.LocationName(loc)))
}

func (a *Allocator) removeFromPool(item ids.ItemID) {
	for i, it := range a.pool {
		if it == item {
			last := len(a.pool) - 1
			a.pool[i] = a.pool[last]
			a.pool = a.pool[:last]
			return
		}
	}
	panic(fmt.Sprintf("allocator: item %q not in pool", a.w.Registry.ItemName(item)))
}

// placeItem carries out the placement contract:
// record the assignment, then push the newly-held unit through every
// live requirement (pool items' own prerequisites, every flag, every
// closed location), promoting any location that becomes reachable
// into the open set while preserving the order the rest were
// discovered in.
func (a *Allocator) placeItem(item ids.ItemID, loc ids.LocationID) {
	a.assignments[loc] = item
	a.removeOpenLocation(loc)
	a.finishPlacement(item)
}

// placeItemInClosed handles the degenerate case the open/closed split
// can't otherwise express: a closed location whose own requirement is
// satisfied by the very item about to be placed there (a
// location that gates itself). It assigns the item directly, skipping
// the open set entirely, then runs the same cascade placeItem does.
func (a *Allocator) placeItemInClosed(item ids.ItemID, loc ids.LocationID) {
	a.assignments[loc] = item
	for i, c := range a.closedLocations {
		if c.id == loc {
			a.closedLocations = append(a.closedLocations[:i], a.closedLocations[i+1:]...)
			break
		}
	}
	a.finishPlacement(item)
}

// finishPlacement is the shared tail of placeItem and
// placeItemInClosed: remove the item from the pool, record it as
// assigned, and push that unit through every live requirement,
// promoting any closed location that becomes reachable into the open
// set while preserving discovery order.
func (a *Allocator) finishPlacement(item ids.ItemID) {
	a.removeFromPool(item)
	a.assignedItems[item]++

	for id, req := range a.itemReqs {
		a.itemReqs[id] = require.Simplify(require.AssumeItem(req, item, 1))
	}
	for id, req := range a.flagReqs {
		a.flagReqs[id] = require.Simplify(require.AssumeItem(req, item, 1))
	}

	var stillClosed []closedLoc
	var opened []ids.LocationID
	for _, c := range a.closedLocations {
		reduced := require.Simplify(require.AssumeItem(c.req, item, 1))
		if reduced.Satisfied() {
			opened = append(opened, c.id)
		} else {
			stillClosed = append(stillClosed, closedLoc{id: c.id, req: reduced})
		}
	}
	a.closedLocations = stillClosed
	a.openLocations = append(a.openLocations, opened...)
}

// placeableItems returns every pool occurrence (duplicates included,
// in pool order) whose own item requirement is currently satisfied.
func (a *Allocator) placeableItems() []ids.ItemID {
	var out []ids.ItemID
	for _, it := range a.pool {
		if a.itemReqs[it].Satisfied() {
			out = append(out, it)
		}
	}
	return out
}
