package require

import "github.com/mdsherry/randomizer/pkg/ids"

// AssumeItem returns the requirement that remains after assuming the
// player holds count more units of item: the progressive
// reduction rule. The allocator keeps exactly one live Requirement per
// closed location/flag/pool-item-prerequisite and replaces it with
// Simplify(AssumeItem(...)) each time an item is placed, rather
// than re-evaluating the full tree from scratch every round.
func AssumeItem(r Requirement, item ids.ItemID, count int) Requirement {
	if count < 1 {
		return r
	}
	switch r.Kind {
	case KindTrue, KindUnattainable:
		return r
	case KindAtom:
		if r.Item != item {
			return r
		}
		if count >= r.Count {
			return True()
		}
		return Requirement{Kind: KindAtom, Item: r.Item, Count: r.Count - count}
	case KindAtLeast:
		weight := 0
		found := false
		for _, t := range r.Terms {
			if t.Item == item {
				weight = t.Weight
				found = true
				break
			}
		}
		if !found {
			return r
		}
		reduced := r.Threshold - count*weight
		if reduced <= 0 {
			return True()
		}
		return Requirement{Kind: KindAtLeast, Threshold: reduced, Terms: r.Terms}
	case KindAll:
		children := make([]Requirement, 0, len(r.Children))
		for _, c := range r.Children {
			nc := AssumeItem(c, item, count)
			if nc.Kind == KindUnattainable {
				return Unattainable()
			}
			if nc.Kind == KindTrue {
				continue
			}
			children = append(children, nc)
		}
		switch len(children) {
		case 0:
			return True()
		case 1:
			return children[0]
		default:
			return Requirement{Kind: KindAll, Children: children}
		}
	case KindAny:
		children := make([]Requirement, 0, len(r.Children))
		for _, c := range r.Children {
			nc := AssumeItem(c, item, count)
			if nc.Kind == KindTrue {
				return True()
			}
			if nc.Kind != KindUnattainable {
				children = append(children, nc)
			}
		}
		switch len(children) {
		case 0:
			return Unattainable()
		case 1:
			return children[0]
		default:
			return Requirement{Kind: KindAny, Children: children}
		}
	default:
		return r
	}
}

// WouldBeSatisfiedBy reports whether holding one more unit of item would
// make r satisfied, without mutating r. The allocator uses this to test
// candidate placements before committing to AssumeItem.
func WouldBeSatisfiedBy(r Requirement, item ids.ItemID) bool {
	return AssumeItem(r, item, 1).Satisfied()
}

// SatisfiedBy reports whether r is satisfied given a snapshot inventory,
// without any progressive reduction. Used where a full re-check against
// an unreduced, originally-built requirement is wanted, such as the
// allocator's preflight check and the verifier's forward replay.
func SatisfiedBy(r Requirement, inventory map[ids.ItemID]int) bool {
	switch r.Kind {
	case KindTrue:
		return true
	case KindUnattainable:
		return false
	case KindAtom:
		return inventory[r.Item] >= r.Count
	case KindAtLeast:
		total := 0
		for _, t := range r.Terms {
			total += inventory[t.Item] * t.Weight
		}
		return total >= r.Threshold
	case KindAll:
		for _, c := range r.Children {
			if !SatisfiedBy(c, inventory) {
				return false
			}
		}
		return true
	case KindAny:
		for _, c := range r.Children {
			if SatisfiedBy(c, inventory) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// SatisfiedByItems returns the set of items in inventory that actually
// justify r being satisfied: for All, the union across every child; for
// Any, only the witnesses from the first satisfied child found. Returns
// an empty set if r is not satisfied. Used to label dependency-graph
// edges with the items that made a location or flag reachable.
func SatisfiedByItems(r Requirement, inventory map[ids.ItemID]int) map[ids.ItemID]bool {
	rv := make(map[ids.ItemID]bool)
	if !SatisfiedBy(r, inventory) {
		return rv
	}
	collectSatisfiedByItems(r, inventory, rv)
	return rv
}

func collectSatisfiedByItems(r Requirement, inventory map[ids.ItemID]int, rv map[ids.ItemID]bool) {
	switch r.Kind {
	case KindTrue, KindUnattainable:
		return
	case KindAtom:
		if inventory[r.Item] >= r.Count {
			rv[r.Item] = true
		}
	case KindAtLeast:
		total := 0
		for _, t := range r.Terms {
			total += inventory[t.Item] * t.Weight
		}
		if total >= r.Threshold {
			for _, t := range r.Terms {
				if inventory[t.Item] > 0 {
					rv[t.Item] = true
				}
			}
		}
	case KindAll:
		for _, c := range r.Children {
			collectSatisfiedByItems(c, inventory, rv)
		}
	case KindAny:
		for _, c := range r.Children {
			if SatisfiedBy(c, inventory) {
				collectSatisfiedByItems(c, inventory, rv)
				return
			}
		}
	}
}
