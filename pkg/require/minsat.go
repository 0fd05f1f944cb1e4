package require

import (
	"fmt"

	"github.com/mdsherry/randomizer/pkg/ids"
)

// MinSat returns a witness inventory: a sub-map of inventory that is
// already sufficient to satisfy r, preferring the fewest total item
// units. It assumes SatisfiedBy(r, inventory) holds; callers that
// haven't checked that first will get a nonsensical (but not panicking)
// result. Used by PruneSat to pick the cheapest satisfied branch of an
// Any.
func MinSat(r Requirement, inventory map[ids.ItemID]int) map[ids.ItemID]int {
	switch r.Kind {
	case KindTrue, KindUnattainable:
		return map[ids.ItemID]int{}
	case KindAtom:
		return map[ids.ItemID]int{r.Item: r.Count}
	case KindAtLeast:
		return minSatAtLeast(r, inventory)
	case KindAll:
		rv := make(map[ids.ItemID]int)
		for _, c := range r.Children {
			for item, count := range MinSat(c, inventory) {
				if count > rv[item] {
					rv[item] = count
				}
			}
		}
		return rv
	case KindAny:
		best, _, ok := bestSatisfiedChild(r.Children, inventory)
		if !ok {
			return map[ids.ItemID]int{}
		}
		return MinSat(best, inventory)
	default:
		return map[ids.ItemID]int{}
	}
}

// minSatAtLeast greedily selects terms, highest weight first, until the
// threshold is met, so the witness uses as few distinct items as
// plausible.
func minSatAtLeast(r Requirement, inventory map[ids.ItemID]int) map[ids.ItemID]int {
	order := append([]WeightedItem(nil), r.Terms...)
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && order[j-1].Weight < order[j].Weight; j-- {
			order[j-1], order[j] = order[j], order[j-1]
		}
	}
	rv := make(map[ids.ItemID]int)
	remaining := r.Threshold
	for _, t := range order {
		if remaining <= 0 {
			break
		}
		held := inventory[t.Item]
		if held <= 0 {
			continue
		}
		need := ceilDiv(remaining, t.Weight)
		take := held
		if take > need {
			take = need
		}
		if take <= 0 {
			continue
		}
		rv[t.Item] = take
		remaining -= take * t.Weight
	}
	return rv
}

func satWitnessCost(w map[ids.ItemID]int) int {
	total := 0
	for _, c := range w {
		total += c
	}
	return total
}

func bestSatisfiedChild(children []Requirement, inventory map[ids.ItemID]int) (Requirement, int, bool) {
	var best Requirement
	bestCost := 0
	found := false
	for _, c := range children {
		if !SatisfiedBy(c, inventory) {
			continue
		}
		cost := satWitnessCost(MinSat(c, inventory))
		if !found || cost < bestCost {
			best, bestCost, found = c, cost, true
		}
	}
	return best, bestCost, found
}

// PruneSat returns the smallest sub-requirement of r that is still
// witnessed by inventory: for All, every child pruned in turn (all are
// needed); for Any, only the cheapest satisfied branch, unwrapped. It
// returns an error if r is not actually satisfied by inventory.
func PruneSat(r Requirement, inventory map[ids.ItemID]int) (Requirement, error) {
	if !SatisfiedBy(r, inventory) {
		return Requirement{}, fmt.Errorf("require: PruneSat called on an unsatisfied requirement %s", r)
	}
	return pruneSat(r, inventory), nil
}

func pruneSat(r Requirement, inventory map[ids.ItemID]int) Requirement {
	switch r.Kind {
	case KindTrue:
		return r
	case KindAtom:
		return r
	case KindAtLeast:
		witness := minSatAtLeast(r, inventory)
		terms := make([]WeightedItem, 0, len(witness))
		for _, t := range r.Terms {
			if _, ok := witness[t.Item]; ok {
				terms = append(terms, t)
			}
		}
		return AtLeastOf(r.Threshold, terms...)
	case KindAll:
		children := make([]Requirement, len(r.Children))
		for i, c := range r.Children {
			children[i] = pruneSat(c, inventory)
		}
		return All(children...)
	case KindAny:
		best, _, ok := bestSatisfiedChild(r.Children, inventory)
		if !ok {
			return r
		}
		return pruneSat(best, inventory)
	default:
		return r
	}
}
