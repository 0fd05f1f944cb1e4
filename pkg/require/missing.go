package require

import "github.com/mdsherry/randomizer/pkg/ids"

// Missing reports, for each item referenced by r, the fewest additional
// units that would need to be assumed to move r towards True. It is
// advisory: for an Any node it reports every branch's requirements, not
// just the cheapest one, so the allocator can consider all of them when
// picking which item to place next. r is expected to already be in its
// live, progressively-reduced form (see AssumeItem), so an AtLeast's
// Threshold already nets out anything previously assumed.
func Missing(r Requirement) map[ids.ItemID]int {
	rv := make(map[ids.ItemID]int)
	collectMissing(r, rv)
	return rv
}

func collectMissing(r Requirement, rv map[ids.ItemID]int) {
	switch r.Kind {
	case KindTrue, KindUnattainable:
		return
	case KindAtom:
		keepFewest(rv, r.Item, r.Count)
	case KindAtLeast:
		for _, t := range r.Terms {
			keepFewest(rv, t.Item, ceilDiv(r.Threshold, t.Weight))
		}
	case KindAll, KindAny:
		for _, c := range r.Children {
			collectMissing(c, rv)
		}
	}
}

// keepFewest records n for item unless a smaller count is already recorded.
func keepFewest(rv map[ids.ItemID]int, item ids.ItemID, n int) {
	if old, ok := rv[item]; !ok || n < old {
		rv[item] = n
	}
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return a
	}
	return (a + b - 1) / b
}
