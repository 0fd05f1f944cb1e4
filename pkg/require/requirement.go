// Package require implements the boolean requirement algebra: the five
// satisfiable variants (True, AtomItem, AtLeast, All, Any) plus the one
// distinguished false value (Unattainable), together with normalization,
// simplification, and progressive reduction ("assume an item") used by
// the allocator and verifier to decide what is currently reachable.
//
// Requirement values are immutable once built: every operation here
// returns a new value rather than mutating its receiver in place, so
// callers that keep a "live" copy per location or flag (as the
// allocator does) simply reassign the variable each round.
package require

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mdsherry/randomizer/pkg/ids"
)

// Kind identifies which variant of the requirement algebra a Requirement holds.
type Kind uint8

const (
	// KindTrue requires nothing: it is always satisfied.
	KindTrue Kind = iota
	// KindUnattainable can never be satisfied; the distinguished false value.
	KindUnattainable
	// KindAtom requires at least Count units of Item.
	KindAtom
	// KindAtLeast requires the weighted sum of Terms to reach Threshold.
	KindAtLeast
	// KindAll requires every child to be satisfied (conjunction).
	KindAll
	// KindAny requires at least one child to be satisfied (disjunction).
	KindAny
)

// WeightedItem is one (item, weight) term of an AtLeast threshold.
type WeightedItem struct {
	Item   ids.ItemID
	Weight int
}

// Requirement is a node in the boolean requirement algebra over items.
// The zero value is KindTrue.
type Requirement struct {
	Kind      Kind
	Item      ids.ItemID
	Count     int
	Threshold int
	Terms     []WeightedItem
	Children  []Requirement
}

// True returns the requirement that is always satisfied.
func True() Requirement { return Requirement{Kind: KindTrue} }

// Unattainable returns the requirement that can never be satisfied.
func Unattainable() Requirement { return Requirement{Kind: KindUnattainable} }

// Atom returns a requirement for at least count units of item.
// Panics if count is not strictly positive (I4).
func Atom(item ids.ItemID, count int) Requirement {
	if count < 1 {
		panic("require: Atom count must be >= 1")
	}
	return Requirement{Kind: KindAtom, Item: item, Count: count}
}

// AtLeastOf returns a weighted-threshold requirement: the sum of
// weight*held over terms must reach threshold. Terms referencing the
// same item are summed, matching the satisfaction formula. Panics if
// threshold or any weight is not strictly positive.
func AtLeastOf(threshold int, terms ...WeightedItem) Requirement {
	if threshold < 1 {
		panic("require: AtLeast threshold must be >= 1")
	}
	merged := make(map[ids.ItemID]int, len(terms))
	order := make([]ids.ItemID, 0, len(terms))
	for _, t := range terms {
		if t.Weight < 1 {
			panic("require: AtLeast weights must be >= 1")
		}
		if _, seen := merged[t.Item]; !seen {
			order = append(order, t.Item)
		}
		merged[t.Item] += t.Weight
	}
	out := make([]WeightedItem, len(order))
	for i, item := range order {
		out[i] = WeightedItem{Item: item, Weight: merged[item]}
	}
	return Requirement{Kind: KindAtLeast, Threshold: threshold, Terms: out}
}

// All returns a conjunction over children, collapsed per I1-I2:
// True children are dropped, a single remaining child is returned
// unwrapped, and an empty conjunction is True.
func All(children ...Requirement) Requirement {
	return Simplify(Requirement{Kind: KindAll, Children: append([]Requirement(nil), children...)})
}

// Any returns a disjunction over children, collapsed per I1-I2:
// Unattainable children are dropped, a single remaining child is
// returned unwrapped, and an empty disjunction is Unattainable.
func Any(children ...Requirement) Requirement {
	return Simplify(Requirement{Kind: KindAny, Children: append([]Requirement(nil), children...)})
}

// Satisfied reports whether r is the True requirement. Because the
// allocator keeps its live requirements progressively reduced via
// AssumeItem+Simplify, this is an O(1) check.
func (r Requirement) Satisfied() bool { return r.Kind == KindTrue }

// Equal reports whether r and other are structurally identical. Both
// must already be in normalized (Simplify'd) form for Equal to agree
// with logical equivalence; Equal itself performs no normalization.
func (r Requirement) Equal(other Requirement) bool { return compare(r, other) == 0 }

// Less provides the canonical total order used to sort and dedup
// sibling lists under All/Any.
func (r Requirement) Less(other Requirement) bool { return compare(r, other) < 0 }

func compare(a, b Requirement) int {
	if a.Kind != b.Kind {
		if a.Kind < b.Kind {
			return -1
		}
		return 1
	}
	switch a.Kind {
	case KindTrue, KindUnattainable:
		return 0
	case KindAtom:
		if a.Item != b.Item {
			return intCompare(int(a.Item), int(b.Item))
		}
		return intCompare(a.Count, b.Count)
	case KindAtLeast:
		if a.Threshold != b.Threshold {
			return intCompare(a.Threshold, b.Threshold)
		}
		if c := compareTerms(a.Terms, b.Terms); c != 0 {
			return c
		}
		return 0
	case KindAll, KindAny:
		return compareChildren(a.Children, b.Children)
	default:
		return 0
	}
}

func intCompare(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareTerms(a, b []WeightedItem) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i].Item != b[i].Item {
			return intCompare(int(a[i].Item), int(b[i].Item))
		}
		if a[i].Weight != b[i].Weight {
			return intCompare(a[i].Weight, b[i].Weight)
		}
	}
	return intCompare(len(a), len(b))
}

func compareChildren(a, b []Requirement) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return intCompare(len(a), len(b))
}

func sortAndDedup(children []Requirement) []Requirement {
	sort.Slice(children, func(i, j int) bool { return compare(children[i], children[j]) < 0 })
	out := children[:0]
	for i, c := range children {
		if i == 0 || compare(out[len(out)-1], c) != 0 {
			out = append(out, c)
		}
	}
	return out
}

// String renders r using the `(|...)`/`(&...)`/`(+N,...)` condition
// text grammar, for diagnostics and dependency-graph labels.
func (r Requirement) String() string {
	switch r.Kind {
	case KindTrue:
		return "-"
	case KindUnattainable:
		return "unattainable"
	case KindAtom:
		if r.Count > 1 {
			return fmt.Sprintf("Items.%d*%d", r.Item, r.Count)
		}
		return fmt.Sprintf("Items.%d", r.Item)
	case KindAtLeast:
		parts := make([]string, len(r.Terms))
		for i, t := range r.Terms {
			if t.Weight > 1 {
				parts[i] = fmt.Sprintf("Items.%d*%d", t.Item, t.Weight)
			} else {
				parts[i] = fmt.Sprintf("Items.%d", t.Item)
			}
		}
		return fmt.Sprintf("(+%d, %s)", r.Threshold, strings.Join(parts, ", "))
	case KindAll:
		return joinChildren("&", r.Children)
	case KindAny:
		return joinChildren("|", r.Children)
	default:
		return "?"
	}
}

func joinChildren(op string, children []Requirement) string {
	parts := make([]string, len(children))
	for i, c := range children {
		parts[i] = c.String()
	}
	return fmt.Sprintf("(%s%s)", op, strings.Join(parts, ", "))
}
