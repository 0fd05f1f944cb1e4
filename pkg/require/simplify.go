package require

import "github.com/mdsherry/randomizer/pkg/ids"

// Simplify normalizes r to satisfy I1-I2: True/Unattainable absorb
// siblings under All/Any, children are flattened/sorted/deduped, and
// All/Any nodes with fewer than two children collapse (empty All ->
// True, empty Any -> Unattainable, single child -> that child).
// Simplify is idempotent (P1): Simplify(Simplify(r)) == Simplify(r).
func Simplify(r Requirement) Requirement {
	switch r.Kind {
	case KindTrue, KindUnattainable, KindAtom:
		return r
	case KindAtLeast:
		return simplifyAtLeast(r)
	case KindAll:
		return simplifyAll(r)
	case KindAny:
		return simplifyAny(r)
	default:
		return r
	}
}

func simplifyAtLeast(r Requirement) Requirement {
	if r.Threshold <= 0 {
		return True()
	}
	merged := make(map[ids.ItemID]int, len(r.Terms))
	order := make([]ids.ItemID, 0, len(r.Terms))
	for _, t := range r.Terms {
		if _, seen := merged[t.Item]; !seen {
			order = append(order, t.Item)
		}
		merged[t.Item] += t.Weight
	}
	sortItemIDs(order)
	terms := make([]WeightedItem, len(order))
	for i, item := range order {
		terms[i] = WeightedItem{Item: item, Weight: merged[item]}
	}
	return Requirement{Kind: KindAtLeast, Threshold: r.Threshold, Terms: terms}
}

func sortItemIDs(items []ids.ItemID) {
	for i := 1; i < len(items); i++ {
		for j := i; j > 0 && items[j-1] > items[j]; j-- {
			items[j-1], items[j] = items[j], items[j-1]
		}
	}
}

// simplifyAll implements the All branch of simplify: recursive
// simplification, flattening, constant propagation of Atom siblings
// into compound siblings, and the subsumption pass, all run to
// fixpoint.
func simplifyAll(r Requirement) Requirement {
	children := flattenSimplified(r.Children, KindAll)
	var unattainable bool
	children, unattainable = dropTrueOrShortCircuit(children, KindAll)
	if unattainable {
		return Unattainable()
	}

	children = propagateConstants(children)
	children, unattainable = dropTrueOrShortCircuit(children, KindAll)
	if unattainable {
		return Unattainable()
	}
	children = sortAndDedup(append([]Requirement(nil), children...))

	children = subsumeToFixpoint(children)
	children, unattainable = dropTrueOrShortCircuit(children, KindAll)
	if unattainable {
		return Unattainable()
	}
	children = sortAndDedup(append([]Requirement(nil), children...))

	switch len(children) {
	case 0:
		return True()
	case 1:
		return children[0]
	default:
		return Requirement{Kind: KindAll, Children: children}
	}
}

func simplifyAny(r Requirement) Requirement {
	children := flattenSimplified(r.Children, KindAny)
	for _, c := range children {
		if c.Kind == KindTrue {
			return True()
		}
	}
	kept := children[:0]
	for _, c := range children {
		if c.Kind != KindUnattainable {
			kept = append(kept, c)
		}
	}
	children = sortAndDedup(append([]Requirement(nil), kept...))
	switch len(children) {
	case 0:
		return Unattainable()
	case 1:
		return children[0]
	default:
		return Requirement{Kind: KindAny, Children: children}
	}
}

// flattenSimplified simplifies each child and splices children of the
// same kind up one level ("flatten nested Alls"/"flatten nested Anys").
func flattenSimplified(raw []Requirement, kind Kind) []Requirement {
	flat := make([]Requirement, 0, len(raw))
	for _, c := range raw {
		sc := Simplify(c)
		if sc.Kind == kind {
			flat = append(flat, sc.Children...)
		} else {
			flat = append(flat, sc)
		}
	}
	return flat
}

// dropTrueOrShortCircuit drops True children (for All) while reporting
// whether an Unattainable child short-circuits the whole node, or the
// reverse for Any.
func dropTrueOrShortCircuit(children []Requirement, parentKind Kind) ([]Requirement, bool) {
	kept := children[:0]
	for _, c := range children {
		if parentKind == KindAll && c.Kind == KindUnattainable {
			return nil, true
		}
		if parentKind == KindAll && c.Kind == KindTrue {
			continue
		}
		kept = append(kept, c)
	}
	return kept, false
}

// propagateConstants implements "constant propagation under All": for
// every Atom(x,k) sibling, apply AssumeItem(x,k) to every other
// compound sibling, re-simplifying it, run to fixpoint.
func propagateConstants(children []Requirement) []Requirement {
	for {
		var facts []WeightedItem
		for _, c := range children {
			if c.Kind == KindAtom {
				facts = append(facts, WeightedItem{Item: c.Item, Weight: c.Count})
			}
		}
		if len(facts) == 0 {
			return children
		}
		changed := false
		next := make([]Requirement, len(children))
		for i, c := range children {
			nc := c
			if c.Kind == KindAll || c.Kind == KindAny {
				for _, f := range facts {
					nc = AssumeItem(nc, f.Item, f.Weight)
				}
				nc = Simplify(nc)
			}
			next[i] = nc
			if !nc.Equal(c) {
				changed = true
			}
		}
		if !changed {
			return children
		}
		children = next
	}
}

// subsumeToFixpoint applies the subsumption pass: for every literal
// Any child D among the siblings, any OTHER child that contains, as a
// nested Any node, a superset of D's elements is replaced by True
// there (the outer All already implies D). Repeated until stable.
func subsumeToFixpoint(children []Requirement) []Requirement {
	for {
		var disjunctions [][]Requirement
		for _, c := range children {
			if c.Kind == KindAny {
				disjunctions = append(disjunctions, c.Children)
			}
		}
		if len(disjunctions) == 0 {
			return children
		}
		changed := false
		next := append([]Requirement(nil), children...)
		for _, d := range disjunctions {
			for i, c := range next {
				if c.Kind == KindAny && compareChildren(c.Children, d) == 0 {
					continue // don't subsume a literal sibling against itself
				}
				nc, ch := subsumeOnce(c, d)
				if ch {
					next[i] = nc
					changed = true
				}
			}
		}
		if !changed {
			return children
		}
		children = next
	}
}

// subsumeOnce replaces, within node, any nested Any whose element set
// is a superset of d with True, re-simplifying enclosing nodes so the
// replacement collapses correctly (True absorbed by All, True
// short-circuiting Any).
func subsumeOnce(node Requirement, d []Requirement) (Requirement, bool) {
	switch node.Kind {
	case KindAny:
		if containsAll(node.Children, d) {
			return True(), true
		}
		return subsumeChildren(node, d)
	case KindAll:
		return subsumeChildren(node, d)
	default:
		return node, false
	}
}

func subsumeChildren(node Requirement, d []Requirement) (Requirement, bool) {
	changed := false
	newChildren := make([]Requirement, len(node.Children))
	for i, c := range node.Children {
		nc, ch := subsumeOnce(c, d)
		newChildren[i] = nc
		changed = changed || ch
	}
	if !changed {
		return node, false
	}
	return Simplify(Requirement{Kind: node.Kind, Children: newChildren}), true
}

// containsAll reports whether every element of needle (sorted, deduped)
// is present in haystack (sorted, deduped).
func containsAll(haystack, needle []Requirement) bool {
	for _, n := range needle {
		found := false
		for _, h := range haystack {
			if compare(h, n) == 0 {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
