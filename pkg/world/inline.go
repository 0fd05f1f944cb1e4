package world

import (
	"fmt"

	"github.com/mdsherry/randomizer/pkg/condtext"
	"github.com/mdsherry/randomizer/pkg/require"
)

type refKind uint8

const (
	refFlag refKind = iota
	refLocation
)

// inliner performs WorldBuilder's resolve phase: walk every Condition,
// substituting FlagRef/LocationRef with that definition's own inlined
// requirement, memoizing results and detecting cycles.
type inliner struct {
	b *WorldBuilder

	flagConds []condtext.Condition
	locConds  []condtext.Condition

	flagMemo []*require.Requirement
	locMemo  []*require.Requirement
	visiting map[[2]int]bool
}

// Build resolves every registered item, flag, and location requirement
// into a pure item ItemRequirement, inlining flag/location references
// and rejecting cycles.
func (b *WorldBuilder) Build() (*World, error) {
	in := &inliner{
		b:        b,
		flagMemo: make([]*require.Requirement, len(b.flags)),
		locMemo:  make([]*require.Requirement, len(b.locations)),
		visiting: map[[2]int]bool{},
	}

	in.flagConds = make([]condtext.Condition, len(b.flags))
	for i, f := range b.flags {
		c, err := condtext.Resolve(f.cond, b)
		if err != nil {
			return nil, fmt.Errorf("world: resolving flag %q: %w", f.name, err)
		}
		in.flagConds[i] = c
	}
	in.locConds = make([]condtext.Condition, len(b.locations))
	for i, l := range b.locations {
		c, err := condtext.Resolve(l.cond, b)
		if err != nil {
			return nil, fmt.Errorf("world: resolving location %q: %w", l.name, err)
		}
		in.locConds[i] = c
	}

	flags := make([]FlagDef, len(b.flags))
	for i, f := range b.flags {
		req, err := in.resolveFlag(int(f.id))
		if err != nil {
			return nil, fmt.Errorf("world: flag %q: %w", f.name, err)
		}
		flags[i] = FlagDef{ID: f.id, Name: f.name, Requirement: req}
	}

	locations := make([]LocationDef, len(b.locations))
	for i, l := range b.locations {
		req, err := in.resolveLocation(int(l.id))
		if err != nil {
			return nil, fmt.Errorf("world: location %q: %w", l.name, err)
		}
		locations[i] = LocationDef{ID: l.id, Name: l.name, Category: l.category, Restriction: l.restriction, Requirement: req}
	}

	items := make([]ItemDef, len(b.items))
	for i, it := range b.items {
		cond, err := condtext.Resolve(it.cond, b)
		if err != nil {
			return nil, fmt.Errorf("world: resolving item %q: %w", it.name, err)
		}
		req, err := in.inline(cond)
		if err != nil {
			return nil, fmt.Errorf("world: item %q: %w", it.name, err)
		}
		items[i] = ItemDef{
			ID: it.id, Name: it.name, Category: it.category, Restriction: it.restriction,
			Count: it.count, Weight: it.weight, ShowInGraph: it.showInGraph,
			Requirement: require.Simplify(req),
		}
	}

	return &World{Registry: b.reg, Items: items, Flags: flags, Locations: locations}, nil
}

func (in *inliner) resolveFlag(id int) (require.Requirement, error) {
	if in.flagMemo[id] != nil {
		return *in.flagMemo[id], nil
	}
	key := [2]int{int(refFlag), id}
	if in.visiting[key] {
		return require.Requirement{}, fmt.Errorf("world: cycle detected through flag %q", in.b.flags[id].name)
	}
	in.visiting[key] = true
	req, err := in.inline(in.flagConds[id])
	delete(in.visiting, key)
	if err != nil {
		return require.Requirement{}, err
	}
	req = require.Simplify(req)
	in.flagMemo[id] = &req
	return req, nil
}

func (in *inliner) resolveLocation(id int) (require.Requirement, error) {
	if in.locMemo[id] != nil {
		return *in.locMemo[id], nil
	}
	key := [2]int{int(refLocation), id}
	if in.visiting[key] {
		return require.Requirement{}, fmt.Errorf("world: cycle detected through location %q", in.b.locations[id].name)
	}
	in.visiting[key] = true
	req, err := in.inline(in.locConds[id])
	delete(in.visiting, key)
	if err != nil {
		return require.Requirement{}, err
	}
	req = require.Simplify(req)
	in.locMemo[id] = &req
	return req, nil
}

// inline walks a resolved Condition tree, substituting flag/location
// references with their own (possibly memoized) inlined requirement.
func (in *inliner) inline(c condtext.Condition) (require.Requirement, error) {
	switch c.Kind {
	case condtext.CondTrue:
		return require.True(), nil
	case condtext.CondItem:
		return require.Atom(c.Item, c.Count), nil
	case condtext.CondParameter:
		if in.b.parameters[c.Parameter] {
			return require.True(), nil
		}
		return require.Unattainable(), nil
	case condtext.CondFlag:
		return in.resolveFlag(int(c.Flag))
	case condtext.CondLocation:
		return in.resolveLocation(int(c.Location))
	case condtext.CondAtLeast:
		terms := make([]require.WeightedItem, len(c.Terms))
		for i, t := range c.Terms {
			terms[i] = require.WeightedItem{Item: t.Item, Weight: t.Weight}
		}
		return require.AtLeastOf(c.Threshold, terms...), nil
	case condtext.CondAll:
		children, err := in.inlineChildren(c.Children)
		if err != nil {
			return require.Requirement{}, err
		}
		return require.All(children...), nil
	case condtext.CondAny:
		children, err := in.inlineChildren(c.Children)
		if err != nil {
			return require.Requirement{}, err
		}
		return require.Any(children...), nil
	default:
		return require.Requirement{}, fmt.Errorf("world: unhandled condition kind %d", c.Kind)
	}
}

func (in *inliner) inlineChildren(raw []condtext.Condition) ([]require.Requirement, error) {
	out := make([]require.Requirement, len(raw))
	for i, c := range raw {
		r, err := in.inline(c)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}
