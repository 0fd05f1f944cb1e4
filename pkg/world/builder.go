package world

import (
	"fmt"

	"github.com/mdsherry/randomizer/pkg/condtext"
	"github.com/mdsherry/randomizer/pkg/ids"
)

type pendingItem struct {
	id          ids.ItemID
	name        string
	category    Category
	restriction ids.RestrictionID
	count       int
	weight      int
	showInGraph bool
	cond        condtext.Term
}

type pendingFlag struct {
	id   ids.FlagID
	name string
	cond condtext.Term
}

type pendingLocation struct {
	id          ids.LocationID
	name        string
	category    Category
	restriction ids.RestrictionID
	cond        condtext.Term
}

// WorldBuilder implements a two-phase register/resolve assembly.
// Zero value is not usable; construct with NewBuilder.
type WorldBuilder struct {
	reg        *ids.Registry
	parameters map[string]bool

	items     []pendingItem
	flags     []pendingFlag
	locations []pendingLocation

	itemSeen     map[string]bool
	flagSeen     map[string]bool
	locationSeen map[string]bool
}

// NewBuilder creates an empty builder. parameters supplies the boolean
// value of every `Parameters.Name` reference a world file's requirements
// text may use; referencing an unlisted parameter name is a resolve error.
func NewBuilder(parameters map[string]bool) *WorldBuilder {
	if parameters == nil {
		parameters = map[string]bool{}
	}
	return &WorldBuilder{
		reg:          ids.NewRegistry(),
		parameters:   parameters,
		itemSeen:     map[string]bool{},
		flagSeen:     map[string]bool{},
		locationSeen: map[string]bool{},
	}
}

// Registry exposes the builder's intern table, so a world file loader
// or a test can intern restriction tags before registering the items
// and locations that carry them.
func (b *WorldBuilder) Registry() *ids.Registry { return b.reg }

// RegisterItem interns name and records an item definition, to be
// resolved once Build is called. cond is the item's own placement
// prerequisite (the zero Term means True).
func (b *WorldBuilder) RegisterItem(name string, category Category, restriction ids.RestrictionID, count, weight int, showInGraph bool, cond condtext.Term) (ids.ItemID, error) {
	if b.itemSeen[name] {
		return 0, fmt.Errorf("world: item %q registered twice", name)
	}
	b.itemSeen[name] = true
	if count < 1 {
		count = 1
	}
	if weight < 1 {
		weight = 1
	}
	id := b.reg.InternItem(name)
	b.items = append(b.items, pendingItem{
		id: id, name: name, category: category, restriction: restriction,
		count: count, weight: weight, showInGraph: showInGraph, cond: cond,
	})
	return id, nil
}

// RegisterFlag interns name and records a flag's requirement text, to be
// resolved once Build is called.
func (b *WorldBuilder) RegisterFlag(name string, cond condtext.Term) (ids.FlagID, error) {
	if b.flagSeen[name] {
		return 0, fmt.Errorf("world: flag %q registered twice", name)
	}
	b.flagSeen[name] = true
	id := b.reg.InternFlag(name)
	b.flags = append(b.flags, pendingFlag{id: id, name: name, cond: cond})
	return id, nil
}

// RegisterLocation interns name and records a location's requirement
// text, to be resolved once Build is called.
func (b *WorldBuilder) RegisterLocation(name string, category Category, restriction ids.RestrictionID, cond condtext.Term) (ids.LocationID, error) {
	if b.locationSeen[name] {
		return 0, fmt.Errorf("world: location %q registered twice", name)
	}
	b.locationSeen[name] = true
	id := b.reg.InternLocation(name)
	b.locations = append(b.locations, pendingLocation{id: id, name: name, category: category, restriction: restriction, cond: cond})
	return id, nil
}

// condtext.Resolver implementation, used by Build to resolve the names
// and parameter references in every registered requirement.

func (b *WorldBuilder) ResolveItem(name string) (ids.ItemID, bool) { return b.reg.LookupItem(name) }
func (b *WorldBuilder) ResolveFlag(name string) (ids.FlagID, bool) { return b.reg.LookupFlag(name) }
func (b *WorldBuilder) ResolveLocation(name string) (ids.LocationID, bool) {
	return b.reg.LookupLocation(name)
}
func (b *WorldBuilder) ResolveParameter(name string) bool {
	_, ok := b.parameters[name]
	return ok
}
