package world

import (
	"github.com/mdsherry/randomizer/pkg/ids"
	"github.com/mdsherry/randomizer/pkg/require"
)

// Category classifies an item or location, per the wire
// format: Minor filler, Major progression-capable, or DungeonItem (a
// restriction-tagged item/location, such as a small key confined to
// one dungeon).
type Category uint8

const (
	CategoryMinor Category = iota
	CategoryMajor
	CategoryDungeonItem
)

func (c Category) String() string {
	switch c {
	case CategoryMinor:
		return "Minor"
	case CategoryMajor:
		return "Major"
	case CategoryDungeonItem:
		return "DungeonItem"
	default:
		return "Unknown"
	}
}

// NoRestriction is the sentinel RestrictionID meaning "carries no
// restriction tag".
const NoRestriction ids.RestrictionID = -1

// ItemDef is an immutable, frozen item definition.
type ItemDef struct {
	ID          ids.ItemID
	Name        string
	Category    Category
	Restriction ids.RestrictionID
	Count       int
	Weight      int
	ShowInGraph bool
	// Requirement is the item's own placement prerequisite: some items
	// are only placeable once other progress has been made. Defaults to
	// True.
	Requirement require.Requirement
}

// FlagDef is an immutable, frozen flag definition.
type FlagDef struct {
	ID          ids.FlagID
	Name        string
	Requirement require.Requirement
}

// LocationDef is an immutable, frozen location definition.
type LocationDef struct {
	ID          ids.LocationID
	Name        string
	Category    Category
	Restriction ids.RestrictionID
	Requirement require.Requirement
}

// World is the frozen output of WorldBuilder.Build: read-only
// collections of item, flag, and location definitions, indexed by id.
type World struct {
	Registry  *ids.Registry
	Items     []ItemDef
	Flags     []FlagDef
	Locations []LocationDef
}

// Item looks up an item definition by id.
func (w *World) Item(id ids.ItemID) ItemDef { return w.Items[id] }

// Flag looks up a flag definition by id.
func (w *World) Flag(id ids.FlagID) FlagDef { return w.Flags[id] }

// Location looks up a location definition by id.
func (w *World) Location(id ids.LocationID) LocationDef { return w.Locations[id] }

// Pool expands every item definition's Count into that many occurrences,
// producing the initial item pool the allocator distributes.
func (w *World) Pool() []ids.ItemID {
	var pool []ids.ItemID
	for _, item := range w.Items {
		for i := 0; i < item.Count; i++ {
			pool = append(pool, item.ID)
		}
	}
	return pool
}
