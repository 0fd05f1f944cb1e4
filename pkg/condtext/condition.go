package condtext

import "github.com/mdsherry/randomizer/pkg/ids"

// ConditionKind identifies which shape a resolved Condition holds.
// Unlike require.Requirement, a Condition may still reference a flag
// or location by id; inlining those into a pure item requirement is
// WorldBuilder's job.
type ConditionKind uint8

const (
	CondTrue ConditionKind = iota
	CondItem
	CondFlag
	CondLocation
	CondParameter
	CondAtLeast
	CondAll
	CondAny
)

// WeightedRef is one (item, weight) term of a resolved `(+N, ...)` group.
type WeightedRef struct {
	Item   ids.ItemID
	Weight int
}

// Condition is the resolved, but not yet inlined, form of a
// requirements text: names have been looked up and turned into ids,
// but Flag and Location references still point at other definitions
// rather than their own resolved requirements.
type Condition struct {
	Kind      ConditionKind
	Item      ids.ItemID
	Count     int
	Flag      ids.FlagID
	Location  ids.LocationID
	Parameter string
	Threshold int
	Terms     []WeightedRef
	Children  []Condition
}
