// Package condtext parses the requirements text grammar used in world
// files -- `Items.Name[*count]`, `Helpers.Name`, `Locations.Name`,
// `Parameters.Name`, `(|...)` disjunction, `(&...)` conjunction, and
// `(+N, ...)` weighted threshold -- and resolves the parsed names
// against a world's item/flag/location/parameter tables.
//
// Parsing and resolving are kept as two separate passes, mirroring
// WorldBuilder's own two-phase register/resolve split: ParseCondition needs no
// symbol table at all, while Resolve needs every name already interned.
// Resolve produces a Condition tree that may still reference flags and
// locations by id; inlining those references into a pure item
// Requirement is WorldBuilder's job, not this package's.
package condtext
