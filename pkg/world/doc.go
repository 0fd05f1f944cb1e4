// Package world assembles item, flag, and location definitions into an
// immutable World: a two-phase register/resolve builder, plus YAML
// ingestion of a world file and the allocator's configuration knobs.
//
// Registration accepts parsed requirements text (condtext.Term); Build
// resolves each into a Condition tree (see pkg/condtext) that may still
// reference flags and locations by id, then inlines every such
// reference into a pure item ItemRequirement, memoizing shared
// sub-expressions and rejecting cyclic references.
package world
