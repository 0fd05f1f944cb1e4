// Package allocator implements the assumed-fill placement state
// machine: a randomized, reachability-preserving loop that decides
// which item to place next and where, while maintaining the invariant
// that every location in its open frontier is currently reachable.
//
// An Allocator owns all of its mutable state: the remaining item pool,
// the open/closed location frontier, and a live, progressively-reduced
// copy of every flag's and closed location's requirement. The World it
// was built from stays read-only and is never mutated.
package allocator
