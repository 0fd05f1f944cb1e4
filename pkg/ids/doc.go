// Package ids interns item, flag, and location names behind small
// dense integer handles, with reverse lookup back to the original name.
// Every other package addresses items, flags, and locations by these
// handles rather than by string, to keep requirement trees and
// allocator bookkeeping cheap to compare, sort, and hash.
package ids
