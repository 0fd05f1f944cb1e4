package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mdsherry/randomizer/pkg/allocator"
	"github.com/mdsherry/randomizer/pkg/world"
)

// ProgressLine formats a round snapshot as a single human-readable
// line, in the spirit of the original's per-round progress summary:
// how much pool remains, and how the open/closed frontier is split by
// category. The CLI's -verbose output uses the allocator's own
// per-placement log lines, not this function.
func ProgressLine(s allocator.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "round %d: pool=%d", s.Round, s.PoolRemaining)

	cats := make([]world.Category, 0, 3)
	seen := map[world.Category]bool{}
	for c := range s.OpenByCategory {
		if !seen[c] {
			seen[c] = true
			cats = append(cats, c)
		}
	}
	for c := range s.ClosedByCategory {
		if !seen[c] {
			seen[c] = true
			cats = append(cats, c)
		}
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })

	for _, c := range cats {
		fmt.Fprintf(&b, " %s(open=%d,closed=%d)", c, s.OpenByCategory[c], s.ClosedByCategory[c])
	}
	return b.String()
}
