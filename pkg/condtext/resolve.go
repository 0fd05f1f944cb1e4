package condtext

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mdsherry/randomizer/pkg/ids"
)

// ResolveError reports a name that couldn't be resolved against a
// world's item/flag/location/parameter tables: an external parse
// error, as distinct from a malformed-grammar error.
type ResolveError struct {
	Reason string
	Name   string
}

func (e *ResolveError) Error() string { return fmt.Sprintf("condtext: %s: %s", e.Reason, e.Name) }

func errUnknownItem(name string) error      { return &ResolveError{"unknown item", name} }
func errUnknownFlag(name string) error      { return &ResolveError{"unknown flag", name} }
func errUnknownLocation(name string) error  { return &ResolveError{"unknown location", name} }
func errUnknownParameter(name string) error { return &ResolveError{"unknown parameter", name} }
func errUnrecognizedName(name string) error {
	return &ResolveError{"name is not an item, flag, or location", name}
}
func errAmbiguousName(name string) error {
	return &ResolveError{"name was not unique; qualify with Items., Helpers., Locations. or Parameters.", name}
}
func errThresholdNeedsItems(name string) error {
	return &ResolveError{"threshold expressions require item literals, not more complex terms", name}
}

// Resolver looks names up against a world's symbol tables. *ids.Registry
// alone is not enough because an unqualified bare name (no "Items."/
// "Helpers."/"Locations." prefix) must be checked against every
// namespace to detect ambiguity, and Parameters are boolean config
// knobs rather than registry entries.
type Resolver interface {
	ResolveItem(name string) (ids.ItemID, bool)
	ResolveFlag(name string) (ids.FlagID, bool)
	ResolveLocation(name string) (ids.LocationID, bool)
	ResolveParameter(name string) bool
}

// Resolve walks a parsed Term tree, looking up every literal against
// res, and returns the resolved (but not yet inlined) Condition.
func Resolve(t Term, res Resolver) (Condition, error) {
	return resolveTerm(t.t, res)
}

func resolveTerm(t term, res Resolver) (Condition, error) {
	switch t.kind {
	case termLit:
		return resolveLit(t.lit, res)
	case termAnd:
		children, err := resolveChildren(t.children, res)
		if err != nil {
			return Condition{}, err
		}
		return Condition{Kind: CondAll, Children: children}, nil
	case termOr:
		children, err := resolveChildren(t.children, res)
		if err != nil {
			return Condition{}, err
		}
		return Condition{Kind: CondAny, Children: children}, nil
	case termCount:
		terms, err := resolveThresholdTerms(t.children, res)
		if err != nil {
			return Condition{}, err
		}
		return Condition{Kind: CondAtLeast, Threshold: t.threshold, Terms: terms}, nil
	default:
		return Condition{Kind: CondTrue}, nil
	}
}

func resolveChildren(raw []term, res Resolver) ([]Condition, error) {
	out := make([]Condition, len(raw))
	for i, c := range raw {
		rc, err := resolveTerm(c, res)
		if err != nil {
			return nil, err
		}
		out[i] = rc
	}
	return out, nil
}

func resolveLit(s string, res Resolver) (Condition, error) {
	if s == "" {
		return Condition{Kind: CondTrue}, nil
	}
	switch {
	case strings.HasPrefix(s, "Items."):
		return resolveItem(strings.TrimPrefix(s, "Items."), res)
	case strings.HasPrefix(s, "Helpers."):
		name := strings.TrimPrefix(s, "Helpers.")
		id, ok := res.ResolveFlag(name)
		if !ok {
			return Condition{}, errUnknownFlag(name)
		}
		return Condition{Kind: CondFlag, Flag: id}, nil
	case strings.HasPrefix(s, "Locations."):
		name := strings.TrimPrefix(s, "Locations.")
		id, ok := res.ResolveLocation(name)
		if !ok {
			return Condition{}, errUnknownLocation(name)
		}
		return Condition{Kind: CondLocation, Location: id}, nil
	case strings.HasPrefix(s, "Parameters."):
		name := strings.TrimPrefix(s, "Parameters.")
		if !res.ResolveParameter(name) {
			return Condition{}, errUnknownParameter(name)
		}
		return Condition{Kind: CondParameter, Parameter: name}, nil
	default:
		return resolveBareName(s, res)
	}
}

// resolveBareName mirrors gen_req2's unprefixed-literal handling: try
// every namespace and accept the result only if exactly one matched.
func resolveBareName(s string, res Resolver) (Condition, error) {
	_, itemOK := res.ResolveItem(itemNameOf(s))
	flag, flagOK := res.ResolveFlag(s)
	loc, locOK := res.ResolveLocation(s)
	isParam := res.ResolveParameter(s)

	matches := boolCount(itemOK, flagOK, locOK, isParam)
	switch {
	case matches == 0:
		return Condition{}, errUnrecognizedName(s)
	case matches > 1:
		return Condition{}, errAmbiguousName(s)
	case itemOK:
		return resolveItem(s, res)
	case flagOK:
		return Condition{Kind: CondFlag, Flag: flag}, nil
	case locOK:
		return Condition{Kind: CondLocation, Location: loc}, nil
	default:
		return Condition{Kind: CondParameter, Parameter: s}, nil
	}
}

func boolCount(bs ...bool) int {
	n := 0
	for _, b := range bs {
		if b {
			n++
		}
	}
	return n
}

// resolveItem handles the `Name[*count]` item literal form.
func resolveItem(s string, res Resolver) (Condition, error) {
	name := itemNameOf(s)
	id, ok := res.ResolveItem(name)
	if !ok {
		return Condition{}, errUnknownItem(name)
	}
	count := 1
	if idx := strings.IndexByte(s, '*'); idx >= 0 {
		if n, err := strconv.Atoi(strings.TrimSpace(s[idx+1:])); err == nil && n > 0 {
			count = n
		}
	}
	return Condition{Kind: CondItem, Item: id, Count: count}, nil
}

func itemNameOf(s string) string {
	if idx := strings.IndexByte(s, '*'); idx >= 0 {
		return s[:idx]
	}
	return s
}

func resolveThresholdTerms(raw []term, res Resolver) ([]WeightedRef, error) {
	out := make([]WeightedRef, 0, len(raw))
	for _, c := range raw {
		if c.kind != termLit {
			return nil, errThresholdNeedsItems(fmt.Sprintf("%v", c.kind))
		}
		lit := strings.TrimPrefix(c.lit, "Items.")
		name := lit
		weight := 1
		if idx := strings.IndexByte(lit, '*'); idx >= 0 {
			name = lit[:idx]
			if n, err := strconv.Atoi(strings.TrimSpace(lit[idx+1:])); err == nil && n > 0 {
				weight = n
			}
		}
		id, ok := res.ResolveItem(name)
		if !ok {
			return nil, errUnknownItem(name)
		}
		out = append(out, WeightedRef{Item: id, Weight: weight})
	}
	return out, nil
}
