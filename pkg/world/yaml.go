package world

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mdsherry/randomizer/pkg/condtext"
)

// WorldFile is the on-disk YAML shape: three ordered
// sections, item_pool, flags, and locations.
type WorldFile struct {
	ItemPool  []itemRecord     `yaml:"item_pool"`
	Flags     []flagRecord     `yaml:"flags"`
	Locations []locationRecord `yaml:"locations"`
}

type itemRecord struct {
	Name         string `yaml:"name"`
	Category     string `yaml:"category"`
	Restriction  string `yaml:"restriction,omitempty"`
	Count        int    `yaml:"count,omitempty"`
	Weight       int    `yaml:"weight,omitempty"`
	ShowInGraph  *bool  `yaml:"show_in_graph,omitempty"`
	Requirements string `yaml:"requirements,omitempty"`
}

type flagRecord struct {
	Name         string `yaml:"name"`
	Requirements string `yaml:"requirements,omitempty"`
}

type locationRecord struct {
	Name         string `yaml:"name"`
	Category     string `yaml:"category"`
	Restriction  string `yaml:"restriction,omitempty"`
	Requirements string `yaml:"requirements,omitempty"`
}

func parseCategory(s string) (Category, error) {
	switch s {
	case "", "Minor":
		return CategoryMinor, nil
	case "Major":
		return CategoryMajor, nil
	case "DungeonItem":
		return CategoryDungeonItem, nil
	default:
		return 0, fmt.Errorf("world: unknown category %q", s)
	}
}

// LoadWorldFile reads, parses, and builds a World from a YAML file on
// disk. parameters supplies the boolean value of every Parameters.Name
// reference the requirements text may use.
func LoadWorldFile(path string, parameters map[string]bool) (*World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("world: reading world file: %w", err)
	}
	return LoadWorldFileFromBytes(data, parameters)
}

// LoadWorldFileFromBytes parses and builds a World from YAML held in memory.
func LoadWorldFileFromBytes(data []byte, parameters map[string]bool) (*World, error) {
	var wf WorldFile
	if err := yaml.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("world: parsing world file YAML: %w", err)
	}

	b := NewBuilder(parameters)

	for _, it := range wf.ItemPool {
		cat, err := parseCategory(it.Category)
		if err != nil {
			return nil, fmt.Errorf("world: item %q: %w", it.Name, err)
		}
		restriction := NoRestriction
		if it.Restriction != "" {
			restriction = b.Registry().InternRestriction(it.Restriction)
		}
		count, weight := it.Count, it.Weight
		if count == 0 {
			count = 1
		}
		if weight == 0 {
			weight = 1
		}
		showInGraph := false
		if it.ShowInGraph != nil {
			showInGraph = *it.ShowInGraph
		}
		cond := condtext.ParseCondition(it.Requirements)
		if _, err := b.RegisterItem(it.Name, cat, restriction, count, weight, showInGraph, cond); err != nil {
			return nil, err
		}
	}

	for _, f := range wf.Flags {
		cond := condtext.ParseCondition(f.Requirements)
		if _, err := b.RegisterFlag(f.Name, cond); err != nil {
			return nil, err
		}
	}

	for _, l := range wf.Locations {
		cat, err := parseCategory(l.Category)
		if err != nil {
			return nil, fmt.Errorf("world: location %q: %w", l.Name, err)
		}
		restriction := NoRestriction
		if l.Restriction != "" {
			restriction = b.Registry().InternRestriction(l.Restriction)
		}
		cond := condtext.ParseCondition(l.Requirements)
		if _, err := b.RegisterLocation(l.Name, cat, restriction, cond); err != nil {
			return nil, err
		}
	}

	return b.Build()
}
