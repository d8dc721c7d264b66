package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/skincraft/tradeupbot/internal/domain"
)

// entrySpec is the YAML shape of one catalog entry.
type entrySpec struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Tier        int      `yaml:"tier"`
	MinFloat    float64  `yaml:"min_float"`
	MaxFloat    float64  `yaml:"max_float"`
	Collections []string `yaml:"collections"`
	StatTrak    bool     `yaml:"stattrak"`
}

// catalogFile is the root YAML document.
type catalogFile struct {
	Entries []entrySpec `yaml:"entries"`
}

// LoadFile reads and validates a catalog YAML file and returns the built
// index. The file is read once at startup; the index is read-only
// thereafter.
func LoadFile(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}

	entries := make([]domain.CatalogEntry, 0, len(file.Entries))
	seen := make(map[string]bool, len(file.Entries))
	for i, spec := range file.Entries {
		if err := validateSpec(spec); err != nil {
			return nil, fmt.Errorf("catalog: entry %d (%s): %w", i, spec.ID, err)
		}
		if seen[spec.ID] {
			return nil, fmt.Errorf("catalog: entry %d: duplicate id %q", i, spec.ID)
		}
		seen[spec.ID] = true
		entries = append(entries, domain.CatalogEntry{
			ID:          spec.ID,
			Name:        spec.Name,
			Tier:        spec.Tier,
			MinFloat:    spec.MinFloat,
			MaxFloat:    spec.MaxFloat,
			Collections: spec.Collections,
			StatTrak:    spec.StatTrak,
		})
	}
	return NewIndex(entries), nil
}

func validateSpec(spec entrySpec) error {
	if spec.ID == "" {
		return fmt.Errorf("missing id")
	}
	if spec.Name == "" {
		return fmt.Errorf("missing name")
	}
	if spec.Tier < 0 {
		return fmt.Errorf("tier must be >= 0, got %d", spec.Tier)
	}
	if spec.MinFloat < 0 || spec.MaxFloat > 1 {
		return fmt.Errorf("float range [%g,%g] outside [0,1]", spec.MinFloat, spec.MaxFloat)
	}
	if spec.MinFloat > spec.MaxFloat {
		return fmt.Errorf("min_float %g exceeds max_float %g", spec.MinFloat, spec.MaxFloat)
	}
	if len(spec.Collections) == 0 {
		return fmt.Errorf("entry belongs to no collection")
	}
	return nil
}
