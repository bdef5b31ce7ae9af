// Package feeds holds the static feed-source catalog. Sources are fixed,
// source-code-level configuration: the YAML table is embedded at build time
// and is not reloaded at runtime.
package feeds

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"advisory-news/internal/domain/entity"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Group is one category's slice of the catalog, in declaration order.
type Group struct {
	Category entity.Category
	Sources  []entity.FeedSource
}

// catalogFile mirrors the YAML layout. Categories are explicit fields so
// iteration order stays fixed rather than depending on map ordering.
type catalogFile struct {
	Immigration []entity.FeedSource `yaml:"immigration"`
	Tax         []entity.FeedSource `yaml:"tax"`
	Market      []entity.FeedSource `yaml:"market"`
}

// Load parses the embedded catalog and returns the sources grouped by
// category. Every entry is validated; a malformed catalog is a build-time
// mistake and fails loudly here rather than mid-run.
func Load() ([]Group, error) {
	return parse(catalogYAML)
}

func parse(data []byte) ([]Group, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse feed catalog: %w", err)
	}

	groups := []Group{
		{Category: entity.CategoryImmigration, Sources: file.Immigration},
		{Category: entity.CategoryTax, Sources: file.Tax},
		{Category: entity.CategoryMarket, Sources: file.Market},
	}

	for gi := range groups {
		for si := range groups[gi].Sources {
			src := &groups[gi].Sources[si]
			src.Category = groups[gi].Category
			if err := src.Validate(); err != nil {
				return nil, fmt.Errorf("catalog entry %q (%s): %w", src.Name, groups[gi].Category, err)
			}
		}
	}

	return groups, nil
}

// CountSources returns the total number of sources across all groups.
func CountSources(groups []Group) int {
	total := 0
	for _, g := range groups {
		total += len(g.Sources)
	}
	return total
}
