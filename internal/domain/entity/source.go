package entity

import "fmt"

// Category is the fixed topic enumeration for feed sources and articles.
// A source's category is copied verbatim onto every article it produces.
type Category string

const (
	CategoryImmigration Category = "immigration"
	CategoryTax         Category = "tax"
	CategoryMarket      Category = "market"
)

// Categories lists all valid categories in iteration order.
func Categories() []Category {
	return []Category{CategoryImmigration, CategoryTax, CategoryMarket}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryImmigration, CategoryTax, CategoryMarket:
		return true
	}
	return false
}

// FeedSource is a configured RSS/Atom endpoint plus its topic metadata.
// Sources are static configuration; they are not persisted as mutable
// entities and are only edited in the catalog table shipped with the binary.
type FeedSource struct {
	Name     string   `yaml:"name"`
	URL      string   `yaml:"url"`
	Category Category `yaml:"-"`
	Tags     []string `yaml:"tags"`
}

// Validate checks that a catalog entry is usable.
func (s *FeedSource) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidSource)
	}
	if s.URL == "" {
		return fmt.Errorf("%w: url is required", ErrInvalidSource)
	}
	if !s.Category.Valid() {
		return fmt.Errorf("%w: invalid category %q", ErrInvalidSource, s.Category)
	}
	return nil
}
