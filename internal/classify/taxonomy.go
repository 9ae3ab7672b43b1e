// Package classify assigns each article one label from a fixed incident
// taxonomy using override phrases and keyword scoring.
package classify

import (
	_ "embed"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

//go:embed data/taxonomy.yaml
var taxonomyYAML []byte

// Override is a high-confidence phrase set that short-circuits
// classification for one category.
type Override struct {
	Category string   `yaml:"category"`
	Phrases  []string `yaml:"phrases"`
}

// Category is one taxonomy label with its scoring keywords.
type Category struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// Taxonomy is the ordered rule table. Order matters: overrides are
// checked first-hit-wins and category declaration order breaks exact
// score ties, so this stays a sequence, not a map.
type Taxonomy struct {
	Overrides  []Override `yaml:"overrides"`
	Categories []Category `yaml:"categories"`
}

// LoadTaxonomy decodes the embedded taxonomy.
func LoadTaxonomy() (*Taxonomy, error) {
	return parseTaxonomy(taxonomyYAML)
}

// ParseTaxonomy decodes a taxonomy from an external source.
func ParseTaxonomy(r io.Reader) (*Taxonomy, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return parseTaxonomy(data)
}

func parseTaxonomy(data []byte) (*Taxonomy, error) {
	var tx Taxonomy
	if err := yaml.Unmarshal(data, &tx); err != nil {
		return nil, fmt.Errorf("decode taxonomy: %w", err)
	}
	if len(tx.Categories) == 0 {
		return nil, fmt.Errorf("taxonomy has no categories")
	}
	return &tx, nil
}

// Labels returns every category name in declaration order.
func (tx *Taxonomy) Labels() []string {
	labels := make([]string, len(tx.Categories))
	for i, c := range tx.Categories {
		labels[i] = c.Name
	}
	return labels
}
