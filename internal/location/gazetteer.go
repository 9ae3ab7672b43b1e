// Package location resolves an article's text to a place string using a
// two-level ordered gazetteer: subdivision first, then country, with
// "Global" as the fallback.
package location

import (
	_ "embed"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

//go:embed data/gazetteer.yaml
var gazetteerYAML []byte

// Subdivision is a state/region with the surface forms that identify it
// (the region name itself plus major cities).
type Subdivision struct {
	Name     string   `yaml:"name"`
	Variants []string `yaml:"variants"`
}

// Country carries its own surface forms (official name, demonym,
// abbreviation) plus zero or more subdivisions.
type Country struct {
	Name         string        `yaml:"name"`
	Variants     []string      `yaml:"variants"`
	Subdivisions []Subdivision `yaml:"subdivisions"`
}

// Gazetteer is the full ordered lookup table. Matching is first-hit-wins
// in declaration order, so the YAML sequence order is part of the
// contract; never load this into a map.
type Gazetteer struct {
	Countries []Country `yaml:"countries"`
}

// LoadGazetteer decodes the embedded gazetteer.
func LoadGazetteer() (*Gazetteer, error) {
	return parseGazetteer(gazetteerYAML)
}

// ParseGazetteer decodes a gazetteer from an external source, for
// deployments that override the built-in table.
func ParseGazetteer(r io.Reader) (*Gazetteer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return parseGazetteer(data)
}

func parseGazetteer(data []byte) (*Gazetteer, error) {
	var g Gazetteer
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("decode gazetteer: %w", err)
	}
	if len(g.Countries) == 0 {
		return nil, fmt.Errorf("gazetteer has no countries")
	}
	return &g, nil
}
