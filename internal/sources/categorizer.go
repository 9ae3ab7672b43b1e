// Package sources buckets news outlets into public / neutral / political
// using a static outlet table with heuristic fallbacks.
package sources

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/AhmadRaza24h/Veritas/internal/domain"
	"github.com/AhmadRaza24h/Veritas/pkg/textutil"
	"gopkg.in/yaml.v3"
)

//go:embed data/outlets.yaml
var outletsYAML []byte

// Outlet is one table row: a known outlet id/name surface form and its
// category.
type Outlet struct {
	Key      string                `yaml:"key"`
	Category domain.SourceCategory `yaml:"category"`
}

type table struct {
	Outlets []Outlet `yaml:"outlets"`
}

// Categorizer resolves outlet ids/names to a category. Stateless after
// construction, safe for concurrent use.
type Categorizer struct {
	exact map[string]domain.SourceCategory

	// ordered keeps declaration order for the substring pass; with
	// overlapping keys the first declared one wins.
	ordered []Outlet
}

// NewCategorizer loads the embedded outlet table. Table keys are
// normalized the same way lookup input is, so dotted domains ("bbc.co.uk")
// and display names ("BBC News") meet in one key space.
func NewCategorizer() (*Categorizer, error) {
	var tbl table
	if err := yaml.Unmarshal(outletsYAML, &tbl); err != nil {
		return nil, fmt.Errorf("decode outlet table: %w", err)
	}

	c := &Categorizer{exact: make(map[string]domain.SourceCategory, len(tbl.Outlets))}
	for _, o := range tbl.Outlets {
		if !o.Category.Valid() {
			return nil, fmt.Errorf("outlet %q has unknown category %q", o.Key, o.Category)
		}
		key := textutil.Normalize(o.Key)
		if key == "" {
			continue
		}
		if _, dup := c.exact[key]; !dup {
			c.exact[key] = o.Category
			c.ordered = append(c.ordered, Outlet{Key: key, Category: o.Category})
		}
	}
	return c, nil
}

// Categorize maps an outlet to its category: exact id match, exact name
// match, substring containment, then the gov/press heuristic, defaulting
// to neutral.
func (c *Categorizer) Categorize(outletID, outletName string) domain.SourceCategory {
	nid := textutil.Normalize(outletID)
	nname := textutil.Normalize(outletName)

	if nid != "" {
		if cat, ok := c.exact[nid]; ok {
			return cat
		}
	}
	if nname != "" {
		if cat, ok := c.exact[nname]; ok {
			return cat
		}
	}

	for _, o := range c.ordered {
		if strings.Contains(nname, o.Key) || strings.Contains(nid, o.Key) {
			return o.Category
		}
	}

	if strings.Contains(nname, "gov") || strings.Contains(nid, "gov") ||
		strings.Contains(nname, "press") || strings.Contains(nid, "press") {
		return domain.SourceCategoryPolitical
	}

	return domain.SourceCategoryNeutral
}
