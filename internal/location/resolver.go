package location

import (
	"strings"

	"github.com/AhmadRaza24h/Veritas/internal/domain"
	"github.com/AhmadRaza24h/Veritas/pkg/textutil"
)

// Resolver matches article text against the gazetteer. It is stateless
// after construction and safe for concurrent use.
type Resolver struct {
	countries []country
}

type country struct {
	name         string
	variants     []string
	subdivisions []subdivision
}

type subdivision struct {
	name     string
	variants []string
}

// NewResolver builds a resolver with variants pre-lowered for the
// case-insensitive scans.
func NewResolver(g *Gazetteer) *Resolver {
	r := &Resolver{countries: make([]country, 0, len(g.Countries))}
	for _, c := range g.Countries {
		rc := country{name: c.Name, variants: lowerAll(c.Variants)}
		for _, s := range c.Subdivisions {
			rc.subdivisions = append(rc.subdivisions, subdivision{
				name:     s.Name,
				variants: lowerAll(s.Variants),
			})
		}
		r.countries = append(r.countries, rc)
	}
	return r
}

// Resolve scans title+description and returns "Subdivision, Country", a
// bare country name, or "Global". Subdivisions anywhere win over any
// country-level match; within each pass the first declared hit wins.
func (r *Resolver) Resolve(raw domain.RawArticle) string {
	text := strings.ToLower(raw.Title + " " + raw.Description)

	for _, c := range r.countries {
		for _, s := range c.subdivisions {
			for _, v := range s.variants {
				if textutil.ContainsWord(text, v) {
					return s.name + ", " + c.name
				}
			}
		}
	}

	for _, c := range r.countries {
		for _, v := range c.variants {
			if textutil.ContainsWord(text, v) {
				return c.name
			}
		}
	}

	return domain.LocationGlobal
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
