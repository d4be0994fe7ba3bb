package domain

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Catalog is the ordered, immutable list of appointment types.
type Catalog struct {
	types []AppointmentType
}

type catalogFile struct {
	Types []AppointmentType `yaml:"types"`
}

// ParseCatalog decodes a catalog document.
func ParseCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(f.Types) == 0 {
		return nil, fmt.Errorf("catalog has no appointment types")
	}
	seen := make(map[AppointmentTypeKey]bool, len(f.Types))
	for _, t := range f.Types {
		if t.Key == "" || t.DurationMinutes <= 0 {
			return nil, fmt.Errorf("catalog entry %q: key and positive duration are required", t.Label)
		}
		if seen[t.Key] {
			return nil, fmt.Errorf("catalog entry %q declared twice", t.Key)
		}
		seen[t.Key] = true
	}
	return &Catalog{types: f.Types}, nil
}

var (
	defaultCatalog     *Catalog
	defaultCatalogOnce sync.Once
)

// DefaultCatalog returns the built-in catalog. It is parsed once per process.
func DefaultCatalog() *Catalog {
	defaultCatalogOnce.Do(func() {
		c, err := ParseCatalog(defaultCatalogYAML)
		if err != nil {
			panic(err)
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Types returns the catalog in match order.
func (c *Catalog) Types() []AppointmentType {
	out := make([]AppointmentType, len(c.types))
	copy(out, c.types)
	return out
}

// Lookup finds an entry by key.
func (c *Catalog) Lookup(key AppointmentTypeKey) (AppointmentType, bool) {
	for _, t := range c.types {
		if t.Key == key {
			return t, true
		}
	}
	return AppointmentType{}, false
}

// Menu returns the entries in the order offered when the user is asked to
// choose: consultation, follow-up, physical, specialist, then any others in
// catalog order.
func (c *Catalog) Menu() []AppointmentType {
	out := c.Types()
	sort.SliceStable(out, func(i, j int) bool {
		return menuRank(out[i].Key) < menuRank(out[j].Key)
	})
	return out
}

func menuRank(k AppointmentTypeKey) int {
	switch k {
	case TypeConsultation:
		return 0
	case TypeFollowUp:
		return 1
	case TypePhysical:
		return 2
	case TypeSpecialist:
		return 3
	}
	return 4
}
