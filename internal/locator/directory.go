package locator

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed stores.yaml
var defaultDirectory []byte

// Store is a directory entry. Location is nil for stores without a fixed
// address; those rank by FallbackMiles.
type Store struct {
	ID            string      `yaml:"id" json:"id"`
	Name          string      `yaml:"name" json:"name"`
	Chain         string      `yaml:"chain" json:"chain"`
	Location      *Coordinate `yaml:"location" json:"location,omitempty"`
	Address       string      `yaml:"address" json:"address"`
	Rating        float64     `yaml:"rating" json:"rating"`
	Delivery      bool        `yaml:"delivery" json:"delivery_available"`
	FallbackMiles float64     `yaml:"fallback_miles" json:"-"`
}

// Region is a group of stores around a reference coordinate.
type Region struct {
	Code   string     `yaml:"code"`
	Name   string     `yaml:"name"`
	Center Coordinate `yaml:"center"`
	Stores []Store    `yaml:"stores"`
}

// Directory is the static, pre-loaded store list.
type Directory struct {
	DefaultRegion string   `yaml:"default_region"`
	Regions       []Region `yaml:"regions"`
}

// Region returns the region with the given code.
func (d *Directory) Region(code string) (Region, bool) {
	for _, r := range d.Regions {
		if r.Code == code {
			return r, true
		}
	}
	return Region{}, false
}

// ParseDirectory decodes and validates a YAML store directory.
func ParseDirectory(data []byte) (*Directory, error) {
	var d Directory
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse store directory: %w", err)
	}
	if len(d.Regions) == 0 {
		return nil, fmt.Errorf("store directory has no regions")
	}

	seen := make(map[string]bool)
	for _, r := range d.Regions {
		if r.Code == "" {
			return nil, fmt.Errorf("store directory has a region without a code")
		}
		if seen[r.Code] {
			return nil, fmt.Errorf("duplicate region %q", r.Code)
		}
		seen[r.Code] = true
		if !r.Center.Valid() {
			return nil, fmt.Errorf("region %q has an invalid center", r.Code)
		}
		for _, s := range r.Stores {
			if s.Location != nil && !s.Location.Valid() {
				return nil, fmt.Errorf("store %q has an invalid location", s.ID)
			}
			if s.Location == nil && !(s.FallbackMiles > 0) {
				return nil, fmt.Errorf("store %q needs a location or a positive fallback_miles", s.ID)
			}
		}
	}

	if d.DefaultRegion == "" {
		d.DefaultRegion = d.Regions[0].Code
	}
	if !seen[d.DefaultRegion] {
		return nil, fmt.Errorf("default region %q is not defined", d.DefaultRegion)
	}
	return &d, nil
}

// DefaultDirectory returns the built-in directory.
func DefaultDirectory() *Directory {
	d, err := ParseDirectory(defaultDirectory)
	if err != nil {
		panic(fmt.Sprintf("embedded store directory is invalid: %v", err))
	}
	return d
}
