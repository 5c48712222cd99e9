// Package pcb validates PCB builder specifications against the lab's
// option catalog and prices them.
package pcb

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Option is a named choice with a price multiplier.
type Option struct {
	ID         string  `yaml:"id" json:"id"`
	Name       string  `yaml:"name" json:"name"`
	Multiplier float64 `yaml:"multiplier" json:"multiplier"`
}

// LayerOption prices a copper layer count.
type LayerOption struct {
	Layers     int     `yaml:"layers" json:"layers"`
	Multiplier float64 `yaml:"multiplier" json:"multiplier"`
}

// CopperOption prices a copper weight.
type CopperOption struct {
	ID          string  `yaml:"id" json:"id"`
	Micrometers float64 `yaml:"micrometers" json:"micrometers"`
	Multiplier  float64 `yaml:"multiplier" json:"multiplier"`
}

// DimensionLimits bounds board width and height.
type DimensionLimits struct {
	MinMm float64 `yaml:"min_mm" json:"minMm"`
	MaxMm float64 `yaml:"max_mm" json:"maxMm"`
}

// Defaults fill optional specification fields.
type Defaults struct {
	SurfaceFinish    string  `yaml:"surface_finish" json:"surfaceFinish"`
	MinDrillMm       float64 `yaml:"min_drill_mm" json:"minDrillMm"`
	BoardThicknessMm float64 `yaml:"board_thickness_mm" json:"boardThicknessMm"`
}

// Catalog lists every option the PCB builder accepts.
type Catalog struct {
	PricePerCm2       float64         `yaml:"price_per_cm2" json:"pricePerCm2"`
	Dimensions        DimensionLimits `yaml:"dimensions" json:"dimensions"`
	Colors            []Option        `yaml:"colors" json:"colors"`
	LayerCounts       []LayerOption   `yaml:"layer_counts" json:"layerCounts"`
	CopperThicknesses []CopperOption  `yaml:"copper_thicknesses" json:"copperThicknesses"`
	SurfaceFinishes   []Option        `yaml:"surface_finishes" json:"surfaceFinishes"`
	DrillSizesMm      []float64       `yaml:"drill_sizes_mm" json:"drillSizesMm"`
	BoardThicknessMm  []float64       `yaml:"board_thicknesses_mm" json:"boardThicknessesMm"`
	Defaults          Defaults        `yaml:"defaults" json:"defaults"`
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("pcb: embedded catalog: %v", err))
	}
	return c
}

// ParseCatalog decodes a YAML catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	c := new(Catalog)
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if c.PricePerCm2 <= 0 {
		return nil, fmt.Errorf("catalog price_per_cm2 must be positive, got %v", c.PricePerCm2)
	}
	if c.Dimensions.MinMm <= 0 || c.Dimensions.MaxMm < c.Dimensions.MinMm {
		return nil, fmt.Errorf("catalog dimensions invalid: %+v", c.Dimensions)
	}
	return c, nil
}

// LoadCatalog reads a YAML catalog from disk. An empty path returns the
// built-in catalog.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return ParseCatalog(data)
}

func (c *Catalog) color(id string) (Option, bool) {
	return findOption(c.Colors, id)
}

func (c *Catalog) finish(id string) (Option, bool) {
	return findOption(c.SurfaceFinishes, id)
}

func (c *Catalog) layers(n int) (LayerOption, bool) {
	for _, l := range c.LayerCounts {
		if l.Layers == n {
			return l, true
		}
	}
	return LayerOption{}, false
}

func (c *Catalog) copper(id string) (CopperOption, bool) {
	for _, o := range c.CopperThicknesses {
		if o.ID == id {
			return o, true
		}
	}
	return CopperOption{}, false
}

func findOption(options []Option, id string) (Option, bool) {
	for _, o := range options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

func containsFloat(values []float64, v float64) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
