package pcb

import "fmt"

// Tax rates applied to the base price, split per Indian CGST/SGST.
const (
	SGSTRate = 0.09
	CGSTRate = 0.09

	// gstMultiplier is evaluated as an exact constant (1.18).
	gstMultiplier = 1 + SGSTRate + CGSTRate
)

// copperDensity in g/cm³.
const copperDensity = 8.96

// PriceBreakdown itemizes the base price and taxes.
type PriceBreakdown struct {
	BasePrice    float64 `json:"basePrice"`
	SGST         float64 `json:"sgst"`
	CGST         float64 `json:"cgst"`
	TotalWithGST float64 `json:"totalWithGST"`
}

// Calculations are the derived quantities of a specification.
type Calculations struct {
	BoardAreaCm2      float64        `json:"boardAreaCm2"`
	BoardAreaMm2      float64        `json:"boardAreaMm2"`
	CopperUsageGrams  float64        `json:"copperUsageGrams"`
	EstimatedPriceINR float64        `json:"estimatedPriceINR"`
	PriceBreakdown    PriceBreakdown `json:"priceBreakdown"`
}

// Calculate prices a validated specification. Unknown options price with
// a zero multiplier, so call Validate first.
func Calculate(s Specification, c *Catalog) Calculations {
	color, _ := c.color(s.Color)
	layers, _ := c.layers(s.LayerCount)
	copper, _ := c.copper(s.CopperThickness)
	finish, _ := c.finish(s.SurfaceFinish)

	areaCm2 := (s.Width / 10) * (s.Height / 10)
	copperGrams := s.Width * s.Height * (copper.Micrometers / 1000) * copperDensity / 1000 * float64(s.LayerCount)

	base := areaCm2 * c.PricePerCm2 * color.Multiplier * copper.Multiplier * layers.Multiplier * finish.Multiplier
	sgst := base * SGSTRate
	cgst := base * CGSTRate
	total := base * gstMultiplier

	return Calculations{
		BoardAreaCm2:      areaCm2,
		BoardAreaMm2:      s.Width * s.Height,
		CopperUsageGrams:  copperGrams,
		EstimatedPriceINR: total,
		PriceBreakdown: PriceBreakdown{
			BasePrice:    base,
			SGST:         sgst,
			CGST:         cgst,
			TotalWithGST: total,
		},
	}
}

// GerberMetadata describes the fabrication files that would accompany the
// order. It echoes the specification; no Gerber data is produced.
type GerberMetadata struct {
	ProjectName       string     `json:"projectName"`
	Layers            []string   `json:"layers"`
	BoardThicknessMm  float64    `json:"boardThicknessMm"`
	DimensionsMm      [2]float64 `json:"dimensionsMm"`
	CopperWeight      string     `json:"copperWeight"`
	CopperMicrometers float64    `json:"copperMicrometers"`
	SolderMaskColor   string     `json:"solderMaskColor"`
	SurfaceFinish     string     `json:"surfaceFinish"`
	MinDrillMm        float64    `json:"minDrillMm"`
	Format            string     `json:"format"`
	ManufacturingNote []string   `json:"manufacturingNotes"`
}

// Metadata builds the Gerber metadata for a validated specification.
func Metadata(s Specification, c *Catalog) GerberMetadata {
	copper, _ := c.copper(s.CopperThickness)
	finish, _ := c.finish(s.SurfaceFinish)
	color, _ := c.color(s.Color)

	name := s.ProjectName
	if name == "" {
		name = "untitled-board"
	}

	notes := []string{
		fmt.Sprintf("%d-layer board, %gmm x %gmm", s.LayerCount, s.Width, s.Height),
		fmt.Sprintf("%s copper (%gµm) on all layers", copper.ID, copper.Micrometers),
		fmt.Sprintf("%s solder mask, %s finish", color.Name, finish.Name),
		fmt.Sprintf("minimum drill %gmm", s.MinDrillSize),
	}
	if s.ManufacturerNote != "" {
		notes = append(notes, s.ManufacturerNote)
	}

	return GerberMetadata{
		ProjectName:       name,
		Layers:            layerNames(s.LayerCount),
		BoardThicknessMm:  s.BoardThickness,
		DimensionsMm:      [2]float64{s.Width, s.Height},
		CopperWeight:      copper.ID,
		CopperMicrometers: copper.Micrometers,
		SolderMaskColor:   color.ID,
		SurfaceFinish:     finish.ID,
		MinDrillMm:        s.MinDrillSize,
		Format:            "RS-274X",
		ManufacturingNote: notes,
	}
}

func layerNames(count int) []string {
	names := []string{"F.Cu"}
	for i := 1; i <= count-2; i++ {
		names = append(names, fmt.Sprintf("In%d.Cu", i))
	}
	if count > 1 {
		names = append(names, "B.Cu", "F.Mask", "B.Mask", "F.SilkS", "B.SilkS")
	} else {
		names = append(names, "F.Mask", "F.SilkS")
	}
	return append(names, "Edge.Cuts", "Drill")
}
