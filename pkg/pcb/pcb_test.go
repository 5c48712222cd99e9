package pcb

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSpec() Specification {
	return Specification{Width: 50, Height: 50, LayerCount: 2, Color: "green", CopperThickness: "1oz"}
}

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()

	assert.Equal(t, 1.5, c.PricePerCm2)
	assert.Equal(t, 10.0, c.Dimensions.MinMm)
	assert.NotEmpty(t, c.Colors)
	assert.NotEmpty(t, c.SurfaceFinishes)
	assert.Contains(t, c.DrillSizesMm, c.Defaults.MinDrillMm)
	assert.Contains(t, c.BoardThicknessMm, c.Defaults.BoardThicknessMm)
}

func TestParseCatalogInvalid(t *testing.T) {
	_, err := ParseCatalog([]byte("price_per_cm2: [oops"))
	assert.Error(t, err)

	_, err = ParseCatalog([]byte("price_per_cm2: 0\ndimensions: {min_mm: 1, max_mm: 2}\n"))
	assert.Error(t, err)
}

func TestValidateAcceptsDefaults(t *testing.T) {
	c := DefaultCatalog()
	spec := validSpec().WithDefaults(c)

	require.NoError(t, Validate(spec, c))
	assert.Equal(t, "hasl", spec.SurfaceFinish)
	assert.Equal(t, 1.6, spec.BoardThickness)
}

func TestValidateCollectsEveryViolation(t *testing.T) {
	c := DefaultCatalog()
	spec := validSpec()
	spec.Width = 5
	spec.Color = "chartreuse"
	spec = spec.WithDefaults(c)

	err := Validate(spec, c)
	require.Error(t, err)

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))

	msgs := Messages(err)
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[0], "width")
	assert.Contains(t, msgs[1], "chartreuse")
	assert.True(t, strings.HasPrefix(err.Error(), "invalid PCB specification"))
}

func TestValidateUnknownEnums(t *testing.T) {
	c := DefaultCatalog()
	spec := Specification{
		Width: 600, Height: 0, LayerCount: 3, Color: "", CopperThickness: "9oz",
		SurfaceFinish: "gold-leaf", MinDrillSize: 0.05, BoardThickness: 7,
	}

	msgs := Messages(Validate(spec, c))
	assert.Len(t, msgs, 8)
}

func TestCalculateReference(t *testing.T) {
	c := DefaultCatalog()
	spec := validSpec().WithDefaults(c)

	calc := Calculate(spec, c)

	assert.Equal(t, 25.0, calc.BoardAreaCm2)
	assert.Equal(t, 2500.0, calc.BoardAreaMm2)
	assert.InDelta(t, 50*50*0.035*8.96/1000*2, calc.CopperUsageGrams, 1e-12)

	b := calc.PriceBreakdown
	assert.Equal(t, 25*1.5*1.0*1.0*1.0*1.0, b.BasePrice)
	assert.Equal(t, b.BasePrice*1.18, b.TotalWithGST)
	assert.Equal(t, b.BasePrice*0.09, b.SGST)
	assert.Equal(t, b.SGST, b.CGST)
	assert.Equal(t, b.TotalWithGST, calc.EstimatedPriceINR)
}

func TestCalculateMultipliers(t *testing.T) {
	c := DefaultCatalog()
	spec := Specification{
		Width: 100, Height: 80, LayerCount: 4, Color: "black", CopperThickness: "2oz", SurfaceFinish: "enig",
	}.WithDefaults(c)
	require.NoError(t, Validate(spec, c))

	calc := Calculate(spec, c)
	want := 80.0 * 1.5 * 1.15 * 1.3 * 1.8 * 1.4
	assert.InDelta(t, want, calc.PriceBreakdown.BasePrice, 1e-9)
}

func TestMetadataLayers(t *testing.T) {
	c := DefaultCatalog()

	tests := []struct {
		layers int
		want   []string
	}{
		{1, []string{"F.Cu", "F.Mask", "F.SilkS", "Edge.Cuts", "Drill"}},
		{2, []string{"F.Cu", "B.Cu", "F.Mask", "B.Mask", "F.SilkS", "B.SilkS", "Edge.Cuts", "Drill"}},
		{4, []string{"F.Cu", "In1.Cu", "In2.Cu", "B.Cu", "F.Mask", "B.Mask", "F.SilkS", "B.SilkS", "Edge.Cuts", "Drill"}},
	}
	for _, tt := range tests {
		spec := validSpec()
		spec.LayerCount = tt.layers
		meta := Metadata(spec.WithDefaults(c), c)
		assert.Equal(t, tt.want, meta.Layers, "layers=%d", tt.layers)
	}
}

func TestMetadataEchoesSpec(t *testing.T) {
	c := DefaultCatalog()
	spec := validSpec()
	spec.ProjectName = "line-follower"
	spec.ManufacturerNote = "panelize 2x2"

	meta := Metadata(spec.WithDefaults(c), c)

	assert.Equal(t, "line-follower", meta.ProjectName)
	assert.Equal(t, [2]float64{50, 50}, meta.DimensionsMm)
	assert.Equal(t, 1.6, meta.BoardThicknessMm)
	assert.Equal(t, "1oz", meta.CopperWeight)
	assert.Equal(t, "panelize 2x2", meta.ManufacturingNote[len(meta.ManufacturingNote)-1])
}
