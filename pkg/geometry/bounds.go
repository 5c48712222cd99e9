package geometry

// BoundingBox represents an axis-aligned bounding box.
// The zero value is the box of an empty mesh.
type BoundingBox struct {
	Min Vector3
	Max Vector3
}

// BoxBuilder accumulates a bounding box one point at a time. The zero
// value is ready to use and yields the zero box until extended.
type BoxBuilder struct {
	min, max Vector3
	seen     bool
}

// NewBoxBuilder returns an empty builder.
func NewBoxBuilder() *BoxBuilder {
	return &BoxBuilder{}
}

// Extend grows the box to include p.
func (b *BoxBuilder) Extend(p Vector3) {
	if !b.seen {
		b.min, b.max, b.seen = p, p, true
		return
	}
	b.min = b.min.Min(p)
	b.max = b.max.Max(p)
}

// ExtendFacet grows the box to include every vertex of f.
func (b *BoxBuilder) ExtendFacet(f Facet) {
	for _, v := range f.Vertices {
		b.Extend(v)
	}
}

// Box returns the accumulated box.
func (b *BoxBuilder) Box() BoundingBox {
	return BoundingBox{Min: b.min, Max: b.max}
}

// Size returns the extent along each axis.
func (b BoundingBox) Size() Vector3 {
	return b.Max.Sub(b.Min)
}

// Width is the X extent.
func (b BoundingBox) Width() float64 { return b.Max.X - b.Min.X }

// Height is the Y extent.
func (b BoundingBox) Height() float64 { return b.Max.Y - b.Min.Y }

// Depth is the Z extent.
func (b BoundingBox) Depth() float64 { return b.Max.Z - b.Min.Z }

// Center returns the center point of the bounding box
func (b BoundingBox) Center() Vector3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Diagonal returns the length of the bounding box diagonal
func (b BoundingBox) Diagonal() float64 {
	return b.Size().Length()
}

// Volume returns the volume of the box itself, not of the enclosed mesh.
func (b BoundingBox) Volume() float64 {
	size := b.Size()
	return size.X * size.Y * size.Z
}
