package geometry

import "math"

// Mesh is an ordered sequence of facets making up one model. An empty mesh
// is valid and measures zero in every respect.
type Mesh struct {
	Name   string
	Facets []Facet
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name, Facets: make([]Facet, 0)}
}

// AddFacet appends a facet to the mesh.
func (m *Mesh) AddFacet(f Facet) {
	m.Facets = append(m.Facets, f)
}

// FacetCount returns the number of facets in the mesh.
func (m *Mesh) FacetCount() int {
	return len(m.Facets)
}

// IsEmpty reports whether the mesh has no facets.
func (m *Mesh) IsEmpty() bool {
	return len(m.Facets) == 0
}

// BoundingBox returns the axis-aligned box over every vertex, or the zero
// box for an empty mesh.
func (m *Mesh) BoundingBox() BoundingBox {
	b := NewBoxBuilder()
	for _, f := range m.Facets {
		b.ExtendFacet(f)
	}
	return b.Box()
}

// Volume returns the enclosed volume by the divergence theorem: the
// absolute sum of signed origin tetrahedra. The result is only meaningful
// for a closed, consistently wound mesh.
func (m *Mesh) Volume() float64 {
	total := 0.0
	for _, f := range m.Facets {
		total += f.SignedVolume()
	}
	return math.Abs(total)
}

// SurfaceArea calculates the total surface area of the mesh.
func (m *Mesh) SurfaceArea() float64 {
	total := 0.0
	for _, f := range m.Facets {
		total += f.Area()
	}
	return total
}
