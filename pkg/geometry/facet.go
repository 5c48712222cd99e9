package geometry

// Facet is one triangle of a mesh. The vertex array is fixed at three
// entries; readers drop any source polygon that is not a triangle.
type Facet struct {
	Normal   Vector3
	Vertices [3]Vector3
}

// NewFacet creates a facet from a normal and three vertices.
func NewFacet(normal, v0, v1, v2 Vector3) Facet {
	return Facet{Normal: normal, Vertices: [3]Vector3{v0, v1, v2}}
}

// ComputedNormal derives the unit normal from the winding order
// (counter-clockwise when viewed from outside).
func (f Facet) ComputedNormal() Vector3 {
	edge1 := f.Vertices[1].Sub(f.Vertices[0])
	edge2 := f.Vertices[2].Sub(f.Vertices[0])
	return edge1.Cross(edge2).Normalize()
}

// Area returns the surface area of the facet.
func (f Facet) Area() float64 {
	edge1 := f.Vertices[1].Sub(f.Vertices[0])
	edge2 := f.Vertices[2].Sub(f.Vertices[0])
	return edge1.Cross(edge2).Length() / 2.0
}

// Center returns the centroid of the facet.
func (f Facet) Center() Vector3 {
	return f.Vertices[0].Add(f.Vertices[1]).Add(f.Vertices[2]).Mul(1.0 / 3.0)
}

// SignedVolume returns the signed volume of the tetrahedron spanned by the
// origin and the facet. The sign follows the winding order.
func (f Facet) SignedVolume() float64 {
	v0, v1, v2 := f.Vertices[0], f.Vertices[1], f.Vertices[2]
	return (v0.X*(v1.Y*v2.Z-v1.Z*v2.Y) -
		v0.Y*(v1.X*v2.Z-v1.Z*v2.X) +
		v0.Z*(v1.X*v2.Y-v1.Y*v2.X)) / 6.0
}
