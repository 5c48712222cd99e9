// Package geometry holds the mesh primitives shared by every model reader:
// vectors, facets, meshes and their derived measurements.
package geometry

import "math"

// Vector3 is a point or direction in millimetres.
type Vector3 struct {
	X, Y, Z float64
}

// Axis names one coordinate of a Vector3.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	}
	return "?"
}

// NewVector3 creates a new 3D vector
func NewVector3(x, y, z float64) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

// FromFloat32 widens a single-precision triple, as stored in binary STL
// records and glTF position accessors.
func FromFloat32(p [3]float32) Vector3 {
	return Vector3{X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2])}
}

// Component returns the coordinate along a.
func (v Vector3) Component(a Axis) float64 {
	switch a {
	case AxisX:
		return v.X
	case AxisY:
		return v.Y
	default:
		return v.Z
	}
}

// combine applies op to each pair of components.
func (v Vector3) combine(other Vector3, op func(a, b float64) float64) Vector3 {
	return Vector3{X: op(v.X, other.X), Y: op(v.Y, other.Y), Z: op(v.Z, other.Z)}
}

func (v Vector3) Add(other Vector3) Vector3 {
	return v.combine(other, func(a, b float64) float64 { return a + b })
}

func (v Vector3) Sub(other Vector3) Vector3 {
	return v.combine(other, func(a, b float64) float64 { return a - b })
}

// Min and Max are component-wise; they fold bounding boxes.
func (v Vector3) Min(other Vector3) Vector3 { return v.combine(other, math.Min) }

func (v Vector3) Max(other Vector3) Vector3 { return v.combine(other, math.Max) }

// Mul scales every component.
func (v Vector3) Mul(s float64) Vector3 {
	return Vector3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

func (v Vector3) Dot(other Vector3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross follows the right-hand rule, so counter-clockwise winding gives an
// outward facet normal.
func (v Vector3) Cross(other Vector3) Vector3 {
	return Vector3{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

func (v Vector3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

func (v Vector3) Distance(other Vector3) float64 {
	return v.Sub(other).Length()
}

// Normalize returns a unit vector in the same direction.
// The zero vector normalizes to itself.
func (v Vector3) Normalize() Vector3 {
	length := v.Length()
	if length == 0 {
		return Vector3{}
	}
	return v.Mul(1.0 / length)
}

// IsFinite reports whether no component is NaN or infinite. Readers drop
// or reject geometry that fails this, since one NaN poisons every
// measurement of the mesh.
func (v Vector3) IsFinite() bool {
	for _, c := range [...]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
