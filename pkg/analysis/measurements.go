// Package analysis measures parsed meshes: dimensions, enclosed volume,
// edge statistics and support-material estimates for print orientations.
package analysis

import (
	"fmt"
	"math"

	"github.com/themxtr/idealab2.1-sub000/pkg/geometry"
)

// EdgeStats summarizes facet edge lengths.
type EdgeStats struct {
	Count int
	Min   float64
	Max   float64
	Avg   float64
}

// Measurement contains the geometric measurements of a mesh.
type Measurement struct {
	BoundingBox geometry.BoundingBox
	Dimensions  geometry.Vector3
	Volume      float64
	SurfaceArea float64
	FacetCount  int
	Edges       EdgeStats
}

// Measure performs the full geometric analysis of a mesh. Every field of
// the result is zero for an empty mesh.
func Measure(mesh *geometry.Mesh) *Measurement {
	result := &Measurement{
		BoundingBox: mesh.BoundingBox(),
		Volume:      mesh.Volume(),
		SurfaceArea: mesh.SurfaceArea(),
		FacetCount:  mesh.FacetCount(),
	}
	result.Dimensions = result.BoundingBox.Size()
	result.Edges = edgeStats(mesh)
	return result
}

func edgeStats(mesh *geometry.Mesh) EdgeStats {
	if mesh.IsEmpty() {
		return EdgeStats{}
	}

	stats := EdgeStats{Min: math.MaxFloat64}
	total := 0.0
	for _, f := range mesh.Facets {
		for i := 0; i < 3; i++ {
			length := f.Vertices[i].Distance(f.Vertices[(i+1)%3])
			total += length
			stats.Count++
			stats.Min = math.Min(stats.Min, length)
			stats.Max = math.Max(stats.Max, length)
		}
	}
	stats.Avg = total / float64(stats.Count)
	return stats
}

// FormatMeasurement formats a measurement with appropriate units
func FormatMeasurement(value float64, unit string) string {
	if unit == "" {
		unit = "units"
	}
	return fmt.Sprintf("%.2f %s", value, unit)
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v.X, v.Y, v.Z)
}
