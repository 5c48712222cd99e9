package stl

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/themxtr/idealab2.1-sub000/pkg/geometry"
)

// Binary STL layout.
const (
	HeaderSize   = 80
	PreambleSize = HeaderSize + 4
	FacetSize    = 50
	MaxTriangles = 1_000_000
)

// ParseBinary decodes a binary STL buffer. The buffer is never read past
// its end: a header that declares more triangles than the buffer holds, or
// more than MaxTriangles, yields an empty mesh and a *MalformedMeshError.
func ParseBinary(data []byte) (*geometry.Mesh, error) {
	if len(data) < PreambleSize {
		return geometry.NewMesh(""), &MalformedMeshError{
			Format: "binary",
			Reason: fmt.Sprintf("%d bytes, need at least %d", len(data), PreambleSize),
			Err:    ErrTruncated,
		}
	}

	name := headerName(data[:HeaderSize])
	count := binary.LittleEndian.Uint32(data[HeaderSize:PreambleSize])

	if count > MaxTriangles {
		return geometry.NewMesh(name), &MalformedMeshError{
			Format: "binary",
			Reason: fmt.Sprintf("header declares %d triangles", count),
			Err:    ErrTooManyTriangles,
		}
	}

	need := PreambleSize + int(count)*FacetSize
	if len(data) < need {
		return geometry.NewMesh(name), &MalformedMeshError{
			Format: "binary",
			Reason: fmt.Sprintf("header declares %d triangles (%d bytes), buffer has %d", count, need, len(data)),
			Err:    ErrTruncated,
		}
	}

	mesh := &geometry.Mesh{Name: name, Facets: make([]geometry.Facet, 0, count)}
	for i := 0; i < int(count); i++ {
		rec := data[PreambleSize+i*FacetSize:]
		var f geometry.Facet
		ok := true
		// Normal then three vertices; the trailing 2-byte attribute count
		// is ignored.
		for j, dst := range []*geometry.Vector3{&f.Normal, &f.Vertices[0], &f.Vertices[1], &f.Vertices[2]} {
			*dst = geometry.FromFloat32(readTriple(rec[j*12:]))
			ok = ok && dst.IsFinite()
		}
		// NaN or infinite coordinates drop the facet, as in ParseASCII.
		if ok {
			mesh.AddFacet(f)
		}
	}

	return mesh, nil
}

// IsExactBinarySize reports whether the buffer length matches the triangle
// count in its header exactly. Used to recognise binary files whose header
// text happens to start with "solid".
func IsExactBinarySize(data []byte) bool {
	if len(data) < PreambleSize {
		return false
	}
	count := binary.LittleEndian.Uint32(data[HeaderSize:PreambleSize])
	if count > MaxTriangles {
		return false
	}
	return len(data) == PreambleSize+int(count)*FacetSize
}

func readTriple(b []byte) [3]float32 {
	return [3]float32{
		math.Float32frombits(binary.LittleEndian.Uint32(b)),
		math.Float32frombits(binary.LittleEndian.Uint32(b[4:])),
		math.Float32frombits(binary.LittleEndian.Uint32(b[8:])),
	}
}

func headerName(header []byte) string {
	return string(bytes.TrimRight(header, "\x00 "))
}
