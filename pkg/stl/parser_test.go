package stl_test

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/themxtr/idealab2.1-sub000/internal/meshtest"
	"github.com/themxtr/idealab2.1-sub000/pkg/stl"
)

func TestParseBinaryCube(t *testing.T) {
	data := meshtest.Binary(meshtest.Cube(10))

	mesh, err := stl.ParseBinary(data)
	if err != nil {
		t.Fatalf("ParseBinary failed: %v", err)
	}
	if mesh.FacetCount() != 12 {
		t.Fatalf("expected 12 facets, got %d", mesh.FacetCount())
	}
	if mesh.Name != "meshtest" {
		t.Errorf("expected header name 'meshtest', got %q", mesh.Name)
	}
	if math.Abs(mesh.Volume()-1000) > 1e-6 {
		t.Errorf("expected volume 1000, got %v", mesh.Volume())
	}
}

func TestParseBinaryTruncated(t *testing.T) {
	data := meshtest.Binary(meshtest.Cube(10))

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"shorter than preamble", data[:40], stl.ErrTruncated},
		{"missing last facet", data[:len(data)-50], stl.ErrTruncated},
		{"one byte short", data[:len(data)-1], stl.ErrTruncated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mesh, err := stl.ParseBinary(tt.data)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if !stl.IsMalformed(err) {
				t.Errorf("expected a MalformedMeshError, got %T", err)
			}
			if mesh == nil || !mesh.IsEmpty() {
				t.Fatalf("expected an empty mesh, got %+v", mesh)
			}
			if mesh.Volume() != 0 {
				t.Errorf("expected zero volume, got %v", mesh.Volume())
			}
		})
	}
}

func TestParseBinaryTooManyTriangles(t *testing.T) {
	data := make([]byte, 84+50)
	binary.LittleEndian.PutUint32(data[80:], math.MaxUint32)

	mesh, err := stl.ParseBinary(data)
	if !errors.Is(err, stl.ErrTooManyTriangles) {
		t.Fatalf("expected ErrTooManyTriangles, got %v", err)
	}
	if !mesh.IsEmpty() {
		t.Errorf("expected empty mesh, got %d facets", mesh.FacetCount())
	}
}

func TestParseBinaryIgnoresTrailingBytes(t *testing.T) {
	data := append(meshtest.Binary(meshtest.Cube(2)), 0xde, 0xad)

	mesh, err := stl.ParseBinary(data)
	if err != nil {
		t.Fatalf("ParseBinary failed: %v", err)
	}
	if mesh.FacetCount() != 12 {
		t.Errorf("expected 12 facets, got %d", mesh.FacetCount())
	}
}

func TestParseBinaryDropsNonFiniteFacets(t *testing.T) {
	tests := []struct {
		name   string
		offset int // byte offset inside the first facet record
		value  float32
	}{
		{"NaN vertex", 12, float32(math.NaN())},
		{"infinite vertex", 28, float32(math.Inf(1))},
		{"negative infinite normal", 8, float32(math.Inf(-1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := meshtest.Binary(meshtest.Cube(20))
			binary.LittleEndian.PutUint32(data[stl.PreambleSize+tt.offset:], math.Float32bits(tt.value))

			mesh, err := stl.ParseBinary(data)
			if err != nil {
				t.Fatalf("ParseBinary failed: %v", err)
			}
			if mesh.FacetCount() != 11 {
				t.Fatalf("expected the bad facet to be dropped, got %d facets", mesh.FacetCount())
			}
			bbox := mesh.BoundingBox()
			for _, v := range []float64{bbox.Width(), bbox.Height(), bbox.Depth(), mesh.Volume()} {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Fatalf("non-finite measurement leaked: box %+v volume %v", bbox, mesh.Volume())
				}
			}
		})
	}
}

func TestParseASCIIDropsNonFiniteFacets(t *testing.T) {
	text := `solid nan
facet normal 0 0 1
  outer loop
    vertex nan 0 0
    vertex 1 0 0
    vertex 0 1 0
  endloop
endfacet
facet normal 0 0 1
  outer loop
    vertex 0 0 0
    vertex inf 0 0
    vertex 0 1 0
  endloop
endfacet
endsolid nan
`
	mesh, err := stl.ParseASCII(text)
	if err != nil {
		t.Fatalf("ParseASCII failed: %v", err)
	}
	if !mesh.IsEmpty() {
		t.Errorf("expected non-finite facets to be dropped, got %d", mesh.FacetCount())
	}
}

func TestParseASCIICube(t *testing.T) {
	mesh, err := stl.ParseASCII(meshtest.ASCII(meshtest.Cube(10)))
	if err != nil {
		t.Fatalf("ParseASCII failed: %v", err)
	}
	if mesh.Name != "cuboid" {
		t.Errorf("expected solid name 'cuboid', got %q", mesh.Name)
	}
	if mesh.FacetCount() != 12 {
		t.Fatalf("expected 12 facets, got %d", mesh.FacetCount())
	}
	if math.Abs(mesh.Volume()-1000) > 1e-6 {
		t.Errorf("expected volume 1000, got %v", mesh.Volume())
	}
}

func TestParseASCIIWhitespaceAndCase(t *testing.T) {
	text := "SOLID part\r\n" +
		"FACET NORMAL 0 0 -1.0E+00\n\tOuter Loop\n" +
		"  VERTEX 0 0 0\n  vertex 1e1 0 0\n  Vertex\n0 1.0e+01\n0\n" +
		"EndLoop EndFacet\nENDSOLID part\n"

	mesh, err := stl.ParseASCII(text)
	if err != nil {
		t.Fatalf("ParseASCII failed: %v", err)
	}
	if mesh.FacetCount() != 1 {
		t.Fatalf("expected 1 facet, got %d", mesh.FacetCount())
	}
	f := mesh.Facets[0]
	if f.Normal.Z != -1 || f.Vertices[1].X != 10 || f.Vertices[2].Y != 10 {
		t.Errorf("unexpected facet values: %+v", f)
	}
}

func TestParseASCIIDropsBadFacets(t *testing.T) {
	text := `solid mixed
facet normal 0 0 1
  outer loop
    vertex 0 0 0
    vertex 1 0 0
  endloop
endfacet
facet normal 0 0 1
  outer loop
    vertex 0 0 0
    vertex 1 0 0
    vertex 0 1 0
    vertex 1 1 0
  endloop
endfacet
facet normal 0 0 1
  outer loop
    vertex 0 0 0
    vertex abc 0 0
    vertex 0 1 0
  endloop
endfacet
facet normal 0 0 1
  outer loop
    vertex 0 0 0
    vertex 2 0 0
    vertex 0 2 0
  endloop
endfacet
endsolid mixed
`
	mesh, err := stl.ParseASCII(text)
	if err != nil {
		t.Fatalf("ParseASCII failed: %v", err)
	}
	if mesh.FacetCount() != 1 {
		t.Fatalf("expected only the valid facet to survive, got %d facets", mesh.FacetCount())
	}
	if mesh.Facets[0].Vertices[1].X != 2 {
		t.Errorf("wrong facet kept: %+v", mesh.Facets[0])
	}
}

func TestParseASCIIEmptySolid(t *testing.T) {
	mesh, err := stl.ParseASCII("solid empty\nendsolid empty\n")
	if err != nil {
		t.Fatalf("expected no error for empty solid, got %v", err)
	}
	if !mesh.IsEmpty() {
		t.Errorf("expected empty mesh, got %d facets", mesh.FacetCount())
	}
	if mesh.BoundingBox().Width() != 0 {
		t.Errorf("expected zero bounding box")
	}
}

func TestParseASCIINotSTL(t *testing.T) {
	mesh, err := stl.ParseASCII("hello world")
	if !errors.Is(err, stl.ErrNotASCII) {
		t.Fatalf("expected ErrNotASCII, got %v", err)
	}
	if !mesh.IsEmpty() {
		t.Error("expected empty mesh")
	}
}

func TestASCIIBinaryEquivalence(t *testing.T) {
	cube := meshtest.Cube(20)

	asciiMesh, err := stl.ParseASCII(meshtest.ASCII(cube))
	if err != nil {
		t.Fatalf("ParseASCII failed: %v", err)
	}
	binaryMesh, err := stl.ParseBinary(meshtest.Binary(cube))
	if err != nil {
		t.Fatalf("ParseBinary failed: %v", err)
	}

	if a, b := asciiMesh.BoundingBox(), binaryMesh.BoundingBox(); a != b {
		t.Errorf("bounding boxes differ: ascii %+v, binary %+v", a, b)
	}
	if a, b := asciiMesh.Volume(), binaryMesh.Volume(); math.Abs(a-b) > 1e-9 {
		t.Errorf("volumes differ: ascii %v, binary %v", a, b)
	}
}

func TestDetectFormat(t *testing.T) {
	cube := meshtest.Cube(1)

	tests := []struct {
		name string
		data []byte
		want stl.Format
	}{
		{"ascii", []byte(meshtest.ASCII(cube)), stl.FormatASCII},
		{"binary", meshtest.Binary(cube), stl.FormatBinary},
		{"binary with solid header", meshtest.BinaryWithHeader(cube, "solid exported by cad"), stl.FormatBinary},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stl.DetectFormat(tt.data); got != tt.want {
				t.Errorf("DetectFormat = %s, want %s", got, tt.want)
			}
			mesh, _, err := stl.Parse(tt.data)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if mesh.FacetCount() != 12 {
				t.Errorf("expected 12 facets, got %d", mesh.FacetCount())
			}
		})
	}
}
