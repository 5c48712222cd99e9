package geometry

import (
	"math"
	"testing"
)

func TestFacetArea(t *testing.T) {
	// Right triangle with sides 3, 4, 5
	f := NewFacet(NewVector3(0, 0, 1), NewVector3(0, 0, 0), NewVector3(3, 0, 0), NewVector3(0, 4, 0))

	if math.Abs(f.Area()-6.0) > 1e-10 {
		t.Errorf("Area failed: expected 6, got %v", f.Area())
	}
}

func TestFacetCenter(t *testing.T) {
	f := NewFacet(NewVector3(0, 0, 1), NewVector3(0, 0, 0), NewVector3(3, 0, 0), NewVector3(0, 3, 0))

	expected := NewVector3(1, 1, 0)
	if center := f.Center(); center.Distance(expected) > 1e-12 {
		t.Errorf("Center failed: expected %v, got %v", expected, center)
	}
}

func TestFacetComputedNormal(t *testing.T) {
	f := NewFacet(Vector3{}, NewVector3(0, 0, 0), NewVector3(1, 0, 0), NewVector3(0, 1, 0))

	expected := NewVector3(0, 0, 1)
	if n := f.ComputedNormal(); n != expected {
		t.Errorf("ComputedNormal failed: expected %v, got %v", expected, n)
	}
}

func TestFacetSignedVolume(t *testing.T) {
	// Tetrahedron (0,0,0),(1,0,0),(0,1,0),(0,0,1) has volume 1/6.
	f := NewFacet(Vector3{}, NewVector3(1, 0, 0), NewVector3(0, 1, 0), NewVector3(0, 0, 1))

	if math.Abs(f.SignedVolume()-1.0/6.0) > 1e-12 {
		t.Errorf("SignedVolume failed: expected 1/6, got %v", f.SignedVolume())
	}

	reversed := NewFacet(Vector3{}, f.Vertices[0], f.Vertices[2], f.Vertices[1])
	if math.Abs(reversed.SignedVolume()+1.0/6.0) > 1e-12 {
		t.Errorf("reversed winding: expected -1/6, got %v", reversed.SignedVolume())
	}
}
