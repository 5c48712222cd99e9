package geometry

import (
	"math"
	"testing"
)

func TestVector3Add(t *testing.T) {
	result := NewVector3(1, 2, 3).Add(NewVector3(4, 5, 6))

	expected := NewVector3(5, 7, 9)
	if result != expected {
		t.Errorf("Add failed: expected %v, got %v", expected, result)
	}
}

func TestVector3Sub(t *testing.T) {
	result := NewVector3(5, 7, 9).Sub(NewVector3(1, 2, 3))

	expected := NewVector3(4, 5, 6)
	if result != expected {
		t.Errorf("Sub failed: expected %v, got %v", expected, result)
	}
}

func TestVector3Length(t *testing.T) {
	length := NewVector3(3, 4, 0).Length()

	if math.Abs(length-5.0) > 1e-10 {
		t.Errorf("Length failed: expected 5, got %v", length)
	}
}

func TestVector3NormalizeZero(t *testing.T) {
	if n := (Vector3{}).Normalize(); n != (Vector3{}) {
		t.Errorf("Normalize of zero vector: expected zero, got %v", n)
	}
}

func TestVector3Cross(t *testing.T) {
	result := NewVector3(1, 0, 0).Cross(NewVector3(0, 1, 0))

	expected := NewVector3(0, 0, 1)
	if result != expected {
		t.Errorf("Cross failed: expected %v, got %v", expected, result)
	}
}

func TestVector3Dot(t *testing.T) {
	result := NewVector3(1, 2, 3).Dot(NewVector3(4, 5, 6))

	expected := 32.0 // 1*4 + 2*5 + 3*6
	if math.Abs(result-expected) > 1e-10 {
		t.Errorf("Dot failed: expected %v, got %v", expected, result)
	}
}

func TestVector3IsFinite(t *testing.T) {
	tests := []struct {
		v    Vector3
		want bool
	}{
		{NewVector3(1, 2, 3), true},
		{NewVector3(math.NaN(), 0, 0), false},
		{NewVector3(0, math.Inf(1), 0), false},
		{NewVector3(0, 0, math.Inf(-1)), false},
	}
	for _, tt := range tests {
		if got := tt.v.IsFinite(); got != tt.want {
			t.Errorf("IsFinite(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestVector3Component(t *testing.T) {
	v := NewVector3(1, 2, 3)
	for axis, want := range map[Axis]float64{AxisX: 1, AxisY: 2, AxisZ: 3} {
		if got := v.Component(axis); got != want {
			t.Errorf("Component(%s): expected %v, got %v", axis, want, got)
		}
	}
}

func TestVector3MinMax(t *testing.T) {
	a := NewVector3(1, 5, -2)
	b := NewVector3(3, 0, -4)

	if got, want := a.Min(b), NewVector3(1, 0, -4); got != want {
		t.Errorf("Min failed: expected %v, got %v", want, got)
	}
	if got, want := a.Max(b), NewVector3(3, 5, -2); got != want {
		t.Errorf("Max failed: expected %v, got %v", want, got)
	}
}

func TestFromFloat32(t *testing.T) {
	v := FromFloat32([3]float32{1.5, -2, 0.25})

	expected := NewVector3(1.5, -2, 0.25)
	if v != expected {
		t.Errorf("FromFloat32 failed: expected %v, got %v", expected, v)
	}
}
