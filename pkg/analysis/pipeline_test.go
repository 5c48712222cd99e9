package analysis

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/themxtr/idealab2.1-sub000/internal/meshtest"
	"github.com/themxtr/idealab2.1-sub000/pkg/scene"
	"github.com/themxtr/idealab2.1-sub000/pkg/stl"
)

func TestSniffFormat(t *testing.T) {
	cube := meshtest.Cube(1)
	glb, err := meshtest.GLB(meshtest.GLBNode{Mesh: cube})
	if err != nil {
		t.Fatalf("encoding GLB: %v", err)
	}

	tests := []struct {
		name    string
		data    []byte
		want    Format
		wantErr bool
	}{
		{"glb", glb, FormatGLB, false},
		{"ascii", []byte(meshtest.ASCII(cube)), FormatSTLASCII, false},
		{"binary", meshtest.Binary(cube), FormatSTLBinary, false},
		{"too short", []byte("hello"), "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SniffFormat(tt.data)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SniffFormat error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrUnsupportedFormat) {
				t.Errorf("expected ErrUnsupportedFormat, got %v", err)
			}
			if got != tt.want {
				t.Errorf("SniffFormat = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAnalyzeSTLDegrades(t *testing.T) {
	data := meshtest.Binary(meshtest.Cube(10))
	truncated := data[:len(data)-20]

	report, err := Analyze(context.Background(), truncated, FormatSTLBinary, Options{OnParseFailure: Degrade})
	if err != nil {
		t.Fatalf("degrade policy should not fail: %v", err)
	}
	if !report.Degraded || !stl.IsMalformed(report.ParseErr) {
		t.Errorf("expected a degraded report carrying the parse error, got %+v", report)
	}
	if report.Volume != 0 || report.BoundingBox.Width() != 0 {
		t.Errorf("expected zero measurements, got volume %v box %+v", report.Volume, report.BoundingBox)
	}
}

func TestAnalyzeSTLThrows(t *testing.T) {
	data := meshtest.Binary(meshtest.Cube(10))

	_, err := Analyze(context.Background(), data[:100], FormatSTLBinary, Options{OnParseFailure: Throw})
	if !errors.Is(err, stl.ErrTruncated) {
		t.Errorf("expected ErrTruncated under throw policy, got %v", err)
	}
}

func TestAnalyzeGLBAlwaysThrows(t *testing.T) {
	_, err := Analyze(context.Background(), []byte("glTFgarbage"), FormatGLB, Options{OnParseFailure: Degrade})

	var pErr *scene.ParseError
	if !errors.As(err, &pErr) {
		t.Errorf("GLB failures must surface even under degrade policy, got %v", err)
	}
}

func TestAnalyzeFormatsAgree(t *testing.T) {
	cube := meshtest.Cube(20)
	glb, err := meshtest.GLB(meshtest.GLBNode{Mesh: cube, Indexed: true})
	if err != nil {
		t.Fatalf("encoding GLB: %v", err)
	}

	payloads := map[Format][]byte{
		FormatSTLASCII:  []byte(meshtest.ASCII(cube)),
		FormatSTLBinary: meshtest.Binary(cube),
		FormatGLB:       glb,
	}
	for format, data := range payloads {
		report, err := Analyze(context.Background(), data, format, Options{})
		if err != nil {
			t.Fatalf("%s: Analyze failed: %v", format, err)
		}
		if math.Abs(report.Volume-8000) > 1e-6 {
			t.Errorf("%s: expected volume 8000, got %v", format, report.Volume)
		}
		if report.BoundingBox.Width() != 20 || report.BoundingBox.Depth() != 20 {
			t.Errorf("%s: expected 20mm box, got %+v", format, report.BoundingBox)
		}
	}
}

func TestParseFailurePolicy(t *testing.T) {
	if p, err := ParseFailurePolicy(""); err != nil || p != Degrade {
		t.Errorf("empty policy: got %q, %v", p, err)
	}
	if p, err := ParseFailurePolicy("throw"); err != nil || p != Throw {
		t.Errorf("throw policy: got %q, %v", p, err)
	}
	if _, err := ParseFailurePolicy("explode"); err == nil {
		t.Error("expected error for unknown policy")
	}
}
