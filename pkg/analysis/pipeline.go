package analysis

import (
	"context"
	"errors"
	"fmt"

	"github.com/themxtr/idealab2.1-sub000/pkg/geometry"
	"github.com/themxtr/idealab2.1-sub000/pkg/scene"
	"github.com/themxtr/idealab2.1-sub000/pkg/stl"
)

// Format is the container format of a model payload.
type Format string

const (
	FormatSTLASCII  Format = "stl-ascii"
	FormatSTLBinary Format = "stl-binary"
	FormatGLB       Format = "glb"
)

// FailurePolicy decides what happens when an STL payload is malformed.
type FailurePolicy string

const (
	// Degrade analyzes an empty mesh and reports zero measurements.
	Degrade FailurePolicy = "degrade"
	// Throw returns the parse error to the caller.
	Throw FailurePolicy = "throw"
)

// ParseFailurePolicy validates a policy name. The empty string selects
// Degrade.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch FailurePolicy(s) {
	case "", Degrade:
		return Degrade, nil
	case Throw:
		return Throw, nil
	default:
		return "", fmt.Errorf("unknown parse failure policy %q", s)
	}
}

// ErrUnsupportedFormat is returned for payloads that are neither STL nor GLB.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Report is the outcome of analyzing one model payload.
type Report struct {
	Format      Format
	Mesh        *geometry.Mesh
	BoundingBox geometry.BoundingBox
	Volume      float64
	// Degraded is set when a malformed STL was replaced by an empty mesh;
	// ParseErr then holds the reason.
	Degraded bool
	ParseErr error
}

// Options configures an analysis run.
type Options struct {
	OnParseFailure FailurePolicy
}

// SniffFormat picks a format from the payload's magic bytes: "glTF" is GLB,
// a "solid" prefix is ASCII STL (unless the buffer is an exact-size binary
// STL), and anything of at least 84 bytes is binary STL.
func SniffFormat(data []byte) (Format, error) {
	switch {
	case scene.IsGLB(data):
		return FormatGLB, nil
	case stl.DetectFormat(data) == stl.FormatASCII:
		return FormatSTLASCII, nil
	case len(data) >= stl.PreambleSize:
		return FormatSTLBinary, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

// Analyze decodes and measures a payload of the given format. STL failures
// follow opts.OnParseFailure; GLB failures are always returned.
func Analyze(ctx context.Context, data []byte, format Format, opts Options) (*Report, error) {
	switch format {
	case FormatGLB:
		res, err := scene.Analyze(ctx, data)
		if err != nil {
			return nil, err
		}
		return &Report{Format: format, Mesh: res.Mesh, BoundingBox: res.BoundingBox, Volume: res.Volume}, nil

	case FormatSTLASCII, FormatSTLBinary:
		var mesh *geometry.Mesh
		var err error
		if format == FormatSTLASCII {
			mesh, err = stl.ParseASCII(string(data))
		} else {
			mesh, err = stl.ParseBinary(data)
		}

		report := &Report{Format: format, Mesh: mesh}
		if err != nil {
			if opts.OnParseFailure == Throw {
				return nil, err
			}
			report.Mesh = geometry.NewMesh("")
			report.Degraded = true
			report.ParseErr = err
		}
		report.BoundingBox = report.Mesh.BoundingBox()
		report.Volume = report.Mesh.Volume()
		return report, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
