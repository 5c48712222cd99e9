package pcb

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

// Specification is a PCB order as submitted by the builder form.
type Specification struct {
	Width            float64 `json:"width"`
	Height           float64 `json:"height"`
	LayerCount       int     `json:"layerCount"`
	Color            string  `json:"color"`
	CopperThickness  string  `json:"copperThickness"`
	SurfaceFinish    string  `json:"surfaceFinish,omitempty"`
	MinDrillSize     float64 `json:"minDrillSize,omitempty"`
	BoardThickness   float64 `json:"boardThickness,omitempty"`
	ProjectName      string  `json:"projectName,omitempty"`
	ManufacturerNote string  `json:"manufacturerNote,omitempty"`
}

// WithDefaults fills unset optional fields from the catalog.
func (s Specification) WithDefaults(c *Catalog) Specification {
	if s.SurfaceFinish == "" {
		s.SurfaceFinish = c.Defaults.SurfaceFinish
	}
	if s.MinDrillSize == 0 {
		s.MinDrillSize = c.Defaults.MinDrillMm
	}
	if s.BoardThickness == 0 {
		s.BoardThickness = c.Defaults.BoardThicknessMm
	}
	return s
}

// ValidationError carries every violation found in a specification.
type ValidationError struct {
	err error
}

func (e *ValidationError) Error() string {
	return "invalid PCB specification: " + strings.Join(e.Messages(), "; ")
}

// Messages returns one message per violation.
func (e *ValidationError) Messages() []string {
	errs := multierr.Errors(e.err)
	out := make([]string, len(errs))
	for i, err := range errs {
		out[i] = err.Error()
	}
	return out
}

// Messages extracts violation messages from a Validate error, or nil.
func Messages(err error) []string {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Messages()
	}
	return nil
}

// Validate checks every field of s against the catalog and reports all
// violations at once.
func Validate(s Specification, c *Catalog) error {
	var err error

	for _, dim := range []struct {
		name  string
		value float64
	}{{"width", s.Width}, {"height", s.Height}} {
		if dim.value < c.Dimensions.MinMm || dim.value > c.Dimensions.MaxMm {
			err = multierr.Append(err, fmt.Errorf("%s must be between %gmm and %gmm, got %g",
				dim.name, c.Dimensions.MinMm, c.Dimensions.MaxMm, dim.value))
		}
	}
	if _, ok := c.layers(s.LayerCount); !ok {
		err = multierr.Append(err, fmt.Errorf("unsupported layer count %d", s.LayerCount))
	}
	if _, ok := c.color(s.Color); !ok {
		err = multierr.Append(err, fmt.Errorf("unknown color %q", s.Color))
	}
	if _, ok := c.copper(s.CopperThickness); !ok {
		err = multierr.Append(err, fmt.Errorf("unknown copper thickness %q", s.CopperThickness))
	}
	if _, ok := c.finish(s.SurfaceFinish); !ok {
		err = multierr.Append(err, fmt.Errorf("unknown surface finish %q", s.SurfaceFinish))
	}
	if !containsFloat(c.DrillSizesMm, s.MinDrillSize) {
		err = multierr.Append(err, fmt.Errorf("unsupported minimum drill size %gmm", s.MinDrillSize))
	}
	if !containsFloat(c.BoardThicknessMm, s.BoardThickness) {
		err = multierr.Append(err, fmt.Errorf("unsupported board thickness %gmm", s.BoardThickness))
	}

	if err != nil {
		return &ValidationError{err: err}
	}
	return nil
}
