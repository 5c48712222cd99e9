package analysis

import (
	"fmt"
	"strings"

	"github.com/themxtr/idealab2.1-sub000/pkg/geometry"
)

// Orientation is a build orientation on the print bed.
type Orientation string

const (
	// Vertical prints the model standing along Z.
	Vertical Orientation = "vertical"
	// Flat prints the model lying along Y.
	Flat Orientation = "flat"
	// LowerWastage picks whichever of Vertical and Flat needs less support.
	LowerWastage Orientation = "lower-wastage"
)

// ParseOrientation accepts the orientation names used by the lab portal.
// "ai-optimal" is the portal's historical name for LowerWastage.
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(Vertical):
		return Vertical, nil
	case string(Flat):
		return Flat, nil
	case string(LowerWastage), "ai-optimal", "auto":
		return LowerWastage, nil
	default:
		return "", fmt.Errorf("unknown orientation %q", s)
	}
}

// OrientationWeights calibrates the wastage score for one orientation.
type OrientationWeights struct {
	// FootprintWeight scales footprint area times the orthogonal extent.
	FootprintWeight float64 `yaml:"footprint_weight"`
	// OverhangPenalty is added per overhang facet.
	OverhangPenalty float64 `yaml:"overhang_penalty"`
}

// SupportParams tunes the support-wastage heuristic.
type SupportParams struct {
	// OverhangThreshold: a facet is an overhang when its normal component
	// along the build axis is below -OverhangThreshold.
	OverhangThreshold float64            `yaml:"overhang_threshold"`
	Vertical          OrientationWeights `yaml:"vertical"`
	Flat              OrientationWeights `yaml:"flat"`
}

// DefaultSupportParams returns the lab's calibration.
func DefaultSupportParams() SupportParams {
	return SupportParams{
		OverhangThreshold: 0.3,
		Vertical:          OrientationWeights{FootprintWeight: 0.15, OverhangPenalty: 0.5},
		Flat:              OrientationWeights{FootprintWeight: 0.1, OverhangPenalty: 0.3},
	}
}

// SupportEstimate is the wastage score for one orientation.
type SupportEstimate struct {
	Orientation Orientation `json:"orientation"`
	Overhangs   int         `json:"overhangs"`
	Wastage     float64     `json:"wastage"`
}

// EstimateSupportWastage scores how much support material the mesh needs
// when printed in the given orientation. Larger is worse; the unit is a
// calibrated pseudo-volume, not mm³. Orientation must be Vertical or Flat.
func EstimateSupportWastage(mesh *geometry.Mesh, orientation Orientation, params SupportParams) (SupportEstimate, error) {
	downward, err := downwardAxis(orientation)
	if err != nil {
		return SupportEstimate{}, err
	}
	weights := params.Vertical
	if orientation == Flat {
		weights = params.Flat
	}

	box := geometry.NewBoxBuilder()
	overhangs := 0
	for _, f := range mesh.Facets {
		box.ExtendFacet(f)
		if f.Normal.Component(downward) < -params.OverhangThreshold {
			overhangs++
		}
	}

	bbox := box.Box()
	var footprint, rise float64
	if orientation == Vertical {
		footprint, rise = bbox.Width()*bbox.Depth(), bbox.Height()
	} else {
		footprint, rise = bbox.Width()*bbox.Height(), bbox.Depth()
	}

	return SupportEstimate{
		Orientation: orientation,
		Overhangs:   overhangs,
		Wastage:     footprint*rise*weights.FootprintWeight + float64(overhangs)*weights.OverhangPenalty,
	}, nil
}

// downwardAxis selects the normal component that points toward the bed.
func downwardAxis(orientation Orientation) (geometry.Axis, error) {
	switch orientation {
	case Vertical:
		return geometry.AxisZ, nil
	case Flat:
		return geometry.AxisY, nil
	default:
		return 0, fmt.Errorf("cannot estimate support for orientation %q", orientation)
	}
}

// OverhangFacets returns the indices of facets that need support in the
// given orientation, in mesh order.
func OverhangFacets(mesh *geometry.Mesh, orientation Orientation, params SupportParams) ([]int, error) {
	downward, err := downwardAxis(orientation)
	if err != nil {
		return nil, err
	}
	var out []int
	for i, f := range mesh.Facets {
		if f.Normal.Component(downward) < -params.OverhangThreshold {
			out = append(out, i)
		}
	}
	return out, nil
}

// OrientationChoice compares the two candidate orientations.
type OrientationChoice struct {
	Vertical    SupportEstimate `json:"vertical"`
	Flat        SupportEstimate `json:"flat"`
	Recommended Orientation     `json:"recommended"`
}

// Chosen returns the estimate of the recommended orientation.
func (c OrientationChoice) Chosen() SupportEstimate {
	if c.Recommended == Flat {
		return c.Flat
	}
	return c.Vertical
}

// ChooseLowerWastageOrientation estimates both orientations and recommends
// the one with the lower score. Ties go to Vertical.
func ChooseLowerWastageOrientation(mesh *geometry.Mesh, params SupportParams) OrientationChoice {
	vertical, _ := EstimateSupportWastage(mesh, Vertical, params)
	flat, _ := EstimateSupportWastage(mesh, Flat, params)

	choice := OrientationChoice{Vertical: vertical, Flat: flat, Recommended: Vertical}
	if flat.Wastage < vertical.Wastage {
		choice.Recommended = Flat
	}
	return choice
}
