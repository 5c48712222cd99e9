// Package pricing converts model volume into filament weight and per-tier
// print cost.
package pricing

import "gonum.org/v1/gonum/floats/scalar"

// DefaultDensity is the density of PLA in g/cm³.
const DefaultDensity = 1.24

// Rates are per-gram print prices in INR.
type Rates struct {
	StudentPerGram float64 `yaml:"student_per_gram" json:"studentPerGram"`
	GuestPerGram   float64 `yaml:"guest_per_gram" json:"guestPerGram"`
}

// DefaultRates returns the lab's published rates.
func DefaultRates() Rates {
	return Rates{StudentPerGram: 2.5, GuestPerGram: 3.5}
}

// Quote is the price of printing one model. Values are unrounded; call
// Rounded at the presentation boundary.
type Quote struct {
	VolumeMm3   float64 `json:"volumeMm3"`
	VolumeCm3   float64 `json:"volumeCm3"`
	WeightGrams float64 `json:"weightGrams"`
	CostStudent float64 `json:"costStudent"`
	CostGuest   float64 `json:"costGuest"`
}

// PriceModel prices a model of the given volume. There is no minimum
// charge: a zero volume prices at zero.
func PriceModel(volumeMm3 float64, rates Rates, density float64) Quote {
	volumeCm3 := volumeMm3 / 1000
	return PriceWeight(volumeMm3, volumeCm3*density, rates)
}

// PriceWeight prices a known filament weight. volumeMm3 is carried through
// for reporting only.
func PriceWeight(volumeMm3, weightGrams float64, rates Rates) Quote {
	return Quote{
		VolumeMm3:   volumeMm3,
		VolumeCm3:   volumeMm3 / 1000,
		WeightGrams: weightGrams,
		CostStudent: weightGrams * rates.StudentPerGram,
		CostGuest:   weightGrams * rates.GuestPerGram,
	}
}

// ApplyMinimumWeight re-prices q at minGrams when its weight is below that
// floor. It is a caller-side fallback for failed parses and is never
// applied by PriceModel.
func ApplyMinimumWeight(q Quote, minGrams float64, rates Rates) (Quote, bool) {
	if minGrams <= 0 || q.WeightGrams >= minGrams {
		return q, false
	}
	return PriceWeight(q.VolumeMm3, minGrams, rates), true
}

// Rounded returns q with every field rounded to two decimals.
func (q Quote) Rounded() Quote {
	return Quote{
		VolumeMm3:   Round2(q.VolumeMm3),
		VolumeCm3:   Round2(q.VolumeCm3),
		WeightGrams: Round2(q.WeightGrams),
		CostStudent: Round2(q.CostStudent),
		CostGuest:   Round2(q.CostGuest),
	}
}

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return scalar.Round(v, 2)
}
