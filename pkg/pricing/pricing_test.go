package pricing

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestPriceModelReference(t *testing.T) {
	// 20mm cube.
	q := PriceModel(8000, DefaultRates(), DefaultDensity)

	checks := []struct {
		name      string
		got, want float64
	}{
		{"volumeCm3", q.VolumeCm3, 8},
		{"weightGrams", q.WeightGrams, 9.92},
		{"costStudent", q.CostStudent, 24.8},
		{"costGuest", q.CostGuest, 34.72},
	}
	for _, c := range checks {
		if !scalar.EqualWithinAbsOrRel(c.got, c.want, 1e-9, 1e-9) {
			t.Errorf("%s: expected %v, got %v", c.name, c.want, c.got)
		}
	}

	r := q.Rounded()
	if r.WeightGrams != 9.92 || r.CostStudent != 24.8 || r.CostGuest != 34.72 {
		t.Errorf("rounded quote mismatch: %+v", r)
	}
}

func TestPriceModelZeroVolume(t *testing.T) {
	q := PriceModel(0, DefaultRates(), DefaultDensity)

	if q != (Quote{}) {
		t.Errorf("expected zero quote for zero volume, got %+v", q)
	}
}

func TestPriceModelLinear(t *testing.T) {
	rates := Rates{StudentPerGram: 1.7, GuestPerGram: 4.1}

	for _, v := range []float64{1, 123.456, 8000, 1e6} {
		single := PriceModel(v, rates, DefaultDensity)
		double := PriceModel(2*v, rates, DefaultDensity)

		if !scalar.EqualWithinRel(double.CostStudent, 2*single.CostStudent, 1e-12) {
			t.Errorf("volume %v: student cost not linear: %v vs 2*%v", v, double.CostStudent, single.CostStudent)
		}
		if !scalar.EqualWithinRel(double.CostGuest, 2*single.CostGuest, 1e-12) {
			t.Errorf("volume %v: guest cost not linear: %v vs 2*%v", v, double.CostGuest, single.CostGuest)
		}
		if !scalar.EqualWithinRel(single.CostStudent, single.WeightGrams*rates.StudentPerGram, 1e-12) {
			t.Errorf("volume %v: cost is not weight times rate", v)
		}
	}
}

func TestApplyMinimumWeight(t *testing.T) {
	rates := DefaultRates()

	q, applied := ApplyMinimumWeight(PriceModel(0, rates, DefaultDensity), 5, rates)
	if !applied || q.WeightGrams != 5 || q.CostStudent != 12.5 || q.CostGuest != 17.5 {
		t.Errorf("expected 5g floor to apply, got %+v (applied=%v)", q, applied)
	}

	heavy := PriceModel(8000, rates, DefaultDensity)
	if q, applied := ApplyMinimumWeight(heavy, 5, rates); applied || q != heavy {
		t.Errorf("floor must not touch a quote above it, got %+v", q)
	}

	if _, applied := ApplyMinimumWeight(PriceModel(0, rates, DefaultDensity), 0, rates); applied {
		t.Error("a zero floor must be a no-op")
	}
}

func TestRound2(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{2.346, 2.35},
		{2.344, 2.34},
		{-3.336, -3.34},
		{24.8, 24.8},
		{0, 0},
	}
	for _, tt := range tests {
		if got := Round2(tt.in); got != tt.want {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
