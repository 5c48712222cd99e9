// Package quote turns a model payload into a printable price quote: it
// analyzes the mesh, prices it and optionally scores support orientation.
package quote

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/themxtr/idealab2.1-sub000/internal/metrics"
	"github.com/themxtr/idealab2.1-sub000/internal/store"
	"github.com/themxtr/idealab2.1-sub000/pkg/analysis"
	"github.com/themxtr/idealab2.1-sub000/pkg/geometry"
	"github.com/themxtr/idealab2.1-sub000/pkg/pricing"
)

// Settings are the pricing and analysis knobs of a Service.
type Settings struct {
	Rates   pricing.Rates
	Density float64
	// FallbackWeightGrams floors the weight of degraded parses. Zero
	// leaves degraded models priced at zero.
	FallbackWeightGrams float64
	Support             analysis.SupportParams
	OnParseFailure      analysis.FailurePolicy
}

// DefaultSettings returns the reference lab prices.
func DefaultSettings() Settings {
	return Settings{
		Rates:          pricing.DefaultRates(),
		Density:        pricing.DefaultDensity,
		Support:        analysis.DefaultSupportParams(),
		OnParseFailure: analysis.Degrade,
	}
}

// Result is a complete quote for one model.
type Result struct {
	Report *analysis.Report
	// Price is unrounded; round at the presentation boundary.
	Price           pricing.Quote
	FallbackApplied bool
	Triangles       int
	// Support is nil unless an orientation was requested.
	Support *SupportSummary
}

// Dimensions returns the bounding box extents.
func (r *Result) Dimensions() geometry.Vector3 {
	return r.Report.BoundingBox.Size()
}

// SupportSummary reports support wastage for the requested orientation
// together with both candidate scores.
type SupportSummary struct {
	Requested analysis.Orientation
	Used      analysis.SupportEstimate
	Choice    analysis.OrientationChoice
}

// Service produces quotes. It holds no per-request state and is safe for
// concurrent use.
type Service struct {
	settings Settings
	metrics  *metrics.Recorder
	logger   *zap.Logger
}

// NewService creates a Service. rec may be nil.
func NewService(settings Settings, rec *metrics.Recorder, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{settings: settings, metrics: rec, logger: logger}
}

// Settings returns the service configuration.
func (s *Service) Settings() Settings {
	return s.settings
}

// Quote analyzes data as format and prices the result. An empty
// orientation skips support estimation.
func (s *Service) Quote(ctx context.Context, data []byte, format analysis.Format, orientation string) (*Result, error) {
	var requested analysis.Orientation
	if orientation != "" {
		o, err := analysis.ParseOrientation(orientation)
		if err != nil {
			return nil, err
		}
		requested = o
	}

	timer := metrics.NewTimer()
	report, err := analysis.Analyze(ctx, data, format, analysis.Options{OnParseFailure: s.settings.OnParseFailure})
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordParseFailure(string(format))
		}
		return nil, fmt.Errorf("analyze %s: %w", format, err)
	}
	if s.metrics != nil {
		s.metrics.RecordAnalysis(string(format), report.Degraded, len(data), timer.Elapsed())
	}
	if report.Degraded {
		s.logger.Warn("model parse degraded to empty mesh",
			zap.String("format", string(format)),
			zap.Error(report.ParseErr),
		)
	}

	price := pricing.PriceModel(report.Volume, s.settings.Rates, s.settings.Density)
	fallback := false
	if report.Degraded {
		price, fallback = pricing.ApplyMinimumWeight(price, s.settings.FallbackWeightGrams, s.settings.Rates)
	}

	res := &Result{
		Report:          report,
		Price:           price,
		FallbackApplied: fallback,
		Triangles:       report.Mesh.FacetCount(),
	}

	if requested != "" {
		summary, err := s.support(report.Mesh, requested)
		if err != nil {
			return nil, err
		}
		res.Support = summary
		if s.metrics != nil {
			s.metrics.RecordOrientation(string(summary.Used.Orientation))
		}
	}

	s.logger.Debug("model quoted",
		zap.String("format", string(format)),
		zap.Int("triangles", res.Triangles),
		zap.Float64("volume_mm3", report.Volume),
		zap.Float64("weight_g", price.WeightGrams),
	)
	return res, nil
}

func (s *Service) support(mesh *geometry.Mesh, requested analysis.Orientation) (*SupportSummary, error) {
	choice := analysis.ChooseLowerWastageOrientation(mesh, s.settings.Support)
	summary := &SupportSummary{Requested: requested, Choice: choice}

	switch requested {
	case analysis.LowerWastage:
		summary.Used = choice.Chosen()
	case analysis.Vertical:
		summary.Used = choice.Vertical
	case analysis.Flat:
		summary.Used = choice.Flat
	default:
		return nil, fmt.Errorf("unsupported orientation %q", requested)
	}
	return summary, nil
}

// Record converts r into a ledger entry with presentation-rounded numbers.
func (r *Result) Record(fileName string) *store.QuoteRecord {
	dims := r.Dimensions()
	price := r.Price.Rounded()
	rec := &store.QuoteRecord{
		FileName:    fileName,
		Format:      string(r.Report.Format),
		Width:       pricing.Round2(dims.X),
		Height:      pricing.Round2(dims.Y),
		Depth:       pricing.Round2(dims.Z),
		VolumeMm3:   price.VolumeMm3,
		WeightGrams: price.WeightGrams,
		CostStudent: price.CostStudent,
		CostGuest:   price.CostGuest,
		Degraded:    r.Report.Degraded,
	}
	if r.Support != nil {
		rec.Orientation = string(r.Support.Used.Orientation)
	}
	return rec
}
