package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/themxtr/idealab2.1-sub000/internal/quote"
	"github.com/themxtr/idealab2.1-sub000/pkg/analysis"
	"github.com/themxtr/idealab2.1-sub000/pkg/pricing"
)

var (
	analyzeOrientation string
	analyzeJSON        bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file|url]",
	Short: "Measure and price a 3D model",
	Long: `Measure an STL or GLB model and price it at the student and guest rates.
The source may be a local file or a data:, http(s):// or s3:// URL.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeOrientation, "orientation", "o", "", "Estimate support for vertical, flat or lower-wastage")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the result as JSON")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	source := args[0]
	data, format, err := loadModel(cmd.Context(), cfg, log, source)
	if err != nil {
		return err
	}

	svc := quote.NewService(quoteSettings(cfg), nil, log)
	res, err := svc.Quote(cmd.Context(), data, format, analyzeOrientation)
	if err != nil {
		return err
	}

	if analyzeJSON {
		return printAnalysisJSON(source, res)
	}
	printAnalysis(source, res)
	return nil
}

func printAnalysis(source string, res *quote.Result) {
	m := analysis.Measure(res.Report.Mesh)
	price := res.Price.Rounded()

	fmt.Println("Model Analysis")
	fmt.Println("==============")
	if res.Report.Mesh.Name != "" {
		fmt.Printf("Name: %s\n", res.Report.Mesh.Name)
	}
	fmt.Printf("File: %s\n", filepath.Base(source))
	fmt.Printf("Format: %s\n", res.Report.Format)
	if res.Report.Degraded {
		fmt.Printf("Warning: %v; measurements are zero\n", res.Report.ParseErr)
	}
	fmt.Println()

	fmt.Println("Model Statistics:")
	fmt.Printf("  Triangles: %d\n", m.FacetCount)
	fmt.Printf("  Surface Area: %s\n\n", analysis.FormatMeasurement(m.SurfaceArea, "mm²"))

	fmt.Println("Bounding Box:")
	fmt.Printf("  Min: %s\n", analysis.FormatVector(m.BoundingBox.Min))
	fmt.Printf("  Max: %s\n", analysis.FormatVector(m.BoundingBox.Max))
	fmt.Printf("  Center: %s\n\n", analysis.FormatVector(m.BoundingBox.Center()))

	fmt.Println("Dimensions:")
	fmt.Printf("  Width (X): %s\n", analysis.FormatMeasurement(m.Dimensions.X, "mm"))
	fmt.Printf("  Height (Y): %s\n", analysis.FormatMeasurement(m.Dimensions.Y, "mm"))
	fmt.Printf("  Depth (Z): %s\n", analysis.FormatMeasurement(m.Dimensions.Z, "mm"))
	fmt.Printf("  Diagonal: %s\n", analysis.FormatMeasurement(m.BoundingBox.Diagonal(), "mm"))
	fmt.Printf("  Volume: %s (%s)\n\n",
		analysis.FormatMeasurement(price.VolumeMm3, "mm³"),
		analysis.FormatMeasurement(price.VolumeCm3, "cm³"))

	if m.Edges.Count > 0 {
		fmt.Println("Edge Lengths:")
		fmt.Printf("  Minimum: %s\n", analysis.FormatMeasurement(m.Edges.Min, "mm"))
		fmt.Printf("  Maximum: %s\n", analysis.FormatMeasurement(m.Edges.Max, "mm"))
		fmt.Printf("  Average: %s\n\n", analysis.FormatMeasurement(m.Edges.Avg, "mm"))
	}

	fmt.Println("Price:")
	fmt.Printf("  Weight: %s\n", analysis.FormatMeasurement(price.WeightGrams, "g"))
	if res.FallbackApplied {
		fmt.Println("  (minimum weight applied)")
	}
	fmt.Printf("  Student: ₹%.2f\n", price.CostStudent)
	fmt.Printf("  Guest: ₹%.2f\n", price.CostGuest)

	if sup := res.Support; sup != nil {
		fmt.Println()
		printSupport(sup.Choice)
		fmt.Printf("  Using: %s\n", sup.Used.Orientation)
	}
}

func printSupport(choice analysis.OrientationChoice) {
	fmt.Println("Support Wastage:")
	fmt.Printf("  Vertical: %.2f (%d overhanging facets)\n", choice.Vertical.Wastage, choice.Vertical.Overhangs)
	fmt.Printf("  Flat: %.2f (%d overhanging facets)\n", choice.Flat.Wastage, choice.Flat.Overhangs)
	fmt.Printf("  Recommended: %s\n", choice.Recommended)
}

type analysisJSON struct {
	File        string                      `json:"file"`
	Format      string                      `json:"format"`
	Triangles   int                         `json:"triangles"`
	Width       float64                     `json:"width"`
	Height      float64                     `json:"height"`
	Depth       float64                     `json:"depth"`
	Price       pricing.Quote               `json:"price"`
	Degraded    bool                        `json:"degraded"`
	Orientation string                      `json:"orientation,omitempty"`
	Support     *analysis.OrientationChoice `json:"support,omitempty"`
}

func printAnalysisJSON(source string, res *quote.Result) error {
	dims := res.Dimensions()
	out := analysisJSON{
		File:      source,
		Format:    string(res.Report.Format),
		Triangles: res.Triangles,
		Width:     pricing.Round2(dims.X),
		Height:    pricing.Round2(dims.Y),
		Depth:     pricing.Round2(dims.Z),
		Price:     res.Price.Rounded(),
		Degraded:  res.Report.Degraded,
	}
	if res.Support != nil {
		out.Orientation = string(res.Support.Used.Orientation)
		out.Support = &res.Support.Choice
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
