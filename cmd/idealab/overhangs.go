package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/themxtr/idealab2.1-sub000/pkg/analysis"
)

var (
	overhangCount       int
	overhangOrientation string
)

type overhangInfo struct {
	Index    int
	Area     float64
	Normal   string
	Vertices string
}

var overhangsCmd = &cobra.Command{
	Use:   "overhangs [file|url]",
	Short: "List the facets that need support in an orientation",
	Long: `List the facets whose normals point toward the bed steeply enough to need
support, largest first. These are the facets counted by the support estimate.`,
	Args: cobra.ExactArgs(1),
	RunE: runOverhangs,
}

func init() {
	rootCmd.AddCommand(overhangsCmd)

	overhangsCmd.Flags().IntVarP(&overhangCount, "count", "n", 10, "Number of facets to display")
	overhangsCmd.Flags().StringVarP(&overhangOrientation, "orientation", "o", "vertical", "Orientation to check: vertical or flat")
}

func runOverhangs(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	orientation, err := analysis.ParseOrientation(overhangOrientation)
	if err != nil {
		return err
	}

	data, format, err := loadModel(cmd.Context(), cfg, log, args[0])
	if err != nil {
		return err
	}
	report, err := analysis.Analyze(cmd.Context(), data, format, analysis.Options{OnParseFailure: analysis.Throw})
	if err != nil {
		return err
	}
	mesh := report.Mesh

	if orientation == analysis.LowerWastage {
		orientation = analysis.ChooseLowerWastageOrientation(mesh, cfg.Support).Recommended
	}

	indices, err := analysis.OverhangFacets(mesh, orientation, cfg.Support)
	if err != nil {
		return err
	}

	facets := make([]overhangInfo, 0, len(indices))
	totalArea := 0.0
	for _, i := range indices {
		f := mesh.Facets[i]
		area := f.Area()
		totalArea += area
		vertices := fmt.Sprintf("%s, %s, %s",
			analysis.FormatVector(f.Vertices[0]),
			analysis.FormatVector(f.Vertices[1]),
			analysis.FormatVector(f.Vertices[2]))
		facets = append(facets, overhangInfo{
			Index:    i,
			Area:     area,
			Normal:   analysis.FormatVector(f.Normal),
			Vertices: vertices,
		})
	}
	sort.SliceStable(facets, func(i, j int) bool {
		return facets[i].Area > facets[j].Area
	})

	fmt.Printf("Overhangs (%s, threshold %.2f)\n", orientation, cfg.Support.OverhangThreshold)
	fmt.Println("====================")
	fmt.Printf("Overhanging facets: %d of %d\n", len(facets), mesh.FacetCount())
	fmt.Printf("Overhanging area: %s\n\n", analysis.FormatMeasurement(totalArea, "mm²"))

	for i := 0; i < overhangCount && i < len(facets); i++ {
		f := facets[i]
		fmt.Printf("Facet #%d:\n", f.Index)
		fmt.Printf("  Area: %s\n", analysis.FormatMeasurement(f.Area, "mm²"))
		fmt.Printf("  Normal: %s\n", f.Normal)
		fmt.Printf("  Vertices: %s\n\n", f.Vertices)
	}
	return nil
}
