package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/themxtr/idealab2.1-sub000/pkg/pcb"
)

var (
	pcbSpec    pcb.Specification
	pcbJSON    bool
	pcbCatalog bool
)

var pcbCmd = &cobra.Command{
	Use:   "pcb",
	Short: "Quote a PCB order",
	Long: `Validate a PCB specification against the option catalog and print the
price breakdown including SGST and CGST. Use --catalog to list the options.`,
	Args: cobra.NoArgs,
	RunE: runPCB,
}

func init() {
	rootCmd.AddCommand(pcbCmd)

	f := pcbCmd.Flags()
	f.Float64Var(&pcbSpec.Width, "width", 0, "Board width in mm")
	f.Float64Var(&pcbSpec.Height, "height", 0, "Board height in mm")
	f.IntVar(&pcbSpec.LayerCount, "layers", 2, "Copper layer count")
	f.StringVar(&pcbSpec.Color, "color", "green", "Solder mask color")
	f.StringVar(&pcbSpec.CopperThickness, "copper", "1oz", "Copper thickness id")
	f.StringVar(&pcbSpec.SurfaceFinish, "finish", "", "Surface finish id (catalog default when empty)")
	f.Float64Var(&pcbSpec.MinDrillSize, "drill", 0, "Minimum drill size in mm")
	f.Float64Var(&pcbSpec.BoardThickness, "thickness", 0, "Board thickness in mm")
	f.StringVar(&pcbSpec.ProjectName, "project", "", "Project name")
	f.BoolVar(&pcbJSON, "json", false, "Print the result as JSON")
	f.BoolVar(&pcbCatalog, "catalog", false, "Print the option catalog and exit")
}

func runPCB(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	catalog, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	if pcbCatalog {
		return printJSON(catalog)
	}

	spec := pcbSpec.WithDefaults(catalog)
	if err := pcb.Validate(spec, catalog); err != nil {
		msgs := pcb.Messages(err)
		return fmt.Errorf("invalid specification:\n  %s", strings.Join(msgs, "\n  "))
	}

	calc := pcb.Calculate(spec, catalog)
	if pcbJSON {
		return printJSON(map[string]any{
			"specification":  spec,
			"calculations":   calc,
			"gerberMetadata": pcb.Metadata(spec, catalog),
		})
	}

	fmt.Println("PCB Quote")
	fmt.Println("=========")
	fmt.Printf("Board: %.1f x %.1f mm, %d layers, %s mask, %s copper, %s finish\n",
		spec.Width, spec.Height, spec.LayerCount, spec.Color, spec.CopperThickness, spec.SurfaceFinish)
	fmt.Printf("Area: %.2f cm² (%.0f mm²)\n", calc.BoardAreaCm2, calc.BoardAreaMm2)
	fmt.Printf("Copper: %.3f g\n\n", calc.CopperUsageGrams)
	fmt.Printf("  Base price: ₹%.2f\n", calc.PriceBreakdown.BasePrice)
	fmt.Printf("  SGST (9%%):  ₹%.2f\n", calc.PriceBreakdown.SGST)
	fmt.Printf("  CGST (9%%):  ₹%.2f\n", calc.PriceBreakdown.CGST)
	fmt.Printf("  Total:      ₹%.2f\n", calc.PriceBreakdown.TotalWithGST)
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
