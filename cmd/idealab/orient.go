package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/themxtr/idealab2.1-sub000/pkg/analysis"
)

var orientCmd = &cobra.Command{
	Use:   "orient [file|url]",
	Short: "Compare support wastage of the vertical and flat orientations",
	Args:  cobra.ExactArgs(1),
	RunE:  runOrient,
}

func init() {
	rootCmd.AddCommand(orientCmd)
}

func runOrient(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	data, format, err := loadModel(cmd.Context(), cfg, log, args[0])
	if err != nil {
		return err
	}

	report, err := analysis.Analyze(cmd.Context(), data, format, analysis.Options{OnParseFailure: analysis.Throw})
	if err != nil {
		return err
	}

	params := cfg.Support
	choice := analysis.ChooseLowerWastageOrientation(report.Mesh, params)

	fmt.Printf("File: %s (%d triangles)\n", filepath.Base(args[0]), report.Mesh.FacetCount())
	fmt.Printf("Overhang threshold: %.2f\n\n", params.OverhangThreshold)
	printSupport(choice)
	return nil
}
