package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/themxtr/idealab2.1-sub000/internal/config"
	"github.com/themxtr/idealab2.1-sub000/internal/logger"
	"github.com/themxtr/idealab2.1-sub000/version"
)

var flags config.Flags

var rootCmd = &cobra.Command{
	Use:   "idealab",
	Short: "Analyze and price 3D prints and PCBs for the innovation lab",
	Long: `idealab measures STL and GLB models (bounding box, enclosed volume,
support wastage), prices prints for students and guests, and quotes PCBs
from the lab's option catalog. Run "idealab serve" for the HTTP API.`,
	Version:       version.GetFullVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags.Register(rootCmd.PersistentFlags())
}

// setup loads the configuration and builds the logger for a command.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadWithFlags(&flags)
	if err != nil {
		return nil, nil, err
	}
	log := logger.NewFromConfig(cfg.Logging.Level, cfg.Logging.LogFile, cfg.Logging.JSON)
	return cfg, log, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
