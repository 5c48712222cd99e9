package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/themxtr/idealab2.1-sub000/internal/quote"
	"github.com/themxtr/idealab2.1-sub000/pkg/watcher"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [file...]",
	Short: "Re-price models whenever they are saved",
	Long: `Watch one or more local model files and print a fresh quote each time
one of them changes. Useful while iterating on a design in CAD.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 300*time.Millisecond, "Quiet period before re-analyzing")
	watchCmd.Flags().StringVarP(&analyzeOrientation, "orientation", "o", "", "Estimate support for vertical, flat or lower-wastage")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc := quote.NewService(quoteSettings(cfg), nil, log)
	report := func(path string) {
		data, format, err := loadModel(ctx, cfg, log, path)
		if err != nil {
			log.Warn("cannot read model", zap.String("path", path), zap.Error(err))
			return
		}
		res, err := svc.Quote(ctx, data, format, analyzeOrientation)
		if err != nil {
			log.Warn("cannot analyze model", zap.String("path", path), zap.Error(err))
			return
		}
		price := res.Price.Rounded()
		fmt.Printf("[%s] %s: %.2f g, student ₹%.2f, guest ₹%.2f\n",
			time.Now().Format("15:04:05"), path, price.WeightGrams, price.CostStudent, price.CostGuest)
	}

	w, err := watcher.New(watchDebounce, log)
	if err != nil {
		return err
	}
	defer w.Close()

	for _, path := range args {
		targets, err := watchTargets([]string{path})
		if err != nil {
			return err
		}
		// Any change in an included file re-quotes the top-level model.
		model := path
		if err := w.Watch(targets, func(string) { report(model) }); err != nil {
			return err
		}
	}
	for _, path := range args {
		report(path)
	}

	log.Info("watching for changes", zap.Strings("files", args))
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
