package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/themxtr/idealab2.1-sub000/internal/config"
	"github.com/themxtr/idealab2.1-sub000/pkg/analysis"
	"github.com/themxtr/idealab2.1-sub000/pkg/openscad"
)

// scadRenderer searches OPENSCADPATH for library includes, as openscad does.
func scadRenderer() *openscad.Renderer {
	return openscad.NewRenderer(filepath.SplitList(os.Getenv("OPENSCADPATH"))...)
}

// watchTargets expands OpenSCAD sources to every file they include.
func watchTargets(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		if !openscad.IsSource(p) {
			out = append(out, p)
			continue
		}
		deps, err := scadRenderer().Dependencies(p)
		if err != nil {
			return nil, err
		}
		out = append(out, deps...)
	}
	return out, nil
}

// loadModel reads a local path (STL, GLB or OpenSCAD source) or resolves a data:, http(s):// or s3:// URL.
func loadModel(ctx context.Context, cfg *config.Config, log *zap.Logger, src string) ([]byte, analysis.Format, error) {
	if strings.HasPrefix(src, "data:") || strings.Contains(src, "://") {
		fetcher, err := newFetcher(ctx, cfg, log)
		if err != nil {
			return nil, "", err
		}
		p, err := fetcher.Fetch(ctx, src)
		if err != nil {
			return nil, "", err
		}
		return p.Data, p.Format, nil
	}

	if openscad.IsSource(src) {
		data, err := scadRenderer().Render(ctx, src)
		if err != nil {
			return nil, "", err
		}
		return data, analysis.FormatSTLBinary, nil
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return nil, "", err
	}
	format, err := analysis.SniffFormat(data)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", filepath.Base(src), err)
	}
	return data, format, nil
}
