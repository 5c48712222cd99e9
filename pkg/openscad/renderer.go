// Package openscad renders OpenSCAD sources to STL so they can be quoted
// like any other model.
package openscad

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrNotInstalled is returned when the openscad binary is not on PATH.
var ErrNotInstalled = errors.New("openscad not found in PATH")

// Ext is the OpenSCAD source extension.
const Ext = ".scad"

var depRegex = regexp.MustCompile(`^\s*(?:use|include)\s*<([^>]+)>`)

// IsSource reports whether path names an OpenSCAD source file.
func IsSource(path string) bool {
	return strings.EqualFold(filepath.Ext(path), Ext)
}

// Renderer invokes the openscad CLI.
type Renderer struct {
	binary  string
	libDirs []string
}

// NewRenderer creates a renderer. libDirs are searched for use/include
// targets that are not found next to the including file.
func NewRenderer(libDirs ...string) *Renderer {
	return &Renderer{binary: "openscad", libDirs: libDirs}
}

// Render exports scadFile as binary STL and returns the bytes.
func (r *Renderer) Render(ctx context.Context, scadFile string) ([]byte, error) {
	bin, err := exec.LookPath(r.binary)
	if err != nil {
		return nil, ErrNotInstalled
	}

	abs, err := filepath.Abs(scadFile)
	if err != nil {
		return nil, err
	}

	tmp, err := os.MkdirTemp("", "idealab-scad-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmp)
	out := filepath.Join(tmp, "model.stl")

	cmd := exec.CommandContext(ctx, bin, "--export-format", "binstl", "-o", out, abs)
	cmd.Dir = filepath.Dir(abs)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("render %s: %w", filepath.Base(scadFile), err)
		}
		return nil, fmt.Errorf("render %s: %w: %s", filepath.Base(scadFile), err, lastLine(msg))
	}
	return os.ReadFile(out)
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// Dependencies returns scadFile followed by every file it reaches through
// use and include statements, as absolute paths without duplicates.
func (r *Renderer) Dependencies(scadFile string) ([]string, error) {
	abs, err := filepath.Abs(scadFile)
	if err != nil {
		return nil, err
	}

	visited := make(map[string]bool)
	var deps []string
	var walk func(string) error
	walk = func(file string) error {
		if visited[file] {
			return nil
		}
		visited[file] = true
		deps = append(deps, file)

		direct, err := r.parseDependencies(file)
		if err != nil {
			return err
		}
		for _, dep := range direct {
			if err := walk(dep); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(abs); err != nil {
		return nil, err
	}
	return deps, nil
}

func (r *Renderer) parseDependencies(scadFile string) ([]string, error) {
	file, err := os.Open(scadFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", scadFile, err)
	}
	defer file.Close()

	var deps []string
	dir := filepath.Dir(scadFile)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "//") {
			continue
		}
		if m := depRegex.FindStringSubmatch(line); m != nil {
			deps = append(deps, r.resolve(m[1], dir))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", scadFile, err)
	}
	return deps, nil
}

// resolve finds dep relative to the including file, then the library dirs.
func (r *Renderer) resolve(dep, dir string) string {
	local := filepath.Clean(filepath.Join(dir, dep))
	if filepath.IsAbs(dep) || strings.HasPrefix(dep, "./") || strings.HasPrefix(dep, "../") {
		if filepath.IsAbs(dep) {
			return filepath.Clean(dep)
		}
		return local
	}
	if _, err := os.Stat(local); err == nil {
		return local
	}
	for _, lib := range r.libDirs {
		candidate := filepath.Clean(filepath.Join(lib, dep))
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return local
}
