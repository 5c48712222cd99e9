package openscad

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/themxtr/idealab2.1-sub000/pkg/stl"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestIsSource(t *testing.T) {
	assert.True(t, IsSource("bracket.scad"))
	assert.True(t, IsSource("/tmp/BRACKET.SCAD"))
	assert.False(t, IsSource("bracket.stl"))
}

func TestDependencies(t *testing.T) {
	dir := t.TempDir()
	lib := filepath.Join(t.TempDir(), "lib")

	writeFile(t, filepath.Join(dir, "main.scad"), `
use <parts/hinge.scad>
include <./common.scad>
// use <ignored.scad>
include <threads.scad>
cube(10);
`)
	writeFile(t, filepath.Join(dir, "parts", "hinge.scad"), "include <../common.scad>\n")
	writeFile(t, filepath.Join(dir, "common.scad"), "$fn = 64;\n")
	writeFile(t, filepath.Join(lib, "threads.scad"), "module thread() {}\n")

	deps, err := NewRenderer(lib).Dependencies(filepath.Join(dir, "main.scad"))
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "main.scad"),
		filepath.Join(dir, "parts", "hinge.scad"),
		filepath.Join(dir, "common.scad"),
		filepath.Join(lib, "threads.scad"),
	}, deps)
}

func TestDependenciesCycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.scad"), "use <b.scad>\n")
	writeFile(t, filepath.Join(dir, "b.scad"), "use <a.scad>\n")

	deps, err := NewRenderer().Dependencies(filepath.Join(dir, "a.scad"))
	require.NoError(t, err)
	assert.Len(t, deps, 2)
}

func TestDependenciesMissingFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.scad"), "use <missing.scad>\n")

	_, err := NewRenderer().Dependencies(filepath.Join(dir, "a.scad"))
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	r := NewRenderer()
	dir := t.TempDir()
	src := filepath.Join(dir, "cube.scad")
	writeFile(t, src, "cube([10, 20, 30]);\n")

	if _, err := exec.LookPath("openscad"); err != nil {
		_, err := r.Render(context.Background(), src)
		assert.True(t, errors.Is(err, ErrNotInstalled))
		t.Skip("openscad not installed")
	}

	data, err := r.Render(context.Background(), src)
	require.NoError(t, err)

	mesh, err := stl.ParseBinary(data)
	require.NoError(t, err)
	assert.InDelta(t, 6000, mesh.Volume(), 1e-3)
}
