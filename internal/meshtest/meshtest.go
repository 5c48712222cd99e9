// Package meshtest builds reference meshes and encodes them as STL and GLB
// payloads for tests.
package meshtest

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/themxtr/idealab2.1-sub000/pkg/geometry"
)

// cubeFaces lists the 12 outward, counter-clockwise triangles of the unit
// cube as corner indices (bit 0 = x, bit 1 = y, bit 2 = z).
var cubeFaces = [12][3]int{
	{0, 2, 3}, {0, 3, 1}, // z = 0
	{4, 5, 7}, {4, 7, 6}, // z = 1
	{0, 1, 5}, {0, 5, 4}, // y = 0
	{2, 6, 7}, {2, 7, 3}, // y = 1
	{0, 4, 6}, {0, 6, 2}, // x = 0
	{1, 3, 7}, {1, 7, 5}, // x = 1
}

// Cuboid returns a closed, outward-wound box spanning min..max.
func Cuboid(min, max geometry.Vector3) *geometry.Mesh {
	corners := cuboidCorners(min, max)
	mesh := geometry.NewMesh("cuboid")
	for _, face := range cubeFaces {
		f := geometry.Facet{Vertices: [3]geometry.Vector3{corners[face[0]], corners[face[1]], corners[face[2]]}}
		f.Normal = f.ComputedNormal()
		mesh.AddFacet(f)
	}
	return mesh
}

// Cube returns an axis-aligned cube with one corner at the origin.
func Cube(side float64) *geometry.Mesh {
	return Cuboid(geometry.Vector3{}, geometry.NewVector3(side, side, side))
}

func cuboidCorners(min, max geometry.Vector3) [8]geometry.Vector3 {
	var c [8]geometry.Vector3
	for i := range c {
		p := min
		if i&1 != 0 {
			p.X = max.X
		}
		if i&2 != 0 {
			p.Y = max.Y
		}
		if i&4 != 0 {
			p.Z = max.Z
		}
		c[i] = p
	}
	return c
}

// ASCII encodes a mesh as an ASCII STL document.
func ASCII(mesh *geometry.Mesh) string {
	var b strings.Builder
	fmt.Fprintf(&b, "solid %s\n", mesh.Name)
	for _, f := range mesh.Facets {
		fmt.Fprintf(&b, "  facet normal %e %e %e\n", f.Normal.X, f.Normal.Y, f.Normal.Z)
		b.WriteString("    outer loop\n")
		for _, v := range f.Vertices {
			fmt.Fprintf(&b, "      vertex %e %e %e\n", v.X, v.Y, v.Z)
		}
		b.WriteString("    endloop\n  endfacet\n")
	}
	fmt.Fprintf(&b, "endsolid %s\n", mesh.Name)
	return b.String()
}

// Binary encodes a mesh as a binary STL buffer.
func Binary(mesh *geometry.Mesh) []byte {
	return BinaryWithHeader(mesh, "meshtest")
}

// BinaryWithHeader encodes a mesh with the given 80-byte header text.
func BinaryWithHeader(mesh *geometry.Mesh, header string) []byte {
	buf := make([]byte, 84+50*len(mesh.Facets))
	copy(buf[:80], header)
	binary.LittleEndian.PutUint32(buf[80:], uint32(len(mesh.Facets)))
	off := 84
	put := func(v geometry.Vector3) {
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(float32(v.X)))
		binary.LittleEndian.PutUint32(buf[off+4:], math.Float32bits(float32(v.Y)))
		binary.LittleEndian.PutUint32(buf[off+8:], math.Float32bits(float32(v.Z)))
		off += 12
	}
	for _, f := range mesh.Facets {
		put(f.Normal)
		for _, v := range f.Vertices {
			put(v)
		}
		off += 2
	}
	return buf
}

// GLBNode places a mesh in a GLB scene.
type GLBNode struct {
	Mesh        *geometry.Mesh
	Translation [3]float64
	Scale       [3]float64 // zero means unit scale
	Indexed     bool
}

// GLB encodes the given nodes as root nodes of a single-scene GLB document.
func GLB(nodes ...GLBNode) ([]byte, error) {
	doc := gltf.NewDocument()
	for i, n := range nodes {
		positions := make([][3]float32, 0, 3*len(n.Mesh.Facets))
		for _, f := range n.Mesh.Facets {
			for _, v := range f.Vertices {
				positions = append(positions, [3]float32{float32(v.X), float32(v.Y), float32(v.Z)})
			}
		}
		prim := &gltf.Primitive{
			Attributes: map[string]int{gltf.POSITION: modeler.WritePosition(doc, positions)},
		}
		if n.Indexed {
			indices := make([]uint32, len(positions))
			for j := range indices {
				indices[j] = uint32(j)
			}
			prim.Indices = gltf.Index(modeler.WriteIndices(doc, indices))
		}
		doc.Meshes = append(doc.Meshes, &gltf.Mesh{Name: n.Mesh.Name, Primitives: []*gltf.Primitive{prim}})

		node := &gltf.Node{Mesh: gltf.Index(i), Translation: n.Translation}
		if n.Scale != ([3]float64{}) {
			node.Scale = n.Scale
		}
		doc.Nodes = append(doc.Nodes, node)
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, i)
	}

	var buf bytes.Buffer
	enc := gltf.NewEncoder(&buf)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
