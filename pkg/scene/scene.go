// Package scene analyzes GLB (binary glTF) scenes: every triangle primitive
// is moved into world space and measured with the shared mesh analyzer.
package scene

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/themxtr/idealab2.1-sub000/pkg/geometry"
)

// GLBMagic is the little-endian uint32 of the ASCII bytes "glTF".
const GLBMagic = 0x46546C67

// Scene errors.
var (
	ErrNotGLB        = errors.New("missing glTF magic")
	ErrNoPosition    = errors.New("primitive has no POSITION attribute")
	ErrIndexRange    = errors.New("index out of range")
	ErrNodeCycle     = errors.New("node hierarchy contains a cycle")
	ErrMissingObject = errors.New("reference to missing object")
	ErrNonFinite     = errors.New("non-finite vertex position")
)

// ParseError reports a GLB payload the scene decoder rejected. Scene
// analysis never degrades to partial or zero results.
type ParseError struct {
	Stage string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("glb %s: %v", e.Stage, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Result holds the measurements of a whole scene.
type Result struct {
	// Mesh holds every triangle of the scene in world space.
	Mesh        *geometry.Mesh
	BoundingBox geometry.BoundingBox
	Volume      float64
	// MeshNodes counts the nodes that referenced a mesh.
	MeshNodes int
	// SkippedPrimitives counts point, line, strip and fan primitives,
	// which do not contribute to volume.
	SkippedPrimitives int
}

// IsGLB reports whether data starts with the GLB magic.
func IsGLB(data []byte) bool {
	return len(data) >= 4 && binary.LittleEndian.Uint32(data) == GLBMagic
}

// Analyze decodes a GLB buffer and measures its default scene.
func Analyze(ctx context.Context, data []byte) (*Result, error) {
	if !IsGLB(data) {
		return nil, &ParseError{Stage: "decode", Err: ErrNotGLB}
	}

	doc := new(gltf.Document)
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(doc); err != nil {
		return nil, &ParseError{Stage: "decode", Err: err}
	}

	w := &walker{
		ctx:      ctx,
		doc:      doc,
		result:   &Result{Mesh: geometry.NewMesh(sceneName(doc))},
		visiting: make(map[int]bool),
	}
	for _, root := range rootNodes(doc) {
		if err := w.visit(root, mgl64.Ident4()); err != nil {
			return nil, err
		}
	}

	w.result.BoundingBox = w.result.Mesh.BoundingBox()
	w.result.Volume = w.result.Mesh.Volume()
	return w.result, nil
}

func sceneName(doc *gltf.Document) string {
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		return doc.Scenes[*doc.Scene].Name
	}
	return ""
}

// rootNodes returns the default scene's roots. Documents without a default
// scene contribute the roots of every scene; documents without scenes
// contribute every node that is not a child of another node.
func rootNodes(doc *gltf.Document) []int {
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		return doc.Scenes[*doc.Scene].Nodes
	}
	if len(doc.Scenes) > 0 {
		var roots []int
		for _, s := range doc.Scenes {
			roots = append(roots, s.Nodes...)
		}
		return roots
	}

	isChild := make(map[int]bool)
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			isChild[c] = true
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !isChild[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

type walker struct {
	ctx      context.Context
	doc      *gltf.Document
	result   *Result
	visiting map[int]bool
}

func (w *walker) visit(idx int, parent mgl64.Mat4) error {
	if err := w.ctx.Err(); err != nil {
		return err
	}
	if idx < 0 || idx >= len(w.doc.Nodes) {
		return &ParseError{Stage: "scene", Err: fmt.Errorf("node %d: %w", idx, ErrMissingObject)}
	}
	if w.visiting[idx] {
		return &ParseError{Stage: "scene", Err: fmt.Errorf("node %d: %w", idx, ErrNodeCycle)}
	}
	w.visiting[idx] = true
	defer delete(w.visiting, idx)

	node := w.doc.Nodes[idx]
	world := parent.Mul4(localTransform(node))

	if node.Mesh != nil {
		if err := w.addMesh(*node.Mesh, world); err != nil {
			return err
		}
		w.result.MeshNodes++
	}

	for _, child := range node.Children {
		if err := w.visit(child, world); err != nil {
			return err
		}
	}
	return nil
}

// localTransform returns the node's matrix, or T*R*S when no explicit
// matrix is set.
func localTransform(node *gltf.Node) mgl64.Mat4 {
	if m := node.MatrixOrDefault(); m != gltf.DefaultMatrix {
		return mgl64.Mat4(m)
	}
	t := node.TranslationOrDefault()
	r := node.RotationOrDefault()
	s := node.ScaleOrDefault()
	rot := mgl64.Quat{W: r[3], V: mgl64.Vec3{r[0], r[1], r[2]}}.Normalize()
	return mgl64.Translate3D(t[0], t[1], t[2]).
		Mul4(rot.Mat4()).
		Mul4(mgl64.Scale3D(s[0], s[1], s[2]))
}

func (w *walker) addMesh(meshIdx int, world mgl64.Mat4) error {
	if meshIdx < 0 || meshIdx >= len(w.doc.Meshes) {
		return &ParseError{Stage: "mesh", Err: fmt.Errorf("mesh %d: %w", meshIdx, ErrMissingObject)}
	}
	for pi, prim := range w.doc.Meshes[meshIdx].Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			w.result.SkippedPrimitives++
			continue
		}
		if err := w.addPrimitive(prim, world); err != nil {
			return &ParseError{Stage: fmt.Sprintf("mesh %d primitive %d", meshIdx, pi), Err: err}
		}
	}
	return nil
}

func (w *walker) addPrimitive(prim *gltf.Primitive, world mgl64.Mat4) error {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return ErrNoPosition
	}
	posAcr, err := w.accessor(posIdx)
	if err != nil {
		return err
	}
	positions, err := modeler.ReadPosition(w.doc, posAcr, nil)
	if err != nil {
		return fmt.Errorf("reading positions: %w", err)
	}

	indices, err := w.indices(prim, len(positions))
	if err != nil {
		return err
	}

	for i := 0; i+2 < len(indices); i += 3 {
		var tri [3]geometry.Vector3
		for k := 0; k < 3; k++ {
			idx := indices[i+k]
			if int(idx) >= len(positions) {
				return fmt.Errorf("index %d of %d positions: %w", idx, len(positions), ErrIndexRange)
			}
			p := geometry.FromFloat32(positions[idx])
			v := mgl64.TransformCoordinate(mgl64.Vec3{p.X, p.Y, p.Z}, world)
			tri[k] = geometry.NewVector3(v[0], v[1], v[2])
			// Checked after the transform so a bad node matrix is caught too.
			if !tri[k].IsFinite() {
				return fmt.Errorf("index %d: %w", idx, ErrNonFinite)
			}
		}
		f := geometry.Facet{Vertices: tri}
		f.Normal = f.ComputedNormal()
		w.result.Mesh.AddFacet(f)
	}
	return nil
}

// indices returns the primitive's index list, synthesizing 0..n-1 for
// non-indexed geometry.
func (w *walker) indices(prim *gltf.Primitive, vertexCount int) ([]uint32, error) {
	if prim.Indices == nil {
		out := make([]uint32, vertexCount)
		for i := range out {
			out[i] = uint32(i)
		}
		return out, nil
	}
	acr, err := w.accessor(*prim.Indices)
	if err != nil {
		return nil, err
	}
	out, err := modeler.ReadIndices(w.doc, acr, nil)
	if err != nil {
		return nil, fmt.Errorf("reading indices: %w", err)
	}
	return out, nil
}

func (w *walker) accessor(idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(w.doc.Accessors) {
		return nil, fmt.Errorf("accessor %d: %w", idx, ErrMissingObject)
	}
	return w.doc.Accessors[idx], nil
}
