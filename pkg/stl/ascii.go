package stl

import (
	"math"
	"strconv"
	"strings"

	"github.com/themxtr/idealab2.1-sub000/pkg/geometry"
)

// ParseASCII decodes an ASCII STL payload. Keywords are case-insensitive and
// any whitespace (including line breaks inside a block) separates tokens.
// Facets with a vertex count other than three, or with unparseable numbers,
// are dropped and parsing continues with the next facet. A payload that
// does not start with "solid" yields an empty mesh and a *MalformedMeshError.
func ParseASCII(text string) (*geometry.Mesh, error) {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return geometry.NewMesh(""), &MalformedMeshError{Format: "ascii", Err: ErrEmptyInput}
	}
	if !strings.EqualFold(tokens[0], "solid") {
		return geometry.NewMesh(""), &MalformedMeshError{Format: "ascii", Err: ErrNotASCII}
	}

	p := &asciiParser{tokens: tokens, pos: 1}
	mesh := geometry.NewMesh(p.solidName())

	for p.pos < len(p.tokens) {
		if !p.is("facet") {
			p.pos++
			continue
		}
		if facet, ok := p.facet(); ok {
			mesh.AddFacet(facet)
		}
	}

	return mesh, nil
}

type asciiParser struct {
	tokens []string
	pos    int
}

func (p *asciiParser) is(keyword string) bool {
	return p.pos < len(p.tokens) && strings.EqualFold(p.tokens[p.pos], keyword)
}

// solidName consumes the name following "solid", up to the first "facet"
// or "endsolid".
func (p *asciiParser) solidName() string {
	start := p.pos
	for p.pos < len(p.tokens) && !p.is("facet") && !p.is("endsolid") {
		p.pos++
	}
	return strings.Join(p.tokens[start:p.pos], " ")
}

// facet parses one block starting at "facet". It always advances past the
// block (or to the next "facet" keyword) so a bad block cannot stall the
// parse.
func (p *asciiParser) facet() (geometry.Facet, bool) {
	p.pos++ // facet

	valid := true
	var normal geometry.Vector3
	if p.is("normal") {
		p.pos++
		n, ok := p.vector()
		normal = n
		valid = valid && ok
	} else {
		valid = false
	}

	var vertices []geometry.Vector3
	for p.pos < len(p.tokens) {
		switch {
		case p.is("vertex"):
			p.pos++
			v, ok := p.vector()
			valid = valid && ok
			vertices = append(vertices, v)
		case p.is("endfacet"):
			p.pos++
			if !valid || len(vertices) != 3 {
				return geometry.Facet{}, false
			}
			return geometry.NewFacet(normal, vertices[0], vertices[1], vertices[2]), true
		case p.is("facet"), p.is("endsolid"):
			// Block never closed.
			return geometry.Facet{}, false
		default:
			// outer, loop, endloop and stray tokens
			p.pos++
		}
	}
	return geometry.Facet{}, false
}

// vector reads three floats. On failure it stops at the first token that is
// not a number, leaving keywords in place for the caller.
func (p *asciiParser) vector() (geometry.Vector3, bool) {
	var c [3]float64
	for i := range c {
		if p.pos >= len(p.tokens) {
			return geometry.Vector3{}, false
		}
		f, err := strconv.ParseFloat(p.tokens[p.pos], 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return geometry.Vector3{}, false
		}
		c[i] = f
		p.pos++
	}
	return geometry.NewVector3(c[0], c[1], c[2]), true
}
