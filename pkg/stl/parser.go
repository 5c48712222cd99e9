// Package stl decodes ASCII and binary STL payloads into geometry meshes.
package stl

import (
	"bytes"
	"fmt"
	"os"

	"github.com/themxtr/idealab2.1-sub000/pkg/geometry"
)

// Format identifies an STL encoding.
type Format string

const (
	FormatASCII  Format = "ascii"
	FormatBinary Format = "binary"
)

// DetectFormat picks the STL encoding of data. A "solid" prefix means ASCII
// unless the buffer length matches its binary header exactly, which catches
// exporters that write "solid" into the binary header.
func DetectFormat(data []byte) Format {
	if HasASCIIPrefix(data) && !IsExactBinarySize(data) {
		return FormatASCII
	}
	return FormatBinary
}

// HasASCIIPrefix reports whether the first five bytes spell "solid",
// ignoring case.
func HasASCIIPrefix(data []byte) bool {
	return len(data) >= 5 && bytes.EqualFold(data[:5], []byte("solid"))
}

// Parse decodes an STL buffer of either encoding.
func Parse(data []byte) (*geometry.Mesh, Format, error) {
	format := DetectFormat(data)
	if format == FormatASCII {
		mesh, err := ParseASCII(string(data))
		return mesh, format, err
	}
	mesh, err := ParseBinary(data)
	return mesh, format, err
}

// ParseFile reads an STL file from disk and decodes it.
func ParseFile(filename string) (*geometry.Mesh, Format, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(data)
}
