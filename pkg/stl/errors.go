package stl

import (
	"errors"
	"fmt"
)

// Reader errors.
var (
	ErrTruncated        = errors.New("buffer shorter than declared triangle count")
	ErrTooManyTriangles = errors.New("triangle count exceeds limit")
	ErrNotASCII         = errors.New("missing 'solid' header")
	ErrEmptyInput       = errors.New("empty input")
)

// MalformedMeshError reports an STL payload that could not be decoded.
// The reader that returns it always returns an empty mesh alongside, so
// callers can choose to degrade instead of failing.
type MalformedMeshError struct {
	Format string // "binary" or "ascii"
	Reason string
	Err    error
}

func (e *MalformedMeshError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("malformed %s STL: %v", e.Format, e.Err)
	}
	return fmt.Sprintf("malformed %s STL: %v (%s)", e.Format, e.Err, e.Reason)
}

func (e *MalformedMeshError) Unwrap() error {
	return e.Err
}

// IsMalformed reports whether err is (or wraps) a MalformedMeshError.
func IsMalformed(err error) bool {
	var mErr *MalformedMeshError
	return errors.As(err, &mErr)
}
