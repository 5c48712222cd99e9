package fetch

import (
	"errors"
	"fmt"

	"github.com/themxtr/idealab2.1-sub000/pkg/analysis"
)

var (
	// ErrInvalidInput is returned for missing or structurally invalid URLs.
	ErrInvalidInput = errors.New("invalid file url")
	// ErrUnsupportedFormat aliases the analysis sentinel so either package's
	// name matches with errors.Is.
	ErrUnsupportedFormat = analysis.ErrUnsupportedFormat
	// ErrTooLarge is returned when a payload exceeds the configured cap.
	ErrTooLarge = errors.New("file exceeds size limit")
	// ErrS3Disabled is returned for s3:// URLs when no object store is set.
	ErrS3Disabled = errors.New("s3 sources are not enabled")
)

// FetchError reports a failed download of a remote model.
type FetchError struct {
	URL        string
	StatusCode int // zero when the request never completed
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: upstream status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
