package fetch

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"github.com/themxtr/idealab2.1-sub000/pkg/analysis"
	"github.com/themxtr/idealab2.1-sub000/pkg/stl"
)

// MIME types written into data URLs.
const (
	MIMEGLB = "model/gltf-binary"
	MIMESTL = "model/stl"
)

// DecodeDataURL splits a data: URL into its media type and payload.
// Base64 payloads tolerate missing padding and embedded whitespace;
// anything else is percent-decoded.
func DecodeDataURL(raw string) (mediaType string, data []byte, err error) {
	rest, ok := strings.CutPrefix(raw, "data:")
	if !ok {
		return "", nil, fmt.Errorf("%w: not a data url", ErrInvalidInput)
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("%w: data url has no payload separator", ErrInvalidInput)
	}

	isBase64 := false
	params := strings.Split(meta, ";")
	mediaType = strings.ToLower(strings.TrimSpace(params[0]))
	for _, p := range params[1:] {
		if strings.EqualFold(strings.TrimSpace(p), "base64") {
			isBase64 = true
		}
	}

	if !isBase64 {
		text, err := url.PathUnescape(payload)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return mediaType, []byte(text), nil
	}

	payload = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, payload)
	data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
	if err != nil {
		return "", nil, fmt.Errorf("%w: bad base64 payload: %v", ErrInvalidInput, err)
	}
	return mediaType, data, nil
}

// EncodeDataURL renders a payload as a base64 data URL typed for format.
func EncodeDataURL(format analysis.Format, data []byte) string {
	return "data:" + MIMEFor(format) + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// MIMEFor returns the media type used for a model format.
func MIMEFor(format analysis.Format) string {
	if format == analysis.FormatGLB {
		return MIMEGLB
	}
	return MIMESTL
}

// ResolveFormat picks the payload format from a declared media type,
// falling back to magic-byte sniffing when the type is absent or generic.
func ResolveFormat(mediaType string, data []byte) (analysis.Format, error) {
	mt := strings.ToLower(strings.TrimSpace(mediaType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}

	switch mt {
	case MIMEGLB:
		return analysis.FormatGLB, nil
	case MIMESTL, "model/x.stl-binary", "model/x.stl-ascii", "application/sla",
		"application/vnd.ms-pki.stl", "application/x-navistyle":
		// Declared STL: only the ASCII/binary choice comes from the bytes.
		// Short or garbled bodies stay STL so the failure policy applies.
		if stl.DetectFormat(data) == stl.FormatASCII {
			return analysis.FormatSTLASCII, nil
		}
		return analysis.FormatSTLBinary, nil
	default:
		return analysis.SniffFormat(data)
	}
}
