// Package fetch resolves a model file URL (data:, http(s):// or s3://) into
// bytes and a model format.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/themxtr/idealab2.1-sub000/pkg/analysis"
)

// Payload is a resolved model file.
type Payload struct {
	Data      []byte
	Format    analysis.Format
	MediaType string
	Scheme    string // "data", "http", "https" or "s3"
}

// Fetcher downloads model files.
type Fetcher struct {
	client   *http.Client
	objects  ObjectGetter
	maxBytes int64
	logger   *zap.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithObjectStore enables s3:// sources.
func WithObjectStore(o ObjectGetter) Option {
	return func(f *Fetcher) { f.objects = o }
}

// WithMaxBytes caps payload size. Zero or negative disables the cap.
func WithMaxBytes(n int64) Option {
	return func(f *Fetcher) { f.maxBytes = n }
}

// New creates a Fetcher. timeout bounds each remote download.
func New(timeout time.Duration, logger *zap.Logger, opts ...Option) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	f := &Fetcher{
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch resolves fileURL into a typed payload.
func (f *Fetcher) Fetch(ctx context.Context, fileURL string) (*Payload, error) {
	fileURL = strings.TrimSpace(fileURL)
	if fileURL == "" {
		return nil, fmt.Errorf("%w: empty url", ErrInvalidInput)
	}

	if strings.HasPrefix(fileURL, "data:") {
		mediaType, data, err := DecodeDataURL(fileURL)
		if err != nil {
			return nil, err
		}
		if err := f.checkSize(int64(len(data))); err != nil {
			return nil, err
		}
		return f.typed("data", mediaType, data)
	}

	u, err := url.Parse(fileURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	switch u.Scheme {
	case "http", "https":
		mediaType, data, err := f.fetchHTTP(ctx, fileURL)
		if err != nil {
			return nil, err
		}
		return f.typed(u.Scheme, mediaType, data)
	case "s3":
		if f.objects == nil {
			return nil, ErrS3Disabled
		}
		mediaType, data, err := f.fetchS3(ctx, u)
		if err != nil {
			return nil, err
		}
		return f.typed("s3", mediaType, data)
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidInput, u.Scheme)
	}
}

func (f *Fetcher) typed(scheme, mediaType string, data []byte) (*Payload, error) {
	format, err := ResolveFormat(mediaType, data)
	if err != nil {
		return nil, err
	}
	f.logger.Debug("model fetched",
		zap.String("scheme", scheme),
		zap.String("media_type", mediaType),
		zap.String("format", string(format)),
		zap.Int("bytes", len(data)),
	)
	return &Payload{Data: data, Format: format, MediaType: mediaType, Scheme: scheme}, nil
}

func (f *Fetcher) fetchHTTP(ctx context.Context, fileURL string) (string, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", nil, &FetchError{URL: redact(fileURL), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", nil, &FetchError{
			URL:        redact(fileURL),
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	data, err := f.readAll(resp.Body)
	if err != nil {
		if errors.Is(err, ErrTooLarge) {
			return "", nil, err
		}
		return "", nil, &FetchError{URL: redact(fileURL), Err: err}
	}
	return resp.Header.Get("Content-Type"), data, nil
}

func (f *Fetcher) readAll(r io.Reader) ([]byte, error) {
	if f.maxBytes <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, f.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if err := f.checkSize(int64(len(data))); err != nil {
		return nil, err
	}
	return data, nil
}

func (f *Fetcher) checkSize(n int64) error {
	if f.maxBytes > 0 && n > f.maxBytes {
		return fmt.Errorf("%w: more than %d bytes", ErrTooLarge, f.maxBytes)
	}
	return nil
}

// redact drops query strings, which often carry signed credentials.
func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.RawQuery = ""
	u.User = nil
	return u.String()
}
