// Package http provides the HTTP side of spellrule: a Fetcher for static
// pages and the API server.
package http

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/spellrule"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"golang.org/x/net/html/charset"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
// Kept consistent with rod.DefaultFetchTimeout (10s).
const DefaultFetchTimeout = 10 * time.Second

// DefaultMaxBodySize caps the decoded response body.
const DefaultMaxBodySize = 10 << 20

// DefaultUserAgent is sent with every request unless overridden.
const DefaultUserAgent = "Mozilla/5.0 (compatible; spellrule/1.0; +https://github.com/fwojciec/spellrule)"

// Ensure Fetcher implements spellrule.Fetcher at compile time.
var _ spellrule.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content from URLs using HTTP requests.
// Unlike rod.Fetcher, this does not execute JavaScript and is suitable
// for static sites only.
type Fetcher struct {
	client      *http.Client
	timeout     time.Duration
	maxBodySize int64
	userAgent   string
	limiter     *HostLimiter
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithMaxBodySize sets the maximum decoded body size in bytes.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = n
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithRateLimit limits requests to rps per host. Zero or negative disables
// limiting.
func WithRateLimit(rps float64) Option {
	return func(f *Fetcher) {
		if rps > 0 {
			f.limiter = NewHostLimiter(rps, 1)
		} else {
			f.limiter = nil
		}
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:     DefaultFetchTimeout,
		maxBodySize: DefaultMaxBodySize,
		userAgent:   DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the HTML content from the given URL.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", spellrule.WrapError(spellrule.EFETCH, err, "invalid request for %s", url)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	// Setting Accept-Encoding disables the transport's transparent gzip
	// handling, so decoding happens in decodeBody.
	req.Header.Set("Accept-Encoding", "gzip, deflate")

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, req.URL.Hostname()); err != nil {
			return "", spellrule.WrapError(spellrule.EFETCH, err, "rate limit wait for %s", url)
		}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", spellrule.WrapError(spellrule.EFETCH, err, "fetch %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", spellrule.Errorf(spellrule.EFETCH, "HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := f.readBody(resp)
	if err != nil {
		return "", spellrule.WrapError(spellrule.EFETCH, err, "read %s: %v", url, err)
	}
	return body, nil
}

func (f *Fetcher) readBody(resp *http.Response) (string, error) {
	decoded, err := decodeBody(resp.Body, resp.Header.Get("Content-Encoding"))
	if err != nil {
		return "", err
	}
	defer decoded.Close()

	utf8, err := charset.NewReader(decoded, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("charset: %w", err)
	}

	body, err := io.ReadAll(io.LimitReader(utf8, f.maxBodySize+1))
	if err != nil {
		return "", err
	}
	if int64(len(body)) > f.maxBodySize {
		return "", fmt.Errorf("body exceeds %d bytes", f.maxBodySize)
	}
	return string(body), nil
}

// decodeBody wraps r with a decompressor for the given Content-Encoding.
// "deflate" accepts both zlib-wrapped and raw deflate streams.
func decodeBody(r io.Reader, encoding string) (io.ReadCloser, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "identity":
		return io.NopCloser(r), nil
	case "gzip", "x-gzip":
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return zr, nil
	case "deflate":
		br := bufio.NewReader(r)
		header, _ := br.Peek(2)
		if isZlibHeader(header) {
			zr, err := zlib.NewReader(br)
			if err != nil {
				return nil, fmt.Errorf("zlib: %w", err)
			}
			return zr, nil
		}
		return flate.NewReader(br), nil
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", encoding)
	}
}

// isZlibHeader reports whether b starts with an RFC 1950 header using the
// deflate method.
func isZlibHeader(b []byte) bool {
	if len(b) < 2 {
		return false
	}
	return b[0]&0x0f == 8 && (uint16(b[0])<<8|uint16(b[1]))%31 == 0
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
