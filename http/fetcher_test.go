package http_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/spellrule"
	spellrulehttp "github.com/fwojciec/spellrule/http"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = "<html><body><p>Hello</p><p>World</p></body></html>"

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns HTML body from server", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(page))
		}))
		defer server.Close()

		fetcher := spellrulehttp.NewFetcher()
		defer fetcher.Close()

		html, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, page, html)
	})

	t.Run("sends user agent and accepted encodings", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, r.Header.Get("User-Agent")+"|"+r.Header.Get("Accept-Encoding"))
		}))
		defer server.Close()

		fetcher := spellrulehttp.NewFetcher(spellrulehttp.WithUserAgent("test-agent"))

		body, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "test-agent|gzip, deflate", body)
	})

	t.Run("decompresses gzip bodies", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		_, _ = zw.Write([]byte(page))
		require.NoError(t, zw.Close())

		server := compressedServer("gzip", buf.Bytes())
		defer server.Close()

		html, err := spellrulehttp.NewFetcher().Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, page, html)
	})

	t.Run("decompresses zlib-wrapped deflate bodies", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		zw := zlib.NewWriter(&buf)
		_, _ = zw.Write([]byte(page))
		require.NoError(t, zw.Close())

		server := compressedServer("deflate", buf.Bytes())
		defer server.Close()

		html, err := spellrulehttp.NewFetcher().Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, page, html)
	})

	t.Run("decompresses raw deflate bodies", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		fw, err := flate.NewWriter(&buf, flate.DefaultCompression)
		require.NoError(t, err)
		_, _ = fw.Write([]byte(page))
		require.NoError(t, fw.Close())

		server := compressedServer("deflate", buf.Bytes())
		defer server.Close()

		html, err := spellrulehttp.NewFetcher().Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, page, html)
	})

	t.Run("returns EFETCH for corrupt gzip bodies", func(t *testing.T) {
		t.Parallel()

		server := compressedServer("gzip", []byte("not gzip"))
		defer server.Close()

		_, err := spellrulehttp.NewFetcher().Fetch(context.Background(), server.URL)
		assert.Equal(t, spellrule.EFETCH, spellrule.ErrorCode(err))
	})

	t.Run("decodes declared charset to UTF-8", func(t *testing.T) {
		t.Parallel()

		// "Привет" in windows-1251.
		body := append([]byte("<p>"), 0xCF, 0xF0, 0xE8, 0xE2, 0xE5, 0xF2)
		body = append(body, []byte("</p>")...)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=windows-1251")
			_, _ = w.Write(body)
		}))
		defer server.Close()

		html, err := spellrulehttp.NewFetcher().Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "<p>Привет</p>", html)
	})

	t.Run("follows redirects", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/new", http.StatusMovedPermanently)
		})
		mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(page))
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		html, err := spellrulehttp.NewFetcher().Fetch(context.Background(), server.URL+"/old")
		require.NoError(t, err)
		assert.Equal(t, page, html)
	})

	t.Run("returns EFETCH when body exceeds the limit", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, strings.Repeat("a", 64))
		}))
		defer server.Close()

		fetcher := spellrulehttp.NewFetcher(spellrulehttp.WithMaxBodySize(32))

		_, err := fetcher.Fetch(context.Background(), server.URL)
		assert.Equal(t, spellrule.EFETCH, spellrule.ErrorCode(err))
	})

	t.Run("respects custom timeout option", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
			_, _ = w.Write([]byte("response"))
		}))
		defer server.Close()

		// Use a very short timeout that will expire before server responds
		fetcher := spellrulehttp.NewFetcher(spellrulehttp.WithTimeout(10 * time.Millisecond))
		defer fetcher.Close()

		_, err := fetcher.Fetch(context.Background(), server.URL)
		assert.Equal(t, spellrule.EFETCH, spellrule.ErrorCode(err))
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
			_, _ = w.Write([]byte("response"))
		}))
		defer server.Close()

		fetcher := spellrulehttp.NewFetcher()
		defer fetcher.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel() // Cancel immediately

		_, err := fetcher.Fetch(ctx, server.URL)
		assert.Equal(t, spellrule.EFETCH, spellrule.ErrorCode(err))
		assert.True(t, errors.Is(err, context.Canceled))
	})

	t.Run("returns EFETCH for non-existent host", func(t *testing.T) {
		t.Parallel()

		fetcher := spellrulehttp.NewFetcher(spellrulehttp.WithTimeout(100 * time.Millisecond))
		defer fetcher.Close()

		_, err := fetcher.Fetch(context.Background(), "http://non-existent-host.invalid/page")
		assert.Equal(t, spellrule.EFETCH, spellrule.ErrorCode(err))
	})

	t.Run("returns EFETCH for non-2xx status codes", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("404 Not Found"))
		}))
		defer server.Close()

		fetcher := spellrulehttp.NewFetcher()
		defer fetcher.Close()

		_, err := fetcher.Fetch(context.Background(), server.URL)
		require.Error(t, err)
		assert.Equal(t, spellrule.EFETCH, spellrule.ErrorCode(err))
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("rate limits requests to the same host", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(page))
		}))
		defer server.Close()

		fetcher := spellrulehttp.NewFetcher(spellrulehttp.WithRateLimit(10))

		_, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)

		start := time.Now()
		_, err = fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
	})
}

func compressedServer(encoding string, body []byte) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Encoding", encoding)
		_, _ = w.Write(body)
	}))
}
