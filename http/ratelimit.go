package http

import (
	"context"
	"sync"

	"github.com/fwojciec/spellrule"
	"golang.org/x/time/rate"
)

// HostLimiter spaces out fetches per host. Hosts are keyed like rules, so
// "Example.COM." and "example.com" draw from the same bucket.
type HostLimiter struct {
	limit rate.Limit
	burst int

	mu      sync.Mutex
	buckets map[string]*rate.Limiter
}

// NewHostLimiter returns a limiter allowing rps fetches per second to each
// host, with up to burst fetches back to back. A burst below 1 is 1.
func NewHostLimiter(rps float64, burst int) *HostLimiter {
	return &HostLimiter{
		limit:   rate.Limit(rps),
		burst:   max(burst, 1),
		buckets: make(map[string]*rate.Limiter),
	}
}

// Wait blocks until a fetch to host is allowed or ctx is done.
func (h *HostLimiter) Wait(ctx context.Context, host string) error {
	return h.bucket(host).Wait(ctx)
}

func (h *HostLimiter) bucket(host string) *rate.Limiter {
	key := spellrule.NormalizeSite(host)

	h.mu.Lock()
	defer h.mu.Unlock()

	b, ok := h.buckets[key]
	if !ok {
		b = rate.NewLimiter(h.limit, h.burst)
		h.buckets[key] = b
	}
	return b
}
