package http_test

import (
	"context"
	"sync"
	"testing"
	"time"

	spellrulehttp "github.com/fwojciec/spellrule/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostLimiter_Wait(t *testing.T) {
	t.Parallel()

	t.Run("first fetch to a host does not wait", func(t *testing.T) {
		t.Parallel()

		limiter := spellrulehttp.NewHostLimiter(10, 1)

		start := time.Now()
		require.NoError(t, limiter.Wait(context.Background(), "example.com"))

		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("hosts are limited independently", func(t *testing.T) {
		t.Parallel()

		limiter := spellrulehttp.NewHostLimiter(1, 1)
		require.NoError(t, limiter.Wait(context.Background(), "example.com"))

		start := time.Now()
		require.NoError(t, limiter.Wait(context.Background(), "example.org"))

		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("hosts differing only in case share a bucket", func(t *testing.T) {
		t.Parallel()

		limiter := spellrulehttp.NewHostLimiter(1, 1)
		require.NoError(t, limiter.Wait(context.Background(), "example.com"))

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		assert.Error(t, limiter.Wait(ctx, "Example.COM."))
	})

	t.Run("burst allows back to back fetches", func(t *testing.T) {
		t.Parallel()

		limiter := spellrulehttp.NewHostLimiter(1, 3)

		start := time.Now()
		for range 3 {
			require.NoError(t, limiter.Wait(context.Background(), "example.com"))
		}

		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("stops waiting when the context is done", func(t *testing.T) {
		t.Parallel()

		limiter := spellrulehttp.NewHostLimiter(1, 1)
		require.NoError(t, limiter.Wait(context.Background(), "example.com"))

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		assert.Error(t, limiter.Wait(ctx, "example.com"))
	})

	t.Run("concurrent waits all complete", func(t *testing.T) {
		t.Parallel()

		limiter := spellrulehttp.NewHostLimiter(100, 1)

		var wg sync.WaitGroup
		errs := make(chan error, 5)
		for range 5 {
			wg.Go(func() {
				errs <- limiter.Wait(context.Background(), "example.com")
			})
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			assert.NoError(t, err)
		}
	})
}
