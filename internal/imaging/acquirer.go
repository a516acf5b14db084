package imaging

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"docforge/internal/infra"
	"docforge/internal/metrics"
)

const defaultSourceTimeout = 5 * time.Second

// Acquirer resolves image requests through a cache backed by an ordered chain
// of sources. The chain always ends with a synthetic source, so Acquire never
// fails for source reasons; only context cancellation aborts it.
type Acquirer struct {
	cache         *Cache
	chain         []Source
	sourceTimeout time.Duration
	group         singleflight.Group
	log           infra.Logger
}

// NewAcquirer builds an acquirer over the given chain. If the chain does not
// already end with a SyntheticSource one is appended, preserving the totality
// guarantee regardless of configuration.
func NewAcquirer(cache *Cache, chain []Source, sourceTimeout time.Duration, log infra.Logger) *Acquirer {
	if sourceTimeout <= 0 {
		sourceTimeout = defaultSourceTimeout
	}
	terminal := false
	if len(chain) > 0 {
		_, terminal = chain[len(chain)-1].(*SyntheticSource)
	}
	if !terminal {
		chain = append(chain, NewSyntheticSource())
	}
	return &Acquirer{
		cache:         cache,
		chain:         chain,
		sourceTimeout: sourceTimeout,
		log:           log,
	}
}

// Acquire returns image bytes for the request. Concurrent calls for the same
// key are coalesced into a single chain walk; later callers share the result.
// The flight is detached from the caller that starts it: a cancelled caller
// gets its own context error back, while waiters with live contexts still
// receive the shared outcome.
func (a *Acquirer) Acquire(ctx context.Context, req Request) ([]byte, error) {
	key := req.Key()
	if data, ok := a.cache.Get(key); ok {
		metrics.CacheHits.Inc()
		return data, nil
	}
	metrics.CacheMisses.Inc()

	ch := a.group.DoChan(key, func() (any, error) {
		// Re-check under the flight: a previous caller may have populated
		// the cache between our miss and joining the group.
		if data, ok := a.cache.Get(key); ok {
			return data, nil
		}
		// The flight is shared by every waiter, so it must outlive the
		// caller that happened to start it. Each source attempt remains
		// bounded by the per-source timeout.
		data, err := a.walkChain(context.WithoutCancel(ctx), req)
		if err != nil {
			return nil, err
		}
		a.cache.Put(key, data)
		return data, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

func (a *Acquirer) walkChain(ctx context.Context, req Request) ([]byte, error) {
	for _, src := range a.chain {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := sourceCall(ctx, src, req, a.sourceTimeout)
		if err != nil {
			metrics.SourceFailures.WithLabelValues(src.Name()).Inc()
			a.log.Debug().
				Str("source", src.Name()).
				Str("key", req.Key()).
				Err(err).
				Msg("image source failed, trying next")
			continue
		}
		return data, nil
	}
	// Unreachable with a synthetic terminal source unless the context died.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return NewSyntheticSource().Fetch(ctx, req)
}
