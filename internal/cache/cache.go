package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"flow-metrics/internal/analytics"
	"flow-metrics/internal/jira"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL is the sliding expiration applied to idle engines.
const DefaultTTL = 30 * time.Minute

// Factory builds and initializes an engine for one credentials tuple.
type Factory func(ctx context.Context, creds jira.Credentials) (*analytics.Engine, error)

// InitError reports that an engine could not be built. Nothing is cached.
type InitError struct {
	Key string
	Err error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("failed to initialize analytics engine: %v", e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

type entry struct {
	engine  *analytics.Engine
	expires time.Time
}

// ProviderCache holds one initialized engine per credentials tuple.
// Concurrent misses for the same key share a single construction.
type ProviderCache struct {
	factory Factory
	ttl     time.Duration
	now     func() time.Time

	mu          sync.Mutex
	entries     map[string]*entry
	generations map[string]uint64
	group       singleflight.Group
}

// Option configures a ProviderCache.
type Option func(*ProviderCache)

// WithTTL sets the sliding expiration.
func WithTTL(ttl time.Duration) Option {
	return func(c *ProviderCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock overrides the clock used for expiration.
func WithClock(now func() time.Time) Option {
	return func(c *ProviderCache) { c.now = now }
}

// New creates a cache that builds engines with factory.
func New(factory Factory, opts ...Option) *ProviderCache {
	c := &ProviderCache{
		factory:     factory,
		ttl:         DefaultTTL,
		now:         time.Now,
		entries:     make(map[string]*entry),
		generations: make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetOrCreate returns the engine for creds, building it on a miss. With
// forceRefresh a live engine reloads its issue set in place and keeps the
// previous set if that fails; without one, any in-flight construction is
// discarded and exactly one new fetch happens.
//
// A shared construction is detached from the cancellation of the caller that
// started it and is bounded by the Jira client timeout instead. Each caller
// stops waiting when its own ctx is done.
func (c *ProviderCache) GetOrCreate(ctx context.Context, creds jira.Credentials, forceRefresh bool) (*analytics.Engine, error) {
	key := creds.CacheKey()

	if e, ok := c.lookup(key); ok {
		if !forceRefresh {
			return e, nil
		}
		if err := c.refresh(ctx, key, creds, e); err != nil {
			return nil, err
		}
		return e, nil
	}

	if forceRefresh {
		c.invalidate(key)
	}

	buildCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		return c.build(buildCtx, key, creds)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*analytics.Engine), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Invalidate drops the engine for creds. The next access rebuilds it.
func (c *ProviderCache) Invalidate(creds jira.Credentials) {
	c.invalidate(creds.CacheKey())
}

// Len returns the number of live entries.
func (c *ProviderCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	n := 0
	for _, e := range c.entries {
		if now.Before(e.expires) {
			n++
		}
	}
	return n
}

func (c *ProviderCache) invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.generations[key]++
	c.mu.Unlock()

	c.group.Forget(key)
	log.Debug().Str("key", shortKey(key)).Msg("Invalidated cached analytics engine")
}

// lookup returns a live entry and slides its expiration.
func (c *ProviderCache) lookup(key string) (*analytics.Engine, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		log.Debug().Str("key", shortKey(key)).Msg("Cache miss")
		return nil, false
	}

	now := c.now()
	if !now.Before(e.expires) {
		delete(c.entries, key)
		log.Debug().Str("key", shortKey(key)).Msg("Cache entry expired")
		return nil, false
	}

	e.expires = now.Add(c.ttl)
	log.Trace().Str("key", shortKey(key)).Msg("Cache hit")
	return e.engine, true
}

func (c *ProviderCache) build(ctx context.Context, key string, creds jira.Credentials) (*analytics.Engine, error) {
	// Another construction may have finished between the lookup and this call.
	if e, ok := c.lookup(key); ok {
		return e, nil
	}

	c.mu.Lock()
	gen := c.generations[key]
	c.mu.Unlock()

	log.Info().Object("jira", creds).Msg("Creating analytics engine")
	engine, err := c.factory(ctx, creds)
	if err != nil {
		log.Error().Err(err).Object("jira", creds).Msg("Failed to initialize analytics engine")
		return nil, &InitError{Key: key, Err: err}
	}

	c.store(key, gen, engine)
	return engine, nil
}

// refresh swaps a new issue set into a cached engine. The engine stays cached
// whether or not the fetch succeeds.
func (c *ProviderCache) refresh(ctx context.Context, key string, creds jira.Credentials, engine *analytics.Engine) error {
	log.Info().Object("jira", creds).Time("fetchedAt", engine.FetchedAt()).Msg("Refreshing analytics engine")
	if err := engine.Refresh(ctx); err != nil {
		log.Error().Err(err).Object("jira", creds).Msg("Refresh failed, keeping previous issue set")
		return err
	}
	log.Debug().Str("key", shortKey(key)).Msg("Refreshed cached analytics engine")
	return nil
}

// store caches engine unless the key was invalidated after the build started.
func (c *ProviderCache) store(key string, gen uint64, engine *analytics.Engine) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generations[key] != gen {
		log.Debug().Str("key", shortKey(key)).Msg("Discarding engine from a superseded build")
		return
	}

	now := c.now()
	for k, e := range c.entries {
		if !now.Before(e.expires) {
			delete(c.entries, k)
		}
	}

	c.entries[key] = &entry{engine: engine, expires: now.Add(c.ttl)}
	log.Debug().Str("key", shortKey(key)).Dur("ttl", c.ttl).Msg("Cached analytics engine")
}

func shortKey(key string) string {
	if len(key) > 17 {
		return key[:17]
	}
	return key
}
