package inflation

import (
	"context"
	"sync"
	"time"

	"github.com/Dan9191/debt-indexation/internal/models"
	"github.com/sirupsen/logrus"
)

type snapshot struct {
	series    *models.InflationSeries
	fetchedAt time.Time
}

// CachingProvider keeps the last fetched series in memory for ttl.
// A ttl of zero or less disables caching and every Fetch goes upstream.
// Series are immutable, so a snapshot is handed out without copying.
type CachingProvider struct {
	upstream Provider
	ttl      time.Duration
	log      *logrus.Logger
	now      func() time.Time

	mu      sync.RWMutex
	current *snapshot

	// holds a token while an upstream fetch runs
	fetching chan struct{}
}

// NewCachingProvider wraps upstream with a snapshot cache
func NewCachingProvider(upstream Provider, ttl time.Duration, log *logrus.Logger) *CachingProvider {
	return &CachingProvider{
		upstream: upstream,
		ttl:      ttl,
		log:      log,
		now:      time.Now,
		fetching: make(chan struct{}, 1),
	}
}

// Enabled reports whether snapshots are kept at all
func (c *CachingProvider) Enabled() bool {
	return c.ttl > 0
}

// Fetch returns a fresh snapshot or fetches a new one
func (c *CachingProvider) Fetch(ctx context.Context) (*models.InflationSeries, error) {
	if !c.Enabled() {
		return c.upstream.Fetch(ctx)
	}
	if s, ok := c.fresh(); ok {
		return s, nil
	}

	if err := c.lockFetch(ctx); err != nil {
		return nil, err
	}
	defer c.unlockFetch()
	// another caller may have refreshed while we waited
	if s, ok := c.fresh(); ok {
		return s, nil
	}
	return c.refreshLocked(ctx)
}

// Refresh fetches upstream regardless of snapshot age
func (c *CachingProvider) Refresh(ctx context.Context) (*models.InflationSeries, error) {
	if err := c.lockFetch(ctx); err != nil {
		return nil, err
	}
	defer c.unlockFetch()
	return c.refreshLocked(ctx)
}

// lockFetch waits for the running upstream fetch to finish, or for ctx to end
func (c *CachingProvider) lockFetch(ctx context.Context) error {
	select {
	case c.fetching <- struct{}{}:
	case <-ctx.Done():
		return Unavailable("snapshot cache", "wait", ctx.Err())
	}
	if err := ctx.Err(); err != nil {
		c.unlockFetch()
		return Unavailable("snapshot cache", "wait", err)
	}
	return nil
}

func (c *CachingProvider) unlockFetch() {
	<-c.fetching
}

// Invalidate drops the current snapshot
func (c *CachingProvider) Invalidate() {
	c.mu.Lock()
	c.current = nil
	c.mu.Unlock()
}

// FetchedAt returns when the current snapshot was taken
func (c *CachingProvider) FetchedAt() (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil {
		return time.Time{}, false
	}
	return c.current.fetchedAt, true
}

func (c *CachingProvider) fresh() (*models.InflationSeries, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil || c.now().Sub(c.current.fetchedAt) >= c.ttl {
		return nil, false
	}
	return c.current.series, true
}

func (c *CachingProvider) refreshLocked(ctx context.Context) (*models.InflationSeries, error) {
	series, err := c.upstream.Fetch(ctx)
	if err != nil {
		// the previous snapshot stays in place but is not served once stale
		return nil, err
	}
	if !c.Enabled() {
		return series, nil
	}

	c.mu.Lock()
	c.current = &snapshot{series: series, fetchedAt: c.now()}
	c.mu.Unlock()

	c.log.Debugf("Inflation snapshot refreshed: %d months", series.Len())
	return series, nil
}
