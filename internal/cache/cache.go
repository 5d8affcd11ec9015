package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"commerce/connector/internal/client"
	"commerce/connector/internal/metrics"

	log "github.com/sirupsen/logrus"
)

// ErrEmptyCatalog is returned when the gateway delivers an absent or
// childless category tree. The previous snapshot, if any, stays published.
var ErrEmptyCatalog = errors.New("catalog tree is absent or has no children")

// Cache owns the current catalog snapshot and arbitrates rebuilds. Reads go
// through Snapshot without locking; the mutex only guards rebuilds.
type Cache struct {
	client         client.CatalogService
	rootCategoryID int
	cachingEnabled bool
	metrics        *metrics.Catalog

	mu       sync.Mutex
	initDone atomic.Bool
	snapshot atomic.Pointer[Snapshot]
}

func New(gateway client.CatalogService, rootCategoryID int, cachingEnabled bool, m *metrics.Catalog) *Cache {
	return &Cache{
		client:         gateway,
		rootCategoryID: rootCategoryID,
		cachingEnabled: cachingEnabled,
		metrics:        m,
	}
}

// Init builds the snapshot on first use. Concurrent callers block on the
// same lock, exactly one of them performs the remote fetch, and all of them
// observe the same published snapshot afterwards. With caching disabled the
// snapshot is rebuilt on every call, so each lookup sees fresh data at the
// cost of a remote round trip.
func (c *Cache) Init(ctx context.Context) error {
	if c.initDone.Load() {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initDone.Load() {
		return nil
	}
	return c.rebuild(ctx)
}

// ScheduledRefresh is the background timer's entry point. It attempts the
// rebuild lock without blocking and skips the tick entirely when a
// foreground Init is in progress; the next tick will try again.
func (c *Cache) ScheduledRefresh(ctx context.Context) error {
	if !c.mu.TryLock() {
		log.Debugf("Skipping scheduled catalog refresh, a rebuild is already running")
		return nil
	}
	defer c.mu.Unlock()

	return c.rebuild(ctx)
}

// rebuild fetches the category tree and publishes a new snapshot. Callers
// must hold c.mu. A failed fetch or an empty tree leaves the previously
// published snapshot in place and does not mark initialization as done.
func (c *Cache) rebuild(ctx context.Context) error {
	start := time.Now()
	log.Debugf("Fetching catalog and building categories cache")

	tree, err := c.client.GetCategoryTree(ctx, c.rootCategoryID)
	if err != nil {
		c.metrics.ObserveRefresh(metrics.ResultFailure, 0)
		return err
	}
	if !tree.HasChildren() {
		log.Errorf("The catalog tree for root %d is absent or empty", c.rootCategoryID)
		c.metrics.ObserveRefresh(metrics.ResultFailure, 0)
		return ErrEmptyCatalog
	}

	snapshot := newSnapshot(tree)
	c.snapshot.Store(snapshot)
	if c.cachingEnabled {
		c.initDone.Store(true)
	}

	elapsed := time.Since(start)
	c.metrics.ObserveRefresh(metrics.ResultSuccess, elapsed)
	log.Infof("Published catalog snapshot with %d categories in %s", snapshot.Len(), elapsed)
	return nil
}

// Snapshot returns the currently published snapshot, or nil before the
// first successful build.
func (c *Cache) Snapshot() *Snapshot {
	return c.snapshot.Load()
}
