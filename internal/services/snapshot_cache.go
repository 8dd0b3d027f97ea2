package services

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"stravaboard/internal/models"
	"stravaboard/internal/providers"
	"stravaboard/internal/structures"
)

type SnapshotCacheInterface interface {
	// Get returns the cached snapshot while it is younger than the TTL and
	// recomputes it otherwise. Concurrent callers observing a miss share a
	// single in-flight recomputation.
	Get(ctx context.Context) (*models.LeaderboardSnapshot, error)
	// Invalidate forces the next Get to recompute regardless of age.
	Invalidate()
	// Refresh recomputes unconditionally and swaps the cached snapshot on
	// success. Used by the background refresh loop.
	Refresh(ctx context.Context) error
	// Current returns the held snapshot, fresh or not, without computing.
	Current() (*models.LeaderboardSnapshot, bool)
	// Seed installs a snapshot on an empty cache (restart restore path).
	// Freshness is judged against the snapshot's own FetchedAt.
	Seed(snap *models.LeaderboardSnapshot)
}

// SnapshotCache memoizes one leaderboard snapshot for a bounded window.
// The snapshot and its computation timestamp are updated together under one
// lock. The cache is replaced only after a successful aggregation, so a
// warm cache keeps serving the last good snapshot across failed passes.
type SnapshotCache struct {
	service LeaderboardServiceInterface
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	ttl     time.Duration

	mu         sync.Mutex
	snapshot   *models.LeaderboardSnapshot
	computedAt time.Time
	group      singleflight.Group

	now func() time.Time
}

func NewSnapshotCache(conf *structures.Config, service LeaderboardServiceInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) SnapshotCacheInterface {
	return &SnapshotCache{
		service: service,
		logger:  logger,
		metrics: metrics,
		ttl:     time.Duration(conf.Cache.TTL) * time.Millisecond,
		now:     time.Now,
	}
}

func (c *SnapshotCache) Get(ctx context.Context) (*models.LeaderboardSnapshot, error) {
	if snap, ok := c.fresh(); ok {
		c.metrics.IncSnapshotHits()
		return snap, nil
	}
	c.metrics.IncSnapshotMisses()

	v, err, _ := c.group.Do("snapshot", func() (interface{}, error) {
		// A collapsed caller may arrive just after a flight finished.
		if snap, ok := c.fresh(); ok {
			return snap, nil
		}
		return c.rebuild(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.LeaderboardSnapshot), nil
}

func (c *SnapshotCache) Refresh(ctx context.Context) error {
	_, err, _ := c.group.Do("snapshot", func() (interface{}, error) {
		return c.rebuild(ctx)
	})
	return err
}

func (c *SnapshotCache) rebuild(ctx context.Context) (*models.LeaderboardSnapshot, error) {
	snap, err := c.service.BuildSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.snapshot = snap
	c.computedAt = c.now()
	c.mu.Unlock()
	c.logger.Infof(providers.TypeApp, "Snapshot rebuilt: %d athletes, total score %.2f",
		len(snap.Athletes), snap.Details.TotalScore)
	return snap, nil
}

func (c *SnapshotCache) fresh() (*models.LeaderboardSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snapshot == nil || c.computedAt.IsZero() {
		return nil, false
	}
	if c.now().Sub(c.computedAt) >= c.ttl {
		return nil, false
	}
	return c.snapshot, true
}

func (c *SnapshotCache) Invalidate() {
	c.mu.Lock()
	// Zero time is the recompute sentinel; the snapshot itself is kept so
	// Current keeps returning the last good leaderboard.
	c.computedAt = time.Time{}
	c.mu.Unlock()
}

func (c *SnapshotCache) Current() (*models.LeaderboardSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot, c.snapshot != nil
}

func (c *SnapshotCache) Seed(snap *models.LeaderboardSnapshot) {
	if snap == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snapshot != nil {
		return
	}
	c.snapshot = snap
	c.computedAt = snap.FetchedAt
}
